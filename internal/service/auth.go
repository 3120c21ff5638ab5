package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"opentrees/api/internal/apperr"
	"opentrees/api/internal/auth"
	"opentrees/api/internal/model"
)

// AuthService handles account registration and login.
type AuthService struct {
	db     *gorm.DB
	tokens *auth.Manager
	logger *zap.Logger

	// dummyHash is compared against when the username does not exist, so
	// unknown-user and wrong-password take the same time.
	dummyHash []byte
}

// NewAuthService creates a new auth service.
func NewAuthService(db *gorm.DB, tokens *auth.Manager, logger *zap.Logger) *AuthService {
	dummy, err := bcrypt.GenerateFromPassword([]byte("timing-equalizer"), bcrypt.DefaultCost)
	if err != nil {
		// bcrypt only fails on invalid cost, which DefaultCost is not.
		panic(err)
	}
	return &AuthService{
		db:        db,
		tokens:    tokens,
		logger:    logger,
		dummyHash: dummy,
	}
}

// Register creates an account. An empty role defaults to "user"; the
// self-registration route always passes an empty role, the admin route may
// set one explicitly.
func (s *AuthService) Register(ctx context.Context, username, password, role string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, apperr.Validation("username and password are required")
	}
	if role == "" {
		role = model.RoleUser
	}
	if !model.ValidRole(role) {
		return nil, apperr.Validation("unknown role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Store(err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("username %q already taken", username)
		}
		return nil, apperr.Store(err)
	}

	s.logger.Info("user registered",
		zap.Uint("id", user.ID),
		zap.String("username", user.Username),
		zap.String("role", user.Role),
	)
	return user, nil
}

// Login checks credentials and issues a session token. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Burn a hash comparison so the miss is not observable by timing.
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, "", apperr.Auth("invalid credentials")
		}
		return nil, "", apperr.Store(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperr.Auth("invalid credentials")
	}

	token, err := s.tokens.Generate(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, "", apperr.Store(err)
	}

	s.logger.Info("user logged in", zap.String("username", user.Username))
	return &user, token, nil
}
