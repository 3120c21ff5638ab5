package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"opentrees/api/internal/apperr"
	"opentrees/api/internal/auth"
	"opentrees/api/internal/model"
)

func newAuthService(t *testing.T) (*AuthService, *auth.Manager) {
	t.Helper()
	db := newTestDB(t)
	tokens := auth.NewManager("auth-service-test-secret", time.Hour)
	return NewAuthService(db, tokens, zap.NewNop()), tokens
}

func TestRegisterDefaultsToUserRole(t *testing.T) {
	svc, _ := newAuthService(t)

	user, err := svc.Register(context.Background(), "alice", "s3cret", "")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEqual(t, "s3cret", user.PasswordHash, "password must be stored hashed")
}

func TestRegisterAdminRole(t *testing.T) {
	svc, _ := newAuthService(t)

	user, err := svc.Register(context.Background(), "root", "s3cret", model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), "", "s3cret", "")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Register(context.Background(), "alice", "", "")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Register(context.Background(), "alice", "s3cret", "superuser")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), "alice", "s3cret", "")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "alice", "other", "")
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, tokens := newAuthService(t)

	registered, err := svc.Register(context.Background(), "alice", "s3cret", model.RoleAdmin)
	require.NoError(t, err)

	user, token, err := svc.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, model.RoleAdmin, claims.Role)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), "alice", "s3cret", "")
	require.NoError(t, err)

	_, _, wrongPassword := svc.Login(context.Background(), "alice", "wrong")
	_, _, unknownUser := svc.Login(context.Background(), "nobody", "s3cret")

	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(wrongPassword))
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(unknownUser))
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}
