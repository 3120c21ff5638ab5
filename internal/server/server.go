package server

import (
	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"opentrees/api/internal/auth"
	"opentrees/api/internal/config"
	"opentrees/api/internal/geocode"
	"opentrees/api/internal/handler"
	"opentrees/api/internal/middleware"
	"opentrees/api/internal/service"
)

// Server wires the HTTP surface together.
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *gorm.DB
	redis    *redis.Client
	nats     *nats.Conn
	geocoder geocode.Geocoder
	logger   *zap.Logger
}

// NewServer creates a new server instance. redisClient and natsConn may be
// nil; rate limiting and event publishing are then disabled.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, natsConn *nats.Conn, geocoder geocode.Geocoder, logger *zap.Logger) *Server {
	return &Server{
		config:   cfg,
		db:       db,
		redis:    redisClient,
		nats:     natsConn,
		geocoder: geocoder,
		logger:   logger,
	}
}

// Setup initializes services, handlers and routes.
func (s *Server) Setup() {
	tokens := auth.NewManager(s.config.Auth.JWTSecret, s.config.Auth.TokenTTL)

	var events *service.EventPublisher
	if s.nats != nil {
		events = service.NewEventPublisher(s.nats, s.logger)
	}

	treeService := service.NewTreeService(s.db, s.geocoder, events, s.logger)
	exportService := service.NewExportService(s.db, s.logger)
	authService := service.NewAuthService(s.db, tokens, s.logger)

	treeHandler := handler.NewTreeHandler(treeService, exportService)
	authHandler := handler.NewAuthHandler(authService, s.geocoder)

	s.router = gin.New()
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.CORS(s.config.Server.AllowOrigins))

	authRequired := middleware.JWTAuth(tokens)

	var loginLimited gin.HandlerFunc
	if s.config.RateLimit.Enabled && s.redis != nil {
		limiter := middleware.NewRedisRateLimiter(s.redis)
		s.router.Use(middleware.RateLimit(limiter, middleware.RateLimitConfig{
			Limit:  s.config.RateLimit.DefaultLimit,
			Window: s.config.RateLimit.Window,
		}))
		loginLimited = middleware.RateLimit(limiter, middleware.RateLimitConfig{
			Limit:  s.config.RateLimit.LoginLimit,
			Window: s.config.RateLimit.Window,
		})
	}

	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Read-only tree routes, open by design.
	s.router.GET("/cities", treeHandler.Cities)
	s.router.GET("/streets/:city", treeHandler.Streets)
	s.router.GET("/trees", treeHandler.List)
	s.router.GET("/tree/custom/:custom_id", treeHandler.GetByCustomID)
	s.router.GET("/tree/:id", treeHandler.Get)
	s.router.GET("/export", treeHandler.Export)

	// Mutating tree routes; optionally gated behind the bearer middleware.
	mutations := s.router.Group("/")
	if s.config.Auth.ProtectMutations {
		mutations.Use(authRequired)
	}
	mutations.POST("/add_tree", treeHandler.Create)
	mutations.PATCH("/tree/:id", treeHandler.Update)
	mutations.DELETE("/tree/:id", treeHandler.Delete)

	// Accounts and diagnostics.
	s.router.POST("/register", authHandler.Register)
	if loginLimited != nil {
		s.router.POST("/login", loginLimited, authHandler.Login)
	} else {
		s.router.POST("/login", authHandler.Login)
	}
	s.router.POST("/admin/register", authRequired, middleware.RequireRole("admin"), authHandler.AdminRegister)
	s.router.GET("/protected", authRequired, authHandler.Me)
	s.router.POST("/test_geocode", authHandler.TestGeocode)
}

// Router exposes the gin engine to the http.Server and to tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
