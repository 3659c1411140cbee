// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sitterhub-service/internal/config"
	"sitterhub-service/internal/db"
	adminHandler "sitterhub-service/internal/handlers/admin"
	authHandler "sitterhub-service/internal/handlers/auth"
	bookingHandler "sitterhub-service/internal/handlers/booking"
	messageHandler "sitterhub-service/internal/handlers/message"
	profileHandler "sitterhub-service/internal/handlers/profile"
	reviewHandler "sitterhub-service/internal/handlers/review"
	subscriptionHandler "sitterhub-service/internal/handlers/subscription"
	wsHandler "sitterhub-service/internal/handlers/websocket"
	"sitterhub-service/internal/middleware"
	"sitterhub-service/internal/pkg/authstate"
	"sitterhub-service/internal/pkg/jwt"
	"sitterhub-service/internal/pkg/session"
	"sitterhub-service/internal/repository/postgres"
	adminUsecase "sitterhub-service/internal/service/admin"
	authUsecase "sitterhub-service/internal/service/auth"
	bookingUsecase "sitterhub-service/internal/service/booking"
	"sitterhub-service/internal/service/messaging"
	profileUsecase "sitterhub-service/internal/service/profile"
	"sitterhub-service/internal/service/resolver"
	reviewUsecase "sitterhub-service/internal/service/review"
	subscriptionUsecase "sitterhub-service/internal/service/subscription"
	"sitterhub-service/internal/websocket"
	wsHandlers "sitterhub-service/internal/websocket/handler"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	s.logger = logger

	// ----- Migrations -----
	if err := db.RunMigrations(s.cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       s.cfg.RedisDB,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	// ----- JWT Manager -----
	jwtManager, err := jwt.LoadAndBuild(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to load JWT manager: %w", err)
	}

	// ----- Session Manager & Rate Limiter -----
	sessionManager := session.NewManager(redisClient)
	rateLimiter := session.NewRateLimiter(redisClient)

	// ----- Repositories -----
	authRepo := postgres.NewAuthRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)
	availabilityRepo := postgres.NewAvailabilityRepository(pool)
	childRepo := postgres.NewChildRepository(pool)
	bookingRepo := postgres.NewBookingRepository(pool)
	messageRepo := postgres.NewMessageRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)
	subscriptionRepo := postgres.NewSubscriptionRepository(pool)

	// ----- Auth feed & role resolver -----
	feed := authstate.NewFeed()
	roleResolver := resolver.New(roleRepo, feed, logger)
	go roleResolver.Run(ctx)

	// ----- Message broker -----
	broker := messaging.NewBroker(redisClient, logger)
	go broker.Run(ctx)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(jwtManager.Verifier, sessionManager)
	go hub.Run(ctx)

	// ----- Services -----
	authService := authUsecase.NewAuthService(
		authRepo, roleRepo, roleResolver,
		jwtManager, sessionManager, rateLimiter,
		feed, logger,
	)
	profileService := profileUsecase.NewProfileService(profileRepo, availabilityRepo, childRepo, logger)
	bookingService := bookingUsecase.NewBookingService(bookingRepo, profileRepo, logger)
	messagingService := messaging.NewService(messageRepo, profileRepo, broker, logger)
	reviewService := reviewUsecase.NewReviewService(reviewRepo, bookingRepo, profileRepo, logger)
	subscriptionService := subscriptionUsecase.NewSubscriptionService(subscriptionRepo, logger)
	adminService := adminUsecase.NewAdminService(authRepo, profileRepo, bookingRepo, logger)

	// Register WebSocket handlers
	hub.RegisterHandler(wsHandlers.NewInboxHandler(messagingService, broker, logger))

	// ----- Handlers -----
	authHandlerInst := authHandler.NewAuthHandler(authService, logger)
	profileHandlerInst := profileHandler.NewProfileHandler(profileService, logger)
	bookingHandlerInst := bookingHandler.NewBookingHandler(bookingService, hub, logger)
	messageHandlerInst := messageHandler.NewMessageHandler(messagingService, logger)
	reviewHandlerInst := reviewHandler.NewReviewHandler(reviewService, logger)
	subscriptionHandlerInst := subscriptionHandler.NewSubscriptionHandler(subscriptionService, logger)
	adminHandlerInst := adminHandler.NewAdminHandler(adminService, logger)
	wsHandlerInst := wsHandler.NewWebSocketHandler(hub, logger)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionManager, authRepo, roleResolver, logger)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(s.cfg.AllowedOrigin),
	)

	// ----- Router -----
	handlers := &Handlers{
		AuthHandler:         authHandlerInst,
		ProfileHandler:      profileHandlerInst,
		BookingHandler:      bookingHandlerInst,
		MessageHandler:      messageHandlerInst,
		ReviewHandler:       reviewHandlerInst,
		SubscriptionHandler: subscriptionHandlerInst,
		AdminHandler:        adminHandlerInst,
		WSHandler:           wsHandlerInst,
		AuthMiddleware:      authMiddleware,
	}
	SetupRouter(s.engine, logger, handlers)

	// ----- Start HTTP -----
	log.Printf("server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}
