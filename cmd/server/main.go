package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"identity_service/internal/config"
	"identity_service/internal/handler"
	"identity_service/internal/logger"
	"identity_service/internal/middleware"
	"identity_service/internal/notifier"
	"identity_service/internal/repository"
	"identity_service/internal/service"
	"identity_service/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file
	envErr := godotenv.Load()

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Env, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if envErr != nil {
		zlog.Info("no .env file loaded, relying on environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(ctx, cfg.DB, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer dbPool.Close()

	if err := config.Migrate(ctx, dbPool, zlog); err != nil {
		zlog.Fatal("failed to migrate database", zap.Error(err))
	}

	// --- OTP delivery ---
	var sender service.OTPSender
	if len(cfg.KafkaBrokers) > 0 {
		kn := notifier.NewKafkaNotifier(cfg.KafkaBrokers, cfg.KafkaOTPTopic, zlog)
		defer kn.Close()
		sender = kn
	} else {
		sender = notifier.NewLogNotifier(zlog)
	}
	if cfg.OTPEcho && cfg.IsProduction() {
		zlog.Warn("OTP_ECHO is enabled in production; codes will be returned to callers")
	}

	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret, cfg.JWTExpiration)

	userRepo := repository.NewUserRepository(dbPool)
	verificationRepo := repository.NewVerificationRepository(dbPool)

	userService := service.NewUserService(userRepo, verificationRepo, jwtUtil, service.NewOTPGenerator(), sender,
		service.Options{OTPTTL: cfg.OTPTTL, OTPEcho: cfg.OTPEcho}, zlog)

	userHandler := handler.NewUserHandler(userService, zlog)

	// --- Setup Gin Router ---
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(zlog), middleware.CORS())

	jwtAuthMW := middleware.JWTAuthMiddleware(userService, zlog)

	apiGroup := router.Group("/api")
	userHandler.RegisterUserRoutes(apiGroup, jwtAuthMW)

	router.GET("/health", func(c *gin.Context) {
		if err := dbPool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("server starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("listen failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zlog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
	}

	zlog.Info("server exiting")
}
