package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"veridia-hiring-backend/config"
	_ "veridia-hiring-backend/docs" // Important for Swagger
	v1 "veridia-hiring-backend/internal/delivery/http/v1"
	"veridia-hiring-backend/internal/repository/postgres"
	"veridia-hiring-backend/internal/usecase"
	"veridia-hiring-backend/pkg/database"
	"veridia-hiring-backend/pkg/email"
	"veridia-hiring-backend/pkg/hash"
	"veridia-hiring-backend/pkg/logger"
	"veridia-hiring-backend/pkg/redis"
	"veridia-hiring-backend/pkg/storage"
	"veridia-hiring-backend/pkg/token"

	"github.com/go-playground/validator/v10"
)

// @title           Veridia Hiring Backend API
// @version         1.0
// @description     Backend for the Veridia hiring platform using Clean Architecture.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting hiring backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (rate limiting falls back to in-memory counters without it)
	if cfg.RedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, rate limiting degrades to per-instance counters", "error", err)
		} else {
			defer redis.Close()
		}
	}

	// 5. Setup File Storage
	fileStore, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		logger.Log.Error("Failed to prepare upload directory", "error", err)
		os.Exit(1)
	}

	// 6. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	jobRepo := postgres.NewJobRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)
	resetTokenRepo := postgres.NewResetTokenRepository(dbPool)

	// 7. Setup Email Service
	emailService := email.NewService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - notifications will be dropped")
	}

	// 8. Setup UseCases
	validate := validator.New()
	hasher := hash.NewBcryptHasher()
	tokens := token.NewService(cfg.JWTSecret, cfg.TokenTTL)

	authUC := usecase.NewAuthUsecase(userRepo, resetTokenRepo, hasher, tokens, emailService)
	jobUC := usecase.NewJobUsecase(jobRepo)
	candidateUC := usecase.NewCandidateUsecase(userRepo, fileStore)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, jobRepo, userRepo, fileStore, emailService, validate)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		JobUC:         jobUC,
		CandidateUC:   candidateUC,
		ApplicationUC: applicationUC,
		Tokens:        tokens,
		UserRepo:      userRepo,
		Config:        cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
