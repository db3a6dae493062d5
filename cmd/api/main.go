package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/hibiken/asynq"
	_ "github.com/japanesestudent/progress-service/docs"
	"github.com/japanesestudent/progress-service/internal/auth"
	"github.com/japanesestudent/progress-service/internal/config"
	"github.com/japanesestudent/progress-service/internal/content"
	"github.com/japanesestudent/progress-service/internal/handlers"
	"github.com/japanesestudent/progress-service/internal/logger"
	loggerMiddleware "github.com/japanesestudent/progress-service/internal/logger/middleware"
	"github.com/japanesestudent/progress-service/internal/middleware"
	"github.com/japanesestudent/progress-service/internal/repositories"
	"github.com/japanesestudent/progress-service/internal/services"
	"github.com/japanesestudent/progress-service/internal/tasks"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title JapaneseStudent Progress API
// @version 1.0
// @description API for course progress, lesson completion, quiz attempts and matching games
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email shelyahin.mihail@gmail.com

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Progress Service API")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	// Test Redis connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// Create Asynq client
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	// Initialize content reader
	contentReader, err := content.New(cfg.Content, rdb, logger.Logger)
	if err != nil {
		logger.Logger.Fatal("Failed to initialize content reader", zap.Error(err))
	}

	// Initialize repositories
	completionRepo := repositories.NewCompletionRepository(db)
	attemptRepo := repositories.NewAttemptRepository(db)
	enrollmentRepo := repositories.NewEnrollmentRepository(db)
	profileRepo := repositories.NewProfileRepository(db)

	// Initialize services
	enqueuer := tasks.NewEnqueuer(asynqClient)
	progressService := services.NewProgressService(contentReader, completionRepo)
	completionService := services.NewCompletionService(contentReader, completionRepo, enqueuer, logger.Logger)
	quizService := services.NewQuizService(contentReader, attemptRepo, completionService, cfg.Quiz.PassingScore, logger.Logger)
	matchingService := services.NewMatchingService(contentReader, cfg.Matching.FlashDelay, logger.Logger)
	defer matchingService.Close()
	enrollmentService := services.NewEnrollmentService(contentReader, completionRepo, enrollmentRepo, enqueuer, logger.Logger)
	profileService := services.NewProfileService(profileRepo)

	// Initialize handlers
	progressHandler := handlers.NewProgressHandler(progressService, completionService, logger.Logger)
	quizHandler := handlers.NewQuizHandler(quizService, logger.Logger)
	matchingHandler := handlers.NewMatchingHandler(matchingService, logger.Logger)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentService, logger.Logger)
	profileHandler := handlers.NewProfileHandler(profileService, logger.Logger)

	// Initialize auth middleware
	tokenValidator := auth.NewTokenValidator(cfg.JWT.Secret)
	authMiddleware := middleware.AuthMiddleware(tokenValidator)
	apiKeyMiddleware := middleware.APIKeyMiddleware(cfg.APIKey)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(loggerMiddleware.LoggerMiddleware(logger.Logger))
	r.Use(middleware.RecoveryMiddleware(logger.Logger))
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middleware.RequestSizeLimitMiddleware(10 * 1024 * 1024)) // 10MB

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	// Scope router to /api/v1
	r.Route("/api/v1", func(r chi.Router) {
		progressHandler.RegisterRoutes(r, authMiddleware)
		quizHandler.RegisterRoutes(r, authMiddleware)
		matchingHandler.RegisterRoutes(r, authMiddleware)
		enrollmentHandler.RegisterRoutes(r, authMiddleware)
		profileHandler.RegisterRoutes(r, authMiddleware)

		// Internal endpoints (API Key protected)
		enrollmentHandler.RegisterInternalRoutes(r, apiKeyMiddleware)
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	// Use service-specific migration table name to avoid conflicts with other services
	driver, err := mysql.WithInstance(db, &mysql.Config{
		MigrationsTable: "progress_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Get the working directory or use migrations folder relative to the binary
	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try parent directory if running from cmd
		if _, err := os.Stat("../migrations"); err == nil {
			migrationPath = "file://../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationPath,
		"mysql",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
