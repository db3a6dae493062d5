// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Content source kinds
const (
	ContentSourceHTTP = "http"
	ContentSourceFile = "file"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	Server   ServerConfig
	Logging  LoggingConfig
	CORS     CORSConfig
	JWT      JWTConfig
	Content  ContentConfig
	Matching MatchingConfig
	Quiz     QuizConfig
	Progress ProgressConfig
	APIKey   string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// JWTConfig holds JWT token configuration
type JWTConfig struct {
	Secret string
}

// ContentConfig holds settings for the content service collaborator
type ContentConfig struct {
	Source   string
	BaseURL  string
	APIToken string
	Dir      string
	CacheTTL time.Duration
	Timeout  time.Duration
}

// MatchingConfig holds matching game settings
type MatchingConfig struct {
	FlashDelay time.Duration
}

// QuizConfig holds quiz settings
type QuizConfig struct {
	// PassingScore of 0 disables lesson auto-completion from quiz attempts
	PassingScore int
}

// ProgressConfig holds progress reconciliation settings
type ProgressConfig struct {
	ReconcileCron string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	godotenv.Load()

	cfg := &Config{}

	// Database configuration
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return nil, fmt.Errorf("DB_HOST is required")
	}
	cfg.Database.Host = dbHost

	dbPortStr := os.Getenv("DB_PORT")
	if dbPortStr == "" {
		return nil, fmt.Errorf("DB_PORT is required")
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort

	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	cfg.Database.User = dbUser

	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	cfg.Database.Password = dbPassword

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}
	cfg.Database.DBName = dbName

	// Server configuration
	serverPortStr := os.Getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "8080" // default port
	}
	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}
	cfg.Server.Port = serverPort

	// Logging configuration
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info" // default level
	}
	cfg.Logging.Level = logLevel

	// CORS configuration
	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	cfg.JWT.Secret = jwtSecret

	// API Key configuration (optional, for internal endpoints)
	cfg.APIKey = os.Getenv("API_KEY")

	// Redis configuration
	redisHost := os.Getenv("REDIS_HOST")
	if redisHost == "" {
		redisHost = "localhost" // default
	}
	cfg.Redis.Host = redisHost

	redisPortStr := os.Getenv("REDIS_PORT")
	if redisPortStr == "" {
		redisPortStr = "6379" // default
	}
	redisPort, err := strconv.Atoi(redisPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_PORT: %w", err)
	}
	cfg.Redis.Port = redisPort

	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD") // optional

	redisDBStr := os.Getenv("REDIS_DB")
	if redisDBStr == "" {
		redisDBStr = "0" // default
	}
	redisDB, err := strconv.Atoi(redisDBStr)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.Redis.DB = redisDB

	if err := loadContentConfig(cfg); err != nil {
		return nil, err
	}

	// Matching game configuration
	flashDelay, err := durationOrDefault("MATCHING_FLASH_DELAY", "1s")
	if err != nil {
		return nil, err
	}
	cfg.Matching.FlashDelay = flashDelay

	// Quiz configuration
	passingStr := os.Getenv("QUIZ_PASSING_SCORE")
	if passingStr == "" {
		passingStr = "0" // disabled
	}
	passing, err := strconv.Atoi(passingStr)
	if err != nil {
		return nil, fmt.Errorf("invalid QUIZ_PASSING_SCORE: %w", err)
	}
	if passing < 0 || passing > 100 {
		return nil, fmt.Errorf("QUIZ_PASSING_SCORE must be between 0 and 100")
	}
	cfg.Quiz.PassingScore = passing

	// Progress reconciliation schedule
	reconcileCron := os.Getenv("PROGRESS_RECONCILE_CRON")
	if reconcileCron == "" {
		reconcileCron = "0 3 * * *" // nightly
	}
	cfg.Progress.ReconcileCron = reconcileCron

	return cfg, nil
}

// loadContentConfig reads the content service collaborator settings
func loadContentConfig(cfg *Config) error {
	source := strings.ToLower(os.Getenv("CONTENT_SOURCE"))
	if source == "" {
		source = ContentSourceHTTP
	}

	switch source {
	case ContentSourceHTTP:
		baseURL := os.Getenv("CONTENT_BASE_URL")
		if baseURL == "" {
			return fmt.Errorf("CONTENT_BASE_URL is required when CONTENT_SOURCE is %q", ContentSourceHTTP)
		}
		cfg.Content.BaseURL = strings.TrimRight(baseURL, "/")
		cfg.Content.APIToken = os.Getenv("CONTENT_API_TOKEN") // optional
	case ContentSourceFile:
		dir := os.Getenv("CONTENT_DIR")
		if dir == "" {
			return fmt.Errorf("CONTENT_DIR is required when CONTENT_SOURCE is %q", ContentSourceFile)
		}
		cfg.Content.Dir = dir
	default:
		return fmt.Errorf("CONTENT_SOURCE must be %q or %q, got %q", ContentSourceHTTP, ContentSourceFile, source)
	}
	cfg.Content.Source = source

	cacheTTL, err := durationOrDefault("CONTENT_CACHE_TTL", "5m")
	if err != nil {
		return err
	}
	cfg.Content.CacheTTL = cacheTTL

	timeout, err := durationOrDefault("CONTENT_TIMEOUT", "10s")
	if err != nil {
		return err
	}
	cfg.Content.Timeout = timeout

	return nil
}

func durationOrDefault(key, fallback string) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		value = fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// parseOrigins splits a comma-separated origin list, defaulting to all origins
func parseOrigins(raw string) []string {
	if raw == "" {
		// Default to allow all origins if not specified (for development)
		return []string{"*"}
	}

	origins := strings.Split(raw, ",")
	allowed := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowed = append(allowed, origin)
		}
	}
	if len(allowed) == 0 {
		return []string{"*"}
	}
	return allowed
}

// DSN returns the database connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
	)
}

// RedisAddr returns the Redis host:port address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
