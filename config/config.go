package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Firebase      FirebaseConfig
	Email         EmailConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// FirebaseConfig holds the hosted document store / auth service configuration.
// CredentialsFile points at a service account key; when empty, application
// default credentials are used.
type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
}

// EmailConfig holds outbound mail configuration. When SendGridKey is empty
// the console email service is used instead (development mode).
type EmailConfig struct {
	SendGridKey    string
	FromName       string
	FromEmail      string
	AppName        string
	ResetMaxPerDay int           // password reset sends allowed per address per window
	ResetWindow    time.Duration // sliding window for the reset limit
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or console
}

// New creates a new Config instance by loading environment variables
func New() (*Config, error) {
	// Load .env if present (repo root or cwd)
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Firebase: FirebaseConfig{
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		},
		Email: EmailConfig{
			SendGridKey:    getEnv("SENDGRID_API_KEY", ""),
			FromName:       getEnv("EMAIL_FROM_NAME", "EventDesk"),
			FromEmail:      getEnv("EMAIL_FROM_ADDRESS", "no-reply@eventdesk.local"),
			AppName:        getEnv("APP_NAME", "EventDesk"),
			ResetMaxPerDay: getEnvAsInt("EMAIL_RESET_MAX", 5),
			ResetWindow:    getEnvAsDuration("EMAIL_RESET_WINDOW", 24*time.Hour),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	if c.Firebase.ProjectID == "" && c.Firebase.CredentialsFile == "" {
		return fmt.Errorf("firebase configuration required: set FIREBASE_PROJECT_ID or FIREBASE_CREDENTIALS_FILE")
	}

	if c.IsProduction() && c.Email.SendGridKey == "" {
		return fmt.Errorf("sendgrid API key is required in production")
	}

	if c.Email.ResetMaxPerDay <= 0 {
		return fmt.Errorf("EMAIL_RESET_MAX must be positive")
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
