package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment selects which upstream host the charge client targets. It is a
// deployment-time setting; the service never infers it from credential shapes.
type Environment string

const (
	EnvSandbox    Environment = "sandbox"
	EnvProduction Environment = "production"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Square   SquareConfig
	Email    EmailConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// SquareConfig holds payment processor credentials and target environment.
type SquareConfig struct {
	AccessToken string
	LocationID  string
	Environment Environment
	Timeout     time.Duration
}

// Configured reports whether payment credentials are present.
func (c SquareConfig) Configured() bool {
	return c.AccessToken != ""
}

// EmailConfig holds SMTP delivery configuration. Email is optional; when the
// credentials are absent the booking flow simply reports emails as not sent.
type EmailConfig struct {
	Host       string
	Port       string
	User       string
	Password   string
	BusinessTo string
	QueueSize  int
}

// Configured reports whether email credentials are present.
func (c EmailConfig) Configured() bool {
	return c.User != "" && c.Password != ""
}

// RedisConfig holds Redis configuration. Redis is optional; it only backs the
// idempotent-response cache middleware.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// Load loads configuration from environment variables. A local .env file is
// read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "3001"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Square: SquareConfig{
			AccessToken: getEnv("SQUARE_ACCESS_TOKEN", ""),
			LocationID:  getEnv("SQUARE_LOCATION_ID", ""),
			Environment: Environment(getEnv("SQUARE_ENVIRONMENT", string(EnvSandbox))),
			Timeout:     getDurationEnv("SQUARE_TIMEOUT", 15*time.Second),
		},
		Email: EmailConfig{
			Host:       getEnv("EMAIL_HOST", "smtp.gmail.com"),
			Port:       getEnv("EMAIL_PORT", "587"),
			User:       getEnv("EMAIL_USER", ""),
			Password:   getEnv("EMAIL_PASS", ""),
			BusinessTo: getEnv("BOOKING_NOTIFY_EMAIL", ""),
			QueueSize:  getIntEnv("EMAIL_QUEUE_SIZE", 100),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "limo-booking-service"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
	}
}

// Validate checks startup invariants. A missing payment token is fatal; an
// unrecognized environment is fatal rather than silently defaulting so a
// misconfigured deploy cannot charge against the wrong host.
func (c *Config) Validate() error {
	if c.Square.AccessToken == "" {
		return fmt.Errorf("SQUARE_ACCESS_TOKEN is required")
	}
	switch c.Square.Environment {
	case EnvSandbox, EnvProduction:
	default:
		return fmt.Errorf("SQUARE_ENVIRONMENT must be %q or %q, got %q",
			EnvSandbox, EnvProduction, c.Square.Environment)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
