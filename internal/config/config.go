package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Email    EmailConfig
}

type ServerConfig struct {
	Port            string
	Env             string // dev or prod
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	TrustedOrigins  []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type SessionConfig struct {
	CookieName string
	// Secret signs the session cookie (32 bytes).
	Secret []byte
	TTL    time.Duration
}

type EmailConfig struct {
	// BaseURL of the HTTP email-sending API.
	BaseURL     string
	ServerToken string
	Sender      string
	Timeout     time.Duration
	// SendRetries is how many times a transient delivery failure is retried
	// after the initial attempt, RetryDelay the fixed pause between attempts.
	SendRetries int
	RetryDelay  time.Duration
}

// Load reads configuration from environment variables, honoring a .env file
// when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			Env:             getEnv("APP_ENV", "dev"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
			TrustedOrigins:  getSliceEnv("TRUSTED_ORIGINS", nil),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "tournament_planner"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE_NAME", "planner_session"),
			Secret:     []byte(getEnv("SESSION_SECRET", "")),
			TTL:        getDurationEnv("SESSION_TTL", 24*time.Hour),
		},
		Email: EmailConfig{
			BaseURL:     getEnv("EMAIL_BASE_URL", ""),
			ServerToken: getEnv("EMAIL_SERVER_TOKEN", ""),
			Sender:      getEnv("EMAIL_SENDER", ""),
			Timeout:     getDurationEnv("EMAIL_TIMEOUT", 10*time.Second),
			SendRetries: getIntEnv("EMAIL_SEND_RETRIES", 3),
			RetryDelay:  getMillisEnv("EMAIL_RETRY_DELAY_MS", time.Second),
		},
	}

	if len(cfg.Session.Secret) != 32 {
		return nil, fmt.Errorf("SESSION_SECRET must be exactly 32 bytes, got %d", len(cfg.Session.Secret))
	}

	return cfg, nil
}

// ConnectionString builds the Postgres DSN.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Address returns the Redis host:port.
func (c *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDevelopment reports whether the environment is set to dev.
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "dev"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// getDurationEnv reads a duration given in whole seconds.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	seconds, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}

// getMillisEnv reads a duration given in whole milliseconds.
func getMillisEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	millis, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return time.Duration(millis) * time.Millisecond
}

func getSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
