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
	App  AppConfig
	HRIS HRISConfig
	JWT  JWTConfig
	Poll PollConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// HRISConfig points at the upstream HRIS API the reconciler consumes.
type HRISConfig struct {
	BaseURL string
	Timeout time.Duration
}

// JWTConfig holds JWT verification configuration. Tokens are issued by the
// upstream auth service; this service only verifies them.
type JWTConfig struct {
	Secret string
}

// PollConfig controls the periodic today-status refresh.
type PollConfig struct {
	StatusInterval time.Duration
}

func Load() (*Config, error) {
	// A missing .env file is fine in deployed environments; variables come
	// from the process environment there.
	_ = godotenv.Load()

	config := &Config{}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	hrisTimeout, err := time.ParseDuration(getEnv("HRIS_API_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HRIS_API_TIMEOUT: %w", err)
	}

	config.HRIS = HRISConfig{
		BaseURL: getEnv("HRIS_API_BASE_URL", ""),
		Timeout: hrisTimeout,
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	statusInterval, err := time.ParseDuration(getEnv("STATUS_POLL_INTERVAL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATUS_POLL_INTERVAL: %w", err)
	}

	config.Poll = PollConfig{
		StatusInterval: statusInterval,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.HRIS.BaseURL == "" {
		return fmt.Errorf("HRIS_API_BASE_URL is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Poll.StatusInterval <= 0 {
		return fmt.Errorf("STATUS_POLL_INTERVAL must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key, fallback string) []string {
	value := getEnv(key, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
