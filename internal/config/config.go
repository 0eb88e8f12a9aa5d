// Package config handles loading and validation of console configuration
// from environment variables. Supports .env files via godotenv.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devSessionSecret = "dev-secret-change-in-production"

// Session store backends
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config holds all console configuration
type Config struct {
	// Server settings
	Port        int
	Environment string // "development" | "staging" | "production"
	StaticDir   string

	// Backend
	APIBaseURL     string
	RequestTimeout time.Duration

	// Security
	AllowedOrigins []string
	LoginRateRPM   int

	// Session
	SessionStore       string
	SessionFile        string
	RedisURL           string
	DatabaseURL        string
	SessionSecret      string
	SessionTTL         time.Duration
	TokenCheckInterval time.Duration

	// Login fallbacks
	ClientSideLogin bool
	DemoMode        bool
	DemoAccounts    string
	DemoPassword    string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnvInt("PORT", 8080),
		Environment: getEnv("ENVIRONMENT", "development"),
		StaticDir:   getEnv("STATIC_DIR", ""),

		APIBaseURL:     strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:3000"), "/"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		LoginRateRPM:   getEnvInt("LOGIN_RATE_RPM", 20),

		SessionStore:       strings.ToLower(getEnv("SESSION_STORE", StoreFile)),
		SessionFile:        getEnv("SESSION_FILE", ".casedesk/session.json"),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		SessionSecret:      getEnv("SESSION_SECRET", devSessionSecret),
		SessionTTL:         getEnvDuration("SESSION_TTL", 12*time.Hour),
		TokenCheckInterval: getEnvDuration("TOKEN_CHECK_INTERVAL", time.Minute),

		ClientSideLogin: getEnvBool("CLIENT_SIDE_LOGIN", false),
		DemoMode:        getEnvBool("DEMO_MODE", false),
		DemoAccounts:    getEnv("DEMO_ACCOUNTS", ""),
		DemoPassword:    getEnv("DEMO_PASSWORD", ""),
	}

	switch cfg.SessionStore {
	case StoreMemory, StoreFile, StoreRedis:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when SESSION_STORE=postgres")
		}
	default:
		return nil, fmt.Errorf("unknown SESSION_STORE %q", cfg.SessionStore)
	}

	// Validate required fields in production
	if cfg.Environment == "production" {
		if cfg.SessionSecret == devSessionSecret {
			return nil, fmt.Errorf("SESSION_SECRET must be set in production")
		}
		if cfg.DemoMode {
			return nil, fmt.Errorf("DEMO_MODE cannot be enabled in production")
		}
		if cfg.SessionStore == StoreMemory {
			return nil, fmt.Errorf("SESSION_STORE=memory does not survive restarts and is not allowed in production")
		}
	}

	return cfg, nil
}

// IsDevelopment reports whether the console runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
