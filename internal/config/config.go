package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration. Values are read once at startup and
// passed explicitly into the components that need them.
type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	// Sipuni vendor API. Token may be empty: the client then rejects every
	// call with a configuration error instead of the process failing to boot.
	SipuniBaseURL       string
	SipuniToken         string
	SipuniAutocallToken string
	SipuniTimeout       time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string
}

// Load reads configuration from environment variables. DATABASE_URL and
// JWT_SECRET are required; everything else has a default.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		TokenTTL:            getEnvDuration("TOKEN_TTL", 7*24*time.Hour),
		BcryptCost:          getEnvInt("BCRYPT_COST", 10),
		SipuniBaseURL:       getEnv("SIPUNI_API_BASE_URL", "https://apilk.sipuni.com/api/ver2"),
		SipuniToken:         os.Getenv("SIPUNI_TOKEN"),
		SipuniAutocallToken: os.Getenv("SIPUNI_AUTOCALL_TOKEN"),
		SipuniTimeout:       getEnvDuration("SIPUNI_TIMEOUT", 90*time.Second),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		MinioEndpoint:       getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:      getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey:      getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioUseSSL:         os.Getenv("MINIO_USE_SSL") == "true",
		MinioBucket:         getEnv("MINIO_BUCKET", "number-lists"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	// The autocall endpoints may use a dedicated credential; fall back to the
	// main token when none is configured.
	if cfg.SipuniAutocallToken == "" {
		cfg.SipuniAutocallToken = cfg.SipuniToken
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
