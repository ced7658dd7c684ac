package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultPort        = "8080"
	defaultDatabaseURL = "servicehub.db"
	defaultJWTSecret   = "change-me-jwt-secret"
	defaultJWTTTL      = "24h"
	defaultLogLevel    = "info"
	defaultLogFormat   = "console"
	defaultGinMode     = "debug"
	defaultUploadDir   = "./uploads"
	defaultStaticBase  = "/static/uploads"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration
	LogLevel    string
	LogFormat   string
	GinMode     string
	UploadDir   string
	StaticBase  string

	// Path to a Firebase service account key. Empty disables push delivery.
	FirebaseCredentialsFile string
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:                  strings.ToLower(getEnv("APP_ENV", "dev")),
		Port:                    getEnv("PORT", defaultPort),
		DatabaseURL:             getEnv("DATABASE_URL", defaultDatabaseURL),
		JWTSecret:               strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret)),
		LogLevel:                getEnv("LOG_LEVEL", defaultLogLevel),
		LogFormat:               getEnv("LOG_FORMAT", defaultLogFormat),
		GinMode:                 getEnv("GIN_MODE", defaultGinMode),
		UploadDir:               getEnv("UPLOAD_DIR", defaultUploadDir),
		StaticBase:              getEnv("STATIC_BASE", defaultStaticBase),
		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
	}

	ttl, err := parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}
	cfg.JWTTTL = ttl

	if cfg.AppEnv == "prod" && cfg.JWTSecret == defaultJWTSecret {
		return nil, fmt.Errorf("JWT_SECRET must be set in prod")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}
