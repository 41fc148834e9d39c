package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const (
	defaultDatabaseURL      = "sportsnews.db"
	defaultJWTExpiresIn     = 90 * 24 * time.Hour
	defaultCookieExpireDays = 90
	defaultFootballURL      = "https://api.football-data.org/v4"
	defaultFootballTimeout  = 10 * time.Second
	defaultUploadDir        = "uploads"
	defaultKeepAliveCron    = "*/14 * * * *"
	defaultRateLimit        = 200
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET is required")

// Config is the single source of deployment settings. Nothing outside this
// package reads the environment.
type Config struct {
	Env string

	DatabaseURL string

	JWTSecret           string
	JWTExpiresIn        time.Duration
	JWTCookieExpireDays int

	ClientURL string

	FootballDataKey     string
	FootballDataURL     string
	FootballDataTimeout time.Duration

	CloudinaryURL string
	UploadDir     string
	UploadBaseURL string

	KeepAliveURL      string
	KeepAliveSchedule string

	RateLimit int
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load reads the environment, after merging an optional .env file from the
// working directory. Variables already set in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                 strings.ToLower(getEnv("APP_ENV", EnvDevelopment)),
		DatabaseURL:         getEnv("DATABASE_URL", defaultDatabaseURL),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWTExpiresIn:        getEnvDuration("JWT_EXPIRES_IN", defaultJWTExpiresIn),
		JWTCookieExpireDays: getEnvInt("JWT_COOKIE_EXPIRES_IN", defaultCookieExpireDays),
		ClientURL:           getEnv("CLIENT_URL", ""),
		FootballDataKey:     getEnv("FOOTBALL_DATA_KEY", ""),
		FootballDataURL:     strings.TrimRight(getEnv("FOOTBALL_DATA_URL", defaultFootballURL), "/"),
		FootballDataTimeout: getEnvDuration("FOOTBALL_DATA_TIMEOUT", defaultFootballTimeout),
		CloudinaryURL:       getEnv("CLOUDINARY_URL", ""),
		UploadDir:           getEnv("UPLOAD_DIR", defaultUploadDir),
		UploadBaseURL:       strings.TrimRight(getEnv("UPLOAD_BASE_URL", "/uploads"), "/"),
		KeepAliveURL:        getEnv("KEEPALIVE_URL", ""),
		KeepAliveSchedule:   getEnv("KEEPALIVE_SCHEDULE", defaultKeepAliveCron),
		RateLimit:           getEnvInt("RATE_LIMIT", defaultRateLimit),
	}

	if cfg.Env != EnvProduction {
		cfg.Env = EnvDevelopment
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	if cfg.JWTExpiresIn <= 0 {
		cfg.JWTExpiresIn = defaultJWTExpiresIn
	}

	if cfg.JWTCookieExpireDays <= 0 {
		cfg.JWTCookieExpireDays = defaultCookieExpireDays
	}

	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaultRateLimit
	}

	return cfg, nil
}

func GetEnv(key, fallback string) string { return getEnv(key, fallback) }

func GetEnvBool(key string, fallback bool) bool { return getEnvBool(key, fallback) }

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}

	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}

	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}

	return fallback
}
