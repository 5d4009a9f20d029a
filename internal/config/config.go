package config

import (
	"os"
	"strconv"
)

type Config struct {
	DatabaseURL        string
	JWTSecret          string
	Port               string
	Env                string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	GoogleClientIDs    string
	FCMServiceAccount  string
	RedisAddr          string
	DefaultPageSize    int
}

func Load() *Config {
	return &Config{
		DatabaseURL:        getEnv("DATABASE_URL", "goaltrack.db"),
		JWTSecret:          getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("APP_ENV", "development"),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_AUTH_CALLBACK_URL", ""),
		GoogleClientIDs:    getEnv("GOOGLE_CLIENT_IDS", ""),
		FCMServiceAccount:  getEnv("FCM_SERVICE_ACCOUNT", ""),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		DefaultPageSize:    getEnvInt("DEFAULT_PAGE_SIZE", 20),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
