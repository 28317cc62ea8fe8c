package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr      string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisChannel  string

	AdminPassword string
	JWTSecret     string
	JWTIssuer     string
	SessionTTL    time.Duration

	DocumentKey string
	DataDir     string

	MediaDir     string
	MediaBaseURL string
}

func Load() Config {
	return Config{
		HTTPAddr:      getenv("HTTP_ADDR", ":8090"),
		DatabaseURL:   getenv("DATABASE_URL", ""),
		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisChannel:  getenv("REDIS_CHANNEL", "portfolio:changes"),
		AdminPassword: getenv("ADMIN_PASSWORD", "admin"),
		JWTSecret:     getenv("JWT_SECRET", "dev-secret"),
		JWTIssuer:     getenv("JWT_ISSUER", "portfolio-server"),
		SessionTTL:    getenvDuration("SESSION_TTL", 12*time.Hour),
		DocumentKey:   getenv("DOCUMENT_KEY", "portfolio"),
		DataDir:       getenv("DATA_DIR", "./data"),
		MediaDir:      getenv("MEDIA_DIR", "./media"),
		MediaBaseURL:  getenv("MEDIA_BASE_URL", "http://127.0.0.1:8090/media"),
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
