package config

import (
	"fmt"
	"log"
	"os"
	"time"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env                string
	HTTPPort           string
	BackendURL         string
	RedisAddr          string
	SessionSecret      string
	SessionIssuer      string
	SessionTTL         time.Duration
	GoogleClientID     string
	GoogleClientSecret string
	OAuthRedirectURL   string
	PollInterval       time.Duration
	ActiveWindow       time.Duration
	RateLimitPerMin    int
}

// Load returns application config populated from environment variables with sensible defaults.
func Load() App {
	return App{
		Env:                getEnv("APP_ENV", "dev"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		BackendURL:         getEnv("BACKEND_URL", "http://localhost:8000"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		SessionSecret:      getEnv("SESSION_SECRET", "dev-session-secret-change"),
		SessionIssuer:      getEnv("SESSION_ISSUER", "classgate"),
		SessionTTL:         durationEnv("SESSION_TTL", 24*time.Hour),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		OAuthRedirectURL:   getEnv("OAUTH_REDIRECT_URL", "http://localhost:8080/oauth/callback"),
		PollInterval:       durationEnv("POLL_INTERVAL", 90*time.Second),
		ActiveWindow:       durationEnv("ACTIVE_WINDOW", 30*time.Minute),
		RateLimitPerMin:    intEnv("RATE_LIMIT_PER_MIN", 120),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Printf("invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}
