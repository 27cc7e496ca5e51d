package config

import (
	"os"
	"strconv"
	"time"

	"rps_webapp/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort       string
	JWTSecret     string
	AllowedOrigin string

	LogLevel string
	LogJSON  bool

	// Round timing
	ThinkingDelay time.Duration
	CooldownDelay time.Duration
	SessionTTL    time.Duration

	// Redis (optional, rate limiting fails open without it)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Limits
	APIRateLimit   int
	APIRateWindow  int
	GameRateLimit  int
	GameRateWindow int
}

// Load reads the environment (and .env if present).
func Load() *Config {
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		AppPort:       port,
		JWTSecret:     jwtSecret,
		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),
		LogLevel:      logLevel,
		LogJSON:       os.Getenv("LOG_JSON") == "true",

		ThinkingDelay: time.Duration(envInt("THINKING_DELAY_MS", 1500)) * time.Millisecond,
		CooldownDelay: time.Duration(envInt("COOLDOWN_DELAY_MS", 1000)) * time.Millisecond,
		SessionTTL:    time.Duration(envInt("SESSION_TTL_MINUTES", 60)) * time.Minute,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envIntAllowZero("REDIS_DB", 0),

		APIRateLimit:   envInt("API_RATE_LIMIT", 120),
		APIRateWindow:  envInt("API_RATE_WINDOW_SECONDS", 60),
		GameRateLimit:  envInt("GAME_RATE_LIMIT", 60),
		GameRateWindow: envInt("GAME_RATE_WINDOW", 60),
	}
}

// envInt returns a positive integer from env or def.
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		logger.Warn("ignoring invalid config value", "key", key, "value", v)
	}
	return def
}

func envIntAllowZero(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
