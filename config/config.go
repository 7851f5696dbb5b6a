package config

import (
	"log/slog"
	"os"
	"strconv"
)

const (
	EnvDevelopment = "DEV"
	EnvProduction  = "PROD"
)

type AppConfig struct {
	KeycloakClientID     string
	KeycloakClientSecret string
	KeycloakRealm        string
	KeycloakURL          string
	PostgresURL          string
	Port                 string
	AppEnv               string // EnvDevelopment or EnvProduction
	LogLevel             slog.Level
	SearchRateLimit      float64 // requests per second on the public search endpoint
	SearchRateBurst      int
	SearchWorkers        int
	MaxEntryLength       int // in characters
	MaxTermLength        int // in characters
}

var Config AppConfig

func LoadConfig() {
	cfg := AppConfig{}

	cfg.AppEnv = os.Getenv("APP_ENV")
	cfg.KeycloakClientID = loadRequired("KEYCLOAK_CLIENT_ID")
	cfg.KeycloakClientSecret = loadRequired("KEYCLOAK_CLIENT_SECRET")
	cfg.KeycloakRealm = loadRequired("KEYCLOAK_REALM")
	cfg.KeycloakURL = loadRequired("KEYCLOAK_URL")
	cfg.PostgresURL = loadRequired("POSTGRES_URL")
	cfg.Port = loadOptional("PORT", "8080")

	lvlString := loadOptional("LOG_LEVEL", "INFO")
	var err error
	cfg.LogLevel, err = parseLogLevel(lvlString)
	if err != nil {
		slog.Error("Invalid LOG_LEVEL", "error", err)
		cfg.LogLevel = slog.LevelInfo
	}

	cfg.SearchRateLimit = loadFloat("SEARCH_RATE_LIMIT", 10)
	cfg.SearchRateBurst = loadInt("SEARCH_RATE_BURST", 20)
	cfg.SearchWorkers = loadInt("SEARCH_WORKERS", 8)
	cfg.MaxEntryLength = loadInt("MAX_ENTRY_LENGTH", 100_000)
	cfg.MaxTermLength = loadInt("MAX_TERM_LENGTH", 100)

	Config = cfg
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	var err = level.UnmarshalText([]byte(s))
	return level, err
}

func loadRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		slog.Error("Required env var not set", "key", key)
		os.Exit(1)
	}
	return value
}

func loadOptional(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func loadInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		slog.Error("Invalid env var, using default", "key", key, "value", raw, "default", defaultValue)
		return defaultValue
	}
	return value
}

func loadFloat(key string, defaultValue float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value <= 0 {
		slog.Error("Invalid env var, using default", "key", key, "value", raw, "default", defaultValue)
		return defaultValue
	}
	return value
}

func (c AppConfig) IsProduction() bool {
	return c.AppEnv == EnvProduction
}
