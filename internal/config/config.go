// Package config загружает конфигурацию приложения из переменных окружения.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит конфигурацию всего приложения.
// Загружается один раз при старте из переменных окружения и считается иммутабельной.
type Config struct {
	// Database
	DatabaseURL string

	// Server
	ServerPort string

	// Admin
	AdminToken string

	// CORS
	CORSAllowedOrigin string

	// Rate Limit (запросов в минуту на IP)
	RateLimitGeneral int
	RateLimitReviews int

	// Worker
	ReconcileInterval time.Duration
}

// Load читает Config из переменных окружения.
// Перед чтением подхватывает .env из рабочей директории, если файл существует.
// Возвращает ошибку, если обязательные переменные не заданы.
func Load() (*Config, error) {
	// .env необязателен: в контейнере переменные задаются окружением
	_ = godotenv.Load()

	cfg := &Config{}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.AdminToken = os.Getenv("ADMIN_TOKEN")
	if cfg.AdminToken == "" {
		missing = append(missing, "ADMIN_TOKEN")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitReviews = getEnvInt("RATE_LIMIT_REVIEWS", 10)
	cfg.ReconcileInterval = getEnvDuration("RECONCILE_INTERVAL", 10*time.Minute)

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
