package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr               string
	Environment        string
	SMTPHost           string
	SMTPPort           int
	SMTPConnectTimeout time.Duration
	MaxUploadBytes     int64
	ScratchBaseDir     string
	ScratchMaxAge      time.Duration
	DefaultSheet       string
}

func Load() Config {
	return Config{
		Addr:               getEnv("APP_ADDR", ":8080"),
		Environment:        getEnv("APP_ENV", "development"),
		SMTPHost:           getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:           getEnvInt("SMTP_PORT", 587),
		SMTPConnectTimeout: getEnvDuration("SMTP_CONNECT_TIMEOUT", 10*time.Second),
		MaxUploadBytes:     int64(getEnvInt("MAX_UPLOAD_BYTES", 10*1024*1024)),
		ScratchBaseDir:     getEnv("SCRATCH_DIR", os.TempDir()),
		ScratchMaxAge:      getEnvDuration("SCRATCH_MAX_AGE", 24*time.Hour),
		DefaultSheet:       getEnv("PAYROLL_SHEET", "Sheet1"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
