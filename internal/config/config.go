// Package config loads application configuration from environment
// variables, with .env files applied by the caller beforehand.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the application configuration.
type Config struct {
	DSN           string
	Port          string
	SessionSecret string
	BaseURL       string

	Cache CacheConfig
	SMTP  SMTPConfig

	EmailFrom string
	// Fixed recipient list for the 100-views congratulation mail.
	ViewsNotifyEmails []string
}

// CacheConfig controls the category read-through cache.
type CacheConfig struct {
	Enabled bool
	Path    string
}

// SMTPConfig holds outgoing mail settings.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

// Load reads configuration from the environment, applying defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DSN:           os.Getenv("DB_DSN"),
		Port:          getEnv("APP_PORT", "8080"),
		SessionSecret: getEnv("SESSION_SECRET", "dev_fallback_secret"),
		BaseURL:       getEnv("BASE_URL", "http://localhost:8080"),
		Cache: CacheConfig{
			Enabled: getBool("CACHE_ENABLED", false),
			Path:    getEnv("CACHE_PATH", "./cache"),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "localhost"),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
		},
		EmailFrom: getEnv("EMAIL_FROM", "noreply@naomitex.ru"),
	}

	port, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	cfg.SMTP.Port = port

	if list := os.Getenv("VIEWS_NOTIFY_EMAILS"); list != "" {
		for _, addr := range strings.Split(list, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				cfg.ViewsNotifyEmails = append(cfg.ViewsNotifyEmails, addr)
			}
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
