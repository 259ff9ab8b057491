package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	Env            string
	Port           string
	DatabaseURL    string // empty: serve the JSON catalog
	CatalogPath    string // empty: serve the bundled sample catalog
	SessionSecret  string
	SessionTTL     time.Duration
	AllowedOrigins []string
	LogLevel       string
}

func Load() *Config {
	return &Config{
		Env:            getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8081"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		CatalogPath:    os.Getenv("CATALOG_PATH"),
		SessionSecret:  getEnv("SESSION_SECRET", "dev-secret-change-in-production"),
		SessionTTL:     getDuration("SESSION_TTL", 30*time.Minute),
		AllowedOrigins: getList("ALLOWED_ORIGINS", []string{"http://localhost:8081", "http://localhost:19006"}),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
