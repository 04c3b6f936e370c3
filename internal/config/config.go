package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DatabaseURL    string
	HTTPAddr       string
	LogLevel       string
	Env            string // dev|prod
	SentryDSN      string
	JWTSecret      string
	TokenTTL       time.Duration
	BootstrapEmail string // seed admin account when accounts table is empty
	BootstrapPass  string
	CORSOrigins    []string
}

func Load() (*Config, error) {
	ttl, err := parseDuration(getenv("TOKEN_TTL", "12h"))
	if err != nil {
		return nil, fmt.Errorf("TOKEN_TTL: %w", err)
	}

	var missing []string
	required := func(k string) string {
		v := os.Getenv(k)
		if v == "" {
			missing = append(missing, k)
		}
		return v
	}

	cfg := &Config{
		DatabaseURL:    required("DATABASE_URL"),
		HTTPAddr:       getenv("HTTP_ADDR", ":8080"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		Env:            getenv("ENV", "dev"),
		SentryDSN:      os.Getenv("SENTRY_DSN"),
		JWTSecret:      required("JWT_SECRET"),
		TokenTTL:       ttl,
		BootstrapEmail: os.Getenv("BOOTSTRAP_ADMIN_EMAIL"),
		BootstrapPass:  os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
		CORSOrigins:    splitList(getenv("CORS_ORIGINS", "http://localhost:5173")),
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required env not set: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func parseDuration(s string) (time.Duration, error) {
	if n, err := strconv.Atoi(s); err == nil {
		// bare number means hours
		return time.Duration(n) * time.Hour, nil
	}
	return time.ParseDuration(s)
}

func splitList(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
