// Package config resolves service-level settings from the environment.
package config

import (
	"os"
	"strings"
)

// Config holds the settings for the quizgen service.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// AllowedOrigins configures CORS for the browser client.
	AllowedOrigins []string

	// DBPath is the SQLite database file. Empty means the default
	// XDG-resolved path.
	DBPath string
}

// FromEnv builds a Config from QUIZGEN_* environment variables with
// development defaults.
func FromEnv() Config {
	cfg := Config{
		Addr:           ":8080",
		AllowedOrigins: []string{"http://localhost:3000"},
	}

	if v := os.Getenv("QUIZGEN_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("QUIZGEN_ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		cfg.AllowedOrigins = cfg.AllowedOrigins[:0]
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, p)
			}
		}
	}
	if v := os.Getenv("QUIZGEN_DB"); v != "" {
		cfg.DBPath = v
	}

	return cfg
}
