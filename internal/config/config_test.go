package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("QUIZGEN_ADDR", "")
	t.Setenv("QUIZGEN_ALLOWED_ORIGINS", "")
	t.Setenv("QUIZGEN_DB", "")

	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.DBPath)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("QUIZGEN_ADDR", "127.0.0.1:9090")
	t.Setenv("QUIZGEN_ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com ,")
	t.Setenv("QUIZGEN_DB", "/var/lib/quizgen/quizgen.db")

	cfg := FromEnv()
	assert.Equal(t, "127.0.0.1:9090", cfg.Addr)
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "/var/lib/quizgen/quizgen.db", cfg.DBPath)
}
