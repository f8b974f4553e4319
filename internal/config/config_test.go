package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "ALLOWED_ORIGINS", "ENABLE_ADMIN_ENDPOINT"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "3000", cfg.ServerPort)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.False(t, cfg.EnableAdminEndpoint)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example.com , https://b.example.com ,, ")
	t.Setenv("ENABLE_ADMIN_ENDPOINT", "true")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.True(t, cfg.EnableAdminEndpoint)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestSplitCSV(t *testing.T) {
	assert.Empty(t, splitCSV(""))
	assert.Equal(t, []string{"a"}, splitCSV("a"))
	assert.Equal(t, []string{"a", "b"}, splitCSV("a, b"))
	assert.Empty(t, splitCSV(" , ,"))
}
