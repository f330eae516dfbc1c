package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_PATH", "")
	t.Setenv("STATIC_PATH", "")
	t.Setenv("SESSION_LIFETIME", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "league_tracker.db", cfg.DatabasePath)
	assert.Equal(t, "static", cfg.StaticPath)
	assert.Equal(t, 24*time.Hour, cfg.SessionLifetime)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_PATH", "/tmp/league.db")
	t.Setenv("SESSION_LIFETIME", "2h")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/tmp/league.db", cfg.DatabasePath)
	assert.Equal(t, 2*time.Hour, cfg.SessionLifetime)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadInvalid(t *testing.T) {
	testCases := []struct {
		name string
		key  string
		val  string
	}{
		{name: "non numeric port", key: "PORT", val: "eighty"},
		{name: "port out of range", key: "PORT", val: "70000"},
		{name: "bad lifetime", key: "SESSION_LIFETIME", val: "forever"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
