package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	// Blank out anything the surrounding environment may carry
	for _, key := range []string{"BASE_URL", "PORT", "ENV", "LOG_LEVEL", "LOG_FORMAT", "SESSION_LIFETIME", "SHUTDOWN_GRACE_PERIOD"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	require.Equal(t, "http://localhost:3000", cfg.BaseURL)
	require.Equal(t, 3000, cfg.Port)
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, 24*time.Hour, cfg.SessionLifetime)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("ENV", "prod")
	t.Setenv("SESSION_LIFETIME", "1h")
	t.Setenv("BASE_URL", "https://whisperwall.example.com/")

	cfg := LoadConfig()

	require.Equal(t, 8081, cfg.Port)
	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, time.Hour, cfg.SessionLifetime)
	require.Equal(t, "https://whisperwall.example.com/", cfg.BaseURL)
}

func TestConfig_GoogleCallbackURL(t *testing.T) {
	cfg := Config{BaseURL: "https://whisperwall.example.com/"}
	require.Equal(t, "https://whisperwall.example.com/auth/google/secrets", cfg.GoogleCallbackURL())

	cfg = Config{BaseURL: "http://localhost:3000"}
	require.Equal(t, "http://localhost:3000/auth/google/secrets", cfg.GoogleCallbackURL())
}

func TestConfig_SecureCookies(t *testing.T) {
	require.False(t, Config{Env: "dev"}.SecureCookies())
	require.True(t, Config{Env: "staging"}.SecureCookies())
	require.True(t, Config{Env: "prod"}.SecureCookies())
}
