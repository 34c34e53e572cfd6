package config

import (
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.NotEqual(t, nil, err)
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SERVER_PORT", "8181")
	t.Setenv("RATE_LIMIT_MUTATION_WINDOW", "3s")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := Load()
	assert.Equal(t, nil, err)
	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8181", cfg.Server.Addr())
	assert.Equal(t, 3*time.Second, cfg.RateLimit.MutationWindow)
	assert.Equal(t, false, cfg.RateLimit.Enabled)
	assert.Equal(t, "gallery", cfg.Metrics.Namespace)
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SERVER_PORT", "nope")
	_, err := Load()
	assert.NotEqual(t, nil, err)
}

func TestLoadClient(t *testing.T) {
	t.Setenv("GALLERY_SERVER_URL", "http://gallery.test")
	t.Setenv("GALLERY_REMOTE_TIMEOUT", "2s")

	cfg, err := LoadClient()
	assert.Equal(t, nil, err)
	assert.Equal(t, "http://gallery.test", cfg.ServerURL)
	assert.Equal(t, 2*time.Second, cfg.RemoteTimeout)
}
