package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "2000", cfg.Server.Port)
	assert.Equal(t, "data/vozcalc.db", cfg.Database.Path)
	assert.Equal(t, 30*time.Minute, cfg.Sessions.TTL)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Server.Origins())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("PORT", "8081")
	t.Setenv("VOZCALC_DB_PATH", "/tmp/calc.db")
	t.Setenv("VOZCALC_ALLOWED_ORIGINS", "http://localhost:5173, https://vozcalc.app")
	t.Setenv("VOZCALC_SESSION_TTL", "5m")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "/tmp/calc.db", cfg.Database.Path)
	assert.Equal(t, []string{"http://localhost:5173", "https://vozcalc.app"}, cfg.Server.Origins())
	assert.Equal(t, 5*time.Minute, cfg.Sessions.TTL)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  port: \"9090\"\nsessions:\n  ttl: 1h\nlog:\n  level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.Sessions.TTL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "data/vozcalc.db", cfg.Database.Path)
}

func TestValidate(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("PORT", "not-a-port")
	t.Setenv("LOG_LEVEL", "loud")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "log.level")
}
