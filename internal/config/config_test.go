package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 54*time.Second, cfg.PingPeriod)
	require.Equal(t, 5*time.Minute, cfg.Relay.CleanupDelay)
	require.Equal(t, 30*time.Second, cfg.Relay.CollaboratorTimeout)
	require.Equal(t, "en-IN", cfg.Languages.Reply)
	require.Equal(t, "hi-IN", cfg.Languages.Fallback)
	require.Equal(t, "google", cfg.Translation.Provider)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 9090
relay:
  cleanup_delay: 1m
translation:
  provider: gemini
gemini:
  model: gemini-2.0-flash
`), 0o600))
	t.Setenv("RELAY_GEMINI_API_KEY", "k-123")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, time.Minute, cfg.Relay.CleanupDelay)
	require.Equal(t, "gemini", cfg.Translation.Provider)
	require.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	require.Equal(t, "k-123", cfg.Gemini.APIKey)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Port: 8080}
	require.NoError(t, cfg.Validate())

	cfg.Translation.Provider = "babelfish"
	require.Error(t, cfg.Validate())

	cfg.Translation.Provider = ""
	cfg.Synthesis.Provider = "gemini"
	require.Error(t, cfg.Validate())

	require.Error(t, (&Config{Port: 0}).Validate())
}
