package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 54*time.Second, cfg.PingPeriod)
	assert.Equal(t, 6, cfg.Pairing.CodeDigits)
	assert.Equal(t, 5*time.Minute, cfg.Pairing.TokenTTL)
	assert.Equal(t, 30*time.Second, cfg.Calls.SweepInterval)
	assert.Equal(t, "jwt", cfg.Auth.CookieName)
	require.Len(t, cfg.Calls.ICEServers, 1)
	assert.Equal(t, []string{"stun:stun.l.google.com:19302"}, cfg.Calls.ICEServers[0].URLs)
}

func TestFileAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
mode: debug
port: 9090
allowed_origins: ["https://app.example.com"]
pairing:
  code_digits: 8
calls:
  strict_state: true
  ice_servers:
    - urls: ["turn:turn.example.com:3478"]
      username: u
      credential: p
`)
	t.Setenv("PULSE_PORT", "9191")
	t.Setenv("PULSE_PAIRING_TOKEN_TTL", "2m")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Mode)
	assert.Equal(t, 9191, cfg.Port)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 8, cfg.Pairing.CodeDigits)
	assert.Equal(t, 2*time.Minute, cfg.Pairing.TokenTTL)
	assert.True(t, cfg.Calls.StrictState)
	require.Len(t, cfg.Calls.ICEServers, 1)
	assert.Equal(t, "u", cfg.Calls.ICEServers[0].Username)
}

func TestValidation(t *testing.T) {
	cases := map[string]string{
		"bad digits":      "pairing:\n  code_digits: 2\n",
		"push no project": "push:\n  enabled: true\n",
		"turn no creds":   "calls:\n  ice_servers:\n    - urls: [\"turn:turn.example.com\"]\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}
