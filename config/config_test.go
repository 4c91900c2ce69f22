package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TELEGRAM_TOKEN", "GEMINI_API_KEY", "GEMINI_REASONING_MODEL", "GEMINI_LAYOUT_MODEL",
		"GEMINI_VISION_MODEL", "LISTEN_ADDR", "PALETTE_DSN", "RULES_FILE", "ADJUDICATION_TIMEOUT",
		"REMBG_URL", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	require.Equal(t, DefaultPaletteDSN, cfg.PaletteDSN)
	require.Equal(t, DefaultAdjudicationTimeout, cfg.AdjudicationTimeout)
	require.Equal(t, "info", cfg.LogLevel)
	require.Empty(t, cfg.TelegramToken)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	rules := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(rules, []byte("max_depth: 64\n"), 0o600))

	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("LISTEN_ADDR", "127.0.0.1:9000")
	t.Setenv("PALETTE_DSN", "")
	t.Setenv("RULES_FILE", rules)
	t.Setenv("ADJUDICATION_TIMEOUT", "15s")
	t.Setenv("REMBG_URL", "http://localhost:7000")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "token", cfg.TelegramToken)
	require.Equal(t, "key", cfg.GeminiAPIKey)
	require.Equal(t, "127.0.0.1:9000", cfg.ListenAddr)
	require.Empty(t, cfg.PaletteDSN)
	require.Equal(t, rules, cfg.RulesFile)
	require.Equal(t, 15*time.Second, cfg.AdjudicationTimeout)
	require.Equal(t, "http://localhost:7000", cfg.RembgURL)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"ADJUDICATION_TIMEOUT": "soon",
		"LOG_LEVEL":            "verbose",
		"REMBG_URL":            "not a url",
		"RULES_FILE":           "/does/not/exist.yaml",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoad_NegativeTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADJUDICATION_TIMEOUT", "-1s")

	_, err := Load()
	require.Error(t, err)
}
