package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "DATA_PROVIDER", "HTTPS_PROXY",
		"SCANNER_WATCHLIST", "SCANNER_THRESHOLD", "SCAN_CRON", "SQLITE_PATH",
		"HTTP_PORT", "LOG_LEVEL", "VSTRADER_BASE_URL", "VSTRADER_API_KEY",
	} {
		t.Setenv(k, "")
	}
	// keep a stray .env in the package dir from leaking in
	t.Chdir(t.TempDir())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "yahoo", cfg.DataSource.Provider)
	assert.Equal(t, 5*time.Minute, cfg.DataSource.CacheTTL)
	assert.Equal(t, 80, cfg.Scanner.Threshold)
	assert.Equal(t, 100*time.Millisecond, cfg.Scanner.Delay)
	assert.Contains(t, cfg.Scanner.Watchlist, "NVDA")
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Empty(t, cfg.Database.SQLitePath)
	assert.False(t, cfg.TelegramEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAMLAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_source:
  provider: mock
  cache_ttl: 2m
scanner:
  watchlist: [AAPL, MSFT]
  threshold: 100
  delay: 250ms
server:
  port: 9090
`), 0644))

	t.Setenv("SCANNER_THRESHOLD", "120")
	t.Setenv("SCANNER_WATCHLIST", "pltr, soxl")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.DataSource.Provider)
	assert.Equal(t, 2*time.Minute, cfg.DataSource.CacheTTL)
	assert.Equal(t, 250*time.Millisecond, cfg.Scanner.Delay)
	assert.Equal(t, 120, cfg.Scanner.Threshold)
	assert.Equal(t, []string{"PLTR", "SOXL"}, cfg.Scanner.Watchlist)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scanner: [unclosed"), 0644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	base := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	cfg.DataSource.Provider = "bloomberg"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.DataSource.Provider = "vstrader"
	assert.ErrorContains(t, cfg.Validate(), "base_url")
	cfg.DataSource.BaseURL = "http://localhost:9000"
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.Scanner.Threshold = 85
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Telegram.BotToken = "token"
	assert.Error(t, cfg.Validate())
	cfg.Telegram.ChatID = "42"
	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.TelegramEnabled())
}
