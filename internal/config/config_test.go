package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log_level: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.NotEmpty(t, cfg.Mirrors)
	assert.NotEmpty(t, cfg.Hashtags)
	assert.Equal(t, 2, cfg.Collect.ItemsPerRun)
	assert.Equal(t, 30*time.Second, cfg.Collect.ItemDelay)
	assert.Equal(t, 10*time.Second, cfg.Collect.Timeout)
	assert.Equal(t, 90*time.Minute, cfg.Collect.Interval)
	assert.Equal(t, 24*time.Hour, cfg.Collect.MaxTweetAge)
	assert.NotEmpty(t, cfg.Collect.UserAgent)
	assert.NotEmpty(t, cfg.Collect.BlockMarkers)
}

func TestLoad_ExplicitValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
mirrors:
  - https://nitter.example
hashtags:
  - "#traveldelay"
collect:
  items_per_run: 1
ingest:
  endpoint: https://worker.example
  api_key: abc123
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"https://nitter.example"}, cfg.Mirrors)
	assert.Equal(t, []string{"#traveldelay"}, cfg.Hashtags)
	assert.Equal(t, 1, cfg.Collect.ItemsPerRun)
	assert.Equal(t, "https://worker.example", cfg.Ingest.Endpoint)
	assert.Equal(t, "abc123", cfg.Ingest.APIKey)
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("COLLECTOR_API_KEY", "from-env")

	cfg, err := Load(writeConfig(t, `
ingest:
  endpoint: https://worker.example
  api_key: ${COLLECTOR_API_KEY}
`))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Ingest.APIKey)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Mirrors:  []string{"https://nitter.example"},
		Hashtags: []string{"#a", "#b"},
		Collect:  CollectConfig{ItemsPerRun: 2},
	}
	assert.NoError(t, cfg.Validate())

	cfg.Collect.ItemsPerRun = 3
	assert.Error(t, cfg.Validate())

	cfg.Collect.ItemsPerRun = 1
	cfg.Mirrors = nil
	assert.Error(t, cfg.Validate())

	cfg.Mirrors = []string{"https://nitter.example"}
	cfg.Hashtags = nil
	assert.Error(t, cfg.Validate())
}

func TestValidateIngest(t *testing.T) {
	cfg := &Config{Ingest: IngestConfig{Endpoint: "https://worker.example", APIKey: "k"}}
	assert.NoError(t, cfg.ValidateIngest())

	cfg.Ingest.APIKey = ""
	assert.Error(t, cfg.ValidateIngest())

	cfg.Ingest = IngestConfig{APIKey: "k"}
	assert.Error(t, cfg.ValidateIngest())
}
