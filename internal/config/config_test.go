package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huskymart/huskymart/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const minimalConfig = `
store:
  base_url: https://data.example.com/endpoint/data/v1
  api_key: test-key
  data_source: Cluster0
  database: marketplace
identity:
  client_id: client-123
`

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "listings", cfg.Store.Collection)
	assert.Equal(t, 30*time.Second, cfg.Store.Timeout)
	assert.Equal(t, 5.0, cfg.Store.RateLimit.PerSecond)
	assert.Equal(t, int64(5000), cfg.Store.RateLimit.DailyLimit)
	assert.Contains(t, cfg.Identity.Authority, "login.microsoftonline.com")
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.NotEmpty(t, cfg.Session.Path)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_STORE_KEY", "key-from-env")

	cfg, err := config.Load(writeConfig(t, `
store:
  base_url: https://data.example.com
  api_key: ${TEST_STORE_KEY}
  data_source: Cluster0
  database: marketplace
identity:
  client_id: client-123
`))
	require.NoError(t, err)
	assert.Equal(t, "key-from-env", cfg.Store.APIKey)
}

func TestLoad_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing base url",
			content: "store:\n  api_key: k\n  data_source: d\n  database: db\nidentity:\n  client_id: c\n",
			wantErr: "store.base_url",
		},
		{
			name:    "missing api key",
			content: "store:\n  base_url: u\n  data_source: d\n  database: db\nidentity:\n  client_id: c\n",
			wantErr: "store.api_key",
		},
		{
			name:    "missing client id",
			content: "store:\n  base_url: u\n  api_key: k\n  data_source: d\n  database: db\n",
			wantErr: "identity.client_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := config.Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Parallel()

	_, err := config.Load(writeConfig(t, "store: [not a map"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config YAML")
}
