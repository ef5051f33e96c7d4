package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  port: 8080
  mode: "release"
store:
  patents_db_path: "/data/patents.db"
  cordis_db_path: "/data/cordis.db"
  gleif_cache_db_path: "/data/gleif_cache.db"
adapter:
  semantic_scholar_base_url: "https://api.semanticscholar.org"
  epo_ops_base_url: "https://ops.epo.org"
orchestrator:
  default_panel_timeout: 30s
  cpc_flow_timeout: 45s
log:
  level: "info"
  format: "json"
`

func createTempConfigFile(t *testing.T, content string) string {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)
	return path
}

func setEnvVars(t *testing.T, vars map[string]string) {
	for k, v := range vars {
		os.Setenv(k, v)
	}
	t.Cleanup(func() {
		for k := range vars {
			os.Unsetenv(k)
		}
	})
}

func TestLoad_FromFile_ValidConfig(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	cfg, warnings, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Empty(t, warnings)
}

func TestLoad_FromFile_FileNotFound(t *testing.T) {
	_, _, err := Load("non_existent_config.yaml")
	assert.Error(t, err)
}

func TestLoad_FromFile_InvalidYAML(t *testing.T) {
	path := createTempConfigFile(t, "invalid_yaml: [")
	_, _, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_FromFile_MissingStorePathsWarnsWithoutFailing(t *testing.T) {
	minimal := `
server:
  port: 8080
  mode: "release"
log:
  level: "info"
  format: "json"
`
	path := createTempConfigFile(t, minimal)
	cfg, warnings, err := Load(path)

	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.NotEmpty(t, warnings)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	setEnvVars(t, map[string]string{
		"TI_RADAR_SERVER_PORT": "9999",
	})

	cfg, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestLoad_EnvOverride_NestedKey(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	setEnvVars(t, map[string]string{
		"TI_RADAR_STORE_PATENTS_DB_PATH": "/override/patents.db",
	})

	cfg, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/override/patents.db", cfg.Store.PatentsDBPath)
}

func TestLoad_DefaultValues(t *testing.T) {
	minimal := `
store:
  patents_db_path: "/data/patents.db"
  cordis_db_path: "/data/cordis.db"
  gleif_cache_db_path: "/data/gleif_cache.db"
`
	path := createTempConfigFile(t, minimal)
	cfg, _, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, DefaultPanelTimeout, cfg.Orchestrator.DefaultPanelTimeout)
}

func TestLoadFromEnv_NoFile(t *testing.T) {
	setEnvVars(t, map[string]string{
		"TI_RADAR_SERVER_PORT":              "8080",
		"TI_RADAR_STORE_PATENTS_DB_PATH":    "/data/patents.db",
		"TI_RADAR_STORE_CORDIS_DB_PATH":     "/data/cordis.db",
		"TI_RADAR_LOG_LEVEL":                "info",
	})

	cfg, _, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "/data/patents.db", cfg.Store.PatentsDBPath)
}

func TestMustLoad_Success(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	assert.NotPanics(t, func() {
		MustLoad(path)
	})
}

func TestMustLoad_Panic(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad("non_existent.yaml")
	})
}

func TestMustLoad_ReturnsWarnings(t *testing.T) {
	minimal := `
server:
  port: 8080
  mode: "release"
`
	path := createTempConfigFile(t, minimal)
	cfg, warnings := MustLoad(path)
	assert.NotNil(t, cfg)
	assert.NotEmpty(t, warnings)
}

func TestWatch_InvokesCallbackOnChange(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)

	changed := make(chan *Config, 1)
	Watch(path, func(cfg *Config, _ []string) {
		changed <- cfg
	})

	updated := `
server:
  port: 9100
  mode: "release"
store:
  patents_db_path: "/data/patents.db"
  cordis_db_path: "/data/cordis.db"
  gleif_cache_db_path: "/data/gleif_cache.db"
log:
  level: "info"
  format: "json"
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0644))

	select {
	case cfg := <-changed:
		assert.Equal(t, 9100, cfg.Server.Port)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not invoke onChange within timeout")
	}
}
