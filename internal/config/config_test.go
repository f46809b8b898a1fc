package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/agentctl/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()

	configContent := []byte(`{
    "llm_model": "mistral",
    "api_base": "http://127.0.0.1:11434",
    "system_check_interval": 30,
    "log_level": "debug",
    "cache_window": 10,
    "history_enabled": true,
    "history_db": "/path/to/history.db"
}`)
	configPath := filepath.Join(tempDir, "agentctl.json")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("AGENTCTL_CONFIG", configPath)

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "mistral", cfg.LLMModel, "Expected LLMModel mistral")
	assert.Equal(t, "http://127.0.0.1:11434", cfg.APIBase, "Expected APIBase 127.0.0.1")
	assert.Equal(t, 30, cfg.SystemCheckInterval, "Expected SystemCheckInterval 30")
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel debug")
	assert.Equal(t, 10, cfg.CacheWindow, "Expected CacheWindow 10")
	assert.True(t, cfg.HistoryEnabled, "Expected HistoryEnabled true")
	assert.Equal(t, "/path/to/history.db", cfg.HistoryDB, "Expected HistoryDB /path/to/history.db")
}

func TestLoadCreatesDefaultFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "agentctl.json")

	t.Setenv("AGENTCTL_CONFIG", configPath)

	cfg, err := config.Load(nil)
	require.NoError(t, err, "Failed to load config")

	// Assert default values
	assert.Equal(t, "llama2", cfg.LLMModel, "Expected default LLMModel llama2")
	assert.Equal(t, "http://localhost:11434", cfg.APIBase, "Expected default APIBase")
	assert.Equal(t, 60, cfg.SystemCheckInterval, "Expected default SystemCheckInterval 60")
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel, "Expected default LogLevel info")
	assert.Equal(t, 5, cfg.CacheWindow, "Expected default CacheWindow 5")
	assert.False(t, cfg.HistoryEnabled, "Expected default HistoryEnabled false")

	// The default file must have been written
	data, err := os.ReadFile(configPath)
	require.NoError(t, err, "Default config file was not created")

	var onDisk map[string]any
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, "llama2", onDisk["llm_model"])
	assert.EqualValues(t, 60, onDisk["system_check_interval"])
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	tempDir := t.TempDir()

	configContent := []byte(`this is not valid JSON`)
	configPath := filepath.Join(tempDir, "agentctl.json")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("AGENTCTL_CONFIG", configPath)

	_, err = config.Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read configuration")
}

func TestInvalidLogLevel(t *testing.T) {
	tempDir := t.TempDir()

	configContent := []byte(`{"log_level": "loud"}`)
	configPath := filepath.Join(tempDir, "agentctl.json")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("AGENTCTL_CONFIG", configPath)

	_, err = config.Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid log level")
}

func TestInvalidInterval(t *testing.T) {
	tempDir := t.TempDir()

	configContent := []byte(`{"system_check_interval": 0}`)
	configPath := filepath.Join(tempDir, "agentctl.json")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("AGENTCTL_CONFIG", configPath)

	_, err = config.Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid interval value")
}

func TestFlagOverrides(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "agentctl.json")

	t.Setenv("AGENTCTL_CONFIG", configPath)

	cfg, err := config.Load([]string{
		"--log-level", "debug",
		"--interval", "15",
		"--model", "phi3",
		"--background",
	})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel set by flag")
	assert.Equal(t, 15, cfg.SystemCheckInterval, "Expected interval set by flag")
	assert.Equal(t, "phi3", cfg.LLMModel, "Expected model set by flag")
	assert.True(t, cfg.Background, "Expected background mode set by flag")
}
