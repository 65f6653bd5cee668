package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, int64(99999), cfg.Index.MaxKey)
	assert.Equal(t, 32, cfg.Index.Degree)
	assert.Equal(t, 0.9, cfg.Index.DecayAlpha)
	assert.Equal(t, 8.0, cfg.Index.HotThreshold)
	assert.Equal(t, 0.05, cfg.Index.MaxHotFraction)
	assert.True(t, cfg.Index.Inclusive)

	assert.Equal(t, "zipf", cfg.Workload.Kind)
	assert.Equal(t, int64(100000), cfg.Workload.NKeys)
	assert.Equal(t, int64(500000), cfg.Workload.NQueries)
	assert.Equal(t, 1.1, cfg.Workload.Theta)
	assert.Equal(t, uint64(42), cfg.Workload.Seed)

	assert.Equal(t, "127.0.0.1", cfg.Server.Bind)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadAndSave(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		tmpDir, err := os.MkdirTemp("", "hcidx_config_test")
		require.NoError(t, err)
		defer os.RemoveAll(tmpDir)

		configPath := filepath.Join(tmpDir, "config.yaml")
		expected := &Config{
			Index: Index{
				MaxKey:         1000,
				Degree:         16,
				DecayAlpha:     0.8,
				HotThreshold:   5.0,
				MaxHotFraction: 0.1,
				Inclusive:      true,
			},
			Workload: Workload{
				Kind:     "uniform",
				NKeys:    1000,
				NQueries: 10000,
				Theta:    0,
				Seed:     7,
			},
			Server: Server{
				Bind: "0.0.0.0",
				Port: 9000,
			},
		}

		require.NoError(t, Save(expected, configPath))

		loaded, err := Load(configPath)
		require.NoError(t, err)
		assert.Equal(t, expected, loaded)
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := Load("/non/existent/config.yaml")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("load invalid yaml", func(t *testing.T) {
		tmpDir, err := os.MkdirTemp("", "hcidx_config_test")
		require.NoError(t, err)
		defer os.RemoveAll(tmpDir)

		configPath := filepath.Join(tmpDir, "invalid.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0o644))

		_, err = Load(configPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestSavePermissions(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "hcidx_config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, Save(Default(), configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSaveErrorHandling(t *testing.T) {
	invalidPath := "/invalid/path/that/cannot/be/created/config.yaml"

	err := Save(Default(), invalidPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create config directory")
}

func TestDefaultPath(t *testing.T) {
	path := DefaultPath()
	assert.NotEmpty(t, path)
	assert.Contains(t, path, "hcidx")
	assert.Contains(t, path, "config.yaml")
}

func TestExists(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "hcidx_config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	existingPath := filepath.Join(tmpDir, "exists.yaml")
	nonExistentPath := filepath.Join(tmpDir, "does-not-exist.yaml")

	require.NoError(t, os.WriteFile(existingPath, []byte("test"), 0o644))

	assert.True(t, Exists(existingPath))
	assert.False(t, Exists(nonExistentPath))
}

func TestConfigYAMLMarshalling(t *testing.T) {
	cfg := &Config{
		Index: Index{
			MaxKey:         500,
			Degree:         8,
			DecayAlpha:     0.7,
			HotThreshold:   3.0,
			MaxHotFraction: 0.2,
			Inclusive:      true,
		},
		Workload: Workload{
			Kind:     "zipf",
			NKeys:    500,
			NQueries: 2000,
			Theta:    1.2,
			Seed:     99,
		},
		Server: Server{
			Bind: "localhost",
			Port: 9999,
		},
	}

	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)

	var unmarshalled Config
	require.NoError(t, yaml.Unmarshal(data, &unmarshalled))

	assert.Equal(t, cfg, &unmarshalled)
}
