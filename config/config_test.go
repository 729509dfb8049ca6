package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/traverse/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()

	assert.Equal(t, 10, cfg.Analysis.MaxDepth)
	assert.True(t, cfg.Analysis.CacheEnabled)
	assert.Equal(t, config.DiagramSequence, cfg.Generation.DefaultDiagramType)
	assert.Equal(t, 100, cfg.Generation.MaxNodes)
	assert.True(t, cfg.Generation.IncludeStorage)
	assert.True(t, cfg.Generation.IncludeModifiers)
	assert.False(t, cfg.Mermaid.NoChunk)
	assert.Equal(t, "mermaid-chunks", cfg.Mermaid.ChunkDir)
	assert.Equal(t, "info", cfg.Logging.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		t.Setenv(config.EnvLogLevel, "")
		t.Setenv(config.EnvChunkDir, "")
		t.Setenv(config.EnvNoChunk, "")

		cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, config.DefaultConfig(), cfg)
	})

	t.Run("partial file keeps other defaults", func(t *testing.T) {
		t.Setenv(config.EnvLogLevel, "")
		t.Setenv(config.EnvChunkDir, "")
		t.Setenv(config.EnvNoChunk, "")

		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("mermaid:\n  no_chunk: true\nanalysis:\n  max_depth: 3\n"), 0o644))

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.True(t, cfg.Mermaid.NoChunk)
		assert.Equal(t, 3, cfg.Analysis.MaxDepth)
		assert.Equal(t, "mermaid-chunks", cfg.Mermaid.ChunkDir)
		assert.True(t, cfg.Generation.IncludeStorage)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("mermaid: [\n"), 0o644))

		_, err := config.Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config")
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv(config.EnvLogLevel, "debug")
		t.Setenv(config.EnvChunkDir, "/tmp/chunks")
		t.Setenv(config.EnvNoChunk, "true")

		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\nmermaid:\n  chunk_dir: out\n"), 0o644))

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "/tmp/chunks", cfg.Mermaid.ChunkDir)
		assert.True(t, cfg.Mermaid.NoChunk)
	})

	t.Run("unparseable no chunk is ignored", func(t *testing.T) {
		t.Setenv(config.EnvLogLevel, "")
		t.Setenv(config.EnvChunkDir, "")
		t.Setenv(config.EnvNoChunk, "sometimes")

		cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.False(t, cfg.Mermaid.NoChunk)
	})
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvChunkDir, "")
	t.Setenv(config.EnvNoChunk, "")

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := config.DefaultConfig()
	cfg.Generation.IncludeModifiers = false
	cfg.Mermaid.MaxLinesPerChunk = 50
	require.NoError(t, cfg.Save(path))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*config.Config)
		want   string
	}{
		{name: "max depth", modify: func(c *config.Config) { c.Analysis.MaxDepth = 0 }, want: "max_depth"},
		{name: "max nodes", modify: func(c *config.Config) { c.Generation.MaxNodes = 0 }, want: "max_nodes"},
		{name: "diagram type", modify: func(c *config.Config) { c.Generation.DefaultDiagramType = "pie" }, want: "default_diagram_type"},
		{name: "chunk lines", modify: func(c *config.Config) { c.Mermaid.MaxLinesPerChunk = 0 }, want: "max_lines_per_chunk"},
		{name: "log level", modify: func(c *config.Config) { c.Logging.Level = "loud" }, want: "logging.level"},
		{name: "log format", modify: func(c *config.Config) { c.Logging.Format = "xml" }, want: "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	assert.Equal(t, filepath.Join("/xdg", "traverse", "config.yaml"), config.DefaultPath())
}
