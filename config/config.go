// Package config loads traverse settings from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fwojciec/traverse/fs"
	"github.com/fwojciec/traverse/mermaid"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvLogLevel = "TRAVERSE_LOG_LEVEL"
	EnvChunkDir = "TRAVERSE_CHUNK_DIR"
	EnvNoChunk  = "TRAVERSE_NO_CHUNK"
)

// Diagram types accepted by generation.default_diagram_type.
const (
	DiagramSequence  = "sequence"
	DiagramCallGraph = "callgraph"
	DiagramAll       = "all"
)

// Config holds all traverse settings.
type Config struct {
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Generation GenerationConfig `yaml:"generation"`
	Mermaid    MermaidConfig    `yaml:"mermaid"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// AnalysisConfig controls call graph traversal.
type AnalysisConfig struct {
	MaxDepth        int  `yaml:"max_depth"`        // Nested call depth in sequence diagrams
	IncludeExternal bool `yaml:"include_external"` // Reserved; sources outside the workspace are never read
	CacheEnabled    bool `yaml:"cache_enabled"`    // Reserved; graphs are rebuilt per request
}

// GenerationConfig controls diagram content.
type GenerationConfig struct {
	DefaultDiagramType string `yaml:"default_diagram_type"` // sequence, callgraph, all
	MaxNodes           int    `yaml:"max_nodes"`
	IncludeStorage     bool   `yaml:"include_storage"`
	IncludeModifiers   bool   `yaml:"include_modifiers"`
}

// MermaidConfig controls sequence diagram chunking.
type MermaidConfig struct {
	NoChunk          bool   `yaml:"no_chunk"`
	ChunkDir         string `yaml:"chunk_dir"`
	MaxLinesPerChunk int    `yaml:"max_lines_per_chunk"`
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			MaxDepth:        10,
			IncludeExternal: false,
			CacheEnabled:    true,
		},
		Generation: GenerationConfig{
			DefaultDiagramType: DiagramSequence,
			MaxNodes:           100,
			IncludeStorage:     true,
			IncludeModifiers:   true,
		},
		Mermaid: MermaidConfig{
			NoChunk:          false,
			ChunkDir:         fs.DefaultChunkDir,
			MaxLinesPerChunk: mermaid.DefaultMaxLines,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// DefaultPath returns the default config file location.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/traverse/config.yaml.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "traverse", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".traverse", "config.yaml")
	}
	return filepath.Join(home, ".config", "traverse", "config.yaml")
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	}
	if dir := os.Getenv(EnvChunkDir); dir != "" {
		c.Mermaid.ChunkDir = dir
	}
	// Unparseable values are ignored.
	if v := os.Getenv(EnvNoChunk); v != "" {
		if noChunk, err := strconv.ParseBool(v); err == nil {
			c.Mermaid.NoChunk = noChunk
		}
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Analysis.MaxDepth < 1 {
		return fmt.Errorf("analysis.max_depth must be >= 1, got %d", c.Analysis.MaxDepth)
	}
	if c.Generation.MaxNodes < 1 {
		return fmt.Errorf("generation.max_nodes must be >= 1, got %d", c.Generation.MaxNodes)
	}
	switch c.Generation.DefaultDiagramType {
	case DiagramSequence, DiagramCallGraph, DiagramAll:
	default:
		return fmt.Errorf("invalid generation.default_diagram_type: %q (valid: %s, %s, %s)",
			c.Generation.DefaultDiagramType, DiagramSequence, DiagramCallGraph, DiagramAll)
	}
	if c.Mermaid.MaxLinesPerChunk < 1 {
		return fmt.Errorf("mermaid.max_lines_per_chunk must be >= 1, got %d", c.Mermaid.MaxLinesPerChunk)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging.format: %q", c.Logging.Format)
	}
	return nil
}
