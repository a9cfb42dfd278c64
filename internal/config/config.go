// Package config provides configuration loading and structs for the tansaku server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/tansaku/internal/ranking"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool                `yaml:"debug"`
	Server    ServerConfig        `yaml:"server"`
	Storage   StorageConfig       `yaml:"storage"`
	Engine    EngineConfig        `yaml:"engine"`
	Ranking   ranking.Config      `yaml:"ranking"`
	Synonyms  map[string][]string `yaml:"synonyms"`
	Embedding EmbeddingConfig     `yaml:"embedding"`
	Rerank    RerankConfig        `yaml:"rerank"`
	Watch     WatchConfig         `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig selects the catalog store backend and its location.
type StorageConfig struct {
	Backend string `yaml:"backend"` // "jsonl" or "sqlite"
	Path    string `yaml:"path"`
}

// EngineConfig holds query pipeline and snapshot build settings.
type EngineConfig struct {
	DefaultLimit  int `yaml:"default_limit"`
	MaxLimit      int `yaml:"max_limit"`
	SnippetLength int `yaml:"snippet_length"`
	// BuildWorkers sizes the snapshot embedding pool; 0 means NumCPU.
	BuildWorkers int `yaml:"build_workers"`
}

// EmbeddingConfig holds hash embedder settings.
type EmbeddingConfig struct {
	Dimensions int `yaml:"dimensions"`
	CacheSize  int `yaml:"cache_size"`
}

// RerankConfig holds blend weights and the optional remote model.
type RerankConfig struct {
	LexicalWeight  float64      `yaml:"lexical_weight"`
	SemanticWeight float64      `yaml:"semantic_weight"`
	Remote         RemoteConfig `yaml:"remote"`
}

// RemoteConfig holds the OpenAI-compatible embeddings endpoint settings.
// The API key comes from the environment, never from the file.
type RemoteConfig struct {
	Enabled    bool   `yaml:"enabled"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// WatchConfig holds catalog file watch settings.
type WatchConfig struct {
	Enabled    bool `yaml:"enabled"`
	DebounceMs int  `yaml:"debounce_ms"`
}

// Load reads and parses the config file at path, applies defaults, and
// expands the storage path. Returns an error if the file cannot be read or
// parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	cfg.Storage.Path = expandPath(cfg.Storage.Path, filepath.Dir(path))

	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
