package config

import "github.com/hyperjump/tansaku/internal/models"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "jsonl"
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "/usr/local/var/tansaku/data/catalog.jsonl"
	}
	if cfg.Engine.DefaultLimit == 0 {
		cfg.Engine.DefaultLimit = models.DefaultLimit
	}
	if cfg.Engine.MaxLimit == 0 {
		cfg.Engine.MaxLimit = models.MaxLimit
	}
	if cfg.Engine.SnippetLength == 0 {
		cfg.Engine.SnippetLength = 160
	}
	cfg.Ranking.ApplyDefaults()
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 128
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 4096
	}
	if cfg.Rerank.LexicalWeight == 0 && cfg.Rerank.SemanticWeight == 0 {
		cfg.Rerank.LexicalWeight = 0.6
		cfg.Rerank.SemanticWeight = 0.4
	}
	if cfg.Rerank.Remote.Model == "" {
		cfg.Rerank.Remote.Model = "text-embedding-3-small"
	}
	if cfg.Rerank.Remote.Dimensions == 0 {
		cfg.Rerank.Remote.Dimensions = 1536
	}
	if cfg.Watch.DebounceMs == 0 {
		cfg.Watch.DebounceMs = 500
	}
}
