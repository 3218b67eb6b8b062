package model

import "time"

// Config is the complete NeerSetu configuration.
//
// Hierarchy (highest to lowest priority): CLI flags, NEERSETU_* environment
// variables, ~/.neersetu/config.yaml, defaults below.
type Config struct {
	Database  DatabaseConfig  `yaml:"database" json:"database"`
	Retrieval RetrievalConfig `yaml:"retrieval" json:"retrieval"`
	LLM       LLMConfig       `yaml:"llm" json:"llm"`
	Cache     CacheConfig     `yaml:"cache" json:"cache"`
	Server    ServerConfig    `yaml:"server" json:"server"`
}

// DatabaseConfig locates the structured fact store.
type DatabaseConfig struct {
	// Path to the SQLite database file
	Path string `yaml:"path" json:"path"`
}

// RetrievalConfig controls the passage index.
type RetrievalConfig struct {
	// Mode selects the index implementation: "keyword" or "embedding"
	Mode string `yaml:"mode" json:"mode"`

	// EmbedModel is the embedding model used in "embedding" mode
	EmbedModel string `yaml:"embed_model" json:"embed_model"`

	// TopK passages returned per query
	TopK int `yaml:"top_k" json:"top_k"`

	// DocsDir holds extra *.txt corpus files loaded on top of the
	// built-in corpus (empty = built-in only)
	DocsDir string `yaml:"docs_dir" json:"docs_dir"`
}

// LLMConfig configures the optional generative backend.
type LLMConfig struct {
	// Provider name: "openai", "ollama", "" (disabled)
	Provider string `yaml:"provider" json:"provider"`

	// Model name (provider-specific)
	Model string `yaml:"model" json:"model"`

	// APIKey for OpenAI
	APIKey string `yaml:"api_key" json:"-"`

	// BaseURL for custom endpoints (e.g., Ollama, proxies)
	BaseURL string `yaml:"base_url" json:"base_url"`

	// OrgID is optional OpenAI account scoping
	OrgID string `yaml:"org_id" json:"org_id"`

	// Timeout per backend call, in seconds
	Timeout int `yaml:"timeout" json:"timeout"`

	// MaxTokens for response generation
	MaxTokens int `yaml:"max_tokens" json:"max_tokens"`

	// Explicit proxy settings for outbound calls. Empty values fall back
	// to the process environment.
	HTTPProxy  string `yaml:"http_proxy" json:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" json:"https_proxy"`
	NoProxy    string `yaml:"no_proxy" json:"no_proxy"`
}

// CacheConfig controls the answer cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	TTL     time.Duration `yaml:"ttl" json:"ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`

	// RatePerSecond and Burst bound inbound /ask traffic
	RatePerSecond float64 `yaml:"rate_per_second" json:"rate_per_second"`
	Burst         int     `yaml:"burst" json:"burst"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "storage/neersetu.db",
		},
		Retrieval: RetrievalConfig{
			Mode:       "keyword",
			EmbedModel: "text-embedding-3-small",
			TopK:       3,
		},
		LLM: LLMConfig{
			Provider:  "", // Disabled by default; deterministic composer
			Model:     "",
			Timeout:   30,
			MaxTokens: 1000,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     5 * time.Minute,
		},
		Server: ServerConfig{
			Addr:          ":8000",
			RatePerSecond: 10,
			Burst:         20,
		},
	}
}
