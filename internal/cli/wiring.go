package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/neersetu/neersetu/internal/agent"
	"github.com/neersetu/neersetu/internal/cache"
	"github.com/neersetu/neersetu/internal/llm"
	"github.com/neersetu/neersetu/internal/model"
	"github.com/neersetu/neersetu/internal/rag"
	"github.com/neersetu/neersetu/internal/store"
)

// loadConfig builds the effective configuration: defaults, overridden by the
// config file and NEERSETU_* environment, with OpenAI credentials accepted
// from the conventional OPENAI_* variables as well.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	if v := viper.GetString("database.path"); v != "" {
		cfg.Database.Path = v
	}
	if v := viper.GetString("retrieval.mode"); v != "" {
		cfg.Retrieval.Mode = v
	}
	if v := viper.GetString("retrieval.embed_model"); v != "" {
		cfg.Retrieval.EmbedModel = v
	}
	if v := viper.GetInt("retrieval.top_k"); v > 0 {
		cfg.Retrieval.TopK = v
	}
	if v := viper.GetString("retrieval.docs_dir"); v != "" {
		cfg.Retrieval.DocsDir = v
	}
	if v := viper.GetString("llm.provider"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := viper.GetString("llm.model"); v != "" {
		cfg.LLM.Model = v
	}
	if v := viper.GetString("llm.api_key"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := viper.GetString("llm.base_url"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := viper.GetInt("llm.timeout"); v > 0 {
		cfg.LLM.Timeout = v
	}
	if v := viper.GetString("llm.http_proxy"); v != "" {
		cfg.LLM.HTTPProxy = v
	}
	if v := viper.GetString("llm.https_proxy"); v != "" {
		cfg.LLM.HTTPSProxy = v
	}
	if v := viper.GetString("llm.no_proxy"); v != "" {
		cfg.LLM.NoProxy = v
	}
	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if v := viper.GetDuration("cache.ttl"); v > 0 {
		cfg.Cache.TTL = v
	}
	if v := viper.GetString("server.addr"); v != "" {
		cfg.Server.Addr = v
	}
	if v := viper.GetFloat64("server.rate_per_second"); v > 0 {
		cfg.Server.RatePerSecond = v
	}
	if v := viper.GetInt("server.burst"); v > 0 {
		cfg.Server.Burst = v
	}

	// Conventional OpenAI environment variables
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = os.Getenv("OPENAI_BASE_URL")
	}
	if cfg.LLM.OrgID == "" {
		cfg.LLM.OrgID = os.Getenv("OPENAI_ORG_ID")
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = os.Getenv("OPENAI_MODEL")
	}
	if cfg.Retrieval.EmbedModel == "" {
		cfg.Retrieval.EmbedModel = os.Getenv("EMBED_MODEL")
	}

	// An OpenAI key with no provider configured enables the openai backend
	if cfg.LLM.Provider == "" && cfg.LLM.APIKey != "" {
		cfg.LLM.Provider = "openai"
	}

	return cfg
}

// buildAgent wires the full pipeline from configuration. The returned cleanup
// closes the fact store.
func buildAgent(cfg *model.Config) (*agent.Agent, func(), error) {
	facts, err := store.OpenSQLite(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open fact store: %w", err)
	}
	cleanup := func() { _ = facts.Close() }

	index, err := rag.NewIndex(cfg.Retrieval, cfg.LLM)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("build passage index: %w", err)
	}

	backend, err := llm.NewBackend(cfg.LLM)
	if err != nil {
		// A misconfigured backend never blocks answering; warn and
		// compose deterministically.
		fmt.Fprintf(os.Stderr, "Warning: generative backend disabled: %v\n", err)
		backend = nil
	}

	var opts []agent.Option
	if cfg.Cache.Enabled {
		opts = append(opts, agent.WithCache(
			cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute), cfg.Cache.TTL))
	}

	if verbose {
		backendName := "none (deterministic composer)"
		if backend != nil {
			backendName = backend.Name()
		}
		fmt.Fprintf(os.Stderr, "Database: %s\n", cfg.Database.Path)
		fmt.Fprintf(os.Stderr, "Passage index: %s\n", index.Name())
		fmt.Fprintf(os.Stderr, "Backend: %s\n", backendName)
	}

	return agent.New(facts, index, backend, cfg.Retrieval.TopK, opts...), cleanup, nil
}
