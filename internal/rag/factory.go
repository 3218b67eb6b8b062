package rag

import (
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/neersetu/neersetu/internal/model"
)

// NewIndex creates a passage index per configuration. "embedding" mode needs
// an API key; without one the factory degrades to the keyword index so the
// pipeline stays usable offline.
func NewIndex(cfg model.RetrievalConfig, llmCfg model.LLMConfig) (Index, error) {
	corpus, err := LoadCorpus(cfg.DocsDir)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	switch strings.ToLower(cfg.Mode) {
	case "", "keyword":
		return NewKeywordIndex(corpus), nil

	case "embedding":
		if llmCfg.APIKey == "" {
			return NewKeywordIndex(corpus), nil
		}
		clientConfig := openai.DefaultConfig(llmCfg.APIKey)
		if llmCfg.BaseURL != "" {
			clientConfig.BaseURL = llmCfg.BaseURL
		}
		client := openai.NewClientWithConfig(clientConfig)
		return NewEmbeddingIndex(NewOpenAIEmbedder(client, cfg.EmbedModel), corpus), nil

	default:
		return nil, fmt.Errorf("unknown retrieval mode: %s (supported: keyword, embedding)", cfg.Mode)
	}
}
