package llm

import (
	"fmt"
	"strings"

	"github.com/neersetu/neersetu/internal/model"
)

// NewBackend creates a generative backend based on configuration.
// An empty provider returns (nil, nil): generation disabled, deterministic
// composition only.
func NewBackend(config model.LLMConfig) (Backend, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIBackend(config)

	case "ollama":
		return NewOllamaBackend(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", config.Provider)
	}
}
