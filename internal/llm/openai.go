package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/neersetu/neersetu/internal/model"
	"github.com/neersetu/neersetu/internal/util"
)

// OpenAIBackend implements the Backend interface for OpenAI models.
type OpenAIBackend struct {
	client *openai.Client
	config model.LLMConfig
}

// NewOpenAIBackend creates a new OpenAI backend.
func NewOpenAIBackend(config model.LLMConfig) (*OpenAIBackend, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	if config.OrgID != "" {
		clientConfig.OrgID = config.OrgID
	}
	clientConfig.HTTPClient = util.NewHTTPClient(
		callTimeout(config), config.HTTPProxy, config.HTTPSProxy, config.NoProxy)

	return &OpenAIBackend{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the backend name.
func (b *OpenAIBackend) Name() string {
	return "openai"
}

// IsAvailable checks if the backend is properly configured.
func (b *OpenAIBackend) IsAvailable(ctx context.Context) bool {
	_, err := b.client.ListModels(ctx)
	return err == nil
}

// Generate produces a completion via the Chat Completions API with
// temperature 0 for reproducible phrasing.
func (b *OpenAIBackend) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	chatModel := b.config.Model
	if chatModel == "" {
		chatModel = openai.GPT3Dot5Turbo
	}
	maxTokens := b.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, callTimeout(b.config))
	defer cancel()

	resp, err := b.client.CreateChatCompletion(ctxWithTimeout, openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		MaxTokens:   maxTokens,
		Temperature: 0,
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choice list", ErrStatus)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// classifyOpenAIError maps SDK errors onto the auth/status/transport taxonomy.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusUnauthorized || apiErr.HTTPStatusCode == http.StatusForbidden {
			return fmt.Errorf("%w: %v", ErrAuth, err)
		}
		return fmt.Errorf("%w (HTTP %d): %v", ErrStatus, apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("%w (HTTP %d): %v", ErrStatus, reqErr.HTTPStatusCode, err)
	}
	return fmt.Errorf("%w: %v", ErrTransport, err)
}

func callTimeout(config model.LLMConfig) time.Duration {
	if config.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(config.Timeout) * time.Second
}
