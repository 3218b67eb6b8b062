package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/neersetu/neersetu/internal/model"
	"github.com/neersetu/neersetu/internal/util"
)

// OllamaBackend implements the Backend interface for local Ollama models.
// Ollama speaks a small JSON API; no SDK required.
type OllamaBackend struct {
	baseURL    string
	httpClient *http.Client
	config     model.LLMConfig
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"` // Max tokens
}

type ollamaChatResponse struct {
	Model   string        `json:"model"`
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

type ollamaErrorResponse struct {
	Error string `json:"error"`
}

// NewOllamaBackend creates a new Ollama backend.
func NewOllamaBackend(config model.LLMConfig) (*OllamaBackend, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	return &OllamaBackend{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: util.NewHTTPClient(callTimeout(config), config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
		config:     config,
	}, nil
}

// Name returns the backend name.
func (b *OllamaBackend) Name() string {
	return "ollama"
}

// IsAvailable checks if an Ollama server is reachable.
func (b *OllamaBackend) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK
}

// Generate produces a completion via Ollama's chat endpoint.
func (b *OllamaBackend) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	chatModel := b.config.Model
	if chatModel == "" {
		chatModel = "llama3.2"
	}

	payload := ollamaChatRequest{
		Model: chatModel,
		Messages: []ollamaMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Stream: false,
		Options: ollamaOptions{
			Temperature: 0,
			NumPredict:  b.config.MaxTokens,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", ErrTransport, err)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, callTimeout(b.config))
	defer cancel()

	req, err := http.NewRequestWithContext(ctxWithTimeout, http.MethodPost,
		b.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr ollamaErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return "", fmt.Errorf("%w (HTTP %d): %s", ErrStatus, resp.StatusCode, apiErr.Error)
		}
		return "", fmt.Errorf("%w (HTTP %d)", ErrStatus, resp.StatusCode)
	}

	var chatResp ollamaChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrStatus, err)
	}
	return strings.TrimSpace(chatResp.Message.Content), nil
}
