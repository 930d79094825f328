package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	empath "github.com/emberworks/empath-core-go"
)

// OpenRouterConfig configures the OpenAI-compatible HTTP backend.
type OpenRouterConfig struct {
	APIKey  string
	BaseURL string        // default https://openrouter.ai/api/v1
	Model   string        // default meta-llama/llama-3.1-8b-instruct
	Timeout time.Duration // HTTP client timeout, default 60s
}

// DefaultOpenRouterConfig returns sensible defaults.
func DefaultOpenRouterConfig(apiKey string) OpenRouterConfig {
	return OpenRouterConfig{
		APIKey:  apiKey,
		BaseURL: "https://openrouter.ai/api/v1",
		Model:   "meta-llama/llama-3.1-8b-instruct",
		Timeout: 60 * time.Second,
	}
}

// OpenRouterProvider speaks the OpenAI-compatible chat completion wire
// format over plain HTTP. Works against OpenRouter and any gateway that
// mirrors the protocol.
type OpenRouterProvider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOpenRouterProvider creates the backend.
func NewOpenRouterProvider(config OpenRouterConfig) *OpenRouterProvider {
	def := DefaultOpenRouterConfig(config.APIKey)
	if config.BaseURL == "" {
		config.BaseURL = def.BaseURL
	}
	if config.Model == "" {
		config.Model = def.Model
	}
	if config.Timeout <= 0 {
		config.Timeout = def.Timeout
	}
	return &OpenRouterProvider{
		apiKey:     config.APIKey,
		baseURL:    strings.TrimSuffix(config.BaseURL, "/"),
		model:      config.Model,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error,omitempty"`
}

// Name implements empath.Provider.
func (p *OpenRouterProvider) Name() string { return "openrouter" }

// Generate implements empath.Provider.
func (p *OpenRouterProvider) Generate(ctx context.Context, req *empath.GenerationRequest) (*empath.GenerationResult, error) {
	if p.apiKey == "" {
		return nil, &empath.ProviderError{Provider: p.Name(), Err: fmt.Errorf("API key not configured")}
	}

	messages := make([]chatMessage, 0, len(req.Messages))
	for _, turn := range req.Messages {
		messages = append(messages, chatMessage{Role: turn.Role, Content: turn.Content})
	}

	body, err := json.Marshal(chatRequest{Model: p.model, Messages: messages})
	if err != nil {
		return nil, &empath.ProviderError{Provider: p.Name(), Err: fmt.Errorf("marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, &empath.ProviderError{Provider: p.Name(), Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, &empath.ProviderError{Provider: p.Name(), Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &empath.ProviderError{Provider: p.Name(), Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &empath.ProviderError{
			Provider: p.Name(),
			Err:      fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(payload), 200)),
		}
	}

	var decoded chatResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, &empath.MalformedOutputError{Provider: p.Name(), Payload: string(payload)}
	}
	if decoded.Error != nil {
		return nil, &empath.ProviderError{Provider: p.Name(), Err: fmt.Errorf("upstream: %s", decoded.Error.Message)}
	}
	if len(decoded.Choices) == 0 || strings.TrimSpace(decoded.Choices[0].Message.Content) == "" {
		return nil, &empath.MalformedOutputError{Provider: p.Name(), Payload: string(payload)}
	}

	return &empath.GenerationResult{
		Kind: empath.ResultPlainText,
		Text: strings.TrimSpace(decoded.Choices[0].Message.Content),
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
