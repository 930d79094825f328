package providers

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	empath "github.com/emberworks/empath-core-go"
)

// GeminiConfig configures the Gemini backend.
type GeminiConfig struct {
	APIKey string
	Model  string // default gemini-2.0-flash
}

// GeminiProvider generates replies through Google's GenAI API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates the backend.
func NewGeminiProvider(ctx context.Context, config GeminiConfig) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	model := config.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: config.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiProvider{client: client, model: model}, nil
}

// Name implements empath.Provider.
func (p *GeminiProvider) Name() string { return "gemini" }

// Generate implements empath.Provider.
func (p *GeminiProvider) Generate(ctx context.Context, req *empath.GenerationRequest) (*empath.GenerationResult, error) {
	var config *genai.GenerateContentConfig
	var contents []*genai.Content

	for _, turn := range req.Messages {
		switch turn.Role {
		case "system":
			// Gemini carries system text separately from the transcript.
			config = &genai.GenerateContentConfig{
				SystemInstruction: genai.NewContentFromText(turn.Content, genai.RoleUser),
			}
		case "assistant":
			contents = append(contents, genai.NewContentFromText(turn.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(turn.Content, genai.RoleUser))
		}
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return nil, &empath.ProviderError{Provider: p.Name(), Err: err}
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return nil, &empath.MalformedOutputError{Provider: p.Name(), Payload: fmt.Sprintf("%v", result)}
	}
	return &empath.GenerationResult{Kind: empath.ResultPlainText, Text: text}, nil
}
