// Package providers contains the concrete generation backends consumed by
// the orchestration core, plus environment-based detection that builds the
// priority list. Every backend adapts one upstream SDK/API to the
// empath.Provider contract and maps its failures onto the core's error
// taxonomy.
package providers

import (
	"context"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	empath "github.com/emberworks/empath-core-go"
)

// OpenAIConfig configures the OpenAI backend.
type OpenAIConfig struct {
	APIKey string
	Model  string // default gpt-4o-mini
}

// OpenAIProvider generates replies through the OpenAI chat API.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider creates the backend.
func NewOpenAIProvider(config OpenAIConfig) *OpenAIProvider {
	model := config.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIProvider{
		client: openai.NewClient(option.WithAPIKey(config.APIKey)),
		model:  model,
	}
}

// Name implements empath.Provider.
func (p *OpenAIProvider) Name() string { return "openai" }

// Generate implements empath.Provider.
func (p *OpenAIProvider) Generate(ctx context.Context, req *empath.GenerationRequest) (*empath.GenerationResult, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, turn := range req.Messages {
		switch turn.Role {
		case "system":
			messages = append(messages, openai.SystemMessage(turn.Content))
		case "assistant":
			messages = append(messages, openai.AssistantMessage(turn.Content))
		default:
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.model),
		Messages: messages,
	})
	if err != nil {
		return nil, &empath.ProviderError{Provider: p.Name(), Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &empath.MalformedOutputError{Provider: p.Name(), Payload: resp.RawJSON()}
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, &empath.MalformedOutputError{Provider: p.Name(), Payload: resp.RawJSON()}
	}
	return &empath.GenerationResult{Kind: empath.ResultPlainText, Text: text}, nil
}
