package ai

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"

	"github.com/ReiTony/petllm/internal/config"
)

// Sampling parameters match the original chat service.
const (
	openAITemperature = 0.6
	openAITopP        = 0.9
	openAIMaxTokens   = 2024
)

// OpenAIProvider talks to any OpenAI-compatible completion endpoint
// (Groq-hosted models in production) through the official SDK.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	logger *log.Logger
}

var _ Provider = (*OpenAIProvider)(nil)

// NewOpenAIProvider builds a provider from config.
func NewOpenAIProvider(cfg *config.Config, logger *log.Logger) *OpenAIProvider {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)
	return &OpenAIProvider{
		client: &client,
		model:  cfg.Model,
		logger: logger,
	}
}

func (p *OpenAIProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{}
	if systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	messages = append(messages, openai.UserMessage(userPrompt))

	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       p.model,
		Messages:    messages,
		Temperature: param.Opt[float64]{Value: openAITemperature},
		TopP:        param.Opt[float64]{Value: openAITopP},
		MaxTokens:   param.Opt[int64]{Value: openAIMaxTokens},
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("model returned no completion choices")
	}

	reply := cleanReply(completion.Choices[0].Message.Content)
	if isGarbageResponse(reply) {
		return "", ErrGarbage
	}

	p.logger.Debug("completion", "model", p.model, "len", len(reply))
	return reply, nil
}
