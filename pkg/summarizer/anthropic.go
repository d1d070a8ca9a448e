package summarizer

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"leadflow/pkg/config"
	"leadflow/pkg/leaderrors"
)

// AnthropicClient implements Client against the Anthropic Messages API.
type AnthropicClient struct {
	client  anthropic.Client
	counter *TokenCounter
	model   anthropic.Model
	budget  int
}

// NewAnthropicClient creates an Anthropic summarizer client.
func NewAnthropicClient(cfg *config.SummarizerCfg) *AnthropicClient {
	return &AnthropicClient{
		client:  anthropic.NewClient(option.WithAPIKey(cfg.APIKey())),
		counter: NewTokenCounter(),
		model:   anthropic.Model(cfg.Model),
		budget:  cfg.MaxPromptTokens,
	}
}

// Summarize implements the Client interface.
func (c *AnthropicClient) Summarize(ctx context.Context, prompt string) (string, error) {
	prompt = c.counter.Truncate(prompt, c.budget)

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: SummaryMaxOutputTokens,
		System: []anthropic.TextBlockParam{{
			Text: SystemPrompt,
			Type: "text",
		}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(SummaryTemperature),
	})
	if err != nil {
		return "", leaderrors.WithCause(leaderrors.KindExternalService, err, "message creation failed")
	}
	if resp == nil || len(resp.Content) == 0 {
		return "", leaderrors.New(leaderrors.KindExternalService, "empty message response")
	}

	var text string
	for i := range resp.Content {
		block := &resp.Content[i]
		if block.Type == "text" {
			text += block.AsText().Text
		}
	}
	if text == "" {
		return "", leaderrors.New(leaderrors.KindExternalService, "no text content in message response")
	}
	return text, nil
}

// ModelName returns the model name for this client.
func (c *AnthropicClient) ModelName() string {
	return string(c.model)
}
