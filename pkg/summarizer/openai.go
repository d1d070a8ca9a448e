package summarizer

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"leadflow/pkg/config"
	"leadflow/pkg/leaderrors"
)

// OpenAIClient implements Client against any OpenAI-compatible chat completion
// endpoint. With a base URL override this covers Groq, which serves the Llama
// models the original deployment used.
type OpenAIClient struct {
	client  openai.Client
	counter *TokenCounter
	model   string
	budget  int
}

// NewOpenAIClient creates an OpenAI-compatible summarizer client.
func NewOpenAIClient(cfg *config.SummarizerCfg) *OpenAIClient {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey())}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIClient{
		client:  openai.NewClient(opts...),
		counter: NewTokenCounter(),
		model:   cfg.Model,
		budget:  cfg.MaxPromptTokens,
	}
}

// Summarize implements the Client interface.
func (c *OpenAIClient) Summarize(ctx context.Context, prompt string) (string, error) {
	prompt = c.counter.Truncate(prompt, c.budget)

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(SummaryTemperature),
		MaxTokens:   openai.Int(SummaryMaxOutputTokens),
	})
	if err != nil {
		return "", leaderrors.WithCause(leaderrors.KindExternalService, err, "chat completion failed")
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", leaderrors.New(leaderrors.KindExternalService, "empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

// ModelName returns the model name for this client.
func (c *OpenAIClient) ModelName() string {
	return c.model
}
