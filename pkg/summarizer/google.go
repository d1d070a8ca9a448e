package summarizer

import (
	"context"

	"google.golang.org/genai"

	"leadflow/pkg/config"
	"leadflow/pkg/leaderrors"
)

// GoogleClient implements Client against the Gemini API.
type GoogleClient struct {
	client  *genai.Client // Created on first use; genai.NewClient requires a context
	counter *TokenCounter
	apiKey  string
	model   string
	budget  int
}

// NewGoogleClient creates a Gemini summarizer client.
func NewGoogleClient(cfg *config.SummarizerCfg) *GoogleClient {
	return &GoogleClient{
		counter: NewTokenCounter(),
		apiKey:  cfg.APIKey(),
		model:   cfg.Model,
		budget:  cfg.MaxPromptTokens,
	}
}

// Summarize implements the Client interface.
func (c *GoogleClient) Summarize(ctx context.Context, prompt string) (string, error) {
	if c.client == nil {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  c.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return "", leaderrors.WithCause(leaderrors.KindExternalService, err, "failed to create Gemini client")
		}
		c.client = client
	}

	prompt = c.counter.Truncate(prompt, c.budget)

	temp := float32(SummaryTemperature)
	genCfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: SummaryMaxOutputTokens,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: SystemPrompt}},
		},
	}
	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: prompt}}},
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, genCfg)
	if err != nil {
		return "", leaderrors.WithCause(leaderrors.KindExternalService, err, "Gemini API call failed")
	}
	if result == nil || result.Text() == "" {
		return "", leaderrors.New(leaderrors.KindExternalService, "empty response from Gemini API")
	}
	return result.Text(), nil
}

// ModelName returns the model name for this client.
func (c *GoogleClient) ModelName() string {
	return c.model
}
