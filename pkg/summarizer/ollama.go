package summarizer

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"

	"leadflow/pkg/config"
	"leadflow/pkg/leaderrors"
)

// DefaultOllamaHost is used when no host URL is configured.
const DefaultOllamaHost = "http://localhost:11434"

// OllamaClient implements Client against a local Ollama server.
type OllamaClient struct {
	client  *api.Client
	counter *TokenCounter
	model   string
	budget  int
}

// NewOllamaClient creates an Ollama summarizer client.
func NewOllamaClient(cfg *config.SummarizerCfg) *OllamaClient {
	hostURL := cfg.HostURL
	if hostURL == "" {
		hostURL = DefaultOllamaHost
	}
	parsedURL, err := url.Parse(hostURL)
	if err != nil {
		parsedURL, _ = url.Parse(DefaultOllamaHost)
	}

	return &OllamaClient{
		client:  api.NewClient(parsedURL, http.DefaultClient),
		counter: NewTokenCounter(),
		model:   cfg.Model,
		budget:  cfg.MaxPromptTokens,
	}
}

// Summarize implements the Client interface.
func (c *OllamaClient) Summarize(ctx context.Context, prompt string) (string, error) {
	prompt = c.counter.Truncate(prompt, c.budget)

	stream := false
	req := &api.ChatRequest{
		Model: c.model,
		Messages: []api.Message{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: prompt},
		},
		Stream: &stream,
		Options: map[string]any{
			"temperature": SummaryTemperature,
			"num_predict": SummaryMaxOutputTokens,
		},
	}

	var response api.ChatResponse
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		response = resp
		return nil
	})
	if err != nil {
		return "", leaderrors.WithCause(leaderrors.KindExternalService, err, "Ollama chat failed")
	}
	if response.Message.Content == "" {
		return "", leaderrors.New(leaderrors.KindExternalService, "empty response from Ollama")
	}
	return response.Message.Content, nil
}

// ModelName returns the model name for this client.
func (c *OllamaClient) ModelName() string {
	return c.model
}
