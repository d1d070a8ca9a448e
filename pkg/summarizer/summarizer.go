// Package summarizer is the gateway to the hosted text-generation service that
// phrases the final lead summary. One synchronous call per completed dialog,
// no retries, no caching; every failure surfaces as an external-service error
// carrying the upstream message. Provider implementations live in sibling
// files, selected by the factory.
package summarizer

import (
	"context"
	"fmt"
	"strings"

	"leadflow/pkg/config"
)

// SystemPrompt frames every summary request.
const SystemPrompt = "You are a helpful AI that summarizes real estate lead information in a friendly tone."

// Generation parameters for the summary call.
const (
	SummaryTemperature     = 0.7
	SummaryMaxOutputTokens = 500
)

// Client generates prose from a structured prompt.
type Client interface {
	// Summarize turns the prompt into prose. Failures are
	// leaderrors.KindExternalService.
	Summarize(ctx context.Context, prompt string) (string, error)

	// ModelName returns the provider model in use.
	ModelName() string
}

// BuildPrompt renders the fixed summary instruction over the answer context.
// Context pairs are joined "key: value" with ", " in question order.
func BuildPrompt(tier string, keys []string, answers map[string]string) string {
	pairs := make([]string, 0, len(answers))
	for _, key := range keys {
		if v, ok := answers[key]; ok {
			pairs = append(pairs, fmt.Sprintf("%s: %s", key, v))
		}
	}
	return fmt.Sprintf(
		"Summarize the following real estate lead info in a friendly way, mention the lead is %s, and thank the user: %s",
		tier, strings.Join(pairs, ", "))
}

// New creates the configured provider client.
func New(cfg *config.SummarizerCfg) (Client, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg), nil
	case config.ProviderAnthropic:
		return NewAnthropicClient(cfg), nil
	case config.ProviderGoogle:
		return NewGoogleClient(cfg), nil
	case config.ProviderOllama:
		return NewOllamaClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown summarizer provider: %q", cfg.Provider)
	}
}
