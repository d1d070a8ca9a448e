package summarizer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"leadflow/pkg/config"
)

func TestBuildPrompt(t *testing.T) {
	keys := []string{"city", "budget", "timeline"}
	answers := map[string]string{
		"city":     "Mumbai",
		"budget":   "1 crore",
		"timeline": "3 months",
	}

	prompt := BuildPrompt("Hot", keys, answers)

	want := "Summarize the following real estate lead info in a friendly way, " +
		"mention the lead is Hot, and thank the user: " +
		"city: Mumbai, budget: 1 crore, timeline: 3 months"
	if prompt != want {
		t.Errorf("BuildPrompt mismatch:\ngot  %q\nwant %q", prompt, want)
	}
}

func TestBuildPromptFollowsKeyOrder(t *testing.T) {
	keys := []string{"b", "a"}
	answers := map[string]string{"a": "1", "b": "2"}

	prompt := BuildPrompt("Cold", keys, answers)
	if !strings.HasSuffix(prompt, "b: 2, a: 1") {
		t.Errorf("context pairs not in key order: %q", prompt)
	}
}

func TestBuildPromptSkipsMissingKeys(t *testing.T) {
	prompt := BuildPrompt("Cold", []string{"city", "budget"}, map[string]string{"city": "Pune"})
	if strings.Contains(prompt, "budget") {
		t.Errorf("missing answer should be omitted: %q", prompt)
	}
}

func TestNewSelectsProvider(t *testing.T) {
	tests := []struct {
		provider string
		model    string
	}{
		{config.ProviderOpenAI, "llama-3.1-8b-instant"},
		{config.ProviderAnthropic, "claude-sonnet-4-20250514"},
		{config.ProviderGoogle, "gemini-2.0-flash"},
		{config.ProviderOllama, "llama3"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			client, err := New(&config.SummarizerCfg{Provider: tt.provider, Model: tt.model})
			if err != nil {
				t.Fatalf("New(%s) failed: %v", tt.provider, err)
			}
			if client.ModelName() != tt.model {
				t.Errorf("ModelName() = %q, want %q", client.ModelName(), tt.model)
			}
		})
	}
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	if _, err := New(&config.SummarizerCfg{Provider: "mystery"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestMockClient(t *testing.T) {
	mock := NewMockClient("summary text")

	got, err := mock.Summarize(context.Background(), "prompt one")
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if got != "summary text" {
		t.Errorf("got %q", got)
	}

	mock.SetError(errors.New("service down"))
	if _, err := mock.Summarize(context.Background(), "prompt two"); err == nil {
		t.Fatal("expected error after SetError")
	}

	if mock.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2", mock.Calls())
	}
	if mock.LastPrompt() != "prompt two" {
		t.Errorf("LastPrompt() = %q", mock.LastPrompt())
	}
}

func TestTokenCounter(t *testing.T) {
	tc := NewTokenCounter()

	if got := tc.Count(""); got != 0 {
		t.Errorf("Count(\"\") = %d, want 0", got)
	}
	if got := tc.Count("hello world, this is a lead summary prompt"); got <= 0 {
		t.Errorf("Count returned %d for non-empty text", got)
	}
}

func TestTokenCounterTruncate(t *testing.T) {
	tc := NewTokenCounter()
	text := strings.Repeat("lead qualification summary ", 200)

	short := tc.Truncate(text, 10)
	if tc.Count(short) > 10 {
		t.Errorf("truncated text still has %d tokens", tc.Count(short))
	}

	if got := tc.Truncate("short", 100); got != "short" {
		t.Errorf("text under budget should be unchanged, got %q", got)
	}
	if got := tc.Truncate(text, 0); got != text {
		t.Errorf("zero budget disables truncation")
	}
}
