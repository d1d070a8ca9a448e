// Package config provides configuration loading, validation, and caching for the
// lead qualification service. App settings come from a YAML file; the per-industry
// question scripts are JSON documents loaded through a process-wide cache.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Summarizer provider constants.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGoogle    = "google"
	ProviderOllama    = "ollama"
)

// Defaults applied when the app config omits a value.
const (
	DefaultListenAddr      = ":3000"
	DefaultDBPath          = "leadflow.db"
	DefaultIndustry        = "real-estate"
	DefaultScriptDir       = "config"
	DefaultProvider        = ProviderOpenAI
	DefaultSummaryModel    = "llama-3.1-8b-instant"
	DefaultMaxPromptTokens = 4096
)

// SummarizerCfg defines the configuration for the summarizer provider.
type SummarizerCfg struct {
	Provider        string `yaml:"provider"`          // "openai", "anthropic", "google", "ollama"
	Model           string `yaml:"model"`             // Provider model name
	APIKeyEnv       string `yaml:"api_key_env"`       // Env var holding the API key
	BaseURL         string `yaml:"base_url"`          // Optional override (Groq's OpenAI-compatible endpoint)
	HostURL         string `yaml:"host_url"`          // Ollama server URL
	MaxPromptTokens int    `yaml:"max_prompt_tokens"` // Prompt truncation budget
}

// AppConfig represents the service-level configuration.
type AppConfig struct {
	ListenAddr string        `yaml:"listen_addr"`
	DBPath     string        `yaml:"db_path"`
	Industry   string        `yaml:"industry"`
	ScriptDir  string        `yaml:"script_dir"`
	Summarizer SummarizerCfg `yaml:"summarizer"`
}

// LoadApp reads and validates the app config from a YAML file.
// A missing file yields the defaults; a malformed file is an error.
func LoadApp(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read app config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse app config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.DBPath == "" {
		c.DBPath = DefaultDBPath
	}
	if c.Industry == "" {
		c.Industry = DefaultIndustry
	}
	if c.ScriptDir == "" {
		c.ScriptDir = DefaultScriptDir
	}
	if c.Summarizer.Provider == "" {
		c.Summarizer.Provider = DefaultProvider
	}
	if c.Summarizer.Model == "" {
		c.Summarizer.Model = DefaultSummaryModel
	}
	if c.Summarizer.MaxPromptTokens <= 0 {
		c.Summarizer.MaxPromptTokens = DefaultMaxPromptTokens
	}
}

func (c *AppConfig) validate() error {
	switch c.Summarizer.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderGoogle, ProviderOllama:
	default:
		return fmt.Errorf("unknown summarizer provider: %q", c.Summarizer.Provider)
	}
	return nil
}

// APIKey resolves the summarizer API key from the configured environment variable.
func (c *SummarizerCfg) APIKey() string {
	if c.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.APIKeyEnv)
}
