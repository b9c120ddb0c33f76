package main

import (
	"github.com/custodia-labs/docqa/internal/core/domain"
)

// providerKeyEnv names the environment variables holding each provider's
// API key, in order of preference.
var providerKeyEnv = map[domain.AIProvider][]string{
	domain.AIProviderGemini:    {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	domain.AIProviderOpenAI:    {"OPENAI_API_KEY"},
	domain.AIProviderAnthropic: {"ANTHROPIC_API_KEY"},
}

// dsnEnv overrides the postgres connection string.
const dsnEnv = "DOCQA_DSN"

// applyEnv overlays API keys and the index DSN from the environment.
// Values already in the config file win, so the environment only fills gaps.
func applyEnv(settings *domain.AppSettings, getenv func(string) string) {
	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = keyFromEnv(settings.Embedding.Provider, getenv)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = keyFromEnv(settings.LLM.Provider, getenv)
	}
	if settings.Index.DSN == "" {
		settings.Index.DSN = getenv(dsnEnv)
	}
}

func keyFromEnv(provider domain.AIProvider, getenv func(string) string) string {
	for _, name := range providerKeyEnv[provider] {
		if v := getenv(name); v != "" {
			return v
		}
	}
	return ""
}
