package domain

// ProviderLinks holds the remediation pointers shown when generation fails
// for reasons the user has to fix on the provider side.
type ProviderLinks struct {
	// NewKeyStep is the quota remediation step that rotates the API key.
	NewKeyStep string

	// BillingURL is where billing is enabled.
	BillingURL string

	// KeyURL is where the user checks their key.
	KeyURL string

	// ModelsURL lists the models available to a key.
	ModelsURL string
}

// ProviderLinksFor returns remediation links for the given provider.
func ProviderLinksFor(p AIProvider) ProviderLinks {
	switch p {
	case AIProviderGemini:
		return ProviderLinks{
			NewKeyStep: "Go to https://aistudio.google.com, create a New Project, and generate a fresh API key",
			BillingURL: "https://console.cloud.google.com/billing",
			KeyURL:     "https://aistudio.google.com/app/apikey",
			ModelsURL:  "https://ai.google.dev/gemini-api/docs/models",
		}
	case AIProviderOpenAI:
		return ProviderLinks{
			NewKeyStep: "Go to https://platform.openai.com/api-keys and generate a fresh API key",
			BillingURL: "https://platform.openai.com/settings/organization/billing",
			KeyURL:     "https://platform.openai.com/api-keys",
			ModelsURL:  "https://platform.openai.com/docs/models",
		}
	case AIProviderAnthropic:
		return ProviderLinks{
			NewKeyStep: "Go to https://console.anthropic.com/settings/keys and generate a fresh API key",
			BillingURL: "https://console.anthropic.com/settings/billing",
			KeyURL:     "https://console.anthropic.com/settings/keys",
			ModelsURL:  "https://docs.anthropic.com/en/docs/about-claude/models",
		}
	default:
		return ProviderLinks{
			NewKeyStep: "Check that the Ollama server is running and has capacity",
			BillingURL: "https://ollama.com",
			KeyURL:     "http://localhost:11434",
			ModelsURL:  "https://ollama.com/library",
		}
	}
}
