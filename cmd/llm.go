package cmd

import (
	"os"

	"impltrack/internal/llm"
)

// newLLMClient creates an LLM client from config/env, or returns nil if no
// API key is configured.
func newLLMClient() *llm.Client {
	apiKey := cfg.Anthropic.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil
	}
	return llm.NewClient(apiKey, cfg.Anthropic.Model)
}
