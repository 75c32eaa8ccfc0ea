package llm

import (
	"context"
)

// SystemPrompt frames every request sent straight to a provider.
const SystemPrompt = `You are a careful weekly planning assistant for a student. Follow the requested output format exactly. When JSON is requested, output ONLY the JSON object.`

// Generator turns one prompt into raw model text.
type Generator interface {
	// Generate sends the prompt to the given model. An empty model means the
	// implementation's default.
	Generate(ctx context.Context, prompt, model string) (string, error)
}

// Provider is a Generator backed by a concrete model service.
type Provider interface {
	Generator

	// Name returns the provider identifier for logging.
	Name() string

	// IsAvailable checks if this provider can be used (CLI installed, API key set, etc.)
	IsAvailable() bool
}

// Config holds configuration for providers.
type Config struct {
	// PreferCLI prefers CLI tools (claude, codex) over API when available.
	PreferCLI bool

	// Model is the default model when a request does not name one.
	Model string

	// APIKey for direct API access (optional if CLI is used).
	APIKey string

	// MaxTokens limits response length.
	MaxTokens int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		PreferCLI: true,
		MaxTokens: 4096,
	}
}
