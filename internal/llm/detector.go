package llm

import (
	"fmt"
	"os"
	"os/exec"
)

// ModelInfo describes an available model.
type ModelInfo struct {
	ID          string // Model identifier (e.g., "claude-sonnet-4-5-20250929")
	Name        string // Human-readable name
	Description string // Brief description
	Provider    string // "anthropic" or "openai"
}

// claudeModels lists Claude models reachable via CLI or API.
var claudeModels = []ModelInfo{
	{ID: "claude-opus-4-5-20251101", Name: "Claude Opus 4.5", Description: "Most thorough plans, slowest ($5/$25 per MTok)", Provider: "anthropic"},
	{ID: "claude-sonnet-4-5-20250929", Name: "Claude Sonnet 4.5", Description: "Best balance for weekly schedules ($3/$15 per MTok)", Provider: "anthropic"},
	{ID: "claude-haiku-4-5-20251001", Name: "Claude Haiku 4.5", Description: "Fast and cheap, good for feedback ($1/$5 per MTok)", Provider: "anthropic"},
	{ID: "claude-sonnet-4-20250514", Name: "Claude Sonnet 4", Description: "Previous balanced model ($3/$15 per MTok)", Provider: "anthropic"},
	{ID: "claude-3-haiku-20240307", Name: "Claude 3 Haiku", Description: "Legacy budget model ($0.25/$1.25 per MTok)", Provider: "anthropic"},
}

// codexModels lists OpenAI models available via the Codex CLI.
var codexModels = []ModelInfo{
	{ID: "o3", Name: "O3", Description: "Most capable reasoning model", Provider: "openai"},
	{ID: "o3-mini", Name: "O3 Mini", Description: "Fast reasoning model", Provider: "openai"},
	{ID: "gpt-4o", Name: "GPT-4o", Description: "Fast multimodal model", Provider: "openai"},
	{ID: "gpt-4o-mini", Name: "GPT-4o Mini", Description: "Most cost-effective", Provider: "openai"},
}

// AvailableModels returns models grouped by provider based on what is
// installed or configured.
func AvailableModels() map[string][]ModelInfo {
	result := make(map[string][]ModelInfo)

	_, claudeErr := exec.LookPath("claude")
	if claudeErr == nil || os.Getenv("ANTHROPIC_API_KEY") != "" {
		result["anthropic"] = claudeModels
	}

	if _, err := exec.LookPath("codex"); err == nil {
		result["openai"] = codexModels
	}

	return result
}

// AllModels returns a flat list of all available models, Claude first.
func AllModels() []ModelInfo {
	available := AvailableModels()
	var result []ModelInfo
	result = append(result, available["anthropic"]...)
	result = append(result, available["openai"]...)
	return result
}

// NewProvider builds a provider by name: auto, claude-cli, codex-cli or
// anthropic-api.
func NewProvider(name string, config Config) (Provider, error) {
	switch name {
	case "", "auto":
		return DetectBestProvider(config)
	case "claude-cli":
		p := NewClaudeCLIProvider(config)
		if !p.IsAvailable() {
			return nil, fmt.Errorf("Claude CLI not available - install Claude Code")
		}
		return p, nil
	case "codex-cli":
		p := NewCodexCLIProvider(config)
		if !p.IsAvailable() {
			return nil, fmt.Errorf("Codex CLI not available - install Codex")
		}
		return p, nil
	case "anthropic-api":
		return NewAnthropicProvider(config)
	default:
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
}

// DetectBestProvider finds the best available provider.
// Priority: Claude CLI > Codex CLI > Anthropic API when PreferCLI is set,
// otherwise the API comes first.
func DetectBestProvider(config Config) (Provider, error) {
	if !config.PreferCLI {
		if api, err := NewAnthropicProvider(config); err == nil {
			return api, nil
		}
	}

	claude := NewClaudeCLIProvider(config)
	if claude.IsAvailable() {
		return claude, nil
	}

	codex := NewCodexCLIProvider(config)
	if codex.IsAvailable() {
		return codex, nil
	}

	if api, err := NewAnthropicProvider(config); err == nil {
		return api, nil
	}

	return nil, fmt.Errorf("no provider available - install Claude Code, Codex, or set ANTHROPIC_API_KEY")
}

// ListAvailableProviders returns the names of all usable providers.
func ListAvailableProviders(config Config) []string {
	available := []string{}

	if NewClaudeCLIProvider(config).IsAvailable() {
		available = append(available, "claude-cli")
	}
	if NewCodexCLIProvider(config).IsAvailable() {
		available = append(available, "codex-cli")
	}
	if _, err := NewAnthropicProvider(config); err == nil {
		available = append(available, "anthropic-api")
	}

	return available
}
