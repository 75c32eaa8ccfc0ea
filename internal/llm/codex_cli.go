package llm

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CodexCLIProvider shells out to the Codex CLI.
type CodexCLIProvider struct {
	model string
}

// NewCodexCLIProvider creates a Codex CLI provider.
func NewCodexCLIProvider(config Config) *CodexCLIProvider {
	model := config.Model
	if model == "" {
		model = "o3"
	}
	return &CodexCLIProvider{model: model}
}

func (p *CodexCLIProvider) Name() string {
	return "codex-cli"
}

// IsAvailable checks if the codex CLI is installed.
func (p *CodexCLIProvider) IsAvailable() bool {
	_, err := exec.LookPath("codex")
	return err == nil
}

func (p *CodexCLIProvider) Generate(ctx context.Context, prompt, model string) (string, error) {
	if model == "" || strings.HasPrefix(model, "claude-") {
		model = p.model
	}

	// Codex has no separate system prompt flag.
	combined := fmt.Sprintf("SYSTEM INSTRUCTIONS:\n%s\n\nUSER REQUEST:\n%s", SystemPrompt, prompt)

	cmd := exec.CommandContext(ctx, "codex",
		"--model", model,
		"--quiet",
	)
	cmd.Stdin = strings.NewReader(combined)

	return runCLI(cmd, "codex")
}
