package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ClaudeCLIProvider shells out to the Claude Code CLI, which is usually
// already authenticated on a developer machine.
type ClaudeCLIProvider struct {
	model string
}

// NewClaudeCLIProvider creates a Claude CLI provider.
func NewClaudeCLIProvider(config Config) *ClaudeCLIProvider {
	model := config.Model
	if model == "" {
		model = DefaultAnthropicModel
	}
	return &ClaudeCLIProvider{model: model}
}

func (p *ClaudeCLIProvider) Name() string {
	return "claude-cli"
}

// IsAvailable checks if the claude CLI is installed.
func (p *ClaudeCLIProvider) IsAvailable() bool {
	_, err := exec.LookPath("claude")
	return err == nil
}

func (p *ClaudeCLIProvider) Generate(ctx context.Context, prompt, model string) (string, error) {
	if model == "" {
		model = p.model
	}

	systemFile, err := os.CreateTemp("", "weekplan-system-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create system prompt file: %w", err)
	}
	defer os.Remove(systemFile.Name())

	if _, err := systemFile.WriteString(SystemPrompt); err != nil {
		systemFile.Close()
		return "", fmt.Errorf("failed to write system prompt: %w", err)
	}
	systemFile.Close()

	cmd := exec.CommandContext(ctx, "claude",
		"--model", model,
		"--system-prompt-file", systemFile.Name(),
		"--print",
		"--output-format", "text",
	)
	cmd.Stdin = strings.NewReader(prompt)

	return runCLI(cmd, "claude")
}

// runCLI runs cmd and returns stdout, folding stderr into the error.
func runCLI(cmd *exec.Cmd, name string) (string, error) {
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%s CLI failed: %s", name, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("%s CLI failed: %w", name, err)
	}
	return string(output), nil
}
