package tui

import (
	"fmt"
	"time"
)

// Step records one model request made by a non-interactive command.
type Step struct {
	Name        string
	Model       string
	InputChars  int
	OutputChars int
	Duration    time.Duration
}

// Cost is the estimated USD cost of the step.
func (s Step) Cost() float64 {
	return EstimateCost(s.Model, EstimateTokens(s.InputChars), EstimateTokens(s.OutputChars))
}

// RenderStepStart announces a request before it is sent.
func RenderStepStart(name, model string, inputChars int) string {
	return fmt.Sprintf("%s %s  %s  ~%s input tokens",
		SpinnerStyle.Render("→"),
		StepStyle.Render(name),
		ModelStyle.Render(model),
		FormatTokens(EstimateTokens(inputChars)),
	)
}

// RenderStepComplete reports a finished request.
func RenderStepComplete(s Step) string {
	tokens := EstimateTokens(s.InputChars) + EstimateTokens(s.OutputChars)
	return fmt.Sprintf("%s %s  %s  ~%s tokens  %s",
		SuccessStyle.Render("✓"),
		StepStyle.Render(s.Name),
		HelpStyle.Render(s.Duration.Truncate(time.Second).String()),
		FormatTokens(tokens),
		CostStyle.Render(FormatCost(s.Cost())),
	)
}

// RenderStepFailed reports a failed request with a user-facing message.
func RenderStepFailed(name, message string) string {
	return fmt.Sprintf("%s %s  %s", ErrorStyle.Render("✗"), StepStyle.Render(name), ErrorStyle.Render(message))
}
