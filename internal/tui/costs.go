package tui

import "fmt"

// ModelPricing is USD per 1M tokens for the models the planner can use.
var ModelPricing = map[string]struct {
	InputPer1M  float64
	OutputPer1M float64
}{
	"claude-opus-4-5-20251101":   {InputPer1M: 5.0, OutputPer1M: 25.0},
	"claude-sonnet-4-5-20250929": {InputPer1M: 3.0, OutputPer1M: 15.0},
	"claude-haiku-4-5-20251001":  {InputPer1M: 1.0, OutputPer1M: 5.0},
	"claude-sonnet-4-20250514":   {InputPer1M: 3.0, OutputPer1M: 15.0},
	"claude-3-haiku-20240307":    {InputPer1M: 0.25, OutputPer1M: 1.25},

	"gpt-4o":      {InputPer1M: 2.5, OutputPer1M: 10.0},
	"gpt-4o-mini": {InputPer1M: 0.15, OutputPer1M: 0.60},
	"o3":          {InputPer1M: 10.0, OutputPer1M: 40.0},
	"o3-mini":     {InputPer1M: 1.10, OutputPer1M: 4.40},

	// Unknown models, conservative
	"default": {InputPer1M: 5.0, OutputPer1M: 15.0},
}

// EstimateTokens approximates 1 token per 4 characters.
func EstimateTokens(chars int) int {
	if chars <= 0 {
		return 0
	}
	return chars / 4
}

// EstimateCost returns the USD cost of one request.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	pricing, ok := ModelPricing[model]
	if !ok {
		pricing = ModelPricing["default"]
	}
	return float64(inputTokens)*pricing.InputPer1M/1_000_000 +
		float64(outputTokens)*pricing.OutputPer1M/1_000_000
}

// EstimateRequestCost prices a prompt and its response by length.
func EstimateRequestCost(model, prompt, response string) float64 {
	return EstimateCost(model, EstimateTokens(len(prompt)), EstimateTokens(len(response)))
}

// FormatCost formats a cost in USD, with more precision for tiny amounts.
func FormatCost(cost float64) string {
	switch {
	case cost < 0.001:
		return fmt.Sprintf("$%.4f", cost)
	case cost < 0.01:
		return fmt.Sprintf("$%.3f", cost)
	}
	return fmt.Sprintf("$%.2f", cost)
}

// FormatTokens uses a k suffix for thousands.
func FormatTokens(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("%d", tokens)
	}
	if tokens < 10000 {
		return fmt.Sprintf("%.1fk", float64(tokens)/1000)
	}
	return fmt.Sprintf("%dk", tokens/1000)
}
