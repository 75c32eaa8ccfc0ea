package tui

import (
	"strings"
	"testing"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name     string
		chars    int
		expected int
	}{
		{"empty", 0, 0},
		{"negative", -10, 0},
		{"small", 40, 10},
		{"schedule prompt", 2000, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTokens(tt.chars); got != tt.expected {
				t.Errorf("EstimateTokens(%d) = %d, want %d", tt.chars, got, tt.expected)
			}
		})
	}
}

func TestEstimateCost(t *testing.T) {
	tests := []struct {
		name         string
		model        string
		inputTokens  int
		outputTokens int
		wantMin      float64
		wantMax      float64
	}{
		{"sonnet 4.5", "claude-sonnet-4-5-20250929", 1000, 500, 0.0104, 0.0106},
		{"haiku 4.5", "claude-haiku-4-5-20251001", 1000, 500, 0.0034, 0.0036},
		{"unknown model uses default", "unknown-model", 1000, 500, 0.0124, 0.0126},
		{"zero tokens", "claude-opus-4-5-20251101", 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateCost(tt.model, tt.inputTokens, tt.outputTokens)
			if got < tt.wantMin || got > tt.wantMax {
				t.Errorf("EstimateCost(%s, %d, %d) = %f, want between %f and %f",
					tt.model, tt.inputTokens, tt.outputTokens, got, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestEstimateRequestCost(t *testing.T) {
	prompt := strings.Repeat("x", 4000)
	response := strings.Repeat("y", 2000)
	got := EstimateRequestCost("claude-sonnet-4-5-20250929", prompt, response)
	want := EstimateCost("claude-sonnet-4-5-20250929", 1000, 500)
	if got != want {
		t.Errorf("EstimateRequestCost() = %f, want %f", got, want)
	}
}

func TestFormatCost(t *testing.T) {
	tests := []struct {
		cost     float64
		expected string
	}{
		{0.0001, "$0.0001"},
		{0.005, "$0.005"},
		{0.05, "$0.05"},
		{1.50, "$1.50"},
		{100.00, "$100.00"},
	}

	for _, tt := range tests {
		if got := FormatCost(tt.cost); got != tt.expected {
			t.Errorf("FormatCost(%f) = %s, want %s", tt.cost, got, tt.expected)
		}
	}
}

func TestFormatTokens(t *testing.T) {
	tests := []struct {
		tokens   int
		expected string
	}{
		{500, "500"},
		{1500, "1.5k"},
		{15000, "15k"},
	}

	for _, tt := range tests {
		if got := FormatTokens(tt.tokens); got != tt.expected {
			t.Errorf("FormatTokens(%d) = %s, want %s", tt.tokens, got, tt.expected)
		}
	}
}
