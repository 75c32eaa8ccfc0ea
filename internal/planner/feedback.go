package planner

import (
	"context"
	"errors"

	"github.com/dhabedank/weekplan/internal/core"
	"github.com/dhabedank/weekplan/internal/llm"
	"github.com/dhabedank/weekplan/internal/schedule"
)

// ErrNoStudyLogs is returned when feedback is requested with an empty log.
var ErrNoStudyLogs = errors.New("no study sessions logged yet")

// Feedback asks gen for coaching on logs and returns display-ready text.
func Feedback(ctx context.Context, gen llm.Generator, model string, logs []core.StudyLogEntry) (string, error) {
	if len(logs) == 0 {
		return "", ErrNoStudyLogs
	}
	raw, err := gen.Generate(ctx, core.BuildFeedbackPrompt(logs), model)
	if err != nil {
		return "", err
	}
	return schedule.ExtractFeedback(raw), nil
}
