package planner

import (
	"context"
	"errors"

	"github.com/dhabedank/weekplan/internal/llm"
	"github.com/dhabedank/weekplan/internal/schedule"
)

// User-facing messages, one per failure class.
const (
	MsgConnection    = "Could not reach the planning service. Check that the relay is running and try again."
	MsgInvalidFormat = "The AI returned an invalid format. Please try again."
	MsgNoTasks       = "Add at least one pending task before generating a schedule."
	MsgNoStudyLogs   = "Log a study session first to get feedback."
	MsgCancelled     = "Request cancelled."
	MsgUnexpected    = "Something went wrong while generating. Please try again."
)

// UserMessage maps a pipeline error to the single line shown to the user.
// Malformed and mis-shaped responses read the same.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var (
		rf *llm.RequestFailure
		me *schedule.MalformedResponseError
		se *schedule.ShapeError
	)
	switch {
	case errors.Is(err, ErrNoPendingTasks):
		return MsgNoTasks
	case errors.Is(err, ErrNoStudyLogs):
		return MsgNoStudyLogs
	case errors.Is(err, context.Canceled):
		return MsgCancelled
	case errors.As(err, &rf):
		if rf.Kind == llm.FailureEmpty {
			return MsgInvalidFormat
		}
		return MsgConnection
	case errors.As(err, &me), errors.As(err, &se):
		return MsgInvalidFormat
	}
	return MsgUnexpected
}
