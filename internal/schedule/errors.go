// Package schedule turns raw generator text into a canonical weekly schedule.
package schedule

import "fmt"

// MalformedResponseError means no parseable JSON could be recovered from the
// generator output. Raw holds the offending text for diagnostics only.
type MalformedResponseError struct {
	Raw    string
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: %s", e.Reason)
}

// ShapeError means the JSON parsed but does not look like a weekly schedule.
type ShapeError struct {
	Field   string
	Message string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("shape error: %s - %s", e.Field, e.Message)
}
