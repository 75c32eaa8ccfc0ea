package schedule

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	// MaxFeedbackLength bounds feedback text, in runes, before the ellipsis.
	MaxFeedbackLength = 1000

	// StructuredFiller replaces JSON-looking feedback that fails to parse.
	StructuredFiller = "AI returned structured data instead of text."
)

var fenceRe = regexp.MustCompile("```[A-Za-z0-9_-]*")

// ExtractJSON recovers the JSON payload from generator output. It unwraps
// CLI result envelopes, drops code fences and returns the first complete
// object or array; commentary before or after it is ignored.
func ExtractJSON(raw string) (string, error) {
	text := unwrapEnvelope(strings.TrimSpace(raw))
	text = strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))
	if text == "" {
		return "", &MalformedResponseError{Raw: raw, Reason: "empty response"}
	}

	for i, r := range text {
		if r != '{' && r != '[' {
			continue
		}
		var v json.RawMessage
		if err := json.NewDecoder(strings.NewReader(text[i:])).Decode(&v); err == nil {
			return string(v), nil
		}
	}
	if !strings.ContainsAny(text, "{[") {
		return "", &MalformedResponseError{Raw: raw, Reason: "no JSON found in response"}
	}
	return "", &MalformedResponseError{Raw: raw, Reason: "invalid JSON in response"}
}

// unwrapEnvelope returns the "result" text of a CLI JSON envelope such as
// {"type":"result","result":"..."}; anything else is returned unchanged.
func unwrapEnvelope(text string) string {
	if !strings.HasPrefix(text, "{") || !gjson.Valid(text) {
		return text
	}
	if gjson.Get(text, "type").String() != "result" {
		return text
	}
	if r := gjson.Get(text, "result"); r.Type == gjson.String {
		return strings.TrimSpace(r.String())
	}
	return text
}

// ExtractFeedback returns display text for a feedback or overview reply.
// Prose is kept as is. JSON-shaped replies yield their overview, summary or
// message field, the raw text when none exists, or StructuredFiller when
// they fail to parse. The result is always bounded by MaxFeedbackLength.
func ExtractFeedback(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))
	}

	if strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}") {
		if !gjson.Valid(text) {
			return Truncate(StructuredFiller, MaxFeedbackLength)
		}
		for _, key := range []string{"overview", "summary", "message"} {
			if r := gjson.Get(text, key); r.Type == gjson.String {
				text = strings.TrimSpace(r.String())
				break
			}
		}
	}
	return Truncate(text, MaxFeedbackLength)
}

// Truncate cuts s to max runes and appends "..." when anything was cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
