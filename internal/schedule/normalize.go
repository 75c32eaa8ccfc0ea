package schedule

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/dhabedank/weekplan/internal/core"
)

// UntitledLabel names items that arrive without any label.
const UntitledLabel = "Untitled"

// Options tunes how strictly a response is accepted.
type Options struct {
	// RequireAllDays rejects responses missing any of the seven day keys.
	// By default only "monday" must be present.
	RequireAllDays bool
}

// Parse extracts and normalizes raw generator output in one step.
func Parse(raw string, opts Options) (core.WeeklySchedule, error) {
	payload, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}
	return Normalize([]byte(payload), opts)
}

// Normalize converts a parsed response into a WeeklySchedule. Every day key
// is present in the result; missing days are empty.
func Normalize(data []byte, opts Options) (core.WeeklySchedule, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, &ShapeError{Field: "$", Message: "expected a JSON object keyed by day"}
	}

	days := make(map[core.Day]json.RawMessage, len(root))
	for k, v := range root {
		days[core.Day(strings.ToLower(strings.TrimSpace(k)))] = v
	}

	if _, ok := days[core.Monday]; !ok {
		return nil, &ShapeError{Field: string(core.Monday), Message: "required day key missing"}
	}
	if opts.RequireAllDays {
		for _, d := range core.Days {
			if _, ok := days[d]; !ok {
				return nil, &ShapeError{Field: string(d), Message: "required day key missing"}
			}
		}
	}

	ws := make(core.WeeklySchedule, len(core.Days))
	for _, d := range core.Days {
		raw, ok := days[d]
		if !ok || isNull(raw) {
			ws[d] = []core.Item{}
			continue
		}
		items, err := normalizeDay(d, raw)
		if err != nil {
			return nil, err
		}
		ws[d] = items
	}
	return ws, nil
}

func normalizeDay(day core.Day, raw json.RawMessage) ([]core.Item, error) {
	var entries []rawItem
	matched := false
	for _, a := range dayAdapters {
		if entries, matched = a.match(raw); matched {
			break
		}
	}
	if !matched {
		return nil, &ShapeError{Field: string(day), Message: "expected an array of items or an object with a schedule array"}
	}

	items := make([]core.Item, 0, len(entries))
	for _, e := range entries {
		if item, ok := e.toItem(day); ok {
			items = append(items, item)
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Start < items[j].Start })
	return items, nil
}

// dayAdapter recognizes one historical shape of a day value.
type dayAdapter interface {
	match(raw json.RawMessage) ([]rawItem, bool)
}

var dayAdapters = []dayAdapter{flatAdapter{}, nestedAdapter{}}

// flatAdapter: [{"time":"9:00-10:00","task":"...","type":"..."}, ...]
type flatAdapter struct{}

func (flatAdapter) match(raw json.RawMessage) ([]rawItem, bool) {
	if firstByte(raw) != '[' {
		return nil, false
	}
	var items []rawItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

// nestedAdapter: {"schedule":[{"start_time":"09:00","end_time":"10:00",...}]}.
// A null schedule is an empty day.
type nestedAdapter struct{}

func (nestedAdapter) match(raw json.RawMessage) ([]rawItem, bool) {
	if firstByte(raw) != '{' {
		return nil, false
	}
	var day struct {
		Schedule json.RawMessage `json:"schedule"`
	}
	if err := json.Unmarshal(raw, &day); err != nil || day.Schedule == nil {
		return nil, false
	}
	if isNull(day.Schedule) {
		return nil, true
	}
	var items []rawItem
	if err := json.Unmarshal(day.Schedule, &items); err != nil {
		return nil, false
	}
	return items, true
}

// rawItem is the union of item fields seen across response shapes.
type rawItem struct {
	Time      flexString `json:"time"`
	StartTime flexString `json:"start_time"`
	EndTime   flexString `json:"end_time"`
	Start     flexString `json:"start"`
	End       flexString `json:"end"`
	Task      flexString `json:"task"`
	Title     flexString `json:"title"`
	Name      flexString `json:"name"`
	Activity  flexString `json:"activity"`
	Type      flexString `json:"type"`
	Category  flexString `json:"category"`
}

func (r rawItem) toItem(day core.Day) (core.Item, bool) {
	var start, end int
	if s := firstNonEmpty(r.StartTime, r.Start); s != "" {
		var ok bool
		if start, ok = ParseTime(s); !ok {
			return core.Item{}, false
		}
		if end, ok = ParseTime(firstNonEmpty(r.EndTime, r.End)); !ok {
			end = core.NoTime
		}
	} else if r.Time != "" {
		var ok bool
		if start, end, ok = ParseRange(string(r.Time)); !ok {
			return core.Item{}, false
		}
	} else {
		return core.Item{}, false
	}

	label := firstNonEmpty(r.Task, r.Title, r.Name, r.Activity)
	if label == "" {
		label = UntitledLabel
	}
	return core.Item{
		Day:      day,
		Start:    start,
		End:      end,
		Label:    label,
		Category: core.NormalizeCategory(firstNonEmpty(r.Type, r.Category)),
	}, true
}

// flexString accepts JSON strings and numbers; anything else decodes empty.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0:
		*f = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		if _, err := strconv.ParseFloat(string(b), 64); err != nil {
			return err
		}
		*f = flexString(b)
	default:
		*f = ""
	}
	return nil
}

func firstNonEmpty(vals ...flexString) string {
	for _, v := range vals {
		if s := strings.TrimSpace(string(v)); s != "" {
			return s
		}
	}
	return ""
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// canonicalDay is the documented output shape of one day.
type canonicalDay struct {
	Schedule []canonicalItem `json:"schedule"`
}

type canonicalItem struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Task      string `json:"task"`
	Type      string `json:"type"`
}

// Marshal renders a schedule in the canonical nested shape. Normalizing the
// output again yields the same schedule.
func Marshal(ws core.WeeklySchedule) ([]byte, error) {
	out := make(map[core.Day]canonicalDay, len(core.Days))
	for _, d := range core.Days {
		items := ws[d]
		day := canonicalDay{Schedule: make([]canonicalItem, 0, len(items))}
		for _, it := range items {
			day.Schedule = append(day.Schedule, canonicalItem{
				StartTime: FormatTime(it.Start),
				EndTime:   FormatTime(it.End),
				Task:      it.Label,
				Type:      string(it.Category),
			})
		}
		out[d] = day
	}
	return json.MarshalIndent(out, "", "  ")
}
