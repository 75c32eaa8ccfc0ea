package grid

import (
	"strings"

	"github.com/dhabedank/weekplan/internal/core"
)

// DefaultPalette is the round-robin palette for study and deadline lanes.
var DefaultPalette = []string{
	"#8e44ad", // Purple
	"#2980b9", // Blue
	"#16a085", // Teal
	"#d35400", // Pumpkin
	"#c0392b", // Red
	"#27ae60", // Green
	"#f39c12", // Amber
	"#2c3e50", // Navy
}

// CategoryColors is used for every category that does not get a lane.
var CategoryColors = map[core.Category]string{
	core.CategoryBreak:        "#7f8c8d",
	core.CategoryMeal:         "#e67e22",
	core.CategoryPersonal:     "#1abc9c",
	core.CategoryPersonalTime: "#1abc9c",
	core.CategoryClass:        "#34495e",
	core.CategoryEvent:        "#e74c3c",
	core.CategoryOther:        "#95a5a6",
}

// labelPrefixes are stripped from labels before keying a lane.
var labelPrefixes = []string{"work on", "study for", "finish", "submit", "prepare", "review", "read"}

// Lanes assigns palette colors to task keys for one generated schedule.
// Build a new value per schedule; it is not safe for concurrent use.
type Lanes struct {
	palette  []string
	assigned map[string]string
	next     int
}

// NewLanes starts an empty assignment. A nil palette means DefaultPalette.
func NewLanes(palette []string) *Lanes {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return &Lanes{palette: palette, assigned: make(map[string]string)}
}

// ColorFor returns the block color for an item.
func (l *Lanes) ColorFor(it core.Item) string {
	switch it.Category {
	case core.CategoryStudy, core.CategoryDeadlineWork:
		return l.Lane(LaneKey(it.Label))
	}
	if c, ok := CategoryColors[it.Category]; ok {
		return c
	}
	return CategoryColors[core.CategoryOther]
}

// Lane looks up or allocates the color for a key.
func (l *Lanes) Lane(key string) string {
	if c, ok := l.assigned[key]; ok {
		return c
	}
	c := l.palette[l.next%len(l.palette)]
	l.next++
	l.assigned[key] = c
	return c
}

// Len is the number of keys assigned so far.
func (l *Lanes) Len() int {
	return len(l.assigned)
}

// LaneKey normalizes a label so related blocks share a lane:
// "Study for Math (ch. 3)" and "math: review" both key to "math".
func LaneKey(label string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	if i := strings.IndexAny(key, ":("); i >= 0 {
		key = strings.TrimSpace(key[:i])
	}
	base := key
	for _, p := range labelPrefixes {
		if key == p {
			key = ""
			break
		}
		if strings.HasPrefix(key, p+" ") {
			key = strings.TrimSpace(key[len(p):])
			break
		}
	}
	if key == "" {
		return base
	}
	return key
}
