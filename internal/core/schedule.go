package core

import (
	"strings"
	"time"
)

// Day is a lowercase weekday key as used in generated schedules.
type Day string

const (
	Sunday    Day = "sunday"
	Monday    Day = "monday"
	Tuesday   Day = "tuesday"
	Wednesday Day = "wednesday"
	Thursday  Day = "thursday"
	Friday    Day = "friday"
	Saturday  Day = "saturday"
)

// Days is indexed by time.Weekday.
var Days = [7]Day{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// DayOf returns the key for a weekday.
func DayOf(wd time.Weekday) Day {
	return Days[wd]
}

// Weekday is the inverse of DayOf. Unknown keys report false.
func (d Day) Weekday() (time.Weekday, bool) {
	for i, k := range Days {
		if k == d {
			return time.Weekday(i), true
		}
	}
	return 0, false
}

// Category classifies a schedule block.
type Category string

const (
	CategoryStudy        Category = "study"
	CategoryDeadlineWork Category = "deadline_work"
	CategoryBreak        Category = "break"
	CategoryMeal         Category = "meal"
	CategoryPersonal     Category = "personal"
	CategoryPersonalTime Category = "personal_time"
	CategoryClass        Category = "class"
	CategoryEvent        Category = "event"
	CategoryOther        Category = "other"
)

var knownCategories = map[Category]bool{
	CategoryStudy:        true,
	CategoryDeadlineWork: true,
	CategoryBreak:        true,
	CategoryMeal:         true,
	CategoryPersonal:     true,
	CategoryPersonalTime: true,
	CategoryClass:        true,
	CategoryEvent:        true,
	CategoryOther:        true,
}

// NormalizeCategory folds free-form type strings onto a known category.
// "Deadline Work", "deadline-work" and "deadline" all map to deadline_work.
func NormalizeCategory(s string) Category {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if key == "deadline" {
		return CategoryDeadlineWork
	}
	if c := Category(key); knownCategories[c] {
		return c
	}
	return CategoryOther
}

// NoTime marks an item end that was missing or unparseable.
const NoTime = -1

// Item is one canonical schedule block. Start and End are minutes since
// midnight; End may be NoTime or not after Start, the grid fixes those up.
type Item struct {
	Day      Day
	Start    int
	End      int
	Label    string
	Category Category
}

// WeeklySchedule maps each day key to its blocks in start order.
// A missing key is the same as an empty day.
type WeeklySchedule map[Day][]Item

// Count returns the total number of blocks.
func (ws WeeklySchedule) Count() int {
	n := 0
	for _, items := range ws {
		n += len(items)
	}
	return n
}
