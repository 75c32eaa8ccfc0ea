package schedule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dhabedank/weekplan/internal/core"
)

// MinutesPerDay is also the value of "24:00".
const MinutesPerDay = 24 * 60

type meridiem int

const (
	noMeridiem meridiem = iota
	am
	pm
)

// ParseTime converts "13:30", "9", "1:05 PM", "9am" or "24:00" into minutes
// since midnight. 12 AM is 0 and 12 PM is 720.
func ParseTime(s string) (int, bool) {
	m, _, ok := parseClock(s)
	return m, ok
}

// meridiemDots folds "a.m." and "p.m." into "am" and "pm". Other dots stay
// so decimals such as "1.5" fail to parse.
var meridiemDots = strings.NewReplacer("a.m.", "am", "p.m.", "pm", "a.m", "am", "p.m", "pm")

func parseClock(s string) (int, meridiem, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	s = meridiemDots.Replace(s)

	mer := noMeridiem
	switch {
	case strings.HasSuffix(s, "am"):
		mer, s = am, strings.TrimSuffix(s, "am")
	case strings.HasSuffix(s, "pm"):
		mer, s = pm, strings.TrimSuffix(s, "pm")
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, mer, false
	}
	hour, ok := atoi(parts[0], 2)
	if !ok {
		return 0, mer, false
	}
	minute := 0
	if len(parts) >= 2 {
		if minute, ok = atoi(parts[1], 2); !ok || minute > 59 {
			return 0, mer, false
		}
	}
	if len(parts) == 3 {
		if sec, ok := atoi(parts[2], 2); !ok || sec > 59 {
			return 0, mer, false
		}
	}

	switch mer {
	case am, pm:
		if hour < 1 || hour > 12 {
			return 0, mer, false
		}
		hour %= 12
		if mer == pm {
			hour += 12
		}
	default:
		if hour == 24 && minute == 0 {
			return MinutesPerDay, mer, true
		}
		if hour > 23 {
			return 0, mer, false
		}
	}
	return hour*60 + minute, mer, true
}

// atoi accepts 1..maxDigits ASCII digits only.
func atoi(s string, maxDigits int) (int, bool) {
	if s == "" || len(s) > maxDigits {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// ParseRange splits a combined "9:00-10:00" or "9:00 - 10:00" string.
// A meridiem on the end only ("1-2pm") carries over to the start. End is
// core.NoTime when absent or unparseable; ok is false when start is bad.
func ParseRange(s string) (start, end int, ok bool) {
	s = strings.NewReplacer("–", "-", "—", "-", " to ", "-").Replace(s)
	left, right, found := strings.Cut(s, "-")

	start, startMer, ok := parseClock(left)
	if !ok {
		return 0, core.NoTime, false
	}
	if !found {
		return start, core.NoTime, true
	}

	end, endMer, endOK := parseClock(right)
	if !endOK {
		return start, core.NoTime, true
	}
	if startMer == noMeridiem && endMer != noMeridiem {
		if fixed, _, ok := parseClock(strings.TrimSpace(left) + meridiemSuffix(endMer)); ok && fixed < end {
			start = fixed
		}
	}
	return start, end, true
}

func meridiemSuffix(m meridiem) string {
	if m == pm {
		return "pm"
	}
	return "am"
}

// FormatTime renders minutes as 24-hour "HH:MM"; core.NoTime renders empty.
func FormatTime(minutes int) string {
	if minutes < 0 {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
