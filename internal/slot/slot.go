// Package slot converts wall-clock times into half-hour slot indices and back.
//
// Slot i covers [i*30min, (i+1)*30min) measured from midnight. Hours past 23
// are accepted so that periods crossing midnight can be expressed as a single
// increasing range, e.g. "22:00–26:00".
package slot

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unknown is rendered for slot values that cannot be mapped to a time.
const Unknown = "??:??"

const (
	// EnDash is the preferred range separator.
	EnDash = "–"
	// Hyphen is accepted as a fallback separator.
	Hyphen = "-"
)

// MinutesPerSlot is the width of a single slot.
const MinutesPerSlot = 30

// MaxPeriodSlots caps a schedule period at one day of slots.
const MaxPeriodSlots = 48

// maxHour is the largest hour whose slot index still fits in an int.
const maxHour = (math.MaxInt - 1) / 2

// TimeToSlot parses "H:MM" or "HH:MM" into a slot index. The minute must lie
// in [0,59] and the hour must not be negative, so valid slots are never
// negative.
func TimeToSlot(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, false
	}
	if h < 0 || h > maxHour || m < 0 || m > 59 {
		return 0, false
	}
	return h*2 + m/MinutesPerSlot, true
}

// Normalize rewrites a valid time as zero-padded "HH:MM" without rounding
// the minute to its slot.
func Normalize(s string) (string, bool) {
	if _, ok := TimeToSlot(s); !ok {
		return "", false
	}
	parts := strings.Split(strings.TrimSpace(s), ":")
	h, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
	m, _ := strconv.Atoi(strings.TrimSpace(parts[1]))
	return fmt.Sprintf("%02d:%02d", h, m), true
}

// SlotToTime formats a slot index as zero-padded "HH:MM".
func SlotToTime(slot int) string {
	if slot < 0 {
		return Unknown
	}
	return fmt.Sprintf("%02d:%02d", slot/2, (slot%2)*MinutesPerSlot)
}

// ValueToTime is SlotToTime for loosely typed numeric input such as decoded
// JSON. Fractional, negative or non-finite values yield Unknown.
func ValueToTime(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v != math.Trunc(v) || v > math.MaxInt32 {
		return Unknown
	}
	return SlotToTime(int(v))
}

// Label is the compact "HHMM" column header for a slot.
func Label(slot int) string {
	if slot < 0 {
		return strings.ReplaceAll(Unknown, ":", "")
	}
	return fmt.Sprintf("%02d%02d", slot/2, (slot%2)*MinutesPerSlot)
}

// Range is a half-open interval of slots, [Start, End).
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len is the number of slots covered, or 0 for an empty or inverted range.
func (r Range) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Valid reports whether the range covers at least one slot.
func (r Range) Valid() bool {
	return r.End > r.Start
}

// Schedulable reports whether the range is non-empty and no longer than
// MaxPeriodSlots.
func (r Range) Schedulable() bool {
	return r.Valid() && r.Len() <= MaxPeriodSlots
}

// String renders the canonical "HH:MM–HH:MM" form.
func (r Range) String() string {
	return SlotToTime(r.Start) + EnDash + SlotToTime(r.End)
}

// ParseRange splits a range string on the en dash, or on a hyphen when no en
// dash is present, and parses both ends. It does not require End > Start;
// callers that need a non-empty range check Valid.
func ParseRange(s string) (Range, bool) {
	from, to, ok := SplitRange(s)
	if !ok {
		return Range{}, false
	}
	start, ok := TimeToSlot(from)
	if !ok {
		return Range{}, false
	}
	end, ok := TimeToSlot(to)
	if !ok {
		return Range{}, false
	}
	return Range{Start: start, End: end}, true
}

// SplitRange returns the trimmed start and end text of a range string
// without parsing either side.
func SplitRange(s string) (string, string, bool) {
	var parts []string
	switch {
	case strings.Contains(s, EnDash):
		parts = strings.Split(s, EnDash)
	case strings.Contains(s, Hyphen):
		parts = strings.Split(s, Hyphen)
	default:
		return "", "", false
	}
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}

// FormatRange joins two time strings with the en dash.
func FormatRange(start, end string) string {
	return strings.TrimSpace(start) + EnDash + strings.TrimSpace(end)
}
