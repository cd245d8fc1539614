package jobs

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vk/shiftgrid/internal/slot"
)

var (
	// ErrInvalidRange is returned for a range whose ends do not parse or whose
	// end is not after its start.
	ErrInvalidRange = errors.New("job range end must be after its start")
	// ErrDuplicateRange is returned when the draft already holds the range.
	ErrDuplicateRange = errors.New("job range already added")
	// ErrNoSuchRange is returned by Remove for an index outside the draft.
	ErrNoSuchRange = errors.New("no such job range")
)

// Draft is the list of ranges being collected for a job before it is
// committed. Ranges are kept in canonical "HH:MM–HH:MM" form, unique and
// sorted.
type Draft struct {
	ranges []string
}

// Add validates start and end, then appends their canonical range.
func (d *Draft) Add(start, end string) (string, error) {
	from, okFrom := slot.Normalize(start)
	to, okTo := slot.Normalize(end)
	if !okFrom || !okTo {
		return "", fmt.Errorf("%w: %q–%q", ErrInvalidRange, start, end)
	}

	s, _ := slot.TimeToSlot(from)
	e, _ := slot.TimeToSlot(to)
	if e <= s {
		return "", fmt.Errorf("%w: %s–%s", ErrInvalidRange, from, to)
	}

	canonical := slot.FormatRange(from, to)
	if slices.Contains(d.ranges, canonical) {
		return "", fmt.Errorf("%w: %s", ErrDuplicateRange, canonical)
	}
	d.ranges = append(d.ranges, canonical)
	slices.Sort(d.ranges)
	return canonical, nil
}

// AddRange accepts a range written with either separator.
func (d *Draft) AddRange(raw string) (string, error) {
	start, end, ok := slot.SplitRange(raw)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidRange, raw)
	}
	return d.Add(start, end)
}

// Remove drops the range at index i.
func (d *Draft) Remove(i int) error {
	if i < 0 || i >= len(d.ranges) {
		return fmt.Errorf("%w: index %d", ErrNoSuchRange, i)
	}
	d.ranges = slices.Delete(d.ranges, i, i+1)
	return nil
}

// Ranges returns a copy of the pending ranges.
func (d *Draft) Ranges() []string {
	return slices.Clone(d.ranges)
}

// Len is the number of pending ranges.
func (d *Draft) Len() int {
	return len(d.ranges)
}

// Reset empties the draft.
func (d *Draft) Reset() {
	d.ranges = nil
}
