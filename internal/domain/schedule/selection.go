package schedule

import "sort"

// DaySelection is the set of weekdays a guest has toggled on, kept sorted
// ascending. The zero value is an empty selection (no stay yet).
type DaySelection []Weekday

// NewSelection builds a selection from arbitrary input, dropping invalid
// values and duplicates.
func NewSelection(days ...Weekday) DaySelection {
	seen := [DaysPerWeek]bool{}
	out := make(DaySelection, 0, len(days))
	for _, d := range days {
		if !d.Valid() || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Toggle returns a new selection with day added when absent or removed when
// present. Invalid days leave the selection untouched.
func (s DaySelection) Toggle(day Weekday) DaySelection {
	if !day.Valid() {
		return s.Copy()
	}
	out := make(DaySelection, 0, len(s)+1)
	removed := false
	for _, d := range s {
		if d == day {
			removed = true
			continue
		}
		out = append(out, d)
	}
	if !removed {
		out = append(out, day)
		sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	}
	return out
}

// Contains reports membership.
func (s DaySelection) Contains(day Weekday) bool {
	for _, d := range s {
		if d == day {
			return true
		}
	}
	return false
}

// SubsetOf reports whether every selected day appears in other.
func (s DaySelection) SubsetOf(other DaySelection) bool {
	for _, d := range s {
		if !other.Contains(d) {
			return false
		}
	}
	return true
}

// Copy returns an independent snapshot of the selection.
func (s DaySelection) Copy() DaySelection {
	return append(DaySelection(nil), s...)
}

// Contiguous reports whether the selection forms a single arc on the 7-day
// cycle. A set touching both Saturday and Sunday may wrap the week boundary:
// the sorted sequence then has exactly one interior gap and the two runs on
// either side of it make up the arc.
func (s DaySelection) Contiguous() bool {
	switch len(s) {
	case 0:
		return false
	case 1:
		return true
	case DaysPerWeek:
		return true
	}

	gaps := 0
	for i := 1; i < len(s); i++ {
		if s[i]-s[i-1] > 1 {
			gaps++
		}
	}
	if gaps == 0 {
		return true
	}
	// Wraparound arc: Saturday and Sunday both present, a single gap splits
	// the sorted order into the head and tail of one circular run.
	return gaps == 1 && s[0] == Sunday && s[len(s)-1] == Saturday
}

// gapIndex locates the first interior gap of a wrapped selection; -1 when the
// sorted order has none.
func (s DaySelection) gapIndex() int {
	for i := 1; i < len(s); i++ {
		if s[i]-s[i-1] > 1 {
			return i
		}
	}
	return -1
}
