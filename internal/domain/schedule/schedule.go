package schedule

// Schedule is the recurring weekly stay derived from a day selection. It is a
// pure derivation with no persisted identity; callers recompute it on every
// selection change.
type Schedule struct {
	Days          DaySelection
	CheckInDay    Weekday
	CheckOutDay   Weekday
	NightsPerWeek int
}

// Derive computes the schedule for a selection. It reports ok=false instead
// of failing when the selection has fewer than two days or is not one
// contiguous arc; the caller surfaces that to the guest.
func Derive(selection DaySelection) (Schedule, bool) {
	days := NewSelection(selection...)
	if len(days) < 2 || !days.Contiguous() {
		return Schedule{Days: days, NightsPerWeek: len(days)}, false
	}

	checkIn := days[0]
	checkOut := days[len(days)-1]
	if g := days.gapIndex(); g != -1 {
		// Wrapped arc: the stay starts after the gap and runs past the
		// Saturday->Sunday boundary to the day before it.
		checkIn = days[g]
		checkOut = days[g-1]
	}

	return Schedule{
		Days:          days,
		CheckInDay:    checkIn,
		CheckOutDay:   checkOut,
		NightsPerWeek: len(days),
	}, true
}

// Wraps reports whether the stay crosses the Saturday->Sunday boundary.
func (s Schedule) Wraps() bool {
	return s.CheckInDay > s.CheckOutDay
}
