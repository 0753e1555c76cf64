package availability

import (
	"context"
	"sort"
	"time"

	"weekstay/internal/domain/listings"
	"weekstay/internal/domain/schedule"
	"weekstay/internal/domain/shared/events"
)

// BlockedSlot is the persisted shape of a host block: a full day, or a time
// range mapped onto slots. Times are optional "HH:MM" strings; an empty range
// on a non-full-day record blocks every slot of the date (legacy records do
// this).
type BlockedSlot struct {
	Date      time.Time
	StartTime string
	EndTime   string
	FullDay   bool
}

type dayState struct {
	fullDay bool
	slots   [SlotsPerDay]bool
}

// Calendar tracks which dates and slots a host has blocked for one listing.
// The full-day flag is independent of the per-slot state: clearing it exposes
// whatever slot blocks were underneath, which may not match what the host
// remembers. See DESIGN.md before "fixing" that.
type Calendar struct {
	ListingID listings.ListingID
	Version   int64
	days      map[string]*dayState
	events.EventRecorder
}

type Repository interface {
	Calendar(ctx context.Context, id listings.ListingID) (*Calendar, error)
	Save(ctx context.Context, calendar *Calendar) error
}

// NewCalendar builds a calendar from persisted blocked-slot records.
func NewCalendar(id listings.ListingID, blocked []BlockedSlot) *Calendar {
	c := &Calendar{ListingID: id, days: make(map[string]*dayState)}
	for _, b := range blocked {
		day := c.day(b.Date)
		if b.FullDay {
			day.fullDay = true
			continue
		}
		for _, s := range slotsOverlapping(b.StartTime, b.EndTime) {
			day.slots[s] = true
		}
	}
	return c
}

// ToggleSlot flips a single slot's blocked state and reports whether anything
// changed. Slots are frozen while the day is fully blocked, so the call is a
// no-op then.
func (c *Calendar) ToggleSlot(date time.Time, slot Slot, now time.Time) bool {
	if !slot.Valid() {
		return false
	}
	day := c.day(date)
	if day.fullDay {
		return false
	}
	day.slots[slot] = !day.slots[slot]
	if day.slots[slot] {
		c.Record(SlotBlockedEvent(c.ListingID, civil(date), slot, now))
	} else {
		c.Record(SlotReleasedEvent(c.ListingID, civil(date), slot, now))
	}
	return true
}

// ToggleFullDay flips the day-level flag and returns the new blocked state.
// Per-slot blocks underneath are left as they were.
func (c *Calendar) ToggleFullDay(date time.Time, now time.Time) bool {
	day := c.day(date)
	day.fullDay = !day.fullDay
	if day.fullDay {
		c.Record(DayBlockedEvent(c.ListingID, civil(date), now))
	} else {
		c.Record(DayReleasedEvent(c.ListingID, civil(date), now))
	}
	return day.fullDay
}

// SlotBlocked reports the effective state of one slot.
func (c *Calendar) SlotBlocked(date time.Time, slot Slot) bool {
	day, ok := c.days[dateKey(date)]
	if !ok {
		return false
	}
	return day.fullDay || day.slots[slot]
}

// DayUnavailable reports whether a date offers no availability at all:
// either the full-day flag is set or every slot is blocked.
func (c *Calendar) DayUnavailable(date time.Time) bool {
	day, ok := c.days[dateKey(date)]
	if !ok {
		return false
	}
	if day.fullDay {
		return true
	}
	for _, blocked := range day.slots {
		if !blocked {
			return false
		}
	}
	return true
}

// Snapshot re-emits the calendar as persistable blocked-slot records, one per
// blocked slot plus one per full-day flag, sorted by date for stable storage.
func (c *Calendar) Snapshot() []BlockedSlot {
	keys := make([]string, 0, len(c.days))
	for key := range c.days {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var out []BlockedSlot
	for _, key := range keys {
		day := c.days[key]
		date, _ := time.Parse("2006-01-02", key)
		if day.fullDay {
			out = append(out, BlockedSlot{Date: date, FullDay: true})
		}
		for i, blocked := range day.slots {
			if !blocked {
				continue
			}
			start, end := Slot(i).Window()
			out = append(out, BlockedSlot{Date: date, StartTime: start, EndTime: end})
		}
	}
	return out
}

func (c *Calendar) day(date time.Time) *dayState {
	key := dateKey(date)
	if day, ok := c.days[key]; ok {
		return day
	}
	day := &dayState{}
	c.days[key] = day
	return day
}

func dateKey(t time.Time) string {
	return civil(t).Format("2006-01-02")
}

func civil(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayEntry is one rendered day of the weekly grid.
type DayEntry struct {
	Date           time.Time
	Weekday        schedule.Weekday
	SlotBlocked    [SlotsPerDay]bool
	FullDayBlocked bool
}

// Week is the 7-day grid the host's calendar screen renders.
type Week struct {
	Start time.Time
	Days  [schedule.DaysPerWeek]DayEntry
}

// WeekGrid renders the seven days beginning at weekStart.
func (c *Calendar) WeekGrid(weekStart time.Time) Week {
	start := civil(weekStart)
	week := Week{Start: start}
	for i := 0; i < schedule.DaysPerWeek; i++ {
		date := start.AddDate(0, 0, i)
		entry := DayEntry{Date: date, Weekday: schedule.FromTime(date.Weekday())}
		if day, ok := c.days[dateKey(date)]; ok {
			entry.SlotBlocked = day.slots
			entry.FullDayBlocked = day.fullDay
		}
		week.Days[i] = entry
	}
	return week
}

// WeekSummary aggregates slot counts for a rendered week.
type WeekSummary struct {
	AvailableSlots      int
	BlockedSlots        int
	PercentageAvailable float64
}

// Summary counts effective slot availability: a slot under a full-day block
// counts as blocked even when its own flag is clear.
func Summary(week Week) WeekSummary {
	total := schedule.DaysPerWeek * SlotsPerDay
	blocked := 0
	for _, day := range week.Days {
		for _, slotBlocked := range day.SlotBlocked {
			if day.FullDayBlocked || slotBlocked {
				blocked++
			}
		}
	}
	available := total - blocked
	return WeekSummary{
		AvailableSlots:      available,
		BlockedSlots:        blocked,
		PercentageAvailable: float64(available) / float64(total) * 100,
	}
}
