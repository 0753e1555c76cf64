package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekstay/internal/domain/listings"
)

var (
	monday = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	noon   = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
)

func TestToggleSlot(t *testing.T) {
	cal := NewCalendar("lst-1", nil)

	require.True(t, cal.ToggleSlot(monday, SlotMorning, noon))
	assert.True(t, cal.SlotBlocked(monday, SlotMorning))
	assert.False(t, cal.SlotBlocked(monday, SlotAfternoon))

	require.True(t, cal.ToggleSlot(monday, SlotMorning, noon))
	assert.False(t, cal.SlotBlocked(monday, SlotMorning))

	assert.False(t, cal.ToggleSlot(monday, Slot(99), noon))
}

func TestToggleSlotFrozenUnderFullDay(t *testing.T) {
	cal := NewCalendar("lst-1", nil)
	cal.ToggleFullDay(monday, noon)

	assert.False(t, cal.ToggleSlot(monday, SlotEvening, noon))
	assert.True(t, cal.SlotBlocked(monday, SlotEvening))
}

func TestToggleFullDayPreservesSlots(t *testing.T) {
	cal := NewCalendar("lst-1", nil)
	cal.ToggleSlot(monday, SlotMorning, noon)

	assert.True(t, cal.ToggleFullDay(monday, noon))
	assert.True(t, cal.DayUnavailable(monday))
	assert.True(t, cal.SlotBlocked(monday, SlotEvening))

	assert.False(t, cal.ToggleFullDay(monday, noon))
	assert.False(t, cal.DayUnavailable(monday))
	assert.True(t, cal.SlotBlocked(monday, SlotMorning), "slot block survives the full-day round trip")
	assert.False(t, cal.SlotBlocked(monday, SlotEvening))
}

func TestDayUnavailableWhenEverySlotBlocked(t *testing.T) {
	cal := NewCalendar("lst-1", nil)
	cal.ToggleSlot(monday, SlotMorning, noon)
	cal.ToggleSlot(monday, SlotAfternoon, noon)
	assert.False(t, cal.DayUnavailable(monday))

	cal.ToggleSlot(monday, SlotEvening, noon)
	assert.True(t, cal.DayUnavailable(monday))
}

func TestNewCalendarFromRecords(t *testing.T) {
	blocked := []BlockedSlot{
		{Date: monday, StartTime: "09:00", EndTime: "13:00"}, // touches morning and afternoon
		{Date: monday.AddDate(0, 0, 1), FullDay: true},
		{Date: monday.AddDate(0, 0, 2)}, // legacy record: no range, no flag
	}
	cal := NewCalendar("lst-1", blocked)

	assert.True(t, cal.SlotBlocked(monday, SlotMorning))
	assert.True(t, cal.SlotBlocked(monday, SlotAfternoon))
	assert.False(t, cal.SlotBlocked(monday, SlotEvening))
	assert.True(t, cal.DayUnavailable(monday.AddDate(0, 0, 1)))
	assert.True(t, cal.DayUnavailable(monday.AddDate(0, 0, 2)))
}

func TestSnapshotRoundTrip(t *testing.T) {
	cal := NewCalendar("lst-1", nil)
	cal.ToggleSlot(monday, SlotEvening, noon)
	cal.ToggleFullDay(monday.AddDate(0, 0, 3), noon)

	restored := NewCalendar("lst-1", cal.Snapshot())

	assert.True(t, restored.SlotBlocked(monday, SlotEvening))
	assert.False(t, restored.SlotBlocked(monday, SlotMorning))
	assert.True(t, restored.DayUnavailable(monday.AddDate(0, 0, 3)))
}

func TestWeekGridAndSummary(t *testing.T) {
	cal := NewCalendar("lst-1", nil)
	cal.ToggleSlot(monday, SlotMorning, noon)
	cal.ToggleSlot(monday.AddDate(0, 0, 2), SlotAfternoon, noon)
	cal.ToggleSlot(monday.AddDate(0, 0, 5), SlotEvening, noon)

	week := cal.WeekGrid(monday)
	assert.Equal(t, monday, week.Start)
	assert.True(t, week.Days[0].SlotBlocked[SlotMorning])
	assert.True(t, week.Days[2].SlotBlocked[SlotAfternoon])

	summary := Summary(week)
	assert.Equal(t, 18, summary.AvailableSlots)
	assert.Equal(t, 3, summary.BlockedSlots)
	assert.InDelta(t, 85.71, summary.PercentageAvailable, 0.01)
}

func TestSummaryCountsFullDayAsAllSlots(t *testing.T) {
	cal := NewCalendar("lst-1", nil)
	cal.ToggleFullDay(monday, noon)

	summary := Summary(cal.WeekGrid(monday))
	assert.Equal(t, 3, summary.BlockedSlots)
	assert.Equal(t, 18, summary.AvailableSlots)
}

func TestCalendarEvents(t *testing.T) {
	cal := NewCalendar(listings.ListingID("lst-1"), nil)
	cal.ToggleSlot(monday, SlotMorning, noon)
	cal.ToggleFullDay(monday, noon)
	cal.ToggleFullDay(monday, noon)

	events := cal.PendingEvents()
	require.Len(t, events, 3)
	assert.Equal(t, "calendar.slot_blocked", events[0].EventName())
	assert.Equal(t, "calendar.day_blocked", events[1].EventName())
	assert.Equal(t, "calendar.day_released", events[2].EventName())

	cal.ClearEvents()
	assert.Empty(t, cal.PendingEvents())
}
