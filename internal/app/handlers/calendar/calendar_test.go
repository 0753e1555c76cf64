package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appoutbox "weekstay/internal/app/outbox"
	domainavailability "weekstay/internal/domain/availability"
	domainpricing "weekstay/internal/domain/pricing"
	"weekstay/internal/infra/storage/memory"
)

var testDate = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

func newFactory() (memory.Factory, *memory.Outbox) {
	return memory.Factory{
		ListingsRepo:     memory.NewListingRepository(),
		CalendarsRepo:    memory.NewCalendarRepository(),
		ReservationsRepo: memory.NewReservationRepository(),
		PricingSvc:       domainpricing.Engine{Config: domainpricing.DefaultConfig("USD")},
	}, memory.NewOutbox()
}

func TestToggleSlotHandler(t *testing.T) {
	factory, box := newFactory()
	handler := &ToggleSlotHandler{
		UoWFactory: factory,
		Outbox:     box,
		Encoder:    appoutbox.JSONEventEncoder{},
	}

	cmd := ToggleSlotCommand{ListingID: "lst-1", Date: testDate, Slot: int(domainavailability.SlotMorning)}

	result, err := handler.Handle(context.Background(), cmd)
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.True(t, result.Blocked)

	pending := box.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "calendar.slot_blocked", pending[0].Name)

	result, err = handler.Handle(context.Background(), cmd)
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.False(t, result.Blocked)
}

func TestToggleSlotHandlerValidation(t *testing.T) {
	factory, box := newFactory()
	handler := &ToggleSlotHandler{UoWFactory: factory, Outbox: box}

	_, err := handler.Handle(context.Background(), ToggleSlotCommand{Date: testDate})
	assert.ErrorIs(t, err, ErrListingIDRequired)

	_, err = handler.Handle(context.Background(), ToggleSlotCommand{ListingID: "lst-1", Date: testDate, Slot: 9})
	assert.Error(t, err)
	assert.Empty(t, box.Pending())
}

func TestToggleFullDayHandler(t *testing.T) {
	factory, box := newFactory()
	slotHandler := &ToggleSlotHandler{UoWFactory: factory, Outbox: box, Encoder: appoutbox.JSONEventEncoder{}}
	dayHandler := &ToggleFullDayHandler{UoWFactory: factory, Outbox: box, Encoder: appoutbox.JSONEventEncoder{}}

	_, err := slotHandler.Handle(context.Background(), ToggleSlotCommand{
		ListingID: "lst-1", Date: testDate, Slot: int(domainavailability.SlotEvening)})
	require.NoError(t, err)

	blocked, err := dayHandler.Handle(context.Background(), ToggleFullDayCommand{ListingID: "lst-1", Date: testDate})
	require.NoError(t, err)
	assert.True(t, blocked.Blocked)

	// Slot toggles are frozen while the day is fully blocked.
	frozen, err := slotHandler.Handle(context.Background(), ToggleSlotCommand{
		ListingID: "lst-1", Date: testDate, Slot: int(domainavailability.SlotMorning)})
	require.NoError(t, err)
	assert.False(t, frozen.Changed)

	released, err := dayHandler.Handle(context.Background(), ToggleFullDayCommand{ListingID: "lst-1", Date: testDate})
	require.NoError(t, err)
	assert.False(t, released.Blocked)

	// The evening block set before the full-day toggle is still there.
	week, err := (&GetWeekHandler{UoWFactory: factory}).Handle(context.Background(),
		GetWeekQuery{ListingID: "lst-1", WeekStart: testDate})
	require.NoError(t, err)
	require.Len(t, week.Days, 7)
	assert.True(t, week.Days[0].SlotBlocked[domainavailability.SlotEvening])
	assert.False(t, week.Days[0].FullDayBlocked)
}

func TestGetWeekHandler(t *testing.T) {
	factory, box := newFactory()
	slotHandler := &ToggleSlotHandler{UoWFactory: factory, Outbox: box, Encoder: appoutbox.JSONEventEncoder{}}

	for _, slot := range []domainavailability.Slot{domainavailability.SlotMorning, domainavailability.SlotAfternoon} {
		_, err := slotHandler.Handle(context.Background(), ToggleSlotCommand{
			ListingID: "lst-1", Date: testDate, Slot: int(slot)})
		require.NoError(t, err)
	}

	week, err := (&GetWeekHandler{UoWFactory: factory}).Handle(context.Background(),
		GetWeekQuery{ListingID: "lst-1", WeekStart: testDate})
	require.NoError(t, err)

	assert.Equal(t, "lst-1", week.ListingID)
	assert.Equal(t, "2026-09-14", week.WeekStart)
	assert.Equal(t, 2, week.Summary.BlockedSlots)
	assert.Equal(t, 19, week.Summary.AvailableSlots)
	assert.Equal(t, "monday", week.Days[0].Weekday)
}
