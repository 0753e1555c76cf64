package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekstay/internal/app/commands"
	"weekstay/internal/app/middleware"
	appoutbox "weekstay/internal/app/outbox"
	domainlistings "weekstay/internal/domain/listings"
	domainpricing "weekstay/internal/domain/pricing"
	domainreservation "weekstay/internal/domain/reservation"
	"weekstay/internal/domain/schedule"
	"weekstay/internal/domain/shared/money"
	"weekstay/internal/infra/storage/memory"
)

type submitFixture struct {
	bus      commands.Bus
	listings *memory.ListingRepository
	resRepo  *memory.ReservationRepository
	outbox   *memory.Outbox
}

func newSubmitFixture(t *testing.T) *submitFixture {
	t.Helper()

	listingsRepo := memory.NewListingRepository()
	calendarsRepo := memory.NewCalendarRepository()
	reservationsRepo := memory.NewReservationRepository()
	box := memory.NewOutbox()

	factory := memory.Factory{
		ListingsRepo:     listingsRepo,
		CalendarsRepo:    calendarsRepo,
		ReservationsRepo: reservationsRepo,
		PricingSvc:       domainpricing.Engine{Config: domainpricing.DefaultConfig("USD")},
	}

	listing, err := domainlistings.NewListing(domainlistings.CreateParams{
		ID:    "lst-1",
		Host:  "host-1",
		Title: "Garden studio",
		Rates: domainpricing.RateCard{
			Tiers:           domainpricing.TierTable{4: money.Must(17500, "USD")},
			StartingNightly: money.Must(20000, "USD"),
		},
		MinNights: 2,
		MaxNights: 7,
		AvailableDays: schedule.NewSelection(
			schedule.Monday, schedule.Tuesday, schedule.Wednesday,
			schedule.Thursday, schedule.Friday),
		Now: time.Now().UTC(),
	})
	require.NoError(t, err)
	listing.ClearEvents()
	require.NoError(t, listingsRepo.Save(context.Background(), listing))

	bus := commands.NewInMemoryBus()
	commands.RegisterHandler(bus, SubmitCommand{}.Key(), &SubmitHandler{
		UoWFactory: factory,
		Outbox:     box,
		Encoder:    appoutbox.JSONEventEncoder{},
	})

	chained := middleware.ChainCommands(
		bus,
		middleware.Idempotency(memory.NewIdempotencyStore(), nil),
		middleware.Transaction(factory, nil),
	)

	return &submitFixture{
		bus:      chained,
		listings: listingsRepo,
		resRepo:  reservationsRepo,
		outbox:   box,
	}
}

func validSubmit() SubmitCommand {
	return SubmitCommand{
		CommandID:  "rsv-1",
		ListingID:  "lst-1",
		GuestID:    "guest-1",
		Days:       []int{int(schedule.Monday), int(schedule.Tuesday), int(schedule.Wednesday), int(schedule.Thursday)},
		MoveInDate: time.Now().UTC().AddDate(0, 0, 21),
		SpanWeeks:  12,
	}
}

func TestSubmitCreatesReservation(t *testing.T) {
	fx := newSubmitFixture(t)

	result, err := commands.Dispatch[SubmitCommand, *SubmitResult](context.Background(), fx.bus, validSubmit())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Empty(t, result.Violations)
	assert.Equal(t, "rsv-1", result.ReservationID)

	saved, err := fx.resRepo.ByID(context.Background(), domainreservation.ReservationID("rsv-1"))
	require.NoError(t, err)
	assert.Equal(t, domainreservation.StatePending, saved.State)
	assert.Equal(t, int64(4*17500), saved.Quote.BasePrice.Amount)

	pending := fx.outbox.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "reservation.submitted", pending[0].Name)
}

func TestSubmitReturnsViolationsWithoutSaving(t *testing.T) {
	fx := newSubmitFixture(t)

	cmd := validSubmit()
	cmd.MoveInDate = time.Now().UTC().AddDate(0, 0, 3)
	cmd.SpanWeeks = 1

	result, err := commands.Dispatch[SubmitCommand, *SubmitResult](context.Background(), fx.bus, cmd)
	require.NoError(t, err)
	require.NotNil(t, result)

	codes := make([]string, 0, len(result.Violations))
	for _, v := range result.Violations {
		codes = append(codes, v.Code)
	}
	assert.Contains(t, codes, string(domainreservation.DateTooSoon))
	assert.Contains(t, codes, string(domainreservation.SpanOutOfRange))

	_, err = fx.resRepo.ByID(context.Background(), domainreservation.ReservationID("rsv-1"))
	assert.ErrorIs(t, err, domainreservation.ErrNotFound)
	assert.Empty(t, fx.outbox.Pending())
}

func TestSubmitUnknownListing(t *testing.T) {
	fx := newSubmitFixture(t)

	cmd := validSubmit()
	cmd.ListingID = "lst-missing"

	_, err := commands.Dispatch[SubmitCommand, *SubmitResult](context.Background(), fx.bus, cmd)
	assert.ErrorIs(t, err, domainlistings.ErrNotFound)
}

func TestSubmitIdempotentReplay(t *testing.T) {
	fx := newSubmitFixture(t)

	cmd := validSubmit()
	cmd.IdempotencyKeyV = "idem-1"

	first, err := commands.Dispatch[SubmitCommand, *SubmitResult](context.Background(), fx.bus, cmd)
	require.NoError(t, err)
	require.Len(t, fx.outbox.Pending(), 1)

	second, err := commands.Dispatch[SubmitCommand, *SubmitResult](context.Background(), fx.bus, cmd)
	require.NoError(t, err)

	assert.Equal(t, first.ReservationID, second.ReservationID)
	// The replay never reaches the handler, so no second event is recorded.
	assert.Len(t, fx.outbox.Pending(), 1)
}

func TestGetReservation(t *testing.T) {
	fx := newSubmitFixture(t)

	_, err := commands.Dispatch[SubmitCommand, *SubmitResult](context.Background(), fx.bus, validSubmit())
	require.NoError(t, err)

	factory := memory.Factory{
		ListingsRepo:     fx.listings,
		CalendarsRepo:    memory.NewCalendarRepository(),
		ReservationsRepo: fx.resRepo,
		PricingSvc:       domainpricing.Engine{Config: domainpricing.DefaultConfig("USD")},
	}
	handler := &GetHandler{UoWFactory: factory}

	got, err := handler.Handle(context.Background(), GetQuery{ReservationID: "rsv-1"})
	require.NoError(t, err)
	assert.Equal(t, "rsv-1", got.ID)
	assert.Equal(t, "guest-1", got.GuestID)
	assert.Equal(t, 4, got.Schedule.NightsPerWeek)

	_, err = handler.Handle(context.Background(), GetQuery{ReservationID: "rsv-404"})
	assert.ErrorIs(t, err, domainreservation.ErrNotFound)
}

func TestListReservationsByGuest(t *testing.T) {
	fx := newSubmitFixture(t)

	first := validSubmit()
	_, err := commands.Dispatch[SubmitCommand, *SubmitResult](context.Background(), fx.bus, first)
	require.NoError(t, err)

	second := validSubmit()
	second.CommandID = "rsv-2"
	second.MoveInDate = first.MoveInDate.AddDate(0, 0, 7)
	_, err = commands.Dispatch[SubmitCommand, *SubmitResult](context.Background(), fx.bus, second)
	require.NoError(t, err)

	factory := memory.Factory{
		ListingsRepo:     fx.listings,
		CalendarsRepo:    memory.NewCalendarRepository(),
		ReservationsRepo: fx.resRepo,
		PricingSvc:       domainpricing.Engine{Config: domainpricing.DefaultConfig("USD")},
	}
	handler := &ListByGuestHandler{UoWFactory: factory}

	got, err := handler.Handle(context.Background(), ListByGuestQuery{GuestID: "guest-1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, "guest-1", r.GuestID)
	}

	none, err := handler.Handle(context.Background(), ListByGuestQuery{GuestID: "guest-unknown"})
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = handler.Handle(context.Background(), ListByGuestQuery{})
	assert.Error(t, err)
}
