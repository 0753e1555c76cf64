package schedulepreview

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainlistings "weekstay/internal/domain/listings"
	domainpricing "weekstay/internal/domain/pricing"
	"weekstay/internal/domain/schedule"
	"weekstay/internal/domain/shared/money"
	"weekstay/internal/infra/storage/memory"
)

func newPreviewHandler(t *testing.T) *PreviewHandler {
	t.Helper()

	listingsRepo := memory.NewListingRepository()
	listing, err := domainlistings.NewListing(domainlistings.CreateParams{
		ID:    "lst-1",
		Host:  "host-1",
		Title: "Attic room",
		Rates: domainpricing.RateCard{
			Tiers:           domainpricing.TierTable{4: money.Must(17500, "USD")},
			StartingNightly: money.Must(20000, "USD"),
		},
		MinNights:     2,
		MaxNights:     7,
		AvailableDays: schedule.NewSelection(schedule.Monday, schedule.Tuesday, schedule.Wednesday, schedule.Thursday),
		Now:           time.Now().UTC(),
	})
	require.NoError(t, err)
	listing.ClearEvents()
	require.NoError(t, listingsRepo.Save(context.Background(), listing))

	cfg := domainpricing.DefaultConfig("USD")
	cfg.SiteMarkupRate = 0.10

	return &PreviewHandler{
		UoWFactory: memory.Factory{
			ListingsRepo:     listingsRepo,
			CalendarsRepo:    memory.NewCalendarRepository(),
			ReservationsRepo: memory.NewReservationRepository(),
			PricingSvc:       domainpricing.Engine{Config: cfg},
		},
	}
}

func TestPreviewQuotesSelection(t *testing.T) {
	handler := newPreviewHandler(t)

	result, err := handler.Handle(context.Background(), PreviewQuery{
		ListingID: "lst-1",
		Days:      []int{1, 2, 3, 4},
	})
	require.NoError(t, err)

	assert.True(t, result.Schedule.Valid)
	assert.Equal(t, "monday", result.Schedule.CheckInDay)
	assert.Equal(t, "thursday", result.Schedule.CheckOutDay)
	require.NotNil(t, result.Quote)
	assert.Equal(t, int64(70000), result.Quote.BasePriceCents)
	assert.Equal(t, int64(77000), result.Quote.TotalPriceCents)
	assert.Equal(t, int64(19250), result.Quote.PricePerNightCents)
}

func TestPreviewInvalidSelectionHasNoQuote(t *testing.T) {
	handler := newPreviewHandler(t)

	result, err := handler.Handle(context.Background(), PreviewQuery{
		ListingID: "lst-1",
		Days:      []int{1, 3},
	})
	require.NoError(t, err)

	assert.False(t, result.Schedule.Valid)
	assert.Nil(t, result.Quote)
}

func TestPreviewTierFallback(t *testing.T) {
	handler := newPreviewHandler(t)

	result, err := handler.Handle(context.Background(), PreviewQuery{
		ListingID: "lst-1",
		Days:      []int{1, 2, 3},
	})
	require.NoError(t, err)

	require.NotNil(t, result.Quote)
	assert.True(t, result.Quote.TierFallback)
	assert.Equal(t, int64(20000), result.Quote.NightlyRateCents)
}

func TestPreviewUnknownListing(t *testing.T) {
	handler := newPreviewHandler(t)

	_, err := handler.Handle(context.Background(), PreviewQuery{ListingID: "lst-404", Days: []int{1, 2}})
	assert.ErrorIs(t, err, domainlistings.ErrNotFound)
}
