package schedulepreview

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"weekstay/internal/app/dto"
	"weekstay/internal/app/queries"
	"weekstay/internal/app/uow"
	domainlistings "weekstay/internal/domain/listings"
	"weekstay/internal/domain/schedule"
)

const previewKey = "schedule.preview"

// PreviewQuery asks for the derived schedule and quote of a tentative day
// selection. Fired on every toggle; it must stay cheap and side-effect free.
type PreviewQuery struct {
	ListingID string
	Days      []int
}

func (q PreviewQuery) Key() string { return previewKey }

type PreviewResult struct {
	Schedule dto.Schedule        `json:"schedule"`
	Quote    *dto.PriceBreakdown `json:"quote,omitempty"`
}

type PreviewHandler struct {
	Logger     *slog.Logger
	UoWFactory uow.UoWFactory
}

func (h *PreviewHandler) Handle(ctx context.Context, q PreviewQuery) (PreviewResult, error) {
	var zero PreviewResult
	if strings.TrimSpace(q.ListingID) == "" {
		return zero, errors.New("listing id is required")
	}

	unit, execCtx, cleanup, err := uow.Acquire(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return zero, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	selection := selectionFromInts(q.Days)
	sched, ok := schedule.Derive(selection)
	result := PreviewResult{Schedule: dto.MapSchedule(sched, ok)}
	if !ok {
		return result, nil
	}

	listing, err := unit.Listings().ByID(execCtx, domainlistings.ListingID(q.ListingID))
	if err != nil {
		return zero, err
	}

	breakdown, err := unit.Pricing().Quote(execCtx, sched, listing.Rates)
	if err != nil {
		return zero, err
	}
	if breakdown.TierFallback && h.Logger != nil {
		h.Logger.Warn("nightly tier missing, starting rate used",
			"listing_id", q.ListingID, "nights_per_week", sched.NightsPerWeek)
	}

	quote := dto.MapBreakdown(breakdown)
	result.Quote = &quote
	return result, nil
}

func selectionFromInts(days []int) schedule.DaySelection {
	out := make([]schedule.Weekday, 0, len(days))
	for _, d := range days {
		out = append(out, schedule.Weekday(d))
	}
	return schedule.NewSelection(out...)
}

var _ queries.Handler[PreviewQuery, PreviewResult] = (*PreviewHandler)(nil)
