package calendar

import (
	"context"
	"errors"
	"strings"
	"time"

	"weekstay/internal/app/dto"
	"weekstay/internal/app/queries"
	"weekstay/internal/app/uow"
	domainlistings "weekstay/internal/domain/listings"
)

const getWeekKey = "calendar.week"

type GetWeekQuery struct {
	ListingID string
	WeekStart time.Time
}

func (q GetWeekQuery) Key() string { return getWeekKey }

type GetWeekHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetWeekHandler) Handle(ctx context.Context, q GetWeekQuery) (dto.CalendarWeek, error) {
	var zero dto.CalendarWeek
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

	cal, err := unit.Calendars().Calendar(execCtx, domainlistings.ListingID(q.ListingID))
	if err != nil {
		return zero, err
	}

	start := q.WeekStart
	if start.IsZero() {
		start = time.Now().UTC()
	}
	return dto.MapCalendarWeek(q.ListingID, cal.WeekGrid(start)), nil
}

var _ queries.Handler[GetWeekQuery, dto.CalendarWeek] = (*GetWeekHandler)(nil)
