package calendar

import (
	"context"
	"strings"
	"time"

	"weekstay/internal/app/commands"
	"weekstay/internal/app/outbox"
	"weekstay/internal/app/uow"
	domainlistings "weekstay/internal/domain/listings"
)

const toggleFullDayKey = "calendar.toggle_full_day"

// ToggleFullDayCommand flips the day-level blocked flag. Slot blocks under
// the flag survive the operation.
type ToggleFullDayCommand struct {
	ListingID string
	Date      time.Time
}

func (c ToggleFullDayCommand) Key() string { return toggleFullDayKey }

type ToggleFullDayResult struct {
	Blocked bool `json:"blocked"`
}

type ToggleFullDayHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *ToggleFullDayHandler) Handle(ctx context.Context, cmd ToggleFullDayCommand) (ToggleFullDayResult, error) {
	var zero ToggleFullDayResult
	if strings.TrimSpace(cmd.ListingID) == "" {
		return zero, ErrListingIDRequired
	}

	unit, execCtx, cleanup, err := uow.Acquire(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return zero, err
	}
	managed := cleanup != nil
	committed := false
	if managed {
		defer func() {
			if !committed {
				cleanup()
			}
		}()
	}

	cal, err := unit.Calendars().Calendar(execCtx, domainlistings.ListingID(cmd.ListingID))
	if err != nil {
		return zero, err
	}

	blocked := cal.ToggleFullDay(cmd.Date, time.Now().UTC())
	if err := unit.Calendars().Save(execCtx, cal); err != nil {
		return zero, err
	}
	pending := cal.PendingEvents()
	cal.ClearEvents()
	if err := outbox.RecordDomainEvents(execCtx, h.Outbox, h.Encoder, pending); err != nil {
		return zero, err
	}

	if managed {
		if err := unit.Commit(execCtx); err != nil {
			return zero, err
		}
		committed = true
	}
	return ToggleFullDayResult{Blocked: blocked}, nil
}

var _ commands.Handler[ToggleFullDayCommand, ToggleFullDayResult] = (*ToggleFullDayHandler)(nil)
