package calendar

import (
	"context"
	"errors"
	"strings"
	"time"

	"weekstay/internal/app/commands"
	"weekstay/internal/app/outbox"
	"weekstay/internal/app/uow"
	domainavailability "weekstay/internal/domain/availability"
	domainlistings "weekstay/internal/domain/listings"
)

const toggleSlotKey = "calendar.toggle_slot"

var ErrListingIDRequired = errors.New("calendar: listing id is required")

// ToggleSlotCommand flips one slot's blocked state for a listing date.
type ToggleSlotCommand struct {
	ListingID string
	Date      time.Time
	Slot      int
}

func (c ToggleSlotCommand) Key() string { return toggleSlotKey }

type ToggleSlotResult struct {
	Changed bool `json:"changed"`
	Blocked bool `json:"blocked"`
}

type ToggleSlotHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *ToggleSlotHandler) Handle(ctx context.Context, cmd ToggleSlotCommand) (ToggleSlotResult, error) {
	var zero ToggleSlotResult
	if strings.TrimSpace(cmd.ListingID) == "" {
		return zero, ErrListingIDRequired
	}
	slot := domainavailability.Slot(cmd.Slot)
	if !slot.Valid() {
		return zero, errors.New("calendar: unknown slot")
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

	changed := cal.ToggleSlot(cmd.Date, slot, time.Now().UTC())
	if changed {
		if err := unit.Calendars().Save(execCtx, cal); err != nil {
			return zero, err
		}
		pending := cal.PendingEvents()
		cal.ClearEvents()
		if err := outbox.RecordDomainEvents(execCtx, h.Outbox, h.Encoder, pending); err != nil {
			return zero, err
		}
	}

	if managed {
		if err := unit.Commit(execCtx); err != nil {
			return zero, err
		}
		committed = true
	}
	return ToggleSlotResult{Changed: changed, Blocked: cal.SlotBlocked(cmd.Date, slot)}, nil
}

var _ commands.Handler[ToggleSlotCommand, ToggleSlotResult] = (*ToggleSlotHandler)(nil)
