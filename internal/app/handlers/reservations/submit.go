package reservations

import (
	"context"
	"errors"
	"strings"
	"time"

	"weekstay/internal/app/commands"
	"weekstay/internal/app/dto"
	"weekstay/internal/app/outbox"
	"weekstay/internal/app/uow"
	domainlistings "weekstay/internal/domain/listings"
	domainreservation "weekstay/internal/domain/reservation"
	"weekstay/internal/domain/schedule"
)

const submitKey = "reservation.submit"

var (
	ErrUnitOfWorkRequired = errors.New("reservations: unit of work required")
	ErrListingRequired    = errors.New("reservations: listing id required")
	ErrGuestRequired      = errors.New("reservations: guest id required")
	ErrMoveInRequired     = errors.New("reservations: move-in date required")
)

// SubmitCommand carries a guest's reservation request. Validation failures
// come back on the result, not as errors; only infrastructure problems fail
// the command.
type SubmitCommand struct {
	CommandID       string
	ListingID       string
	GuestID         string
	Days            []int
	MoveInDate      time.Time
	SpanWeeks       int
	IdempotencyKeyV string
}

func (c SubmitCommand) Key() string { return submitKey }

// Validate covers the structural minimum; rule checks live in the domain
// validator and come back as violations.
func (c SubmitCommand) Validate() error {
	if strings.TrimSpace(c.ListingID) == "" {
		return ErrListingRequired
	}
	if strings.TrimSpace(c.GuestID) == "" {
		return ErrGuestRequired
	}
	if c.MoveInDate.IsZero() {
		return ErrMoveInRequired
	}
	return nil
}

func (c SubmitCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c SubmitCommand) ResultPrototype() any { return &SubmitResult{} }

type SubmitResult struct {
	ReservationID string          `json:"reservation_id,omitempty"`
	Violations    []dto.Violation `json:"violations,omitempty"`
}

type SubmitHandler struct {
	UoWFactory uow.UoWFactory
	Policy     domainreservation.Policy
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *SubmitHandler) Handle(ctx context.Context, cmd SubmitCommand) (*SubmitResult, error) {
	unit, execCtx, cleanup, err := uow.Acquire(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, errors.Join(ErrUnitOfWorkRequired, err)
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

	listing, err := unit.Listings().ByID(execCtx, domainlistings.ListingID(cmd.ListingID))
	if err != nil {
		return nil, err
	}
	cal, err := unit.Calendars().Calendar(execCtx, listing.ID)
	if err != nil {
		return nil, err
	}

	selection := selectionFromInts(cmd.Days)
	now := time.Now().UTC()
	request := domainreservation.Request{
		ListingID:  listing.ID,
		Selection:  selection,
		MoveInDate: cmd.MoveInDate,
		SpanWeeks:  cmd.SpanWeeks,
	}
	violations := domainreservation.Validate(request, listing, cal, h.policy(), now)
	if len(violations) > 0 {
		return &SubmitResult{Violations: dto.MapViolations(violations)}, nil
	}

	sched, _ := schedule.Derive(selection)
	quote, err := unit.Pricing().Quote(execCtx, sched, listing.Rates)
	if err != nil {
		return nil, err
	}

	res, err := domainreservation.NewReservation(domainreservation.CreateParams{
		ID:         domainreservation.ReservationID(cmd.CommandID),
		ListingID:  listing.ID,
		GuestID:    cmd.GuestID,
		Schedule:   sched,
		MoveInDate: cmd.MoveInDate,
		SpanWeeks:  cmd.SpanWeeks,
		Quote:      quote,
		CreatedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Reservations().Save(execCtx, res); err != nil {
		return nil, err
	}

	pending := res.PendingEvents()
	res.ClearEvents()
	if err := outbox.RecordDomainEvents(execCtx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(execCtx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &SubmitResult{ReservationID: string(res.ID)}, nil
}

func (h *SubmitHandler) policy() domainreservation.Policy {
	if h.Policy == (domainreservation.Policy{}) {
		return domainreservation.DefaultPolicy()
	}
	return h.Policy
}

func selectionFromInts(days []int) schedule.DaySelection {
	out := make([]schedule.Weekday, 0, len(days))
	for _, d := range days {
		out = append(out, schedule.Weekday(d))
	}
	return schedule.NewSelection(out...)
}

var _ commands.Handler[SubmitCommand, *SubmitResult] = (*SubmitHandler)(nil)
