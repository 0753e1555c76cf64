package reservation

import (
	"context"
	"errors"
	"strings"
	"time"

	"weekstay/internal/domain/listings"
	"weekstay/internal/domain/pricing"
	"weekstay/internal/domain/schedule"
	"weekstay/internal/domain/shared/events"
)

var (
	ErrGuestRequired  = errors.New("reservation: guest id required")
	ErrNotSubmittable = errors.New("reservation: request has outstanding violations")
	ErrInvalidState   = errors.New("reservation: invalid state transition")
	ErrNotFound       = errors.New("reservation: not found")
)

type ReservationID string

type State string

const (
	StatePending   State = "PENDING"
	StateAccepted  State = "ACCEPTED"
	StateDeclined  State = "DECLINED"
	StateConfirmed State = "CONFIRMED"
	StateCancelled State = "CANCELLED"
)

// Reservation is a guest's recurring-stay proposal: the derived schedule, the
// quoted breakdown frozen at submission time, and the host-approval state
// machine around it.
type Reservation struct {
	ID         ReservationID
	ListingID  listings.ListingID
	GuestID    string
	Schedule   schedule.Schedule
	MoveInDate time.Time
	SpanWeeks  int
	Quote      pricing.Breakdown
	State      State
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id ReservationID) (*Reservation, error)
	Save(ctx context.Context, r *Reservation) error
	ListByGuest(ctx context.Context, guestID string) ([]*Reservation, error)
}

type CreateParams struct {
	ID         ReservationID
	ListingID  listings.ListingID
	GuestID    string
	Schedule   schedule.Schedule
	MoveInDate time.Time
	SpanWeeks  int
	Quote      pricing.Breakdown
	Violations []Violation
	CreatedAt  time.Time
}

// NewReservation creates a pending proposal. Callers validate first; a
// non-empty violation list refuses creation.
func NewReservation(params CreateParams) (*Reservation, error) {
	if strings.TrimSpace(params.GuestID) == "" {
		return nil, ErrGuestRequired
	}
	if len(params.Violations) > 0 {
		return nil, ErrNotSubmittable
	}
	now := params.CreatedAt.UTC()
	r := &Reservation{
		ID:         params.ID,
		ListingID:  params.ListingID,
		GuestID:    params.GuestID,
		Schedule:   params.Schedule,
		MoveInDate: params.MoveInDate.UTC(),
		SpanWeeks:  params.SpanWeeks,
		Quote:      params.Quote,
		State:      StatePending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.Record(ReservationSubmitted{
		ReservationID: r.ID,
		ListingID:     r.ListingID,
		GuestID:       r.GuestID,
		MoveIn:        r.MoveInDate,
		NightsPerWeek: r.Schedule.NightsPerWeek,
		InitialAmount: r.Quote.InitialPayment,
		At:            now,
	})
	return r, nil
}

func (r *Reservation) Accept(now time.Time) error {
	if r.State != StatePending {
		return ErrInvalidState
	}
	r.State = StateAccepted
	r.UpdatedAt = now.UTC()
	r.Record(ReservationAccepted{ReservationID: r.ID, At: r.UpdatedAt})
	return nil
}

func (r *Reservation) Decline(reason string, now time.Time) error {
	if r.State != StatePending {
		return ErrInvalidState
	}
	r.State = StateDeclined
	r.UpdatedAt = now.UTC()
	r.Record(ReservationDeclined{ReservationID: r.ID, Reason: reason, At: r.UpdatedAt})
	return nil
}

func (r *Reservation) Confirm(now time.Time) error {
	if r.State != StateAccepted {
		return ErrInvalidState
	}
	r.State = StateConfirmed
	r.UpdatedAt = now.UTC()
	r.Record(ReservationConfirmed{ReservationID: r.ID, ListingID: r.ListingID, At: r.UpdatedAt})
	return nil
}

func (r *Reservation) Cancel(reason string, now time.Time) error {
	switch r.State {
	case StatePending, StateAccepted, StateConfirmed:
	default:
		return ErrInvalidState
	}
	r.State = StateCancelled
	r.UpdatedAt = now.UTC()
	r.Record(ReservationCancelled{ReservationID: r.ID, Reason: reason, At: r.UpdatedAt})
	return nil
}
