package reservation

import (
	"time"

	"weekstay/internal/domain/listings"
	"weekstay/internal/domain/shared/money"
)

type ReservationSubmitted struct {
	ReservationID ReservationID
	ListingID     listings.ListingID
	GuestID       string
	MoveIn        time.Time
	NightsPerWeek int
	InitialAmount money.Money
	At            time.Time
}

func (e ReservationSubmitted) EventName() string     { return "reservation.submitted" }
func (e ReservationSubmitted) AggregateID() string   { return string(e.ReservationID) }
func (e ReservationSubmitted) OccurredAt() time.Time { return e.At }

type ReservationAccepted struct {
	ReservationID ReservationID
	At            time.Time
}

func (e ReservationAccepted) EventName() string     { return "reservation.accepted" }
func (e ReservationAccepted) AggregateID() string   { return string(e.ReservationID) }
func (e ReservationAccepted) OccurredAt() time.Time { return e.At }

type ReservationDeclined struct {
	ReservationID ReservationID
	Reason        string
	At            time.Time
}

func (e ReservationDeclined) EventName() string     { return "reservation.declined" }
func (e ReservationDeclined) AggregateID() string   { return string(e.ReservationID) }
func (e ReservationDeclined) OccurredAt() time.Time { return e.At }

type ReservationConfirmed struct {
	ReservationID ReservationID
	ListingID     listings.ListingID
	At            time.Time
}

func (e ReservationConfirmed) EventName() string     { return "reservation.confirmed" }
func (e ReservationConfirmed) AggregateID() string   { return string(e.ReservationID) }
func (e ReservationConfirmed) OccurredAt() time.Time { return e.At }

type ReservationCancelled struct {
	ReservationID ReservationID
	Reason        string
	At            time.Time
}

func (e ReservationCancelled) EventName() string     { return "reservation.cancelled" }
func (e ReservationCancelled) AggregateID() string   { return string(e.ReservationID) }
func (e ReservationCancelled) OccurredAt() time.Time { return e.At }
