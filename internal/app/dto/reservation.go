package dto

import (
	"time"

	"weekstay/internal/domain/reservation"
)

type Violation struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Reservation struct {
	ID         string         `json:"id"`
	ListingID  string         `json:"listing_id"`
	GuestID    string         `json:"guest_id"`
	State      string         `json:"state"`
	MoveInDate string         `json:"move_in_date"`
	SpanWeeks  int            `json:"span_weeks"`
	Schedule   Schedule       `json:"schedule"`
	Quote      PriceBreakdown `json:"quote"`
	CreatedAt  time.Time      `json:"created_at"`
}

func MapViolations(violations []reservation.Violation) []Violation {
	out := make([]Violation, 0, len(violations))
	for _, v := range violations {
		out = append(out, Violation{Code: string(v.Code), Message: v.Message})
	}
	return out
}

func MapReservation(r *reservation.Reservation) Reservation {
	if r == nil {
		return Reservation{}
	}
	return Reservation{
		ID:         string(r.ID),
		ListingID:  string(r.ListingID),
		GuestID:    r.GuestID,
		State:      string(r.State),
		MoveInDate: r.MoveInDate.Format(dateLayout),
		SpanWeeks:  r.SpanWeeks,
		Schedule:   MapSchedule(r.Schedule, true),
		Quote:      MapBreakdown(r.Quote),
		CreatedAt:  r.CreatedAt,
	}
}
