package reservation

import (
	"fmt"
	"time"

	"weekstay/internal/domain/availability"
	"weekstay/internal/domain/listings"
	"weekstay/internal/domain/schedule"
)

// ViolationCode enumerates the recoverable reasons a reservation request is
// not submittable. These are values the caller renders, never errors.
type ViolationCode string

const (
	NonContiguousSelection  ViolationCode = "NON_CONTIGUOUS_SELECTION"
	NightsOutOfRange        ViolationCode = "NIGHTS_OUT_OF_RANGE"
	OutsideHostAvailability ViolationCode = "OUTSIDE_HOST_AVAILABILITY"
	DateTooSoon             ViolationCode = "DATE_TOO_SOON"
	DateBlocked             ViolationCode = "DATE_BLOCKED"
	SpanOutOfRange          ViolationCode = "SPAN_OUT_OF_RANGE"
)

type Violation struct {
	Code    ViolationCode
	Message string
}

// Policy holds the global submission rules.
type Policy struct {
	LeadDays     int
	MinSpanWeeks int
	MaxSpanWeeks int
}

// DefaultPolicy matches production: two weeks of notice, 4..52 week spans.
func DefaultPolicy() Policy {
	return Policy{LeadDays: 14, MinSpanWeeks: 4, MaxSpanWeeks: 52}
}

// MinimumMoveIn returns the earliest acceptable move-in date for a request
// made today.
func (p Policy) MinimumMoveIn(today time.Time) time.Time {
	t := today.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, p.LeadDays)
}

// Request is a guest's reservation intent as handed to the validator.
type Request struct {
	ListingID  listings.ListingID
	Selection  schedule.DaySelection
	MoveInDate time.Time
	SpanWeeks  int
}

// Validate runs every check and returns all failures at once so the caller
// can surface the full list. An empty result means the request is
// submittable. Malformed input never produces an error, only violations.
func Validate(req Request, listing *listings.Listing, calendar *availability.Calendar, policy Policy, now time.Time) []Violation {
	var out []Violation

	sched, ok := schedule.Derive(req.Selection)
	if !ok {
		out = append(out, Violation{
			Code:    NonContiguousSelection,
			Message: "selected days must form one unbroken run of the week",
		})
	}

	if listing != nil {
		minNights, maxNights := listing.MinNights, listing.MaxNights
		if sched.NightsPerWeek < minNights || sched.NightsPerWeek > maxNights {
			out = append(out, Violation{
				Code:    NightsOutOfRange,
				Message: fmt.Sprintf("nights per week must be between %d and %d", minNights, maxNights),
			})
		}
		if len(req.Selection) > 0 && !req.Selection.SubsetOf(listing.AvailableDays) {
			out = append(out, Violation{
				Code:    OutsideHostAvailability,
				Message: "some selected days are not offered by the host",
			})
		}
	}

	minMoveIn := policy.MinimumMoveIn(now)
	if req.MoveInDate.Before(minMoveIn) {
		out = append(out, Violation{
			Code:    DateTooSoon,
			Message: fmt.Sprintf("move-in must be on or after %s", minMoveIn.Format("2006-01-02")),
		})
	}
	if calendar != nil && calendar.DayUnavailable(req.MoveInDate) {
		out = append(out, Violation{
			Code:    DateBlocked,
			Message: "the requested move-in date is blocked on the host calendar",
		})
	}

	if req.SpanWeeks < policy.MinSpanWeeks || req.SpanWeeks > policy.MaxSpanWeeks {
		out = append(out, Violation{
			Code:    SpanOutOfRange,
			Message: fmt.Sprintf("reservation span must be between %d and %d weeks", policy.MinSpanWeeks, policy.MaxSpanWeeks),
		})
	}

	return out
}
