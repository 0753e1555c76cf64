package listings

import (
	"context"
	"errors"
	"strings"
	"time"

	"weekstay/internal/domain/pricing"
	"weekstay/internal/domain/schedule"
	"weekstay/internal/domain/shared/events"
	"weekstay/internal/domain/shared/money"
)

var (
	ErrIDRequired     = errors.New("listings: id is required")
	ErrHostRequired   = errors.New("listings: host is required")
	ErrTitleRequired  = errors.New("listings: title is required")
	ErrNightsRange    = errors.New("listings: min nights must be <= max nights")
	ErrNegativeRate   = errors.New("listings: rates must be non-negative")
	ErrNoAvailableDay = errors.New("listings: at least one available day required when activating")
	ErrInvalidState   = errors.New("listings: invalid state transition")
	ErrTierNights     = errors.New("listings: tier nights must be between 2 and 7")
	ErrNotFound       = errors.New("listings: not found")
)

type ListingID string
type HostID string

type ListingState string

const (
	ListingDraft     ListingState = "DRAFT"
	ListingActive    ListingState = "ACTIVE"
	ListingSuspended ListingState = "SUSPENDED"
)

// Listing is the host-owned unit the scheduling and pricing core reads. Only
// the fields the core consumes live here; photos, messaging threads and the
// like belong to outside collaborators.
type Listing struct {
	ID            ListingID
	Host          HostID
	Title         string
	Description   string
	State         ListingState
	Rates         pricing.RateCard
	WeeklyRate    money.Money
	MonthlyRate   money.Money
	CleaningFee   money.Money
	DamageDeposit money.Money
	MinNights     int
	MaxNights     int
	AvailableDays schedule.DaySelection
	CheckInTime   string // "15:00", local to the listing
	CheckOutTime  string // "11:00"
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id ListingID) (*Listing, error)
	Save(ctx context.Context, listing *Listing) error
}

type CreateParams struct {
	ID            ListingID
	Host          HostID
	Title         string
	Description   string
	Rates         pricing.RateCard
	WeeklyRate    money.Money
	MonthlyRate   money.Money
	CleaningFee   money.Money
	DamageDeposit money.Money
	MinNights     int
	MaxNights     int
	AvailableDays schedule.DaySelection
	CheckInTime   string
	CheckOutTime  string
	Now           time.Time
}

func NewListing(params CreateParams) (*Listing, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(string(params.Host)) == "" {
		return nil, ErrHostRequired
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if params.MinNights > params.MaxNights {
		return nil, ErrNightsRange
	}
	if err := validateRates(params.Rates); err != nil {
		return nil, err
	}

	now := params.Now.UTC()
	listing := &Listing{
		ID:            params.ID,
		Host:          params.Host,
		Title:         strings.TrimSpace(params.Title),
		Description:   strings.TrimSpace(params.Description),
		State:         ListingDraft,
		Rates:         copyRateCard(params.Rates),
		WeeklyRate:    params.WeeklyRate,
		MonthlyRate:   params.MonthlyRate,
		CleaningFee:   params.CleaningFee,
		DamageDeposit: params.DamageDeposit,
		MinNights:     params.MinNights,
		MaxNights:     params.MaxNights,
		AvailableDays: params.AvailableDays.Copy(),
		CheckInTime:   strings.TrimSpace(params.CheckInTime),
		CheckOutTime:  strings.TrimSpace(params.CheckOutTime),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	listing.Record(ListingCreatedEvent{ListingID: listing.ID, HostID: listing.Host, At: now})
	return listing, nil
}

func (l *Listing) Activate(now time.Time) error {
	if l.State == ListingActive {
		return nil
	}
	if len(l.AvailableDays) == 0 {
		return ErrNoAvailableDay
	}
	if l.MinNights > l.MaxNights {
		return ErrNightsRange
	}
	l.State = ListingActive
	l.UpdatedAt = now.UTC()
	l.Record(ListingActivatedEvent{ListingID: l.ID, HostID: l.Host, At: l.UpdatedAt})
	return nil
}

func (l *Listing) Suspend(reason string, now time.Time) error {
	if l.State != ListingActive {
		return ErrInvalidState
	}
	l.State = ListingSuspended
	l.UpdatedAt = now.UTC()
	l.Record(ListingSuspendedEvent{ListingID: l.ID, Reason: reason, At: l.UpdatedAt})
	return nil
}

// UpdateRates replaces the rate card and flat rates after validation.
func (l *Listing) UpdateRates(card pricing.RateCard, weekly, monthly money.Money, now time.Time) error {
	if err := validateRates(card); err != nil {
		return err
	}
	if weekly.IsNegative() || monthly.IsNegative() {
		return ErrNegativeRate
	}
	l.Rates = copyRateCard(card)
	l.WeeklyRate = weekly
	l.MonthlyRate = monthly
	l.UpdatedAt = now.UTC()
	l.Record(ListingRatesUpdatedEvent{ListingID: l.ID, At: l.UpdatedAt})
	return nil
}

// UpdateAvailableDays replaces the weekday mask reservations validate against.
func (l *Listing) UpdateAvailableDays(days schedule.DaySelection, now time.Time) {
	l.AvailableDays = schedule.NewSelection(days...)
	l.UpdatedAt = now.UTC()
	l.Record(ListingAvailableDaysChangedEvent{ListingID: l.ID, At: l.UpdatedAt})
}

func validateRates(card pricing.RateCard) error {
	if card.StartingNightly.IsNegative() {
		return ErrNegativeRate
	}
	for nights, rate := range card.Tiers {
		if nights < 2 || nights > schedule.DaysPerWeek {
			return ErrTierNights
		}
		if rate.IsNegative() {
			return ErrNegativeRate
		}
	}
	return nil
}

func copyRateCard(card pricing.RateCard) pricing.RateCard {
	out := card
	out.Tiers = make(pricing.TierTable, len(card.Tiers))
	for nights, rate := range card.Tiers {
		out.Tiers[nights] = rate
	}
	return out
}
