package memory

import (
	"context"
	"errors"

	"weekstay/internal/app/uow"
	domainavailability "weekstay/internal/domain/availability"
	domainlistings "weekstay/internal/domain/listings"
	domainpricing "weekstay/internal/domain/pricing"
	domainreservation "weekstay/internal/domain/reservation"
)

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	ListingsRepo     domainlistings.Repository
	CalendarsRepo    domainavailability.Repository
	ReservationsRepo domainreservation.Repository
	PricingSvc       domainpricing.Calculator
}

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Begin starts a lightweight transaction boundary. No isolation is provided
// but the abstraction matches the application ports.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.ListingsRepo == nil || f.CalendarsRepo == nil || f.ReservationsRepo == nil || f.PricingSvc == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		listings:     f.ListingsRepo,
		calendars:    f.CalendarsRepo,
		reservations: f.ReservationsRepo,
		pricing:      f.PricingSvc,
	}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	listings     domainlistings.Repository
	calendars    domainavailability.Repository
	reservations domainreservation.Repository
	pricing      domainpricing.Calculator
}

func (u *Unit) Listings() domainlistings.Repository {
	return u.listings
}

func (u *Unit) Calendars() domainavailability.Repository {
	return u.calendars
}

func (u *Unit) Reservations() domainreservation.Repository {
	return u.reservations
}

func (u *Unit) Pricing() domainpricing.Calculator {
	return u.pricing
}

func (u *Unit) Commit(ctx context.Context) error {
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	return nil
}
