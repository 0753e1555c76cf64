package uow

import (
	"context"

	domainavailability "weekstay/internal/domain/availability"
	domainlistings "weekstay/internal/domain/listings"
	domainpricing "weekstay/internal/domain/pricing"
	domainreservation "weekstay/internal/domain/reservation"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Listings() domainlistings.Repository
	Calendars() domainavailability.Repository
	Reservations() domainreservation.Repository
	Pricing() domainpricing.Calculator

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
