package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"weekstay/internal/app/uow"
	domainavailability "weekstay/internal/domain/availability"
	domainlistings "weekstay/internal/domain/listings"
	domainpricing "weekstay/internal/domain/pricing"
	domainreservation "weekstay/internal/domain/reservation"
)

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

	ListingsRepo     domainlistings.Repository
	CalendarsRepo    domainavailability.Repository
	ReservationsRepo domainreservation.Repository
	PricingSvc       domainpricing.Calculator
}

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		db:           f.DB,
		session:      session,
		listings:     f.ListingsRepo,
		calendars:    f.CalendarsRepo,
		reservations: f.ReservationsRepo,
		pricing:      f.PricingSvc,
	}, nil
}

type Unit struct {
	db      *mongo.Database
	session mongo.Session

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
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures the Mongo session is available in context for
// downstream repositories.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}
