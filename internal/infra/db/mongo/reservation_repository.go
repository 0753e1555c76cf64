package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlistings "weekstay/internal/domain/listings"
	domainpricing "weekstay/internal/domain/pricing"
	domainreservation "weekstay/internal/domain/reservation"
	"weekstay/internal/domain/schedule"
)

type ReservationRepository struct {
	col *mongo.Collection
}

func NewReservationRepository(db *mongo.Database) *ReservationRepository {
	col := db.Collection("agg_reservation")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "guest_id", Value: 1}, {Key: "created_at", Value: -1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &ReservationRepository{col: col}
}

func (r *ReservationRepository) ByID(ctx context.Context, id domainreservation.ReservationID) (*domainreservation.Reservation, error) {
	var doc reservationDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainreservation.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate()
}

func (r *ReservationRepository) Save(ctx context.Context, res *domainreservation.Reservation) error {
	doc := newReservationDocument(res)
	filter := bson.M{"_id": doc.ID, "version": res.Version}
	doc.Version = res.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	out, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if out.MatchedCount == 0 && out.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	res.Version = doc.Version
	return nil
}

func (r *ReservationRepository) ListByGuest(ctx context.Context, guestID string) ([]*domainreservation.Reservation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"guest_id": guestID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainreservation.Reservation
	for cur.Next(ctx) {
		var doc reservationDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		agg, err := doc.toAggregate()
		if err != nil {
			return nil, err
		}
		out = append(out, agg)
	}
	return out, cur.Err()
}

type reservationDocument struct {
	ID         string            `bson:"_id"`
	ListingID  string            `bson:"listing_id"`
	GuestID    string            `bson:"guest_id"`
	Schedule   scheduleDocument  `bson:"schedule"`
	MoveInDate int64             `bson:"move_in_date"`
	SpanWeeks  int               `bson:"span_weeks"`
	Quote      breakdownDocument `bson:"quote"`
	State      string            `bson:"state"`
	CreatedAt  int64             `bson:"created_at"`
	UpdatedAt  int64             `bson:"updated_at"`
	Version    int64             `bson:"version"`
}

type scheduleDocument struct {
	Days          []string `bson:"days"`
	CheckInDay    string   `bson:"check_in_day"`
	CheckOutDay   string   `bson:"check_out_day"`
	NightsPerWeek int      `bson:"nights_per_week"`
}

type breakdownDocument struct {
	NightsPerWeek  int           `bson:"nights_per_week"`
	NightlyRate    moneyDocument `bson:"nightly_rate"`
	BasePrice      moneyDocument `bson:"base_price"`
	DiscountAmount moneyDocument `bson:"discount_amount"`
	MarkupAmount   moneyDocument `bson:"markup_amount"`
	TotalPrice     moneyDocument `bson:"total_price"`
	PricePerNight  moneyDocument `bson:"price_per_night"`
	FourWeekRent   moneyDocument `bson:"four_week_rent"`
	InitialPayment moneyDocument `bson:"initial_payment"`
	TierFallback   bool          `bson:"tier_fallback"`
}

func newReservationDocument(res *domainreservation.Reservation) reservationDocument {
	return reservationDocument{
		ID:         string(res.ID),
		ListingID:  string(res.ListingID),
		GuestID:    res.GuestID,
		Schedule:   newScheduleDocument(res.Schedule),
		MoveInDate: res.MoveInDate.UnixMilli(),
		SpanWeeks:  res.SpanWeeks,
		Quote:      newBreakdownDocument(res.Quote),
		State:      string(res.State),
		CreatedAt:  res.CreatedAt.UnixMilli(),
		UpdatedAt:  res.UpdatedAt.UnixMilli(),
		Version:    res.Version,
	}
}

func (d reservationDocument) toAggregate() (*domainreservation.Reservation, error) {
	sched, err := d.Schedule.toSchedule()
	if err != nil {
		return nil, err
	}
	return &domainreservation.Reservation{
		ID:         domainreservation.ReservationID(d.ID),
		ListingID:  domainlistings.ListingID(d.ListingID),
		GuestID:    d.GuestID,
		Schedule:   sched,
		MoveInDate: timestampToTime(d.MoveInDate),
		SpanWeeks:  d.SpanWeeks,
		Quote:      d.Quote.toBreakdown(),
		State:      domainreservation.State(d.State),
		CreatedAt:  timestampToTime(d.CreatedAt),
		UpdatedAt:  timestampToTime(d.UpdatedAt),
		Version:    d.Version,
	}, nil
}

func newScheduleDocument(s schedule.Schedule) scheduleDocument {
	return scheduleDocument{
		Days:          weekdaysToNames(s.Days),
		CheckInDay:    s.CheckInDay.String(),
		CheckOutDay:   s.CheckOutDay.String(),
		NightsPerWeek: s.NightsPerWeek,
	}
}

func (d scheduleDocument) toSchedule() (schedule.Schedule, error) {
	days, err := namesToWeekdays(d.Days)
	if err != nil {
		return schedule.Schedule{}, err
	}
	checkIn, err := schedule.ParseWeekday(d.CheckInDay)
	if err != nil {
		return schedule.Schedule{}, err
	}
	checkOut, err := schedule.ParseWeekday(d.CheckOutDay)
	if err != nil {
		return schedule.Schedule{}, err
	}
	return schedule.Schedule{
		Days:          days,
		CheckInDay:    checkIn,
		CheckOutDay:   checkOut,
		NightsPerWeek: d.NightsPerWeek,
	}, nil
}

func newBreakdownDocument(b domainpricing.Breakdown) breakdownDocument {
	return breakdownDocument{
		NightsPerWeek:  b.NightsPerWeek,
		NightlyRate:    newMoneyDocument(b.NightlyRate),
		BasePrice:      newMoneyDocument(b.BasePrice),
		DiscountAmount: newMoneyDocument(b.DiscountAmount),
		MarkupAmount:   newMoneyDocument(b.MarkupAmount),
		TotalPrice:     newMoneyDocument(b.TotalPrice),
		PricePerNight:  newMoneyDocument(b.PricePerNight),
		FourWeekRent:   newMoneyDocument(b.FourWeekRent),
		InitialPayment: newMoneyDocument(b.InitialPayment),
		TierFallback:   b.TierFallback,
	}
}

func (d breakdownDocument) toBreakdown() domainpricing.Breakdown {
	return domainpricing.Breakdown{
		NightsPerWeek:  d.NightsPerWeek,
		NightlyRate:    d.NightlyRate.toMoney(),
		BasePrice:      d.BasePrice.toMoney(),
		DiscountAmount: d.DiscountAmount.toMoney(),
		MarkupAmount:   d.MarkupAmount.toMoney(),
		TotalPrice:     d.TotalPrice.toMoney(),
		PricePerNight:  d.PricePerNight.toMoney(),
		FourWeekRent:   d.FourWeekRent.toMoney(),
		InitialPayment: d.InitialPayment.toMoney(),
		TierFallback:   d.TierFallback,
	}
}
