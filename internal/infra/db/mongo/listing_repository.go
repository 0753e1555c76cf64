package mongo

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlistings "weekstay/internal/domain/listings"
	domainpricing "weekstay/internal/domain/pricing"
	"weekstay/internal/domain/schedule"
	"weekstay/internal/domain/shared/money"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection("agg_listing")}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainlistings.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate()
}

func (r *ListingRepository) Save(ctx context.Context, l *domainlistings.Listing) error {
	doc := newListingDocument(l)
	filter := bson.M{"_id": doc.ID, "version": l.Version}
	doc.Version = l.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	l.Version = doc.Version
	return nil
}

type listingDocument struct {
	ID            string           `bson:"_id"`
	Host          string           `bson:"host_id"`
	Title         string           `bson:"title"`
	Description   string           `bson:"description"`
	State         string           `bson:"state"`
	Rates         rateCardDocument `bson:"rates"`
	WeeklyRate    moneyDocument    `bson:"weekly_rate"`
	MonthlyRate   moneyDocument    `bson:"monthly_rate"`
	CleaningFee   moneyDocument    `bson:"cleaning_fee"`
	DamageDeposit moneyDocument    `bson:"damage_deposit"`
	MinNights     int              `bson:"min_nights"`
	MaxNights     int              `bson:"max_nights"`
	AvailableDays []string         `bson:"available_days"`
	CheckInTime   string           `bson:"check_in_time"`
	CheckOutTime  string           `bson:"check_out_time"`
	CreatedAt     int64            `bson:"created_at"`
	UpdatedAt     int64            `bson:"updated_at"`
	Version       int64            `bson:"version"`
}

type rateCardDocument struct {
	Tiers           map[string]moneyDocument `bson:"tiers"`
	StartingNightly moneyDocument            `bson:"starting_nightly"`
	MarkupRate      float64                  `bson:"markup_rate"`
}

type moneyDocument struct {
	Amount   int64  `bson:"amount"`
	Currency string `bson:"currency"`
}

func newListingDocument(l *domainlistings.Listing) listingDocument {
	return listingDocument{
		ID:            string(l.ID),
		Host:          string(l.Host),
		Title:         l.Title,
		Description:   l.Description,
		State:         string(l.State),
		Rates:         newRateCardDocument(l.Rates),
		WeeklyRate:    newMoneyDocument(l.WeeklyRate),
		MonthlyRate:   newMoneyDocument(l.MonthlyRate),
		CleaningFee:   newMoneyDocument(l.CleaningFee),
		DamageDeposit: newMoneyDocument(l.DamageDeposit),
		MinNights:     l.MinNights,
		MaxNights:     l.MaxNights,
		AvailableDays: weekdaysToNames(l.AvailableDays),
		CheckInTime:   l.CheckInTime,
		CheckOutTime:  l.CheckOutTime,
		CreatedAt:     l.CreatedAt.UnixMilli(),
		UpdatedAt:     l.UpdatedAt.UnixMilli(),
		Version:       l.Version,
	}
}

func (d listingDocument) toAggregate() (*domainlistings.Listing, error) {
	days, err := namesToWeekdays(d.AvailableDays)
	if err != nil {
		return nil, err
	}
	card, err := d.Rates.toRateCard()
	if err != nil {
		return nil, err
	}
	return &domainlistings.Listing{
		ID:            domainlistings.ListingID(d.ID),
		Host:          domainlistings.HostID(d.Host),
		Title:         d.Title,
		Description:   d.Description,
		State:         domainlistings.ListingState(d.State),
		Rates:         card,
		WeeklyRate:    d.WeeklyRate.toMoney(),
		MonthlyRate:   d.MonthlyRate.toMoney(),
		CleaningFee:   d.CleaningFee.toMoney(),
		DamageDeposit: d.DamageDeposit.toMoney(),
		MinNights:     d.MinNights,
		MaxNights:     d.MaxNights,
		AvailableDays: days,
		CheckInTime:   d.CheckInTime,
		CheckOutTime:  d.CheckOutTime,
		CreatedAt:     timestampToTime(d.CreatedAt),
		UpdatedAt:     timestampToTime(d.UpdatedAt),
		Version:       d.Version,
	}, nil
}

func newRateCardDocument(card domainpricing.RateCard) rateCardDocument {
	tiers := make(map[string]moneyDocument, len(card.Tiers))
	for nights, rate := range card.Tiers {
		tiers[strconv.Itoa(nights)] = newMoneyDocument(rate)
	}
	return rateCardDocument{
		Tiers:           tiers,
		StartingNightly: newMoneyDocument(card.StartingNightly),
		MarkupRate:      card.MarkupRate,
	}
}

func (d rateCardDocument) toRateCard() (domainpricing.RateCard, error) {
	tiers := make(domainpricing.TierTable, len(d.Tiers))
	for key, rate := range d.Tiers {
		nights, err := strconv.Atoi(key)
		if err != nil {
			return domainpricing.RateCard{}, err
		}
		tiers[nights] = rate.toMoney()
	}
	return domainpricing.RateCard{
		Tiers:           tiers,
		StartingNightly: d.StartingNightly.toMoney(),
		MarkupRate:      d.MarkupRate,
	}, nil
}

func newMoneyDocument(m money.Money) moneyDocument {
	return moneyDocument{Amount: m.Amount, Currency: m.Currency}
}

func (d moneyDocument) toMoney() money.Money {
	return money.Money{Amount: d.Amount, Currency: d.Currency}
}

// weekdaysToNames writes days as lowercase names. namesToWeekdays reads them
// back through the parser, which also tolerates the numeric and abbreviated
// forms older records carry.
func weekdaysToNames(days schedule.DaySelection) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.String())
	}
	return out
}

func namesToWeekdays(names []string) (schedule.DaySelection, error) {
	days := make([]schedule.Weekday, 0, len(names))
	for _, name := range names {
		d, err := schedule.ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return schedule.NewSelection(days...), nil
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
