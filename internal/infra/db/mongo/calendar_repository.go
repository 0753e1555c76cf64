package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainavailability "weekstay/internal/domain/availability"
	domainlistings "weekstay/internal/domain/listings"
)

const calendarDateLayout = "2006-01-02"

type CalendarRepository struct {
	col *mongo.Collection
}

func NewCalendarRepository(db *mongo.Database) *CalendarRepository {
	return &CalendarRepository{col: db.Collection("agg_calendar")}
}

// Calendar loads the blocked-slot state for a listing. A listing with no
// document yet gets a fresh empty calendar; hosts only write one once they
// block something.
func (r *CalendarRepository) Calendar(ctx context.Context, id domainlistings.ListingID) (*domainavailability.Calendar, error) {
	var doc calendarDocument
	err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return domainavailability.NewCalendar(id, nil), nil
		}
		return nil, err
	}
	return doc.toAggregate()
}

func (r *CalendarRepository) Save(ctx context.Context, c *domainavailability.Calendar) error {
	doc := newCalendarDocument(c)
	filter := bson.M{"_id": doc.ID, "version": c.Version}
	doc.Version = c.Version + 1
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
	c.Version = doc.Version
	return nil
}

type calendarDocument struct {
	ID        string                `bson:"_id"`
	Blocked   []blockedSlotDocument `bson:"blocked"`
	UpdatedAt int64                 `bson:"updated_at"`
	Version   int64                 `bson:"version"`
}

type blockedSlotDocument struct {
	Date      string `bson:"date"`
	StartTime string `bson:"start_time,omitempty"`
	EndTime   string `bson:"end_time,omitempty"`
	FullDay   bool   `bson:"full_day"`
}

func newCalendarDocument(c *domainavailability.Calendar) calendarDocument {
	snapshot := c.Snapshot()
	blocked := make([]blockedSlotDocument, 0, len(snapshot))
	for _, b := range snapshot {
		blocked = append(blocked, blockedSlotDocument{
			Date:      b.Date.Format(calendarDateLayout),
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
			FullDay:   b.FullDay,
		})
	}
	return calendarDocument{
		ID:        string(c.ListingID),
		Blocked:   blocked,
		UpdatedAt: time.Now().UTC().UnixMilli(),
		Version:   c.Version,
	}
}

func (d calendarDocument) toAggregate() (*domainavailability.Calendar, error) {
	blocked := make([]domainavailability.BlockedSlot, 0, len(d.Blocked))
	for _, b := range d.Blocked {
		date, err := time.ParseInLocation(calendarDateLayout, b.Date, time.UTC)
		if err != nil {
			return nil, err
		}
		blocked = append(blocked, domainavailability.BlockedSlot{
			Date:      date,
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
			FullDay:   b.FullDay,
		})
	}
	cal := domainavailability.NewCalendar(domainlistings.ListingID(d.ID), blocked)
	cal.Version = d.Version
	return cal, nil
}
