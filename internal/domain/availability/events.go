package availability

import (
	"time"

	"weekstay/internal/domain/listings"
)

type SlotBlocked struct {
	ListingID string
	Date      time.Time
	Slot      string
	At        time.Time
}

func (e SlotBlocked) EventName() string     { return "calendar.slot_blocked" }
func (e SlotBlocked) AggregateID() string   { return e.ListingID }
func (e SlotBlocked) OccurredAt() time.Time { return e.At }

type SlotReleased struct {
	ListingID string
	Date      time.Time
	Slot      string
	At        time.Time
}

func (e SlotReleased) EventName() string     { return "calendar.slot_released" }
func (e SlotReleased) AggregateID() string   { return e.ListingID }
func (e SlotReleased) OccurredAt() time.Time { return e.At }

type DayBlocked struct {
	ListingID string
	Date      time.Time
	At        time.Time
}

func (e DayBlocked) EventName() string     { return "calendar.day_blocked" }
func (e DayBlocked) AggregateID() string   { return e.ListingID }
func (e DayBlocked) OccurredAt() time.Time { return e.At }

type DayReleased struct {
	ListingID string
	Date      time.Time
	At        time.Time
}

func (e DayReleased) EventName() string     { return "calendar.day_released" }
func (e DayReleased) AggregateID() string   { return e.ListingID }
func (e DayReleased) OccurredAt() time.Time { return e.At }

func SlotBlockedEvent(id listings.ListingID, date time.Time, slot Slot, at time.Time) SlotBlocked {
	return SlotBlocked{ListingID: string(id), Date: date, Slot: slot.String(), At: at.UTC()}
}

func SlotReleasedEvent(id listings.ListingID, date time.Time, slot Slot, at time.Time) SlotReleased {
	return SlotReleased{ListingID: string(id), Date: date, Slot: slot.String(), At: at.UTC()}
}

func DayBlockedEvent(id listings.ListingID, date time.Time, at time.Time) DayBlocked {
	return DayBlocked{ListingID: string(id), Date: date, At: at.UTC()}
}

func DayReleasedEvent(id listings.ListingID, date time.Time, at time.Time) DayReleased {
	return DayReleased{ListingID: string(id), Date: date, At: at.UTC()}
}
