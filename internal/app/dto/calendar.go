package dto

import (
	"time"

	"weekstay/internal/domain/availability"
)

type CalendarDay struct {
	Date           string `json:"date"`
	Weekday        string `json:"weekday"`
	SlotBlocked    []bool `json:"slot_blocked"`
	FullDayBlocked bool   `json:"full_day_blocked"`
}

type CalendarWeek struct {
	ListingID string        `json:"listing_id"`
	WeekStart string        `json:"week_start"`
	Days      []CalendarDay `json:"days"`
	Summary   WeekSummary   `json:"summary"`
}

type WeekSummary struct {
	AvailableSlots      int     `json:"available_slots"`
	BlockedSlots        int     `json:"blocked_slots"`
	PercentageAvailable float64 `json:"percentage_available"`
}

const dateLayout = "2006-01-02"

func MapCalendarWeek(listingID string, week availability.Week) CalendarWeek {
	days := make([]CalendarDay, 0, len(week.Days))
	for _, day := range week.Days {
		days = append(days, CalendarDay{
			Date:           day.Date.Format(dateLayout),
			Weekday:        day.Weekday.String(),
			SlotBlocked:    append([]bool(nil), day.SlotBlocked[:]...),
			FullDayBlocked: day.FullDayBlocked,
		})
	}
	summary := availability.Summary(week)
	return CalendarWeek{
		ListingID: listingID,
		WeekStart: week.Start.Format(dateLayout),
		Days:      days,
		Summary: WeekSummary{
			AvailableSlots:      summary.AvailableSlots,
			BlockedSlots:        summary.BlockedSlots,
			PercentageAvailable: summary.PercentageAvailable,
		},
	}
}

// ParseDate parses a calendar date in the wire format.
func ParseDate(raw string) (time.Time, error) {
	return time.Parse(dateLayout, raw)
}
