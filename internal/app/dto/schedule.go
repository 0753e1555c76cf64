package dto

import "weekstay/internal/domain/schedule"

// Schedule is the wire view of a derived weekly stay.
type Schedule struct {
	Days          []int  `json:"days"`
	CheckInDay    string `json:"check_in_day,omitempty"`
	CheckOutDay   string `json:"check_out_day,omitempty"`
	NightsPerWeek int    `json:"nights_per_week"`
	Valid         bool   `json:"valid"`
	Wraps         bool   `json:"wraps_week,omitempty"`
}

func MapSchedule(s schedule.Schedule, valid bool) Schedule {
	days := make([]int, 0, len(s.Days))
	for _, d := range s.Days {
		days = append(days, int(d))
	}
	out := Schedule{
		Days:          days,
		NightsPerWeek: s.NightsPerWeek,
		Valid:         valid,
	}
	if valid {
		out.CheckInDay = s.CheckInDay.String()
		out.CheckOutDay = s.CheckOutDay.String()
		out.Wraps = s.Wraps()
	}
	return out
}
