package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Weekday indexes days Sunday=0 through Saturday=6, matching time.Weekday.
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

const DaysPerWeek = 7

var ErrUnknownWeekday = errors.New("schedule: unknown weekday")

var weekdayNames = [DaysPerWeek]string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

func (d Weekday) Valid() bool {
	return d >= Sunday && d <= Saturday
}

func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// FromTime converts a time.Weekday into the domain enum.
func FromTime(d time.Weekday) Weekday {
	return Weekday(int(d) % DaysPerWeek)
}

// ParseWeekday accepts a weekday name ("monday", "Mon") or a numeric index
// ("1"). Storage adapters call it to normalize the mixed formats legacy
// records carry; inside the domain only the Weekday enum circulates.
func ParseWeekday(raw string) (Weekday, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return 0, ErrUnknownWeekday
	}
	if n, err := strconv.Atoi(value); err == nil {
		d := Weekday(n)
		if !d.Valid() {
			return 0, fmt.Errorf("%w: index %d", ErrUnknownWeekday, n)
		}
		return d, nil
	}
	for i, name := range weekdayNames {
		if value == name || value == name[:3] {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWeekday, raw)
}
