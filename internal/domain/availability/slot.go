package availability

import "fmt"

// Slot is one bookable segment of a day. Hosts block either individual slots
// or the whole day.
type Slot int

const (
	SlotMorning Slot = iota
	SlotAfternoon
	SlotEvening
)

const SlotsPerDay = 3

type slotWindow struct {
	start string
	end   string
}

// Fixed local-time windows for each slot; blocked-slot records carry these
// boundaries on the wire.
var slotWindows = [SlotsPerDay]slotWindow{
	{start: "08:00", end: "12:00"},
	{start: "12:00", end: "17:00"},
	{start: "17:00", end: "22:00"},
}

func (s Slot) Valid() bool {
	return s >= SlotMorning && s <= SlotEvening
}

func (s Slot) String() string {
	switch s {
	case SlotMorning:
		return "morning"
	case SlotAfternoon:
		return "afternoon"
	case SlotEvening:
		return "evening"
	default:
		return fmt.Sprintf("slot(%d)", int(s))
	}
}

// Window returns the slot's start and end times as "HH:MM" strings.
func (s Slot) Window() (string, string) {
	if !s.Valid() {
		return "", ""
	}
	w := slotWindows[s]
	return w.start, w.end
}

// slotsOverlapping maps a blocked time range onto the slots it touches.
// Ranges are half-open; lexical comparison works because times are zero
// padded "HH:MM".
func slotsOverlapping(start, end string) []Slot {
	if start == "" && end == "" {
		return []Slot{SlotMorning, SlotAfternoon, SlotEvening}
	}
	var out []Slot
	for i, w := range slotWindows {
		if start < w.end && w.start < end {
			out = append(out, Slot(i))
		}
	}
	return out
}
