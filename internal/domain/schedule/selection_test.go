package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelectionNormalizes(t *testing.T) {
	sel := NewSelection(Friday, Monday, Friday, Weekday(9), Weekday(-1), Tuesday)
	assert.Equal(t, DaySelection{Monday, Tuesday, Friday}, sel)
}

func TestToggle(t *testing.T) {
	sel := NewSelection(Monday, Tuesday)

	added := sel.Toggle(Wednesday)
	assert.Equal(t, DaySelection{Monday, Tuesday, Wednesday}, added)

	removed := added.Toggle(Monday)
	assert.Equal(t, DaySelection{Tuesday, Wednesday}, removed)

	// The receiver stays untouched.
	assert.Equal(t, DaySelection{Monday, Tuesday}, sel)

	assert.Equal(t, sel, sel.Toggle(Weekday(42)))
}

func TestToggleRoundTrips(t *testing.T) {
	sel := NewSelection(Tuesday, Wednesday, Thursday)
	for d := Sunday; d <= Saturday; d++ {
		assert.Equal(t, sel, sel.Toggle(d).Toggle(d), "toggling %s twice", d)
	}
}

func TestToggleOrderIrrelevant(t *testing.T) {
	pairs := []struct {
		name string
		a, b Weekday
	}{
		{"midweek", Monday, Tuesday},
		{"apart", Tuesday, Friday},
		{"weekend wrap", Saturday, Sunday},
	}
	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			ab := DaySelection{}.Toggle(tt.a).Toggle(tt.b)
			ba := DaySelection{}.Toggle(tt.b).Toggle(tt.a)
			require.Equal(t, ab, ba)

			abSched, abOK := Derive(ab)
			baSched, baOK := Derive(ba)
			assert.Equal(t, abOK, baOK)
			assert.Equal(t, abSched, baSched)
		})
	}
}

func TestContiguous(t *testing.T) {
	tests := []struct {
		name string
		days []Weekday
		want bool
	}{
		{"empty", nil, false},
		{"single", []Weekday{Wednesday}, true},
		{"full week", []Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}, true},
		{"midweek run", []Weekday{Monday, Tuesday, Wednesday}, true},
		{"split", []Weekday{Monday, Wednesday}, false},
		{"weekend wrap", []Weekday{Friday, Saturday, Sunday}, true},
		{"long wrap", []Weekday{Thursday, Friday, Saturday, Sunday, Monday}, true},
		{"wrap with hole", []Weekday{Friday, Saturday, Sunday, Tuesday}, false},
		{"two runs touching both ends", []Weekday{Sunday, Monday, Wednesday, Friday, Saturday}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewSelection(tt.days...).Contiguous())
		})
	}
}

// TestContiguousExhaustive checks every non-empty subset of the week against
// a circular-run reference.
func TestContiguousExhaustive(t *testing.T) {
	for mask := 1; mask < 1<<DaysPerWeek; mask++ {
		var days []Weekday
		for d := 0; d < DaysPerWeek; d++ {
			if mask&(1<<d) != 0 {
				days = append(days, Weekday(d))
			}
		}
		sel := NewSelection(days...)
		require.Equal(t, circularRun(mask), sel.Contiguous(), "mask %07b", mask)
	}
}

// circularRun reports whether the set bits of mask form one arc on a 7-long
// cycle: rotating past every selected day must cross exactly one off-to-on
// boundary.
func circularRun(mask int) bool {
	transitions := 0
	for d := 0; d < DaysPerWeek; d++ {
		cur := mask&(1<<d) != 0
		prev := mask&(1<<((d+DaysPerWeek-1)%DaysPerWeek)) != 0
		if cur && !prev {
			transitions++
		}
	}
	return transitions <= 1
}

func TestSubsetOf(t *testing.T) {
	host := NewSelection(Monday, Tuesday, Wednesday, Thursday)
	assert.True(t, NewSelection(Tuesday, Wednesday).SubsetOf(host))
	assert.True(t, DaySelection{}.SubsetOf(host))
	assert.False(t, NewSelection(Wednesday, Friday).SubsetOf(host))
}
