package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m, err := New(1500, "usd")
	require.NoError(t, err)
	assert.Equal(t, Money{Amount: 1500, Currency: "USD"}, m)

	_, err = New(100, "dollars")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestAddSub(t *testing.T) {
	a := Must(1000, "USD")
	b := Must(250, "USD")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(1250), sum.Amount)

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, int64(750), diff.Amount)

	_, err = a.Add(Must(1, "EUR"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = a.Add(Money{Amount: 1})
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestPercentRounding(t *testing.T) {
	tests := []struct {
		amount int64
		rate   float64
		want   int64
	}{
		{10000, 0.10, 1000},
		{105, 0.10, 11},   // 10.5 rounds away from zero
		{-105, 0.10, -11}, // symmetric for negatives
		{333, 0.10, 33},
		{0, 0.25, 0},
	}
	for _, tt := range tests {
		got := Money{Amount: tt.amount, Currency: "USD"}.Percent(tt.rate)
		assert.Equal(t, tt.want, got.Amount, "%d * %v", tt.amount, tt.rate)
	}
}

func TestDivideBy(t *testing.T) {
	m := Must(77000, "USD")
	assert.Equal(t, int64(19250), m.DivideBy(4).Amount)
	assert.Equal(t, int64(25667), m.DivideBy(3).Amount)
	assert.Equal(t, int64(0), m.DivideBy(0).Amount)
}

func TestPredicates(t *testing.T) {
	assert.True(t, Zero("USD").IsZero())
	assert.True(t, Must(100, "USD").Neg().IsNegative())
	assert.False(t, Must(100, "USD").IsNegative())
}
