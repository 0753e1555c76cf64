package dto

import "weekstay/internal/domain/pricing"

// PriceBreakdown is the wire view of a quoted weekly stay, amounts in cents.
type PriceBreakdown struct {
	Currency            string `json:"currency"`
	NightsPerWeek       int    `json:"nights_per_week"`
	NightlyRateCents    int64  `json:"nightly_rate_cents"`
	BasePriceCents      int64  `json:"base_price_cents"`
	DiscountAmountCents int64  `json:"discount_amount_cents"`
	MarkupAmountCents   int64  `json:"markup_amount_cents"`
	TotalPriceCents     int64  `json:"total_price_cents"`
	PricePerNightCents  int64  `json:"price_per_night_cents"`
	FourWeekRentCents   int64  `json:"four_week_rent_cents"`
	InitialPaymentCents int64  `json:"initial_payment_cents"`
	TierFallback        bool   `json:"tier_fallback,omitempty"`
}

func MapBreakdown(b pricing.Breakdown) PriceBreakdown {
	return PriceBreakdown{
		Currency:            b.NightlyRate.Currency,
		NightsPerWeek:       b.NightsPerWeek,
		NightlyRateCents:    b.NightlyRate.Amount,
		BasePriceCents:      b.BasePrice.Amount,
		DiscountAmountCents: b.DiscountAmount.Amount,
		MarkupAmountCents:   b.MarkupAmount.Amount,
		TotalPriceCents:     b.TotalPrice.Amount,
		PricePerNightCents:  b.PricePerNight.Amount,
		FourWeekRentCents:   b.FourWeekRent.Amount,
		InitialPaymentCents: b.InitialPayment.Amount,
		TierFallback:        b.TierFallback,
	}
}
