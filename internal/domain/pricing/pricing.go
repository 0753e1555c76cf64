package pricing

import (
	"context"
	"errors"

	"weekstay/internal/domain/schedule"
	"weekstay/internal/domain/shared/money"
)

var (
	ErrNoSchedule   = errors.New("pricing: schedule with at least one night required")
	ErrCurrencyMix  = errors.New("pricing: rate card currencies must match config currency")
	ErrNoRateSource = errors.New("pricing: no tier rate and no starting nightly rate")
)

// TierTable maps nightsPerWeek (2..7) to the host-set nightly rate for that
// commitment level. Hosts fill it unevenly, so lookups may miss.
type TierTable map[int]money.Money

// RateCard is the pricing slice of a listing: the tier table plus the
// listing-level knobs the breakdown consumes.
type RateCard struct {
	Tiers           TierTable
	StartingNightly money.Money // fallback when a tier is missing
	MarkupRate      float64     // listing-level combined markup, fraction
}

// Config carries the global, read-only pricing configuration.
type Config struct {
	Currency                string
	SiteMarkupRate          float64
	UnitMarkupRate          float64
	FullTimeDiscountRate    float64
	FullTimeNightsThreshold int
	MinNights               int
	MaxNights               int
	BillingCycleWeeks       int
	// UnusedNightsDiscounts maps (7 - nightsPerWeek) to a flat discount.
	UnusedNightsDiscounts map[int]money.Money
}

// DefaultConfig mirrors the production defaults.
func DefaultConfig(currency string) Config {
	return Config{
		Currency:                currency,
		FullTimeNightsThreshold: schedule.DaysPerWeek,
		MinNights:               2,
		MaxNights:               schedule.DaysPerWeek,
		BillingCycleWeeks:       4,
	}
}

// Breakdown is the full rent computation for one recurring week plus the
// four-week billing figures. Recomputed on every selection change.
type Breakdown struct {
	NightsPerWeek  int
	NightlyRate    money.Money
	BasePrice      money.Money
	DiscountAmount money.Money
	MarkupAmount   money.Money
	TotalPrice     money.Money
	PricePerNight  money.Money
	FourWeekRent   money.Money
	InitialPayment money.Money
	// TierFallback marks that no tier matched and the starting nightly rate
	// was used. Not an error; callers log it as a host-data gap.
	TierFallback bool
}

// Quote prices a derived schedule against a rate card and the global config.
// Pure function of its inputs; cheap enough to run on every toggle.
func Quote(sched schedule.Schedule, card RateCard, cfg Config) (Breakdown, error) {
	nights := sched.NightsPerWeek
	if nights < 1 {
		return Breakdown{}, ErrNoSchedule
	}

	nightly, fallback, err := nightlyRate(nights, card, cfg)
	if err != nil {
		return Breakdown{}, err
	}

	base := nightly.Multiply(int64(nights))

	discount := money.Zero(nightly.Currency)
	if cfg.FullTimeDiscountRate > 0 && nights >= cfg.FullTimeNightsThreshold {
		discount, err = discount.Add(base.Percent(cfg.FullTimeDiscountRate))
		if err != nil {
			return Breakdown{}, err
		}
	}
	// The unused-nights discount stacks on top of the full-time one.
	if flat, ok := cfg.UnusedNightsDiscounts[schedule.DaysPerWeek-nights]; ok {
		discount, err = discount.Add(flat)
		if err != nil {
			return Breakdown{}, errors.Join(ErrCurrencyMix, err)
		}
	}

	// Markups apply to the base price independently and sum; they never
	// compound on each other.
	markup := base.Percent(card.MarkupRate)
	for _, rate := range []float64{cfg.SiteMarkupRate, cfg.UnitMarkupRate} {
		markup, err = markup.Add(base.Percent(rate))
		if err != nil {
			return Breakdown{}, err
		}
	}

	afterDiscount, err := base.Sub(discount)
	if err != nil {
		return Breakdown{}, err
	}
	// Deliberately unclamped: a discount larger than base+markup yields a
	// negative total, which the legacy ledger carried as a credit.
	total, err := afterDiscount.Add(markup)
	if err != nil {
		return Breakdown{}, err
	}

	cycleNights := schedule.DaysPerWeek * cfg.BillingCycleWeeks
	if cycleNights <= 0 {
		cycleNights = schedule.DaysPerWeek * 4
	}
	// The legacy engine gated this behind nightsPerWeek >= 28, which can
	// never hold for a weekly schedule; the intended unconditional figure is
	// computed here. See DESIGN.md.
	fourWeek := nightly.Multiply(int64(cycleNights))

	initial := fourWeek
	if initial.IsZero() {
		initial = total
	}

	return Breakdown{
		NightsPerWeek:  nights,
		NightlyRate:    nightly,
		BasePrice:      base,
		DiscountAmount: discount,
		MarkupAmount:   markup,
		TotalPrice:     total,
		PricePerNight:  total.DivideBy(int64(nights)),
		FourWeekRent:   fourWeek,
		InitialPayment: initial,
		TierFallback:   fallback,
	}, nil
}

func nightlyRate(nights int, card RateCard, cfg Config) (money.Money, bool, error) {
	if rate, ok := card.Tiers[nights]; ok {
		return rate, false, nil
	}
	if !card.StartingNightly.IsZero() || card.StartingNightly.Currency != "" {
		return card.StartingNightly, true, nil
	}
	if cfg.Currency != "" {
		return money.Zero(cfg.Currency), true, nil
	}
	return money.Money{}, false, ErrNoRateSource
}

// Calculator is the application-facing port; Engine is its stateless default.
type Calculator interface {
	Quote(ctx context.Context, sched schedule.Schedule, card RateCard) (Breakdown, error)
}

type Engine struct {
	Config Config
}

func (e Engine) Quote(_ context.Context, sched schedule.Schedule, card RateCard) (Breakdown, error) {
	return Quote(sched, card, e.Config)
}

var _ Calculator = Engine{}
