package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env                string
	HTTPAddr           string
	StorageMode        string
	MongoURI           string
	MongoDB            string
	RedisAddr          string
	RedisDB            int
	KafkaBrokers       []string
	KafkaTopicPrefix   string
	IdempotencyTTL     time.Duration
	OutboxPollInterval time.Duration
	RetryBackoff       []time.Duration
	DraftFlushInterval time.Duration
	DraftTTL           time.Duration

	// Pricing knobs; rates are fractions (0.1 == 10%).
	Currency             string
	SiteMarkupRate       float64
	UnitMarkupRate       float64
	FullTimeDiscountRate float64
	MinNights            int
	MaxNights            int
	// UnusedNightsDiscounts maps unused nights per week (7 - nights booked)
	// to a flat discount in minor units.
	UnusedNightsDiscounts map[int]int64

	// Reservation policy.
	LeadDays     int
	MinSpanWeeks int
	MaxSpanWeeks int
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		StorageMode:      strings.ToLower(getEnv("STORAGE_MODE", StorageMemory)),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "weekstay"),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
		Currency:         getEnv("PRICING_CURRENCY", "USD"),
	}

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	var err error
	if cfg.RedisDB, err = parseIntEnv("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = parseDurationEnv("IDEMP_TTL", 168*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.OutboxPollInterval, err = parseDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond); err != nil {
		return Config{}, err
	}
	if cfg.DraftFlushInterval, err = parseDurationEnv("DRAFT_FLUSH_INTERVAL", 2*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.DraftTTL, err = parseDurationEnv("DRAFT_TTL", 720*time.Hour); err != nil {
		return Config{}, err
	}

	retryStr := getEnv("RETRY_BACKOFF", "1s,5s,30s")
	for _, raw := range strings.Split(retryStr, ",") {
		val := strings.TrimSpace(raw)
		if val == "" {
			continue
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RETRY_BACKOFF component %q: %w", raw, err)
		}
		cfg.RetryBackoff = append(cfg.RetryBackoff, d)
	}

	if cfg.SiteMarkupRate, err = parseFloatEnv("SITE_MARKUP_RATE", 0.10); err != nil {
		return Config{}, err
	}
	if cfg.UnitMarkupRate, err = parseFloatEnv("UNIT_MARKUP_RATE", 0); err != nil {
		return Config{}, err
	}
	if cfg.FullTimeDiscountRate, err = parseFloatEnv("FULL_TIME_DISCOUNT_RATE", 0.05); err != nil {
		return Config{}, err
	}
	if cfg.MinNights, err = parseIntEnv("MIN_NIGHTS", 2); err != nil {
		return Config{}, err
	}
	if cfg.MaxNights, err = parseIntEnv("MAX_NIGHTS", 7); err != nil {
		return Config{}, err
	}
	if cfg.UnusedNightsDiscounts, err = parseDiscountTableEnv("UNUSED_NIGHTS_DISCOUNTS"); err != nil {
		return Config{}, err
	}
	if cfg.LeadDays, err = parseIntEnv("MOVE_IN_LEAD_DAYS", 14); err != nil {
		return Config{}, err
	}
	if cfg.MinSpanWeeks, err = parseIntEnv("MIN_SPAN_WEEKS", 4); err != nil {
		return Config{}, err
	}
	if cfg.MaxSpanWeeks, err = parseIntEnv("MAX_SPAN_WEEKS", 52); err != nil {
		return Config{}, err
	}

	switch cfg.StorageMode {
	case StorageMemory:
	case StorageMongo:
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required when STORAGE_MODE=%s", StorageMongo)
		}
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_MODE %q", cfg.StorageMode)
	}
	if cfg.MinNights > cfg.MaxNights {
		return Config{}, fmt.Errorf("MIN_NIGHTS %d exceeds MAX_NIGHTS %d", cfg.MinNights, cfg.MaxNights)
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseIntEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return n, nil
}

// parseDiscountTableEnv reads "unusedNights:amountCents" pairs, e.g.
// "5:5000,4:3000". An empty or unset variable yields a nil table.
func parseDiscountTableEnv(key string) (map[int]int64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil, nil
	}
	table := make(map[int]int64)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid %s entry %q, want nights:cents", key, entry)
		}
		nights, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil || nights < 0 {
			return nil, fmt.Errorf("invalid %s nights in %q", key, entry)
		}
		cents, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil || cents < 0 {
			return nil, fmt.Errorf("invalid %s amount in %q", key, entry)
		}
		table[nights] = cents
	}
	return table, nil
}

func parseFloatEnv(key string, def float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s number: %w", key, err)
	}
	return f, nil
}
