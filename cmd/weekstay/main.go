package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"weekstay/internal/app/commands"
	calendarapp "weekstay/internal/app/handlers/calendar"
	reservationapp "weekstay/internal/app/handlers/reservations"
	"weekstay/internal/app/handlers/schedulepreview"
	"weekstay/internal/app/middleware"
	appoutbox "weekstay/internal/app/outbox"
	"weekstay/internal/app/prefs"
	"weekstay/internal/app/queries"
	"weekstay/internal/app/uow"
	"weekstay/internal/domain/listings"
	"weekstay/internal/domain/pricing"
	domainreservation "weekstay/internal/domain/reservation"
	"weekstay/internal/domain/schedule"
	"weekstay/internal/domain/shared/money"
	"weekstay/internal/infra/broker/kafka"
	"weekstay/internal/infra/config"
	dbmongo "weekstay/internal/infra/db/mongo"
	ginserver "weekstay/internal/infra/http/gin"
	"weekstay/internal/infra/obs"
	infraoutbox "weekstay/internal/infra/outbox"
	"weekstay/internal/infra/storage/memory"
	redisstore "weekstay/internal/infra/storage/redis"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger := obs.NewLogger("dev")
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}
	defer app.close(logger)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	fixturesPath := os.Getenv("LISTINGS_FIXTURES")
	if fixturesPath != "" {
		if err := app.loadListingFixtures(ctx, fixturesPath, cfg.Currency); err != nil {
			logger.Warn("listing fixtures load failed", "error", err, "path", fixturesPath)
		}
	}

	if app.outboxWorker != nil {
		go func() {
			if err := app.outboxWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers     ginserver.Handlers
	uowFactory   uow.UoWFactory
	draftQueue   *prefs.Queue
	outboxWorker *infraoutbox.Worker
	ready        func() error
	producer     *kafka.Producer
	mongoClient  *dbmongo.Client
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	pricingCfg := pricing.DefaultConfig(cfg.Currency)
	pricingCfg.SiteMarkupRate = cfg.SiteMarkupRate
	pricingCfg.UnitMarkupRate = cfg.UnitMarkupRate
	pricingCfg.FullTimeDiscountRate = cfg.FullTimeDiscountRate
	pricingCfg.MinNights = cfg.MinNights
	pricingCfg.MaxNights = cfg.MaxNights
	if len(cfg.UnusedNightsDiscounts) > 0 {
		pricingCfg.UnusedNightsDiscounts = make(map[int]money.Money, len(cfg.UnusedNightsDiscounts))
		for unused, cents := range cfg.UnusedNightsDiscounts {
			pricingCfg.UnusedNightsDiscounts[unused] = money.Must(cents, cfg.Currency)
		}
	}
	pricingEngine := pricing.Engine{Config: pricingCfg}

	policy := domainreservation.Policy{
		LeadDays:     cfg.LeadDays,
		MinSpanWeeks: cfg.MinSpanWeeks,
		MaxSpanWeeks: cfg.MaxSpanWeeks,
	}

	app := &application{ready: func() error { return nil }}

	var (
		obox    appoutbox.Outbox
		idStore middleware.IdempotencyStore
		draftSt prefs.Store
	)

	switch cfg.StorageMode {
	case config.StorageMongo:
		client, err := dbmongo.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		app.mongoClient = client
		app.ready = func() error { return client.Ping(context.Background()) }
		app.uowFactory = dbmongo.Factory{
			DB:               client.DB,
			ListingsRepo:     dbmongo.NewListingRepository(client.DB),
			CalendarsRepo:    dbmongo.NewCalendarRepository(client.DB),
			ReservationsRepo: dbmongo.NewReservationRepository(client.DB),
			PricingSvc:       pricingEngine,
		}
		idStore = dbmongo.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL)
		store := infraoutbox.NewStore(client.DB)
		obox = store

		if len(cfg.KafkaBrokers) > 0 {
			producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
			if err != nil {
				return nil, fmt.Errorf("kafka producer: %w", err)
			}
			app.producer = producer
			app.outboxWorker = &infraoutbox.Worker{
				Store:       store,
				Producer:    producer,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Backoff:     cfg.RetryBackoff,
			}
		} else {
			logger.Warn("no kafka brokers configured, outbox events stay queued")
		}

		if cfg.RedisAddr != "" {
			rdb := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
			draftSt = redisstore.NewPrefsStore(rdb, cfg.DraftTTL)
		} else {
			draftSt = memory.NewPrefsStore()
		}
	default:
		app.uowFactory = memory.Factory{
			ListingsRepo:     memory.NewListingRepository(),
			CalendarsRepo:    memory.NewCalendarRepository(),
			ReservationsRepo: memory.NewReservationRepository(),
			PricingSvc:       pricingEngine,
		}
		idStore = memory.NewIdempotencyStore()
		obox = memory.NewOutbox()
		draftSt = memory.NewPrefsStore()
	}

	app.draftQueue = prefs.NewQueue(draftSt, cfg.DraftFlushInterval, logger)

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, calendarapp.ToggleSlotCommand{}.Key(), &calendarapp.ToggleSlotHandler{
		UoWFactory: app.uowFactory,
		Outbox:     obox,
		Encoder:    appoutbox.JSONEventEncoder{},
	})
	commands.RegisterHandler(commandBus, calendarapp.ToggleFullDayCommand{}.Key(), &calendarapp.ToggleFullDayHandler{
		UoWFactory: app.uowFactory,
		Outbox:     obox,
		Encoder:    appoutbox.JSONEventEncoder{},
	})
	commands.RegisterHandler(commandBus, reservationapp.SubmitCommand{}.Key(), &reservationapp.SubmitHandler{
		UoWFactory: app.uowFactory,
		Policy:     policy,
		Outbox:     obox,
		Encoder:    appoutbox.JSONEventEncoder{},
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, schedulepreview.PreviewQuery{}.Key(), &schedulepreview.PreviewHandler{
		Logger:     logger,
		UoWFactory: app.uowFactory,
	})
	queries.RegisterHandler(queryBus, calendarapp.GetWeekQuery{}.Key(), &calendarapp.GetWeekHandler{
		UoWFactory: app.uowFactory,
	})
	queries.RegisterHandler(queryBus, reservationapp.GetQuery{}.Key(), &reservationapp.GetHandler{
		UoWFactory: app.uowFactory,
	})
	queries.RegisterHandler(queryBus, reservationapp.ListByGuestQuery{}.Key(), &reservationapp.ListByGuestHandler{
		UoWFactory: app.uowFactory,
	})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Validation(middleware.SelfValidator{}),
		middleware.Idempotency(idStore, nil),
		middleware.Transaction(app.uowFactory, nil),
		middleware.OutboxFlush(obox),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	app.handlers = ginserver.Handlers{
		Schedule: ginserver.ScheduleHandler{Queries: queryBusWithMiddleware},
		Calendar: ginserver.CalendarHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
		},
		Reservation: ginserver.ReservationHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
		},
		Draft: ginserver.DraftHandler{Store: draftSt, Queue: app.draftQueue},
	}
	return app, nil
}

func (a *application) close(logger *slog.Logger) {
	if a.draftQueue != nil {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.draftQueue.Close(closeCtx); err != nil {
			logger.Warn("draft queue close failed", "error", err)
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			logger.Warn("kafka producer close failed", "error", err)
		}
	}
	if a.mongoClient != nil {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.mongoClient.Close(disconnectCtx); err != nil {
			logger.Warn("mongo disconnect failed", "error", err)
		}
	}
}

type listingFixture struct {
	ID            string           `json:"id"`
	Host          string           `json:"host"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Tiers         map[string]int64 `json:"tiers"`
	StartingRate  int64            `json:"starting_nightly_cents"`
	MarkupRate    float64          `json:"markup_rate"`
	MinNights     int              `json:"min_nights"`
	MaxNights     int              `json:"max_nights"`
	AvailableDays []string         `json:"available_days"`
	CheckInTime   string           `json:"check_in_time"`
	CheckOutTime  string           `json:"check_out_time"`
	Active        bool             `json:"active"`
}

// loadListingFixtures seeds listings from a JSON file, mainly for memory
// mode demos.
func (a *application) loadListingFixtures(ctx context.Context, path, currency string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixtures: %w", err)
	}
	var fixtures []listingFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	unit, err := a.uowFactory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, fx := range fixtures {
		tiers := make(pricing.TierTable, len(fx.Tiers))
		for key, cents := range fx.Tiers {
			nights, err := parseTierKey(key)
			if err != nil {
				return err
			}
			tiers[nights] = money.Money{Amount: cents, Currency: currency}
		}
		days := make([]schedule.Weekday, 0, len(fx.AvailableDays))
		for _, name := range fx.AvailableDays {
			d, err := schedule.ParseWeekday(name)
			if err != nil {
				return err
			}
			days = append(days, d)
		}
		listing, err := listings.NewListing(listings.CreateParams{
			ID:     listings.ListingID(fx.ID),
			Host:   listings.HostID(fx.Host),
			Title:  fx.Title,
			Description: fx.Description,
			Rates: pricing.RateCard{
				Tiers:           tiers,
				StartingNightly: money.Money{Amount: fx.StartingRate, Currency: currency},
				MarkupRate:      fx.MarkupRate,
			},
			MinNights:     fx.MinNights,
			MaxNights:     fx.MaxNights,
			AvailableDays: schedule.NewSelection(days...),
			CheckInTime:   fx.CheckInTime,
			CheckOutTime:  fx.CheckOutTime,
			Now:           now,
		})
		if err != nil {
			return fmt.Errorf("fixture %s: %w", fx.ID, err)
		}
		if fx.Active {
			if err := listing.Activate(now); err != nil {
				return fmt.Errorf("fixture %s: %w", fx.ID, err)
			}
		}
		listing.ClearEvents()
		if err := unit.Listings().Save(ctx, listing); err != nil {
			return err
		}
	}
	return unit.Commit(ctx)
}

func parseTierKey(key string) (int, error) {
	var nights int
	if _, err := fmt.Sscanf(key, "%d", &nights); err != nil {
		return 0, fmt.Errorf("invalid tier key %q: %w", key, err)
	}
	return nights, nil
}
