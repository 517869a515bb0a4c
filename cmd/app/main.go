package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/wesleysambacht/booking/api"
	"github.com/wesleysambacht/booking/config"
	"github.com/wesleysambacht/booking/internal/bootstrap"
	"github.com/wesleysambacht/booking/internal/cache"
	"github.com/wesleysambacht/booking/internal/domain"
	"github.com/wesleysambacht/booking/internal/integrations/ambachtapi"
	"github.com/wesleysambacht/booking/internal/kafka"
	"github.com/wesleysambacht/booking/internal/logger"
	"github.com/wesleysambacht/booking/internal/metrics"
	"github.com/wesleysambacht/booking/internal/notify"
	"github.com/wesleysambacht/booking/internal/repository"
	"github.com/wesleysambacht/booking/internal/service/availability"
	"github.com/wesleysambacht/booking/internal/service/bookingflow"
	"github.com/wesleysambacht/booking/internal/service/steps"
	"github.com/wesleysambacht/booking/internal/service/submission"
	"github.com/wesleysambacht/booking/internal/session"
)

// interaction events buffered per subscriber before the bus starts dropping
const eventBuffer = 256

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	log := logger.New(logger.LevelInfo, os.Stderr)

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatal("load config: %v", err)
	}
	level, err := logger.ParseLevel(cfg.Logs.Level)
	if err != nil {
		log.Fatal("load config: %v", err)
	}
	log.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server error: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg, cfg.Metrics.Namespace)

	var pool *pgxpool.Pool
	if cfg.NeedsDatabase() {
		p, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer p.Close()
		pool = p
	}

	source, creator := newBackend(cfg, pool, log)

	storeOpts := []availability.Option{
		availability.WithMetrics(m),
		availability.WithWindowDays(cfg.Availability.WindowDays),
		availability.WithRefreshInterval(cfg.Availability.RefreshInterval()),
	}
	if cfg.Redis.Enabled {
		redisCache := cache.NewRedisCache(cfg.Redis, cfg.Availability.RefreshInterval())
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn("redis unavailable, snapshots are not shared: %v", err)
		}
		storeOpts = append(storeOpts, availability.WithCache(redisCache))
	}
	store := availability.NewStore(source, log, storeOpts...)

	changes, err := changeStream(ctx, cfg, pool, log)
	if err != nil {
		return err
	}
	go func() {
		if err := store.Run(ctx, changes); err != nil && ctx.Err() == nil {
			log.Error("availability store stopped: %v", err)
		}
	}()

	var producer *kafka.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer = kafka.NewProducer(cfg.Kafka.Brokers, log)
		defer producer.Close()
	}

	bus := bookingflow.NewBus(m.ObserveDroppedEvent)
	defer bus.Close()
	events, unsubscribe := bus.Subscribe(eventBuffer)
	defer unsubscribe()

	handlers := []bookingflow.Handler{bookingflow.LogHandler(log), bookingflow.MetricsHandler(m)}
	if producer != nil && cfg.Kafka.InteractionsTopic != "" {
		handlers = append(handlers, bookingflow.PublishHandler(producer, cfg.Kafka.InteractionsTopic, log))
	}
	go bookingflow.Consume(ctx, events, handlers...)

	registry := session.NewRegistry(bus, log, time.Now)
	go registry.RunSweeper(ctx, cfg.Sessions.SweepInterval(), cfg.Sessions.IdleTTL())

	submitOpts := []submission.Option{submission.WithSlotChecker(store), submission.WithMetrics(m)}
	if producer != nil && cfg.Kafka.NotificationsTopic != "" {
		submitOpts = append(submitOpts, submission.WithNotifier(notify.NewKafkaNotifier(producer, cfg.Kafka.NotificationsTopic)))
	}
	submitter := submission.NewService(creator, log, submitOpts...)

	routes := bootstrap.Handlers{
		Availability: api.NewAvailabilityHandler(store),
		Sessions:     api.NewSessionHandler(registry, steps.New(store, time.Now), submitter, steps.DefaultCalendarDays),
	}
	return bootstrap.Run(ctx, cfg, routes, reg, m, log)
}

func newBackend(cfg *config.Config, pool *pgxpool.Pool, log *logger.Logger) (availability.Source, submission.BookingCreator) {
	if cfg.Backend.Mode == config.BackendModePostgres {
		log.Info("using postgres backend")
		return repository.NewAvailabilityRepository(pool), repository.NewBookingRepository(pool)
	}
	log.Info("using rest backend at %s", cfg.Backend.BaseURL)
	client := ambachtapi.NewClient(cfg.Backend.BaseURL, cfg.Backend.APIKey, cfg.Backend.Timeout(), log)
	return client, client
}

// changeStream returns nil when real-time updates are off; the store then relies on its ticker.
func changeStream(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, log *logger.Logger) (<-chan domain.AvailabilityChange, error) {
	switch cfg.Realtime.Mode {
	case config.RealtimeModeKafka:
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.AvailabilityTopic)
		go func() {
			<-ctx.Done()
			consumer.Close()
		}()
		return kafka.AvailabilityChanges(ctx, consumer, log), nil
	case config.RealtimeModePostgres:
		changes, err := repository.NewChangeListener(pool, cfg.Realtime.Channel, log).Listen(ctx)
		if err != nil {
			return nil, fmt.Errorf("listen for availability changes: %w", err)
		}
		return changes, nil
	default:
		return nil, nil
	}
}
