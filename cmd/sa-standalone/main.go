package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/tuanvumaihuynh/sales-analytics/internal/auth"
	"github.com/tuanvumaihuynh/sales-analytics/internal/config"
	"github.com/tuanvumaihuynh/sales-analytics/internal/event"
	"github.com/tuanvumaihuynh/sales-analytics/internal/http"
	"github.com/tuanvumaihuynh/sales-analytics/internal/listing"
	"github.com/tuanvumaihuynh/sales-analytics/internal/log"
	"github.com/tuanvumaihuynh/sales-analytics/internal/relay"
	"github.com/tuanvumaihuynh/sales-analytics/internal/repository"
	"github.com/tuanvumaihuynh/sales-analytics/internal/service"
	"github.com/tuanvumaihuynh/sales-analytics/internal/storage/db"
	"github.com/tuanvumaihuynh/sales-analytics/internal/storage/kv"
	"github.com/tuanvumaihuynh/sales-analytics/internal/storage/mq"
	"github.com/tuanvumaihuynh/sales-analytics/internal/telemetry"
	"github.com/tuanvumaihuynh/sales-analytics/pkg/cmdutil"
	"github.com/tuanvumaihuynh/sales-analytics/pkg/validator"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running standalone application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
		HTTP     config.HTTP
		Auth     config.Auth
		Cache    config.Cache
		Redis    config.Redis
		Relay    config.Relay
		Kafka    config.Kafka
		Otel     config.Otel

		MigrateOnStart bool `env:"MIGRATE_ON_START" envDefault:"false"`
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, pgxPool); err != nil {
			return fmt.Errorf("error migrating database: %w", err)
		}
		logger.InfoContext(ctx, "database migrated")
	}

	dbClient := db.NewClient(pgxPool)

	store, closeStore, err := newStore(ctx, cfg.Cache, cfg.Redis)
	if err != nil {
		return fmt.Errorf("error creating cache store: %w", err)
	}
	defer closeStore()

	kafkaProducer, err := mq.NewKafkaProducer(ctx, cfg.Kafka)
	if err != nil {
		return fmt.Errorf("error creating kafka producer: %w", err)
	}
	defer kafkaProducer.Close()

	kafkaConsumer, err := mq.NewKafkaConsumer(ctx, cfg.Kafka, logger)
	if err != nil {
		return fmt.Errorf("error creating kafka consumer: %w", err)
	}
	defer kafkaConsumer.Close()

	v, err := validator.NewDefaultValidator()
	if err != nil {
		return fmt.Errorf("error creating validator: %w", err)
	}

	listingCache := listing.New(store, cfg.Cache.ListingTTL, logger)

	productRepository := repository.NewProductRepository(dbClient)
	saleRepository := repository.NewSaleRepository(dbClient)
	userRepository := repository.NewUserRepository(dbClient)
	outboxMsgRepository := repository.NewOutboxMsgRepository(dbClient)

	authService, err := auth.NewService(cfg.Auth, userRepository, v)
	if err != nil {
		return fmt.Errorf("error creating auth service: %w", err)
	}
	productService := service.NewProductService(logger, dbClient, v, productRepository, outboxMsgRepository, listingCache)
	saleService := service.NewSaleService(logger, dbClient, v, productRepository, saleRepository, outboxMsgRepository, listingCache)
	statsService := service.NewStatsService(saleRepository)

	httpSvc := http.New(cfg.HTTP, logger, v, http.Services{
		Auth:    authService,
		Product: productService,
		Sale:    saleService,
		Stats:   statsService,
		Health:  dbClient,
	})

	interruptChan := cmdutil.InterruptChan()
	var wg sync.WaitGroup

	wg.Go(func() {
		svc := event.New(logger, kafkaConsumer, listingCache)
		cleanup, err := svc.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running event service: %w", err))
		}
		logger.InfoContext(ctx, "event service started")

		<-interruptChan

		logger.InfoContext(ctx, "event service is shutting down")
		cleanup()

		logger.InfoContext(ctx, "event service is stopped")
	})

	wg.Go(func() {
		cleanup, err := httpSvc.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running http service: %w", err))
		}

		logger.InfoContext(ctx, "http service started", slog.String("address", fmt.Sprintf(":%d", cfg.HTTP.Port)))

		<-interruptChan

		logger.InfoContext(ctx, "http service is shutting down")
		if err := cleanup(ctx); err != nil {
			logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
		}

		logger.InfoContext(ctx, "http service is stopped")
	})

	wg.Go(func() {
		svc := relay.NewService(cfg.Relay, logger, dbClient, outboxMsgRepository, kafkaProducer, httpSvc.Registry())
		cleanup := svc.Run(ctx)
		logger.InfoContext(ctx, "relay service started")

		<-interruptChan

		logger.InfoContext(ctx, "relay service is shutting down")
		cleanup()

		logger.InfoContext(ctx, "relay service is stopped")
	})

	wg.Wait()

	return nil
}

func newStore(ctx context.Context, cacheCfg config.Cache, redisCfg config.Redis) (kv.Store, func(), error) {
	switch cacheCfg.Backend {
	case config.CacheBackendRedis:
		store, err := kv.NewRedisStore(ctx, redisCfg)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return kv.NewMemoryStore(), func() {}, nil
	}
}
