package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"

	"swapsecure/internal/gateway"
	"swapsecure/internal/ledger"
	"swapsecure/internal/ledger/feed"
	"swapsecure/internal/mirror"
	"swapsecure/internal/operator"
	"swapsecure/internal/platform/config"
	"swapsecure/internal/platform/httpserver"
	"swapsecure/internal/platform/logger"
	"swapsecure/internal/platform/metrics"
	"swapsecure/internal/platform/postgres"
	"swapsecure/internal/platform/redis"
	"swapsecure/internal/subscriber"
	"swapsecure/internal/swap"
	httptransport "swapsecure/internal/transport/http"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Persistence. Without a database URL everything runs on the in-memory
	// stores, which is the local development and demo mode.
	var (
		subscriberStore subscriber.Store = subscriber.NewInMemoryStore()
		swapStore       swap.Store       = swap.NewInMemoryStore()
		chainStore      ledger.Store     = ledger.NewInMemoryStore()
		mirrorStore     mirror.Store     = mirror.NewInMemoryStore()
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		subscriberStore = subscriber.NewPostgresStore(db)
		swapStore = swap.NewPostgresStore(db)
		chainStore = ledger.NewPostgresStore(db)
		mirrorStore = mirror.NewPostgresStore(db)
		log.Info("postgres connected")
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	redisClient, err := redis.New(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Audit chain, optionally streamed to Kafka.
	ledgerOpts := []ledger.Option{
		ledger.WithIndexGauge(func(i int64) { m.LedgerChainIndex.Set(float64(i)) }),
	}
	if len(cfg.Kafka.Seeds) > 0 {
		publisher, err := feed.NewPublisher(ctx, cfg.Kafka.Seeds, cfg.Kafka.Topic, log)
		if err != nil {
			log.Warn("kafka feed disabled", "error", err)
		} else {
			defer publisher.Close(context.Background())
			ledgerOpts = append(ledgerOpts, ledger.WithFeed(publisher))
			log.Info("kafka audit feed enabled", "topic", cfg.Kafka.Topic)
		}
	}
	ledgerSvc := ledger.NewService(chainStore, log, ledgerOpts...)

	// External ledger mirror: live gateway when enabled, simulated otherwise.
	var ledgerMirror mirror.Mirror
	if cfg.Mirror.Enabled && cfg.Mirror.GatewayURL != "" {
		ledgerMirror = mirror.NewLive(mirrorStore, cfg.Mirror.GatewayURL, cfg.Mirror.ContractAddress,
			cfg.Mirror.Timeout, log,
			mirror.WithFailureCounter(func(op string) { m.MirrorFailures.WithLabelValues(op).Inc() }))
		log.Info("live ledger mirror enabled", "gateway", cfg.Mirror.GatewayURL)
	} else {
		ledgerMirror = mirror.NewDemo(mirrorStore, cfg.Mirror.ContractAddress, log)
		log.Info("demo ledger mirror enabled")
	}

	subscriberSvc := subscriber.NewService(subscriberStore, ledgerSvc, ledgerMirror, log)

	swapOpts := []swap.Option{
		swap.WithMetrics(m),
		swap.WithReviewAsPassed(cfg.TreatReviewAsPassed),
	}
	if cfg.Didit.APIKey != "" {
		vendor := gateway.NewClient(cfg.Didit.BaseURL, cfg.Didit.APIKey, cfg.Didit.WorkflowID,
			cfg.Didit.CallbackURL, cfg.Didit.Timeout)
		swapOpts = append(swapOpts, swap.WithVendor(vendor))
	} else {
		log.Warn("DIDIT_API_KEY not set, external KYC disabled")
	}
	swapSvc := swap.NewService(swapStore, subscriberStore, ledgerSvc, ledgerMirror, log, swapOpts...)

	var archiver *gateway.Archiver
	if cfg.Archive.Bucket != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			log.Warn("webhook archive disabled", "error", err)
		} else {
			archiver = gateway.NewArchiver(s3.NewFromConfig(awsCfg), cfg.Archive.Bucket, cfg.Archive.Prefix, log)
			log.Info("webhook archive enabled", "bucket", cfg.Archive.Bucket)
		}
	}

	operatorSvc := operator.New(cfg.Operator.PasswordHash, cfg.Operator.JWTSigningKey, cfg.Operator.TokenTTL)

	router := httptransport.NewRouter(&httptransport.Handlers{
		Swap:          swapSvc,
		Subscribers:   subscriberSvc,
		Ledger:        ledgerSvc,
		Mirror:        mirrorStore,
		Operator:      operatorSvc,
		WebhookSecret: cfg.Didit.WebhookSecret,
		Replay:        gateway.NewReplayGuard(redisClient),
		Archive:       archiver,
		Metrics:       m,
		Logger:        log,
	})

	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting swapsecure", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
