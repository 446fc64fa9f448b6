package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/brightsmile/clinic-api/internal/config"
	"github.com/brightsmile/clinic-api/internal/email"
	"github.com/brightsmile/clinic-api/internal/repository/postgres"
	"github.com/brightsmile/clinic-api/pkg/logger"
	"github.com/brightsmile/clinic-api/pkg/messaging/redis"
	"github.com/brightsmile/clinic-api/pkg/metrics"
	"github.com/brightsmile/clinic-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	lg := logger.NewLogger(&logger.Config{Level: level, Pretty: cfg.Log.Pretty})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		lg.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{URL: cfg.Redis.URL}, lg.Zerolog())
	if err != nil {
		lg.Fatal(err, "failed to connect to Redis")
	}
	defer broker.Close()

	outboxRepo := postgres.NewOutboxRepository(db)
	mailer := email.NewMailer(cfg.SMTP)

	dispatcher, err := worker.NewDispatcher(
		outboxRepo,
		broker,
		mailer,
		worker.DispatcherConfig{
			BatchSize:    cfg.Worker.BatchSize,
			PollInterval: time.Duration(cfg.Worker.PollIntervalSeconds) * time.Second,
		},
		lg,
		metrics.NewMetrics("clinic", "worker"),
	)
	if err != nil {
		lg.Fatal(err, "failed to initialize dispatcher")
	}

	startHealthServer(lg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		lg.Info("shutting down worker...")
		cancel()
	}()

	dispatcher.Start(ctx)
}

func startHealthServer(lg *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(":8081", mux); err != nil {
			lg.Error(err, "health server failed")
			os.Exit(1)
		}
	}()
}
