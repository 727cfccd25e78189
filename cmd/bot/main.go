package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DanMarqz/Cryptocat/internal/bot"
	"github.com/DanMarqz/Cryptocat/internal/dedup"
	apperrors "github.com/DanMarqz/Cryptocat/internal/errors"
	"github.com/DanMarqz/Cryptocat/internal/health"
	"github.com/DanMarqz/Cryptocat/internal/lifecycle"
	"github.com/DanMarqz/Cryptocat/internal/quote"
	"github.com/DanMarqz/Cryptocat/pkg/config"
	"github.com/DanMarqz/Cryptocat/pkg/graceful"
	"github.com/DanMarqz/Cryptocat/pkg/logger"
	redispkg "github.com/DanMarqz/Cryptocat/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "cryptocat: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, v, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, logLevel := logger.New(cfg.Log, cfg.Sentry.Enabled)
	slog.SetDefault(log)

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.AppEnv,
			Release:     cfg.App.Name + "@" + cfg.App.Version,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
	}

	config.Watch(v, log, func(next config.Config) {
		logLevel.Set(logger.ParseLevel(next.Log.Level))
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting cryptocat bot",
		slog.String("name", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.AppEnv),
	)

	fetcher := quote.NewClient(cfg.Quote, log)
	shutdown := lifecycle.NewShutdown(log)

	var dedupStore dedup.Store = dedup.NewMemoryStore()
	var redisClient *redispkg.Client
	if cfg.Redis.Enabled {
		redisClient, err = redispkg.New(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		dedupStore = dedup.NewRedisStore(redisClient, log)
		shutdown.Register("redis", func(context.Context) error {
			return redisClient.Close()
		})
	}

	errHandler := apperrors.NewHandler(log, cfg.Sentry.Enabled)

	b, err := bot.New(*cfg, log, fetcher, dedupStore, errHandler)
	if err != nil {
		return fmt.Errorf("initialize bot: %w", err)
	}

	if cfg.Metrics.Enabled {
		checker := health.NewChecker(log)
		checker.AddCheck("telegram", health.NewTelegramChecker(b.Telebot()))
		checker.AddCheck("quote", health.NewQuoteChecker(fetcher))
		if redisClient != nil {
			checker.AddCheck("redis", redisClient)
		}

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.Handle("/healthz", health.HTTPHandler(checker))

		srv := graceful.NewServer(log, &http.Server{
			Addr:    ":" + cfg.Metrics.Port,
			Handler: mux,
		}, shutdownTimeout)

		go func() {
			if err := srv.ListenAndServe(ctx); err != nil {
				log.Error("metrics server failed", slog.Any("error", err))
			}
		}()
	}

	if cfg.Sentry.Enabled {
		shutdown.Register("sentry", func(context.Context) error {
			sentry.Flush(2 * time.Second)
			return nil
		})
	}

	// blocks until signal; both update lanes drain before Start returns
	b.Start(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return shutdown.Execute(shutdownCtx)
}
