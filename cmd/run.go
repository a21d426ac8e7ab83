package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"thelife/api"
	"thelife/config"
	"thelife/database"
	"thelife/events"
	"thelife/game"
	"thelife/repository"
	"thelife/service"
)

// Run wires the application and serves HTTP until ctx is cancelled
func Run(ctx context.Context, cfg *config.Config) error {
	log.WithField("environment", cfg.Environment).Info("Starting thelife...")

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	eventBus := events.NewBus()

	if cfg.NATSURL != "" {
		natsClient := events.NewNATSClient(cfg.NATSURL)
		if err := natsClient.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer func() {
			if err := natsClient.Close(); err != nil {
				log.WithError(err).Warn("Error closing NATS connection")
			}
		}()
		events.Forward(eventBus, natsClient)
		log.WithField("url", cfg.NATSURL).Info("Forwarding events to NATS")
	}

	var limiter api.Limiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("Redis unreachable, rate limiting will fail open until it recovers")
		}
		limiter = api.NewRedisLimiter(rdb, cfg.ActionRateLimit, cfg.ActionWindow)
	} else {
		limiter = api.NewLocalLimiter(cfg.ActionRateLimit, cfg.ActionWindow)
	}

	catalogCache := repository.NewCatalogCache(cfg.CatalogCacheSize)
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus, catalogCache)

	opts := service.Options{
		MaxAttempts:  cfg.TxMaxAttempts,
		BaseDelay:    cfg.TxRetryBaseDelay,
		StartingCash: cfg.StartingCash,
		Clock:        game.SystemClock{},
		Random:       game.SystemRandom{},
	}
	server := api.New(api.Services{
		Players:     service.NewPlayerService(uowFactory, opts),
		Confinement: service.NewConfinementService(uowFactory, opts),
		Crimes:      service.NewCrimeService(uowFactory, opts),
		Businesses:  service.NewBusinessService(uowFactory, opts),
		Brothels:    service.NewBrothelService(uowFactory, opts),
		Combat:      service.NewCombatService(uowFactory, opts),
		Market:      service.NewMarketService(uowFactory, opts),
	}, limiter)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		hangup := make(chan os.Signal, 1)
		signal.Notify(hangup, syscall.SIGHUP)
		defer signal.Stop(hangup)
		purgeOnHangup(gctx, catalogCache, hangup)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := eventBus.Drain(drainCtx); err != nil {
		log.WithError(err).Warn("Event handlers still running at shutdown")
	}
	log.Info("Shutdown completed")
	return nil
}

// purgeOnHangup empties the catalog cache each time hangup fires, until ctx ends
func purgeOnHangup(ctx context.Context, cache *repository.CatalogCache, hangup <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-hangup:
			dropped := cache.Len()
			cache.Purge()
			log.WithField("dropped", dropped).Info("Catalog cache purged")
		}
	}
}
