package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"service-scheduler/internal/config"
	"service-scheduler/internal/database"
	"service-scheduler/internal/handlers"
	"service-scheduler/internal/logger"
	"service-scheduler/internal/models"
	"service-scheduler/internal/notify"
	"service-scheduler/internal/server"
	"service-scheduler/internal/workingset"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg := logger.New(cfg.IsProduction(), cfg.LogFile)
	defer lg.Sync()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	db, err := database.Open(cfg.DBDSN, lg)
	if err != nil {
		return err
	}
	if err := database.EnsureAdmin(db, cfg.AdminUsername, cfg.AdminPassword, lg); err != nil {
		return err
	}
	store := database.NewStore(db)

	notifier, err := newNotifier(cfg, lg)
	if err != nil {
		return err
	}
	defer notifier.Close()

	cache := workingset.New(func(ctx context.Context, userID uint) ([]models.ScheduledProject, error) {
		return store.ListScheduled(ctx, userID, nil, nil)
	}, lg)

	h := handlers.New(store, cache, notifier, lg, cfg.JWTSecret)
	r := server.NewRouter(cfg, h, store, store, lg)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	// слушатель изменений держит снимки расписания в актуальном состоянии
	g.Go(func() error {
		if err := cache.Run(gctx, notifier); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("working set listener: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		lg.Info("starting server", zap.String("addr", srv.Addr), zap.String("notify", cfg.NotifyBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		lg.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newNotifier(cfg *config.Config, lg *zap.Logger) (notify.Notifier, error) {
	switch cfg.NotifyBackend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		return notify.NewRedis(rdb, lg), nil
	case "amqp":
		a, err := notify.NewAMQP(cfg.AMQPURL, lg)
		if err != nil {
			return nil, fmt.Errorf("connect to amqp: %w", err)
		}
		return a, nil
	default:
		return notify.NewLocal(), nil
	}
}

