package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httptransport "github.com/userdir/directory-service/internal/api/http"
	"github.com/userdir/directory-service/internal/api/http/handlers"
	"github.com/userdir/directory-service/internal/config"
	"github.com/userdir/directory-service/internal/directory"
	"github.com/userdir/directory-service/internal/events"
	"github.com/userdir/directory-service/internal/observability"
	"github.com/userdir/directory-service/internal/persistence"
	"github.com/userdir/directory-service/internal/repository"
	"github.com/userdir/directory-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	err = run(cfg, logger)
	if err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// run serves until a signal arrives. Deferred cleanup runs on every return.
func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, checks, closeStorage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}
	defer closeStorage()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	service.NewNotificationService(dispatcher, logger, metrics, cfg.Notification).RegisterHandlers()

	engine, err := directory.NewEngine(ctx, directory.EngineDependencies{
		Storage:        storage,
		Dispatcher:     dispatcher,
		Logger:         logger.Named("directory"),
		PageSize:       cfg.Directory.PageSize,
		PersistTimeout: cfg.Directory.PersistTimeout(),
	})
	if err != nil {
		return fmt.Errorf("load directory: %w", err)
	}

	app := httptransport.NewApp(cfg.App.Name, logger, metrics, cfg.App.RequestTimeout(), httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, checks, metrics),
		Users:  handlers.NewUsersHandler(engine),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("storage", string(cfg.Storage.Backend)))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			return fmt.Errorf("fiber listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return app.Shutdown()
	})
	return g.Wait()
}

// openStorage connects the configured backend and returns it with the
// readiness checks that cover it.
func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (directory.Storage, map[string]handlers.Pinger, func(), error) {
	switch cfg.Storage.Backend {
	case config.StoragePostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, nil, nil, err
			}
		}
		return repository.NewUserRecordRepository(pg.PoolHandle()), map[string]handlers.Pinger{"postgres": pg}, pg.Close, nil

	case config.StorageRedis:
		rdb, err := persistence.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		return repository.NewRedisUserRecordRepository(rdb.Client, cfg.Redis.Key), map[string]handlers.Pinger{"redis": rdb}, rdb.Close, nil

	default:
		logger.Warn("using in-memory storage; records are lost on restart")
		return repository.NewMemoryUserRecordRepository(), map[string]handlers.Pinger{}, func() {}, nil
	}
}
