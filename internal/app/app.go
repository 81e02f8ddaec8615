package app

import (
	"context"
	"net"
	"net/http"
	"time"

	"catalog_service/config"
	"catalog_service/internal/delivery"
	grpcdelivery "catalog_service/internal/delivery/grpc"
	"catalog_service/internal/domain"
	"catalog_service/internal/events"
	"catalog_service/internal/repository"
	"catalog_service/internal/seed"
	"catalog_service/internal/usecase"
	"catalog_service/pkg/db"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// App owns the object graph and the long-lived resources behind it.
type App struct {
	cfg       *config.Config
	log       *logrus.Logger
	database  *sqlx.DB
	publisher events.Publisher
	router    *gin.Engine
	grpc      *grpcdelivery.Server
}

func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*App, error) {
	a := &App{cfg: cfg, log: logger}

	categoryRepo, productRepo, err := a.stores(ctx)
	if err != nil {
		return nil, err
	}
	logger.Infof("Repositories initialized (driver=%s).", cfg.StoreDriver)

	if cfg.SeedOnStart {
		if err := seed.Run(ctx, categoryRepo, productRepo, logger); err != nil {
			a.Close()
			return nil, errors.Wrap(err, "failed to seed catalog")
		}
	}

	if len(cfg.KafkaBrokers) > 0 {
		a.publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		logger.Infof("Publishing catalog events to kafka topic %s", cfg.KafkaTopic)
	} else {
		a.publisher = events.NewLogPublisher(logger)
		logger.Info("No KAFKA_BROKERS configured, catalog events go to the log")
	}

	categoryUseCase := usecase.NewCategoryUseCase(categoryRepo, logger)
	productUseCase := usecase.NewProductUseCase(
		productRepo,
		categoryRepo,
		usecase.NewSearchEngine(productRepo, logger),
		usecase.NewInventoryLedger(productRepo, a.publisher, logger),
		a.publisher,
		logger,
	)
	logger.Info("Use cases initialized.")

	cache := delivery.CachePolicy{
		ListSeconds:   cfg.CacheShortSeconds,
		DetailSeconds: cfg.CacheLongSeconds,
	}
	a.router = delivery.NewRouter(
		delivery.NewProductHandler(productUseCase, cache, logger),
		delivery.NewCategoryHandler(categoryUseCase, cache, logger),
		logger,
	)
	a.grpc = grpcdelivery.NewServer(grpcdelivery.NewCatalogHandler(productUseCase, logger), logger)
	logger.Info("Handlers initialized.")

	return a, nil
}

func (a *App) stores(ctx context.Context) (domain.CategoryRepository, domain.ProductRepository, error) {
	switch a.cfg.StoreDriver {
	case config.DriverPostgres:
		database, err := db.Connect(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		a.database = database
		a.log.Info("Database connection established.")
		return repository.NewPostgresCategoryRepository(database, a.log),
			repository.NewPostgresProductRepository(database, a.log),
			nil
	case config.DriverMemory:
		return repository.NewMemoryCategoryRepository(a.log),
			repository.NewMemoryProductRepository(a.log),
			nil
	default:
		return nil, nil, errors.Errorf("unknown store driver %q", a.cfg.StoreDriver)
	}
}

func (a *App) Handler() http.Handler {
	return a.router
}

// Run listens on the configured ports until ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	httpLis, err := net.Listen("tcp", a.cfg.HTTPPort)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", a.cfg.HTTPPort)
	}
	grpcLis, err := net.Listen("tcp", a.cfg.GrpcPort)
	if err != nil {
		_ = httpLis.Close()
		return errors.Wrapf(err, "failed to listen on %s", a.cfg.GrpcPort)
	}
	return a.Serve(ctx, httpLis, grpcLis)
}

// Serve runs the HTTP and gRPC servers on the given listeners and shuts both
// down gracefully once ctx is canceled or either server fails.
func (a *App) Serve(ctx context.Context, httpLis, grpcLis net.Listener) error {
	httpServer := &http.Server{
		Handler:           a.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Infof("HTTP server listening on %s", httpLis.Addr())
		if err := httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})
	g.Go(func() error {
		a.log.Infof("gRPC server listening on %s", grpcLis.Addr())
		return errors.Wrap(a.grpc.Serve(grpcLis), "grpc server")
	})
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("Shutting down servers...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()

		stopped := make(chan struct{})
		go func() {
			a.grpc.GracefulStop()
			close(stopped)
		}()
		err := httpServer.Shutdown(shutdownCtx)
		select {
		case <-stopped:
		case <-shutdownCtx.Done():
			a.grpc.Stop()
		}
		return errors.Wrap(err, "http shutdown")
	})

	return g.Wait()
}

func (a *App) Close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Errorf("Failed to close event publisher: %v", err)
		}
	}
	if a.database != nil {
		if err := a.database.Close(); err != nil {
			a.log.Errorf("Failed to close database: %v", err)
		}
	}
}
