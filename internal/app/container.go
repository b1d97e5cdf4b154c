package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"service-dispatch/internal/config"
	"service-dispatch/internal/http/handlers"
	"service-dispatch/internal/http/middleware"
	"service-dispatch/internal/http/middleware/ratelimit"
	"service-dispatch/internal/http/router"
	"service-dispatch/internal/logx"
	"service-dispatch/internal/repository"
	"service-dispatch/internal/service/candidates"
	"service-dispatch/internal/service/courier"
	"service-dispatch/internal/service/dispatch"
	"service-dispatch/internal/service/offers"
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error)
	logFatalf func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(
	fn func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns the service container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// MustBuildWorker builds and returns the booking-event worker container
func (b *ContainerBuilder) MustBuildWorker(ctx context.Context) *dig.Container {
	container, err := b.buildWorker(ctx)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

func (b *ContainerBuilder) buildWorker(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerWorker(container); err != nil {
		return nil, fmt.Errorf("worker: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns the service container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

// MustBuildWorkerContainer builds and returns the worker container
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuildWorker(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		NewLogger,
		config.Load,
		provideMetrics,
	)
}

func registerDb(
	container *dig.Container,
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) error {
	providerDB := func(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
		return dbConnect(ctx, cfg.DB.DSN(), 10, time.Second)
	}
	providerRedis := func(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
		return connectRedis(ctx, cfg.Redis)
	}
	return provideAll(container, providerDB, providerRedis)
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		repository.NewCourierRepo,
		repository.NewBookingRepo,
		repository.NewLocationStore,
		func(loc *repository.LocationStore, repo *repository.CourierRepo) *candidates.Finder {
			return candidates.NewFinder(loc, repo)
		},
		offers.NewManager,
		dispatch.NewMemoryStore,
		newNotifier,
		newOrchestrator,
		func(repo *repository.CourierRepo, loc *repository.LocationStore) *courier.Service {
			return courier.NewService(repo, loc)
		},
	)
}

type orchestratorIn struct {
	dig.In

	Cfg      *config.Config
	Jobs     *dispatch.MemoryStore
	Finder   *candidates.Finder
	Offers   *offers.Manager
	Bookings *repository.BookingRepo
	Couriers *repository.CourierRepo
	Notifier dispatch.Notifier
	Logger   logx.Logger

	OffersSent  prometheus.Counter `name:"offers_sent_total"`
	Assignments prometheus.Counter `name:"assignments_total"`
	Failures    *prometheus.CounterVec
}

func newOrchestrator(in orchestratorIn) *dispatch.Orchestrator {
	d := in.Cfg.Dispatch
	cfg := dispatch.Config{
		OfferTimeout:   d.OfferTimeout,
		SearchDeadline: d.SearchDeadline,
		MaxAttempts:    d.MaxAttempts,
		Radius: candidates.Ladder{
			InitialKm: d.InitialRadiusKm,
			StepKm:    d.RadiusStepKm,
			MaxKm:     d.MaxRadiusKm,
		},
	}
	return dispatch.NewOrchestrator(cfg, dispatch.Deps{
		Jobs:     in.Jobs,
		Finder:   in.Finder,
		Offers:   in.Offers,
		Bookings: in.Bookings,
		Couriers: in.Couriers,
		Tx:       in.Bookings,
		Notifier: in.Notifier,
		Logger:   in.Logger,
		Counters: dispatch.Counters{
			OffersSent:  in.OffersSent,
			Assignments: in.Assignments,
			Failures:    in.Failures,
		},
	})
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	routerProvider := func(
		base *handlers.Handlers,
		courierH *handlers.CourierHandler,
		dispatchH *handlers.DispatchHandler,
		logger logx.Logger,
		rl *ratelimit.Middleware,
	) http.Handler {
		return router.New(router.Deps{
			Base:          base,
			Courier:       courierH,
			Dispatch:      dispatchH,
			Observability: middleware.Observability(logger),
			RateLimit:     rl.Handler(),
		})
	}
	return provideAll(container,
		handlers.New,
		handlers.NewCourierUsecase,
		handlers.NewCourierHandler,
		handlers.NewDispatchUsecase,
		handlers.NewDispatchHandler,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		routerProvider,
		serverProvider,
	)
}
