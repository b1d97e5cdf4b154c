package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"service-dispatch/internal/config"
	"service-dispatch/internal/http/pprofserver"
	"service-dispatch/internal/logx"
)

// Runner runs the HTTP server
type Runner struct {
	runFn func(*dig.Container) error
}

// NewRunner returns a new Runner
func NewRunner() *Runner {
	return &Runner{runFn: run}
}

// MustRun starts the HTTP server using the provided DI container
func (r *Runner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, context.Canceled):
		logFromContainer(container).Info("shutdown requested, exiting")
	case errors.Is(err, context.DeadlineExceeded):
		logFromContainer(container).Info("startup aborted: startup timeout exceeded")
	default:
		log.Fatalf("run error: %v", err)
	}
}

func logFromContainer(container *dig.Container) logx.Logger {
	logger := logx.Nop()
	_ = container.Invoke(func(l logx.Logger) { logger = l })
	return logger
}

func run(container *dig.Container) error {
	return container.Invoke(func(
		server *http.Server,
		ctx context.Context,
		pool *pgxpool.Pool,
		rdb *redis.Client,
		cfg *config.Config,
		logger logx.Logger,
		closeNotify notifierCloser,
	) error {
		startPprof(cfg.Pprof, logger)
		startServer(server, logger)
		waitForShutdown(ctx, logger)
		gracefulShutdown(server, logger, 15*time.Second)
		closeResources(server, pool, rdb, closeNotify, logger)
		return ctx.Err()
	})
}

func startPprof(cfg config.Pprof, logger logx.Logger) {
	if cfg.Port <= 0 {
		return
	}
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("pprof listening", logx.String("addr", addr))
		h := pprofserver.Handler(pprofserver.Config{User: cfg.User, Pass: cfg.Pass})
		if err := http.ListenAndServe(addr, h); err != nil && err != http.ErrServerClosed {
			logger.Error("pprof listen error", logx.Any("err", err))
		}
	}()
}

func startServer(server *http.Server, logger logx.Logger) {
	go func() {
		logger.Info("service-dispatch listening", logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen error: %v", err)
		}
	}()
}

func waitForShutdown(ctx context.Context, logger logx.Logger) {
	<-ctx.Done()
	logger.Info("shutting down service-dispatch...")
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Error("graceful shutdown error", logx.Any("err", err))
	}
}

func closeResources(
	server *http.Server,
	pool *pgxpool.Pool,
	rdb *redis.Client,
	closeNotify notifierCloser,
	logger logx.Logger,
) {
	if err := server.Close(); err != nil {
		logger.Error("server close error", logx.Any("err", err))
	}
	if closeNotify != nil {
		if err := closeNotify(); err != nil {
			logger.Error("notifier close error", logx.Any("err", err))
		}
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("redis close error", logx.Any("err", err))
		}
	}
	if pool != nil {
		pool.Close()
	}
}
