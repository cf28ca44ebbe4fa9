package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"CryptoBasket/internal/realtime"
	"CryptoBasket/internal/scheduler"
	xhttp "CryptoBasket/pkg/http"
	applogger "CryptoBasket/pkg/logger"
)

type namedCloser struct {
	name string
	c    io.Closer
}

// App encapsulates the entire application lifecycle.
type App struct {
	logger     *applogger.Logger
	httpServer *xhttp.Server
	scheduler  *scheduler.Scheduler
	hub        *realtime.Hub

	refreshEnabled bool
	refreshCron    string

	closers []namedCloser
	wg      sync.WaitGroup
}

// New creates a new App instance with all dependencies.
func New(logger *applogger.Logger, httpServer *xhttp.Server, sched *scheduler.Scheduler, hub *realtime.Hub) *App {
	if logger == nil {
		logger = applogger.Nop()
	}
	return &App{
		logger:     logger,
		httpServer: httpServer,
		scheduler:  sched,
		hub:        hub,
	}
}

// SetRefreshCron enables periodic refreshes on schedule. The initial refresh at
// startup runs either way.
func (a *App) SetRefreshCron(enabled bool, schedule string) {
	a.refreshEnabled = enabled
	a.refreshCron = schedule
}

// AddCloser registers infrastructure closed last on shutdown, in order.
func (a *App) AddCloser(name string, c io.Closer) {
	if c == nil {
		return
	}
	a.closers = append(a.closers, namedCloser{name: name, c: c})
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the application and blocks until ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	if a.refreshEnabled {
		if err := a.scheduler.Register(a.refreshCron); err != nil {
			return err
		}
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return fmt.Errorf("start http server: %w", err)
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.scheduler.RunNow()
	}()

	if a.refreshEnabled {
		a.scheduler.Start()
		a.logger.Info("refresh scheduled", applogger.String("cron", a.refreshCron))
	}

	<-ctx.Done()
	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()

	// Stop refreshes first so nothing broadcasts into a closing hub.
	a.scheduler.Stop(shutdownCtx)
	a.wg.Wait()

	if a.hub != nil {
		a.hub.Close()
	}

	var firstErr error
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
		firstErr = err
	}

	for _, nc := range a.closers {
		if err := nc.c.Close(); err != nil {
			a.logger.Warn("close error", applogger.String("resource", nc.name), applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return firstErr
}
