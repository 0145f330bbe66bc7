package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"FinPanel/internal/usecase"
	"FinPanel/pkg/cache"
	pkgch "FinPanel/pkg/clickhouse"
	"FinPanel/pkg/config"
	xhttp "FinPanel/pkg/http"
	applogger "FinPanel/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	checker    *usecase.IntegrityChecker
	chClient   *pkgch.Client
	quoteCache cache.Service
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies. chClient and
// quoteCache may be nil when the configuration does not enable them.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	checker *usecase.IntegrityChecker,
	chClient *pkgch.Client,
	quoteCache cache.Service,
) *App {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	httpServer := xhttp.NewServer(handler,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)

	return &App{
		cfg:        cfg,
		logger:     logger,
		checker:    checker,
		chClient:   chClient,
		quoteCache: quoteCache,
		httpServer: httpServer,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("environment", a.cfg.Environment),
	)

	// Boot-time data check: log the outcome but keep serving either way,
	// operators can re-run it through the API once the source recovers.
	go func() {
		if a.checker.Validate(ctx) {
			a.logger.Info("startup integrity check passed")
		} else {
			a.logger.Warn("startup integrity check failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.quoteCache != nil {
		if err := a.quoteCache.Close(); err != nil {
			a.logger.Warn("quote cache close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
