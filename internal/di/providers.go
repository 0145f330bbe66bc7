package di

import (
	"fmt"

	drepo "FinPanel/internal/domain/repository"
	"FinPanel/internal/handler/api"
	internalrepo "FinPanel/internal/repository"
	"FinPanel/internal/service/stooq"
	"FinPanel/internal/usecase"
	"FinPanel/pkg/cache"
	pkgch "FinPanel/pkg/clickhouse"
	"FinPanel/pkg/config"
	xhttp "FinPanel/pkg/http"
	applogger "FinPanel/pkg/logger"
	"FinPanel/pkg/metrics"
	"FinPanel/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() drepo.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client when the trade ledger
// lives in ClickHouse; with the csv backend it returns nil.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Trades.Backend != "clickhouse" {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideTradeSource selects the trade ledger backend.
func ProvideTradeSource(cfg *config.Config, chClient *pkgch.Client, logger *applogger.Logger) (drepo.TradeSource, error) {
	switch cfg.Trades.Backend {
	case "csv":
		return internalrepo.NewCSVTradeSource(cfg.Trades.CSVPath, logger), nil
	case "clickhouse":
		if chClient == nil {
			return nil, fmt.Errorf("trade source: clickhouse backend requires a client")
		}
		return internalrepo.NewClickHouseTradeSource(chClient.DB(), cfg.Trades.Table, logger), nil
	default:
		return nil, fmt.Errorf("trade source: unknown backend '%s'", cfg.Trades.Backend)
	}
}

// ProvideQuoteCache builds the raw-quote cache layer. Returns nil when the
// cache is disabled, which the provider client treats as a pass-through.
func ProvideQuoteCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.QuoteCache.Enabled {
		return nil, nil
	}

	memOpts := []cache.MemoryOption{}
	if cfg.QuoteCache.MaxSize > 0 {
		memOpts = append(memOpts, cache.WithMemoryMaxSize(cfg.QuoteCache.MaxSize))
	}

	if !cfg.QuoteCache.Redis.Enabled {
		return cache.NewMemoryCache(memOpts...), nil
	}

	redisCache, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.QuoteCache.Redis.Host),
		cache.WithRedisPort(cfg.QuoteCache.Redis.Port),
		cache.WithRedisPassword(cfg.QuoteCache.Redis.Password),
		cache.WithRedisDB(cfg.QuoteCache.Redis.DB),
		cache.WithRedisPrefix("finpanel"),
	)
	if err != nil {
		return nil, fmt.Errorf("quote cache: %w", err)
	}
	return cache.NewLayeredCache(redisCache, memOpts...), nil
}

// ProvideQuoteProvider creates the Stooq daily quote client.
func ProvideQuoteProvider(cfg *config.Config, logger *applogger.Logger, m drepo.Metrics, quoteCache cache.Service) drepo.QuoteProvider {
	httpClient := xhttp.NewClient(xhttp.WithTimeout(cfg.Provider.Timeout))

	opts := []stooq.Option{
		stooq.WithSymbolSuffix(cfg.Provider.SymbolSuffix),
	}
	if cfg.Provider.RateLimit.Capacity > 0 {
		opts = append(opts, stooq.WithRateLimit(cfg.Provider.RateLimit.Capacity, cfg.Provider.RateLimit.RefillPerSec))
	}
	if quoteCache != nil {
		opts = append(opts, stooq.WithQuoteCache(quoteCache, cfg.QuoteCache.TTL))
	}

	return stooq.New(cfg.Provider.BaseURL, httpClient, logger, m, opts...)
}

// ProvidePriceHistory creates the aligned panel use case with its cache.
func ProvidePriceHistory(provider drepo.QuoteProvider, m drepo.Metrics, logger *applogger.Logger, cfg *config.Config) *usecase.PriceHistory {
	return usecase.NewPriceHistory(provider, m, logger, cfg.StartDay())
}

// ProvideIntegrityChecker creates the integrity check use case.
func ProvideIntegrityChecker(trades drepo.TradeSource, history *usecase.PriceHistory, cfg *config.Config, logger *applogger.Logger) *usecase.IntegrityChecker {
	return usecase.NewIntegrityChecker(trades, history, cfg.Tracked(), logger)
}

// ProvideHandler creates the Echo HTTP handler.
func ProvideHandler(logger *applogger.Logger, history *usecase.PriceHistory, checker *usecase.IntegrityChecker, cfg *config.Config) xhttp.Handler {
	return api.NewPanelEchoHandler(logger, history, checker, cfg.Tracked())
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	checker *usecase.IntegrityChecker,
	chClient *pkgch.Client,
	quoteCache cache.Service,
) *server.App {
	return server.New(cfg, logger, handler, checker, chClient, quoteCache)
}
