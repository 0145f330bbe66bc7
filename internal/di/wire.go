//go:build wireinject
// +build wireinject

package di

import (
	"FinPanel/pkg/config"
	"FinPanel/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideQuoteCache,

		// Repositories
		ProvideTradeSource,
		ProvideQuoteProvider,

		// Use cases
		ProvidePriceHistory,
		ProvideIntegrityChecker,

		// HTTP surface
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
