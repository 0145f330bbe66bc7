package usecase

import (
	"context"

	drepo "FinPanel/internal/domain/repository"
	xlogger "FinPanel/pkg/logger"
)

// IntegrityChecker answers "is the system usable": the ledger loads and is
// non-empty, and every tracked symbol carries at least one aligned
// observation. It never returns an error: every internal failure reduces to
// false, with the reason logged. Callers that need the cause must invoke
// the loader or history service directly.
type IntegrityChecker struct {
	trades  drepo.TradeSource
	history *PriceHistory
	tracked []string
	logger  *xlogger.Logger
}

// NewIntegrityChecker creates the checker for the configured tracked symbols.
func NewIntegrityChecker(trades drepo.TradeSource, history *PriceHistory, tracked []string, logger *xlogger.Logger) *IntegrityChecker {
	return &IntegrityChecker{
		trades:  trades,
		history: history,
		tracked: tracked,
		logger:  logger,
	}
}

// Validate runs the full check. Read-only apart from populating the panel
// cache as a byproduct.
func (c *IntegrityChecker) Validate(ctx context.Context) bool {
	trades, err := c.trades.Load(ctx)
	if err != nil {
		c.logger.Error("integrity: trade load failed", xlogger.Error(err))
		return false
	}
	if len(trades) == 0 {
		c.logger.Warn("integrity: no trades found in ledger")
		return false
	}

	panel, err := c.history.GetOrCompute(ctx, c.tracked)
	if err != nil {
		c.logger.Error("integrity: price history failed", xlogger.Error(err))
		return false
	}

	for _, symbol := range c.tracked {
		if !panel.HasData(symbol) {
			c.logger.Error("integrity: no price data for symbol", xlogger.String("symbol", symbol))
			return false
		}
	}

	c.logger.Info("integrity validation passed",
		xlogger.Int("trades", len(trades)),
		xlogger.Strings("symbols", c.tracked),
	)
	return true
}
