package api

import (
	"net/http"
	"strings"
	"time"

	"FinPanel/internal/domain/models"
	"FinPanel/internal/usecase"
	xhttp "FinPanel/pkg/http"
	xlogger "FinPanel/pkg/logger"
	"FinPanel/pkg/util"

	"github.com/labstack/echo/v4"
)

// PanelEchoHandler exposes the aligned panel and the integrity check over
// Echo. This is a diagnostic surface: the panel itself is computed and
// cached by the usecase layer.
type PanelEchoHandler struct {
	logger  *xlogger.Logger
	history *usecase.PriceHistory
	checker *usecase.IntegrityChecker
	tracked []string
}

func NewPanelEchoHandler(logger *xlogger.Logger, history *usecase.PriceHistory, checker *usecase.IntegrityChecker, tracked []string) *PanelEchoHandler {
	return &PanelEchoHandler{logger: logger, history: history, checker: checker, tracked: tracked}
}

func (h *PanelEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.GET("/panel", h.Panel)
	g.GET("/panel/series", h.Series)
	g.GET("/integrity", h.Integrity)
	g.DELETE("/cache", h.ClearCache)
}

func (h *PanelEchoHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Panel returns the aligned panel for the requested symbols. The underlying
// cache is coarse, so the symbol list only matters on the first computation.
func (h *PanelEchoHandler) Panel(c echo.Context) error {
	req := &models.PanelRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	symbols := splitSymbols(req.Symbols)
	if len(symbols) == 0 {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code:    "ERR_REQUIRED",
			Field:   "symbols",
			Message: "at least one symbol is required",
		}})
	}

	panel, err := h.history.GetOrCompute(c.Request().Context(), symbols)
	if err != nil {
		h.logger.Error("panel usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("price history unavailable").WithError(err))
	}

	return xhttp.SuccessResponse(c, toPanelResponse(panel))
}

// Series returns one symbol's aligned series out of the tracked panel.
func (h *PanelEchoHandler) Series(c echo.Context) error {
	req := &models.SeriesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	panel, err := h.history.GetOrCompute(c.Request().Context(), h.tracked)
	if err != nil {
		h.logger.Error("series usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("price history unavailable").WithError(err))
	}

	values, ok := panel.Series[req.Symbol]
	if !ok {
		return xhttp.NotFoundResponse(c, xhttp.NotFoundErrorf("symbol %s is not in the panel", req.Symbol))
	}

	return xhttp.SuccessResponse(c, models.SeriesResponse{
		Symbol:   req.Symbol,
		Calendar: formatCalendar(panel.Calendar),
		Values:   values,
	})
}

// Integrity runs the full data integrity check.
func (h *PanelEchoHandler) Integrity(c echo.Context) error {
	ok := h.checker.Validate(c.Request().Context())
	return xhttp.SuccessResponse(c, models.IntegrityResponse{Valid: ok})
}

// ClearCache drops the cached panel so the next request re-fetches.
func (h *PanelEchoHandler) ClearCache(c echo.Context) error {
	h.history.Clear()
	return xhttp.NoContentResponse(c)
}

func splitSymbols(raw string) []string {
	parts := strings.Split(raw, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			symbols = append(symbols, p)
		}
	}
	return symbols
}

func toPanelResponse(panel models.AlignedPanel) models.PanelResponse {
	return models.PanelResponse{
		Calendar: formatCalendar(panel.Calendar),
		Series:   panel.Series,
	}
}

func formatCalendar(calendar []time.Time) []string {
	out := make([]string, len(calendar))
	for i, day := range calendar {
		out[i] = util.FormatDay(day)
	}
	return out
}
