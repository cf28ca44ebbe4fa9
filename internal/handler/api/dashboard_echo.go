package api

import (
	"net/http"
	"time"

	models "CryptoBasket/internal/domain/models"
	domrepo "CryptoBasket/internal/domain/repository"
	"CryptoBasket/internal/service/ratelimit"
	"CryptoBasket/internal/usecase"
	xhttp "CryptoBasket/pkg/http"
	xlogger "CryptoBasket/pkg/logger"

	"github.com/labstack/echo/v4"
)

// HeaderProvenance tells clients whether a body is real, fallback or synthetic data.
const HeaderProvenance = "X-Data-Provenance"

// DashboardEchoHandler serves the dashboard API.
type DashboardEchoHandler struct {
	logger    *xlogger.Logger
	uc        *usecase.DashboardUseCase
	bridge    *usecase.PredictionBridge
	rl        *ratelimit.Limiter
	startedAt time.Time
}

func NewDashboardEchoHandler(logger *xlogger.Logger, uc *usecase.DashboardUseCase, bridge *usecase.PredictionBridge, rl *ratelimit.Limiter) *DashboardEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &DashboardEchoHandler{logger: logger, uc: uc, bridge: bridge, rl: rl, startedAt: time.Now()}
}

func (h *DashboardEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/health", h.Health)
	g.GET("/crypto/:symbol", h.Crypto)
	g.POST("/predict", h.Predict)
	g.GET("/dashboard", h.Dashboard)
	g.POST("/dashboard/refresh", h.Refresh)
	g.GET("/performance", h.Performance)
	g.GET("/table", h.Table)
	g.GET("/allocation", h.Allocation)
	g.GET("/basket/latest", h.BasketLatest)
	g.GET("/basket/chart", h.BasketChart)
	g.GET("/basket/indicators", h.BasketIndicators)
}

func (h *DashboardEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]any{
		"status":  "ok",
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
		"members": len(h.uc.Members()),
	})
}

// Crypto returns the latest records of one symbol as a bare JSON array.
func (h *DashboardEchoHandler) Crypto(c echo.Context) error {
	req := &models.SeriesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	s, window := h.uc.Series(c.Request().Context(), req.Symbol, req.Limit)
	if s.Provenance == models.ProvenanceUnavailable {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no data for %s", s.Symbol))
	}
	c.Response().Header().Set(HeaderProvenance, string(s.Provenance))
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=30")
	return c.JSON(http.StatusOK, window)
}

// Predict forwards to the predictor. The body is always a point array;
// synthetic results are flagged in the provenance header.
func (h *DashboardEchoHandler) Predict(c echo.Context) error {
	if h.rl != nil && !h.rl.Allow(c.RealIP()+":predict") {
		h.logger.Warn("predict rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limited"))
	}
	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res := h.bridge.Forecast(c.Request().Context(), models.PredictionRequest{
		Days:   *req.Days,
		Year:   req.Year,
		Scope:  req.Scope,
		Symbol: req.Symbol,
	})
	c.Response().Header().Set(HeaderProvenance, string(res.Provenance))
	return c.JSON(http.StatusOK, res.Points)
}

func (h *DashboardEchoHandler) Dashboard(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.uc.Current(c.Request().Context()))
}

func (h *DashboardEchoHandler) Refresh(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.uc.Refresh(c.Request().Context()))
}

func (h *DashboardEchoHandler) Performance(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.uc.Current(c.Request().Context()).Performance)
}

func (h *DashboardEchoHandler) Table(c echo.Context) error {
	req := &models.TableRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	field, order := domrepo.NormalizeSort(req.Sort, req.Order)
	rows := h.uc.Table(c.Request().Context(), field, order)
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *DashboardEchoHandler) Allocation(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.uc.Allocation())
}

func (h *DashboardEchoHandler) BasketLatest(c echo.Context) error {
	q := h.uc.BasketLatest(c.Request().Context())
	if !q.Close.Valid {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("basket series unavailable"))
	}
	return xhttp.SuccessResponse(c, q)
}

func (h *DashboardEchoHandler) BasketChart(c echo.Context) error {
	req := &models.ChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.Timeframe)
	return xhttp.SuccessResponse(c, h.uc.Chart(c.Request().Context(), tf))
}

func (h *DashboardEchoHandler) BasketIndicators(c echo.Context) error {
	ind, ok := h.uc.Indicators(c.Request().Context())
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("basket series unavailable"))
	}
	return xhttp.SuccessResponse(c, ind)
}
