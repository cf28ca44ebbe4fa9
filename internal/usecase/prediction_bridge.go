package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"CryptoBasket/internal/domain/models"
	domrepo "CryptoBasket/internal/domain/repository"
	domsvc "CryptoBasket/internal/domain/service"
	"CryptoBasket/internal/service/cache"
	xlogger "CryptoBasket/pkg/logger"
)

// PredictionBridge asks the predictor for a forecast and degrades to a
// generated series when it cannot answer. Forecast never fails.
type PredictionBridge struct {
	predictor domsvc.Predictor
	fallback  domsvc.PointGenerator
	cache     cache.BytesCache
	cacheTTL  time.Duration
	metrics   domrepo.Metrics
	logger    *xlogger.Logger
}

// NewPredictionBridge wires a bridge. cache may be nil to disable caching.
func NewPredictionBridge(
	predictor domsvc.Predictor,
	fallback domsvc.PointGenerator,
	c cache.BytesCache,
	cacheTTL time.Duration,
	metrics domrepo.Metrics,
	logger *xlogger.Logger,
) *PredictionBridge {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &PredictionBridge{
		predictor: predictor,
		fallback:  fallback,
		cache:     c,
		cacheTTL:  cacheTTL,
		metrics:   metrics,
		logger:    logger,
	}
}

// Forecast returns the predictor's points, or synthetic ones on failure.
func (b *PredictionBridge) Forecast(ctx context.Context, req models.PredictionRequest) models.PredictionSeries {
	req = normalizeRequest(req)
	start := time.Now()
	defer func() {
		b.metrics.RecordLatency("predict", time.Since(start).Seconds())
	}()

	if points, ok := b.cached(ctx, req); ok {
		return models.PredictionSeries{Request: req, Points: points, Provenance: models.ProvenanceReal}
	}

	points, err := b.predictor.Predict(ctx, req)
	if err == nil && len(points) > 0 {
		b.store(ctx, req, points)
		return models.PredictionSeries{Request: req, Points: points, Provenance: models.ProvenanceReal}
	}

	b.metrics.RecordFallback("predictor")
	fields := []xlogger.Field{
		xlogger.Bool("synthetic", true),
		xlogger.Int("days", req.Days),
		xlogger.Int("year", req.Year),
		xlogger.String("scope", req.Scope),
	}
	if err != nil {
		fields = append(fields, xlogger.Error(err))
	}
	b.logger.Warn("predictor unavailable, serving synthetic forecast", fields...)

	return models.PredictionSeries{
		Request:    req,
		Points:     b.fallback.Generate(req.Days),
		Provenance: models.ProvenanceSynthetic,
	}
}

func (b *PredictionBridge) cached(ctx context.Context, req models.PredictionRequest) ([]models.PredictionPoint, bool) {
	if b.cache == nil {
		return nil, false
	}
	raw, ok, err := b.cache.GetBytes(ctx, req.CacheKey())
	if err != nil {
		b.logger.Debug("prediction cache read failed", xlogger.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var points []models.PredictionPoint
	if err := json.Unmarshal(raw, &points); err != nil || len(points) == 0 {
		return nil, false
	}
	return points, true
}

func (b *PredictionBridge) store(ctx context.Context, req models.PredictionRequest, points []models.PredictionPoint) {
	if b.cache == nil || b.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(points)
	if err != nil {
		return
	}
	if err := b.cache.SetBytes(ctx, req.CacheKey(), raw, b.cacheTTL); err != nil {
		b.logger.Debug("prediction cache write failed", xlogger.Error(err))
	}
}

// Reduce picks the last predicted value of s.
func Reduce(s models.PredictionSeries) (float64, bool) {
	for i := len(s.Points) - 1; i >= 0; i-- {
		if p := s.Points[i].Predicted; p.Valid {
			return p.Float64, true
		}
	}
	return 0, false
}

func normalizeRequest(req models.PredictionRequest) models.PredictionRequest {
	if req.Days < 1 {
		req.Days = 1
	}
	if req.Scope == "" {
		req.Scope = models.ScopeBasket
	}
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if req.Scope == models.ScopeBasket {
		req.Symbol = ""
	}
	return req
}
