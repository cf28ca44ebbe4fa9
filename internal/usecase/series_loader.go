package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"CryptoBasket/internal/domain/models"
	domrepo "CryptoBasket/internal/domain/repository"
	xlogger "CryptoBasket/pkg/logger"
)

// SeriesLoader reads symbol series from a SeriesSource. Loads never fail:
// any error degrades to an empty series tagged unavailable.
type SeriesLoader struct {
	source  domrepo.SeriesSource
	metrics domrepo.Metrics
	logger  *xlogger.Logger
	timeout time.Duration
}

func NewSeriesLoader(source domrepo.SeriesSource, metrics domrepo.Metrics, logger *xlogger.Logger, timeout time.Duration) *SeriesLoader {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &SeriesLoader{source: source, metrics: metrics, logger: logger, timeout: timeout}
}

// Load fetches one series.
func (l *SeriesLoader) Load(ctx context.Context, symbol string) (s models.Series) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			l.fail(symbol, fmt.Errorf("panic: %v", r))
			s = models.EmptySeries(symbol)
		}
		l.metrics.RecordLatency("series_load", time.Since(start).Seconds())
		l.metrics.RecordSeriesLoad(symbol, string(s.Provenance))
	}()

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	recs, err := l.source.Fetch(ctx, symbol)
	if err != nil {
		l.fail(symbol, err)
		return models.EmptySeries(symbol)
	}
	if len(recs) == 0 {
		l.logger.Warn("series is empty",
			xlogger.String("symbol", symbol),
		)
		return models.EmptySeries(symbol)
	}

	s = models.NewSeries(symbol, models.ProvenanceReal, recs)
	if latest, ok := s.Latest(); ok {
		l.metrics.RecordLastPrice(symbol, latest.Close)
	}
	l.logger.Debug("series loaded",
		xlogger.String("symbol", symbol),
		xlogger.Int("records", s.Len()),
		xlogger.Duration("took", time.Since(start)),
	)
	return s
}

func (l *SeriesLoader) fail(symbol string, err error) {
	l.metrics.RecordError("series_load")
	l.logger.Warn("series unavailable",
		xlogger.String("symbol", symbol),
		xlogger.Error(err),
	)
}

// LoadAll fetches every symbol concurrently and waits for all of them.
// The result has one entry per distinct symbol.
func (l *SeriesLoader) LoadAll(ctx context.Context, symbols []string) map[string]models.Series {
	out := make(map[string]models.Series, len(symbols))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	seen := make(map[string]struct{}, len(symbols))
	for _, sym := range symbols {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if _, dup := seen[sym]; dup || sym == "" {
			continue
		}
		seen[sym] = struct{}{}

		wg.Add(1)
		go func(sym string) {
			defer wg.Done()
			s := l.Load(ctx, sym)
			mu.Lock()
			out[sym] = s
			mu.Unlock()
		}(sym)
	}
	wg.Wait()
	return out
}

type nopMetrics struct{}

func (nopMetrics) RecordSeriesLoad(string, string) {}
func (nopMetrics) RecordFallback(string) {}
func (nopMetrics) RecordError(string) {}
func (nopMetrics) RecordLastPrice(string, float64) {}
func (nopMetrics) RecordLatency(string, float64) {}
