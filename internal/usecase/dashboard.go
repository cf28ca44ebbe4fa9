package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"CryptoBasket/internal/domain/models"
	domrepo "CryptoBasket/internal/domain/repository"
	"CryptoBasket/internal/services/basket"
	"CryptoBasket/internal/services/indicators"
	xlogger "CryptoBasket/pkg/logger"
	"CryptoBasket/pkg/util"

	"github.com/google/uuid"
	"github.com/guregu/null/v6"
)

// DashboardSettings are the scalar knobs of a DashboardUseCase.
type DashboardSettings struct {
	Horizons        []int
	ComposeFallback bool
	Window          int
	RefreshTimeout  time.Duration
}

// refreshState is everything one refresh produced. Readers only ever see a
// complete state.
type refreshState struct {
	dashboard *models.Dashboard
	series    map[string]models.Series
	basket    models.Series
}

// DashboardUseCase runs refresh cycles and serves their results.
type DashboardUseCase struct {
	members   []models.BasketMember
	loader    *SeriesLoader
	bridge    *PredictionBridge
	calc      *basket.Calculator
	projector *basket.Projector
	settings  DashboardSettings

	broadcaster domrepo.Broadcaster
	publisher   domrepo.SnapshotPublisher
	metrics     domrepo.Metrics
	logger      *xlogger.Logger

	state atomic.Pointer[refreshState]
	now   func() time.Time
}

func NewDashboardUseCase(
	members []models.BasketMember,
	loader *SeriesLoader,
	bridge *PredictionBridge,
	calc *basket.Calculator,
	projector *basket.Projector,
	settings DashboardSettings,
	metrics domrepo.Metrics,
	logger *xlogger.Logger,
) *DashboardUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = xlogger.Nop()
	}
	if len(settings.Horizons) == 0 {
		settings.Horizons = []int{7, 180, 365}
	}
	if settings.Window <= 0 {
		settings.Window = 90
	}
	return &DashboardUseCase{
		members:   append([]models.BasketMember(nil), members...),
		loader:    loader,
		bridge:    bridge,
		calc:      calc,
		projector: projector,
		settings:  settings,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// SetBroadcaster attaches realtime delivery of finished dashboards.
func (uc *DashboardUseCase) SetBroadcaster(b domrepo.Broadcaster) { uc.broadcaster = b }

// SetPublisher attaches downstream publishing of finished dashboards.
func (uc *DashboardUseCase) SetPublisher(p domrepo.SnapshotPublisher) { uc.publisher = p }

// Members returns the configured basket.
func (uc *DashboardUseCase) Members() []models.BasketMember {
	return append([]models.BasketMember(nil), uc.members...)
}

// Refresh runs one cycle: load every series and every horizon forecast
// concurrently, derive the dashboard, then hand it to readers, realtime
// clients and the publisher. The last completed refresh wins.
func (uc *DashboardUseCase) Refresh(ctx context.Context) *models.Dashboard {
	id := uuid.NewString()
	start := time.Now()
	if uc.settings.RefreshTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.settings.RefreshTimeout)
		defer cancel()
	}

	symbols := make([]string, 0, len(uc.members)+1)
	for _, m := range uc.members {
		symbols = append(symbols, m.Symbol)
	}
	symbols = append(symbols, models.BasketKey)

	var (
		wg       sync.WaitGroup
		loaded   map[string]models.Series
		forecast = make([]models.PredictionSeries, len(uc.settings.Horizons))
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		loaded = uc.loader.LoadAll(ctx, symbols)
	}()
	for i, days := range uc.settings.Horizons {
		wg.Add(1)
		go func(i, days int) {
			defer wg.Done()
			forecast[i] = uc.bridge.Forecast(ctx, models.PredictionRequest{Days: days, Scope: models.ScopeBasket})
		}(i, days)
	}
	wg.Wait()

	basketSeries := loaded[models.BasketKey]
	delete(loaded, models.BasketKey)
	if basketSeries.Len() == 0 && uc.settings.ComposeFallback {
		if composed := indicators.Compose(uc.members, loaded); composed.Len() > 0 {
			uc.metrics.RecordFallback("basket")
			uc.logger.Warn("basket series unavailable, composed from members",
				xlogger.String("refresh_id", id),
				xlogger.Int("records", composed.Len()),
			)
			basketSeries = composed
		}
	}

	perf := uc.calc.Aggregate(uc.members, loaded)
	d := &models.Dashboard{
		RefreshID:        id,
		UpdatedAt:        uc.now().UTC(),
		Performance:      perf,
		Rows:             uc.projector.Project(uc.members, loaded, domrepo.SortAllocation, domrepo.SortDesc),
		Allocation:       basket.AllocationSlices(uc.members),
		BasketProvenance: basketSeries.Provenance,
		Predictions:      make([]models.PredictionSummary, len(forecast)),
	}
	if latest, ok := basketSeries.Latest(); ok {
		d.BasketClose = null.FloatFrom(basket.Round2(latest.Close))
		d.ProjectedValue7d = null.FloatFrom(basket.Round2(latest.Close * (1 + perf.PredictedChangePercent/100)))
	}
	for i, f := range forecast {
		sum := models.PredictionSummary{Days: f.Request.Days, Provenance: f.Provenance}
		if v, ok := Reduce(f); ok {
			sum.Value = null.FloatFrom(basket.Round2(v))
		}
		d.Predictions[i] = sum
	}

	uc.state.Store(&refreshState{dashboard: d, series: loaded, basket: basketSeries})
	uc.metrics.RecordLatency("refresh", time.Since(start).Seconds())
	uc.logger.Info("dashboard refreshed",
		xlogger.String("refresh_id", id),
		xlogger.Int("contributors", perf.Contributors),
		xlogger.Int("rows", len(d.Rows)),
		xlogger.String("basket", string(basketSeries.Provenance)),
		xlogger.Duration("took", time.Since(start)),
	)

	uc.deliver(ctx, d)
	return d
}

func (uc *DashboardUseCase) deliver(ctx context.Context, d *models.Dashboard) {
	if uc.broadcaster != nil {
		uc.broadcaster.BroadcastJSON(d)
	}
	if uc.publisher != nil {
		if err := uc.publisher.Publish(ctx, d); err != nil {
			uc.metrics.RecordError("publish")
			uc.logger.Error("publish dashboard failed",
				xlogger.String("refresh_id", d.RefreshID),
				xlogger.Error(err),
			)
		}
	}
}

// Latest returns the last completed dashboard, if any.
func (uc *DashboardUseCase) Latest() (*models.Dashboard, bool) {
	st := uc.state.Load()
	if st == nil {
		return nil, false
	}
	return st.dashboard, true
}

// Current returns the latest dashboard, refreshing first if none exists.
func (uc *DashboardUseCase) Current(ctx context.Context) *models.Dashboard {
	if d, ok := uc.Latest(); ok {
		return d
	}
	return uc.Refresh(ctx)
}

func (uc *DashboardUseCase) current(ctx context.Context) *refreshState {
	if st := uc.state.Load(); st != nil {
		return st
	}
	uc.Refresh(ctx)
	return uc.state.Load()
}

// Table re-projects the latest series with the requested ordering.
func (uc *DashboardUseCase) Table(ctx context.Context, field domrepo.SortField, order domrepo.SortOrder) []models.TableRow {
	st := uc.current(ctx)
	return uc.projector.Project(uc.members, st.series, field, order)
}

// Allocation is the configured allocation split.
func (uc *DashboardUseCase) Allocation() []models.AllocationSlice {
	return basket.AllocationSlices(uc.members)
}

// Series returns the most recent limit records of symbol, read fresh from
// the source.
func (uc *DashboardUseCase) Series(ctx context.Context, symbol string, limit int) (models.Series, []models.PriceRecord) {
	if limit <= 0 {
		limit = uc.settings.Window
	}
	s := uc.loader.Load(ctx, symbol)
	return s, s.Tail(limit)
}

// BasketLatest is the latest basket close.
func (uc *DashboardUseCase) BasketLatest(ctx context.Context) models.BasketQuote {
	st := uc.current(ctx)
	q := models.BasketQuote{Provenance: st.basket.Provenance}
	if latest, ok := st.basket.Latest(); ok {
		q.Date = util.FormatDay(latest.Date)
		q.Close = null.FloatFrom(basket.Round2(latest.Close))
	}
	return q
}

// Chart returns the basket price window for tf.
func (uc *DashboardUseCase) Chart(ctx context.Context, tf domrepo.Timeframe) []models.ChartPoint {
	return indicators.Window(uc.current(ctx).basket, tf)
}

// Indicators computes the latest basket indicators.
func (uc *DashboardUseCase) Indicators(ctx context.Context) (models.BasketIndicators, bool) {
	return indicators.Latest(uc.current(ctx).basket, indicators.DefaultWindow)
}
