package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"CryptoBasket/internal/domain/models"
	domrepo "CryptoBasket/internal/domain/repository"
	"CryptoBasket/internal/services/basket"

	"github.com/guregu/null/v6"
	"github.com/peterldowns/testy/assert"
)

var testMembers = []models.BasketMember{
	{Symbol: "BTC", Name: "Bitcoin", Allocation: 0.5, Multiplier: 1.5, Color: "#F7931A"},
	{Symbol: "ETH", Name: "Ethereum", Allocation: 0.5, Multiplier: 1, Color: "#627EEA"},
}

func newDashboard(src *fakeSource, p *fakePredictor, m *fakeMetrics, compose bool) *DashboardUseCase {
	loader := NewSeriesLoader(src, m, nil, time.Second)
	bridge := NewPredictionBridge(p, fixedGenerator{}, nil, 0, m, nil)
	calc := basket.NewCalculator(100, models.Performer{Symbol: "ETH", ChangePercent: 4.1}, models.Performer{Symbol: "XRP", ChangePercent: -2.1})
	uc := NewDashboardUseCase(testMembers, loader, bridge, calc, basket.NewProjector(false, nil), DashboardSettings{
		Horizons:        []int{7, 180},
		ComposeFallback: compose,
	}, m, nil)
	uc.now = func() time.Time { return time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC) }
	return uc
}

func TestRefresh(t *testing.T) {
	src := &fakeSource{data: map[string][]models.PriceRecord{
		"BTC":            closes(60000, 66000),
		"ETH":            closes(3000, 3000),
		models.BasketKey: closes(4000, 4400),
	}}
	p := &fakePredictor{err: errors.New("offline")}
	m := newFakeMetrics()
	uc := newDashboard(src, p, m, true)
	b := &fakeBroadcaster{}
	pub := &fakePublisher{}
	uc.SetBroadcaster(b)
	uc.SetPublisher(pub)

	_, ok := uc.Latest()
	assert.False(t, ok)

	d := uc.Refresh(context.Background())
	assert.NotEqual(t, "", d.RefreshID)
	assert.Equal(t, 5.0, d.Performance.Change24hPercent)
	assert.Equal(t, 7.5, d.Performance.PredictedChangePercent)
	assert.Equal(t, models.Performer{Symbol: "BTC", ChangePercent: 10}, d.Performance.BestPerformer)
	assert.Equal(t, models.Performer{Symbol: "ETH", ChangePercent: 0}, d.Performance.WorstPerformer)
	assert.Equal(t, 2, len(d.Rows))
	assert.Equal(t, 2, len(d.Allocation))
	assert.Equal(t, null.FloatFrom(4400), d.BasketClose)
	assert.Equal(t, models.ProvenanceReal, d.BasketProvenance)
	assert.Equal(t, null.FloatFrom(4730), d.ProjectedValue7d)

	assert.Equal(t, []models.PredictionSummary{
		{Days: 7, Value: null.FloatFrom(4207), Provenance: models.ProvenanceSynthetic},
		{Days: 180, Value: null.FloatFrom(4380), Provenance: models.ProvenanceSynthetic},
	}, d.Predictions)
	assert.Equal(t, 2, m.fallbacks["predictor"])

	latest, ok := uc.Latest()
	assert.True(t, ok)
	assert.Equal(t, d.RefreshID, latest.RefreshID)
	assert.Equal(t, 1, len(b.got))
	assert.Equal(t, []string{d.RefreshID}, pub.ids)

	again := uc.Refresh(context.Background())
	assert.NotEqual(t, d.RefreshID, again.RefreshID)
	latest, _ = uc.Latest()
	assert.Equal(t, again.RefreshID, latest.RefreshID)
}

func TestRefreshComposesBasket(t *testing.T) {
	src := &fakeSource{data: map[string][]models.PriceRecord{
		"BTC": closes(60000, 66000),
		"ETH": closes(3000, 3000),
	}}
	m := newFakeMetrics()
	uc := newDashboard(src, &fakePredictor{err: errors.New("offline")}, m, true)

	d := uc.Refresh(context.Background())
	assert.Equal(t, models.ProvenanceFallback, d.BasketProvenance)
	assert.Equal(t, null.FloatFrom(34500), d.BasketClose)
	assert.Equal(t, 1, m.fallbacks["basket"])

	q := uc.BasketLatest(context.Background())
	assert.Equal(t, "2025-03-02", q.Date)
	assert.Equal(t, models.ProvenanceFallback, q.Provenance)
}

func TestRefreshWithoutBasket(t *testing.T) {
	src := &fakeSource{data: map[string][]models.PriceRecord{"BTC": closes(60000, 66000)}}
	uc := newDashboard(src, &fakePredictor{err: errors.New("offline")}, newFakeMetrics(), false)

	d := uc.Refresh(context.Background())
	assert.False(t, d.BasketClose.Valid)
	assert.False(t, d.ProjectedValue7d.Valid)
	assert.Equal(t, models.ProvenanceUnavailable, d.BasketProvenance)
	assert.Equal(t, 1, len(d.Rows))

	assert.Equal(t, 0, len(uc.Chart(context.Background(), domrepo.TF7d)))
	_, ok := uc.Indicators(context.Background())
	assert.False(t, ok)
}

func TestPublishErrorIsCounted(t *testing.T) {
	src := &fakeSource{data: map[string][]models.PriceRecord{"BTC": closes(1, 2)}}
	m := newFakeMetrics()
	uc := newDashboard(src, &fakePredictor{err: errors.New("offline")}, m, false)
	uc.SetPublisher(&fakePublisher{err: errors.New("broker down")})

	uc.Refresh(context.Background())
	assert.Equal(t, 1, m.errors["publish"])
}

func TestReadersRefreshLazily(t *testing.T) {
	recs := make([]models.PriceRecord, 0, 40)
	for i := 0; i < 40; i++ {
		recs = append(recs, models.PriceRecord{
			Date:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Open:  null.FloatFrom(100 + float64(i)),
			Close: 101 + float64(i),
		})
	}
	src := &fakeSource{data: map[string][]models.PriceRecord{
		"BTC":            closes(100, 90),
		"ETH":            closes(100, 120),
		models.BasketKey: recs,
	}}
	uc := newDashboard(src, &fakePredictor{err: errors.New("offline")}, newFakeMetrics(), false)
	ctx := context.Background()

	rows := uc.Table(ctx, domrepo.SortChange24h, domrepo.SortDesc)
	assert.Equal(t, "ETH", rows[0].Symbol)
	assert.Equal(t, 1, src.calls[models.BasketKey])

	assert.Equal(t, 30, len(uc.Chart(ctx, domrepo.TF30d)))
	ind, ok := uc.Indicators(ctx)
	assert.True(t, ok)
	assert.Equal(t, 140.0, ind.Close)
	assert.Equal(t, null.FloatFrom(100), ind.RSI14)
	assert.Equal(t, 1, src.calls[models.BasketKey])

	d := uc.Current(ctx)
	latest, _ := uc.Latest()
	assert.Equal(t, latest.RefreshID, d.RefreshID)

	s, window := uc.Series(ctx, models.BasketKey, 0)
	assert.Equal(t, 40, s.Len())
	assert.Equal(t, 40, len(window))
	_, window = uc.Series(ctx, models.BasketKey, 5)
	assert.Equal(t, 5, len(window))
	assert.Equal(t, 140.0, window[4].Close)
}
