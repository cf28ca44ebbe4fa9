package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"CryptoBasket/internal/domain/models"
	"CryptoBasket/internal/service/cache"
	xlogger "CryptoBasket/pkg/logger"

	"github.com/guregu/null/v6"
	"github.com/peterldowns/testy/assert"
)

var realPoints = []models.PredictionPoint{
	{Label: "2024-01-01", Actual: null.FloatFrom(42000)},
	{Label: "2024-01-02", Predicted: null.FloatFrom(42100)},
	{Label: "2024-01-03", Predicted: null.FloatFrom(42350.5)},
	{Label: "2024-01-04"},
}

func TestForecastReal(t *testing.T) {
	p := &fakePredictor{points: map[int][]models.PredictionPoint{7: realPoints}}
	m := newFakeMetrics()
	b := NewPredictionBridge(p, fixedGenerator{}, nil, 0, m, nil)

	got := b.Forecast(context.Background(), models.PredictionRequest{Days: 7})
	assert.Equal(t, models.ProvenanceReal, got.Provenance)
	assert.False(t, got.Synthetic())
	assert.Equal(t, realPoints, got.Points)
	assert.Equal(t, models.ScopeBasket, got.Request.Scope)
	assert.Equal(t, 0, m.fallbacks["predictor"])

	v, ok := Reduce(got)
	assert.True(t, ok)
	assert.Equal(t, 42350.5, v)
}

func TestForecastSyntheticFallback(t *testing.T) {
	tests := []struct {
		name string
		p    *fakePredictor
	}{
		{"transport error", &fakePredictor{err: errors.New("connection refused")}},
		{"empty response", &fakePredictor{points: map[int][]models.PredictionPoint{}}},
	}

	for _, test := range tests {
		var buf bytes.Buffer
		m := newFakeMetrics()
		b := NewPredictionBridge(test.p, fixedGenerator{}, nil, 0, m, xlogger.NewWriter(&buf))

		got := b.Forecast(context.Background(), models.PredictionRequest{Days: 30, Year: 2024})
		assert.True(t, got.Synthetic())
		assert.Equal(t, fixedGenerator{}.Generate(30), got.Points)
		assert.Equal(t, 1, m.fallbacks["predictor"])
		if !strings.Contains(buf.String(), `"synthetic":true`) {
			t.Errorf("%s: expected synthetic flag in log, got %s", test.name, buf.String())
		}

		v, ok := Reduce(got)
		assert.True(t, ok)
		assert.Equal(t, 4230.0, v)
	}
}

func TestForecastCachesRealResults(t *testing.T) {
	p := &fakePredictor{points: map[int][]models.PredictionPoint{7: realPoints}}
	c := cache.NewTTLCache(16)
	b := NewPredictionBridge(p, fixedGenerator{}, c, time.Minute, nil, nil)
	ctx := context.Background()

	first := b.Forecast(ctx, models.PredictionRequest{Days: 7})
	second := b.Forecast(ctx, models.PredictionRequest{Days: 7, Scope: models.ScopeBasket})
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, first.Points, second.Points)
	assert.Equal(t, models.ProvenanceReal, second.Provenance)

	// synthetic results are never cached
	p.err = errors.New("down")
	b.Forecast(ctx, models.PredictionRequest{Days: 180})
	b.Forecast(ctx, models.PredictionRequest{Days: 180})
	assert.Equal(t, 3, p.calls)
}

func TestReduce(t *testing.T) {
	_, ok := Reduce(models.PredictionSeries{})
	assert.False(t, ok)

	_, ok = Reduce(models.PredictionSeries{Points: []models.PredictionPoint{{Label: "a", Actual: null.FloatFrom(1)}}})
	assert.False(t, ok)
}

func TestNormalizeRequest(t *testing.T) {
	got := normalizeRequest(models.PredictionRequest{Days: 0, Symbol: "btc"})
	assert.Equal(t, models.PredictionRequest{Days: 1, Scope: models.ScopeBasket}, got)

	got = normalizeRequest(models.PredictionRequest{Days: 7, Scope: models.ScopeAsset, Symbol: " eth"})
	assert.Equal(t, "ETH", got.Symbol)
}
