package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"CryptoBasket/internal/domain/models"

	"github.com/guregu/null/v6"
)

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func closes(cs ...float64) []models.PriceRecord {
	out := make([]models.PriceRecord, len(cs))
	for i, c := range cs {
		out[i] = models.PriceRecord{Date: day(1 + i), Open: null.FloatFrom(c), Close: c}
	}
	return out
}

type fakeSource struct {
	mu    sync.Mutex
	data  map[string][]models.PriceRecord
	errs  map[string]error
	calls map[string]int
	panic string
}

func (f *fakeSource) Fetch(ctx context.Context, symbol string) ([]models.PriceRecord, error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[symbol]++
	f.mu.Unlock()

	if symbol == f.panic {
		panic("corrupt file")
	}
	if err := f.errs[symbol]; err != nil {
		return nil, err
	}
	recs, ok := f.data[symbol]
	if !ok {
		return nil, errors.New("no such file")
	}
	return recs, nil
}

type fakePredictor struct {
	mu     sync.Mutex
	points map[int][]models.PredictionPoint
	err    error
	calls  int
}

func (f *fakePredictor) Predict(_ context.Context, req models.PredictionRequest) ([]models.PredictionPoint, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.points[req.Days], nil
}

type fixedGenerator struct{}

func (fixedGenerator) Generate(days int) []models.PredictionPoint {
	return []models.PredictionPoint{
		{Label: "Day 0", Actual: null.FloatFrom(4200)},
		{Label: "Day 1", Predicted: null.FloatFrom(4200 + float64(days))},
	}
}

type fakeMetrics struct {
	mu        sync.Mutex
	loads     map[string]string
	fallbacks map[string]int
	errors    map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{loads: map[string]string{}, fallbacks: map[string]int{}, errors: map[string]int{}}
}

func (m *fakeMetrics) RecordSeriesLoad(symbol, provenance string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads[symbol] = provenance
}

func (m *fakeMetrics) RecordFallback(component string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallbacks[component]++
}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

func (m *fakeMetrics) RecordLastPrice(string, float64) {}
func (m *fakeMetrics) RecordLatency(string, float64) {}

type fakeBroadcaster struct {
	mu  sync.Mutex
	got []any
}

func (b *fakeBroadcaster) BroadcastJSON(v any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.got = append(b.got, v)
}

type fakePublisher struct {
	ids []string
	err error
}

func (p *fakePublisher) Publish(_ context.Context, d *models.Dashboard) error {
	p.ids = append(p.ids, d.RefreshID)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }
