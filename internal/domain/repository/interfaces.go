package repository

import (
	"context"

	"CryptoBasket/internal/domain/models"
)

// SeriesSource fetches the daily records for a symbol (or models.BasketKey).
// Records come back sorted ascending by date.
type SeriesSource interface {
	Fetch(ctx context.Context, symbol string) ([]models.PriceRecord, error)
}

// SnapshotPublisher ships finished dashboards to downstream consumers.
type SnapshotPublisher interface {
	Publish(ctx context.Context, d *models.Dashboard) error
	Close() error
}

// Broadcaster pushes values to connected realtime clients.
type Broadcaster interface {
	BroadcastJSON(v any)
}

type Metrics interface {
	RecordSeriesLoad(symbol, provenance string)
	RecordFallback(component string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
