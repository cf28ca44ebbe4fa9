package models

import (
	"encoding/json"
	"time"

	"CryptoBasket/pkg/util"

	"github.com/guregu/null/v6"
)

// BasketKey identifies the aggregated basket series in a SeriesSource.
const BasketKey = "BASKET"

// Provenance tells where a value came from.
type Provenance string

const (
	ProvenanceReal        Provenance = "real"
	ProvenanceFallback    Provenance = "fallback"
	ProvenanceSynthetic   Provenance = "synthetic"
	ProvenanceUnavailable Provenance = "unavailable"
)

// PriceRecord is one trading day. Close is required; the other numeric
// fields are null when the source value was missing or malformed.
type PriceRecord struct {
	Date   time.Time
	Open   null.Float
	High   null.Float
	Low    null.Float
	Close  float64
	Volume null.Float
}

// MarshalJSON keeps the CSV header names and renders Date as YYYY-MM-DD.
func (r PriceRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date   string     `json:"Date"`
		Open   null.Float `json:"Open"`
		High   null.Float `json:"High"`
		Low    null.Float `json:"Low"`
		Close  float64    `json:"Close"`
		Volume null.Float `json:"Volume"`
	}{
		Date:   util.FormatDay(r.Date),
		Open:   r.Open,
		High:   r.High,
		Low:    r.Low,
		Close:  r.Close,
		Volume: r.Volume,
	})
}

// Series is an ordered, strictly date-increasing run of records for one symbol.
// It is never mutated after construction.
type Series struct {
	Symbol     string
	Provenance Provenance
	records    []PriceRecord
}

// NewSeries copies records so later changes by the caller cannot leak in.
func NewSeries(symbol string, provenance Provenance, records []PriceRecord) Series {
	cp := make([]PriceRecord, len(records))
	copy(cp, records)
	return Series{Symbol: symbol, Provenance: provenance, records: cp}
}

// EmptySeries is the degraded result for a symbol whose source failed.
func EmptySeries(symbol string) Series {
	return Series{Symbol: symbol, Provenance: ProvenanceUnavailable}
}

func (s Series) Len() int { return len(s.records) }

// Records returns a copy of all records.
func (s Series) Records() []PriceRecord {
	return s.Tail(len(s.records))
}

// Tail returns a copy of the last n records (all of them when n >= Len).
func (s Series) Tail(n int) []PriceRecord {
	if n <= 0 {
		return []PriceRecord{}
	}
	if n > len(s.records) {
		n = len(s.records)
	}
	out := make([]PriceRecord, n)
	copy(out, s.records[len(s.records)-n:])
	return out
}

// Latest returns the most recent record.
func (s Series) Latest() (PriceRecord, bool) {
	if len(s.records) == 0 {
		return PriceRecord{}, false
	}
	return s.records[len(s.records)-1], true
}

// LastTwo returns the second-to-last and last records.
func (s Series) LastTwo() (prev, latest PriceRecord, ok bool) {
	n := len(s.records)
	if n < 2 {
		return PriceRecord{}, PriceRecord{}, false
	}
	return s.records[n-2], s.records[n-1], true
}

// Closes returns the close of every record, oldest first.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s.records))
	for i, r := range s.records {
		out[i] = r.Close
	}
	return out
}
