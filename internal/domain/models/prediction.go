package models

import (
	"fmt"

	"github.com/guregu/null/v6"
)

// Prediction scopes.
const (
	ScopeBasket = "basket"
	ScopeAsset  = "asset"
)

// PredictionRequest asks the predictor for a forecast of Days days.
// Year, when non-zero, narrows the history window the predictor trains on.
type PredictionRequest struct {
	Days   int    `json:"days"`
	Year   int    `json:"year,omitempty"`
	Scope  string `json:"scope,omitempty"`
	Symbol string `json:"symbol,omitempty"`
}

// CacheKey identifies a request for caching.
func (r PredictionRequest) CacheKey() string {
	scope := r.Scope
	if scope == "" {
		scope = ScopeBasket
	}
	return fmt.Sprintf("predict:%s:%s:%d:%d", scope, r.Symbol, r.Days, r.Year)
}

// PredictionPoint is one normalized predictor point. Either value may be null.
type PredictionPoint struct {
	Label     string     `json:"date"`
	Actual    null.Float `json:"actual"`
	Predicted null.Float `json:"predicted"`
}

// PredictionSeries is a tagged predictor result.
type PredictionSeries struct {
	Request    PredictionRequest `json:"request"`
	Points     []PredictionPoint `json:"points"`
	Provenance Provenance        `json:"provenance"`
}

// Synthetic reports whether the series was generated locally.
func (s PredictionSeries) Synthetic() bool {
	return s.Provenance == ProvenanceSynthetic
}
