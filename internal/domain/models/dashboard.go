package models

import (
	"time"

	"github.com/guregu/null/v6"
)

// PredictionSummary is the reduced scalar for one horizon.
type PredictionSummary struct {
	Days       int        `json:"days"`
	Value      null.Float `json:"value"`
	Provenance Provenance `json:"provenance"`
}

// Dashboard is everything derived in one refresh cycle.
type Dashboard struct {
	RefreshID        string              `json:"refreshId"`
	UpdatedAt        time.Time           `json:"updatedAt"`
	Performance      PerformanceSnapshot `json:"performance"`
	Rows             []TableRow          `json:"rows"`
	Allocation       []AllocationSlice   `json:"allocation"`
	BasketClose      null.Float          `json:"basketClose"`
	BasketProvenance Provenance          `json:"basketProvenance"`
	ProjectedValue7d null.Float          `json:"projectedValue7d"`
	Predictions      []PredictionSummary `json:"predictions"`
}

// ChartPoint is one point of the basket price chart.
type ChartPoint struct {
	Name      string     `json:"name"`
	Actual    null.Float `json:"actual"`
	Predicted null.Float `json:"predicted"`
}

// BasketIndicators are the latest technical indicators of the basket series.
type BasketIndicators struct {
	Date       string     `json:"date"`
	Close      float64    `json:"close"`
	PriceDiff  null.Float `json:"priceDiff"`
	RSI14      null.Float `json:"rsi14"`
	MA14       null.Float `json:"ma14"`
	Provenance Provenance `json:"provenance"`
}

// BasketQuote is the latest close of the basket series.
type BasketQuote struct {
	Date       string     `json:"date"`
	Close      null.Float `json:"close"`
	Provenance Provenance `json:"provenance"`
}
