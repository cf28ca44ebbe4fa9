package models

// BasketMember is one configured constituent of the basket.
type BasketMember struct {
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name"`
	Allocation float64 `json:"allocation"` // weight in [0, 1]
	Multiplier float64 `json:"multiplier"` // heuristic prediction multiplier
	Color      string  `json:"color"`
}

// Performer is a symbol with its 24h change.
type Performer struct {
	Symbol        string  `json:"symbol"`
	ChangePercent float64 `json:"changePercent"`
}

// PerformanceSnapshot is the basket-level aggregate for one refresh.
type PerformanceSnapshot struct {
	TotalValue             float64   `json:"totalValue"`
	Change24hPercent       float64   `json:"change24hPercent"`
	PredictedChangePercent float64   `json:"predictedChangePercent"`
	BestPerformer          Performer `json:"bestPerformer"`
	WorstPerformer         Performer `json:"worstPerformer"`
	Contributors           int       `json:"contributors"`
}

// TableRow is one display row of the asset table.
type TableRow struct {
	Symbol              string     `json:"symbol"`
	Name                string     `json:"name"`
	Price               float64    `json:"price"`
	AllocationPercent   float64    `json:"allocationPercent"`
	Change24hPercent    float64    `json:"change24hPercent"`
	Prediction7dPercent float64    `json:"prediction7dPercent"`
	Provenance          Provenance `json:"provenance"`
}

// AllocationSlice is one pie-chart slice.
type AllocationSlice struct {
	Symbol  string  `json:"symbol"`
	Percent float64 `json:"percent"`
	Color   string  `json:"color"`
}
