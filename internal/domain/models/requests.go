package models

// Requests for dashboard HTTP endpoints. Defined in domain for consistency and reuse.

type SeriesRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required,alphanum,max=16"`
	Limit  int    `query:"limit" json:"limit" default:"90" validate:"gte=1,lte=5000"`
}

// PredictRequest.Days is a pointer so an explicit zero is rejected rather
// than replaced by the default.
type PredictRequest struct {
	Days   *int   `json:"days" default:"7" validate:"required,gte=1,lte=3650"`
	Year   int    `json:"year" validate:"omitempty,gte=2000,lte=2100"`
	Scope  string `json:"scope" default:"basket" validate:"oneof=basket asset"`
	Symbol string `json:"symbol" validate:"required_if=Scope asset,omitempty,alphanum,max=16"`
}

type TableRequest struct {
	Sort  string `query:"sort" json:"sort" default:"allocation" validate:"oneof=symbol name price allocation change24h prediction7d"`
	Order string `query:"order" json:"order" default:"desc" validate:"oneof=asc desc"`
}

type ChartRequest struct {
	Timeframe string `query:"timeframe" json:"timeframe" default:"90d" validate:"oneof=24h 7d 30d 90d"`
}
