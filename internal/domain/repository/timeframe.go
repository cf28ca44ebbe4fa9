package repository

// Timeframe is a chart window selector.
type Timeframe string

const (
	TF24h Timeframe = "24h"
	TF7d  Timeframe = "7d"
	TF30d Timeframe = "30d"
	TF90d Timeframe = "90d"
)

// IsValidTimeframe returns true if tf is a supported timeframe.
func IsValidTimeframe(tf Timeframe) bool {
	switch tf {
	case TF24h, TF7d, TF30d, TF90d:
		return true
	default:
		return false
	}
}

// DefaultTimeframe returns the default timeframe.
func DefaultTimeframe() Timeframe { return TF90d }

// NormalizeTimeframe converts raw string to a valid timeframe (or default).
func NormalizeTimeframe(s string) Timeframe {
	if s == "" {
		return DefaultTimeframe()
	}
	tf := Timeframe(s)
	if IsValidTimeframe(tf) {
		return tf
	}
	return DefaultTimeframe()
}

// Points returns how many of the most recent daily records a chart window shows.
// 24h keeps 24 records because the basket series is daily and the chart is
// labelled by record, not by hour.
func (tf Timeframe) Points() int {
	switch tf {
	case TF24h:
		return 24
	case TF7d:
		return 7
	case TF30d:
		return 30
	default:
		return 90
	}
}

// SortField is a table column the projector can order by.
type SortField string

const (
	SortSymbol       SortField = "symbol"
	SortName         SortField = "name"
	SortPrice        SortField = "price"
	SortAllocation   SortField = "allocation"
	SortChange24h    SortField = "change24h"
	SortPrediction7d SortField = "prediction7d"
)

// SortOrder is ascending or descending.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// NormalizeSort returns a valid field and order, defaulting to allocation desc.
func NormalizeSort(field, order string) (SortField, SortOrder) {
	f := SortField(field)
	switch f {
	case SortSymbol, SortName, SortPrice, SortAllocation, SortChange24h, SortPrediction7d:
	default:
		f = SortAllocation
	}
	o := SortOrder(order)
	if o != SortAsc && o != SortDesc {
		o = SortDesc
	}
	return f, o
}
