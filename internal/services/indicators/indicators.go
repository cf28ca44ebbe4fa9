package indicators

import (
	"math"

	"CryptoBasket/internal/domain/models"

	"github.com/guregu/null/v6"
)

// DefaultWindow is the look-back used for RSI and the moving average.
const DefaultWindow = 14

// PriceDiffs computes close - open per record; null where open is missing.
func PriceDiffs(recs []models.PriceRecord) []null.Float {
	out := make([]null.Float, len(recs))
	for i, r := range recs {
		if r.Open.Valid {
			out[i] = null.FloatFrom(r.Close - r.Open.Float64)
		}
	}
	return out
}

// MovingAverage is the simple rolling mean over window values. The first
// window-1 entries, and any window containing a null, are null.
func MovingAverage(values []null.Float, window int) []null.Float {
	out := make([]null.Float, len(values))
	if window <= 0 {
		return out
	}
	sum := 0.0
	missing := 0
	for i, v := range values {
		if v.Valid {
			sum += v.Float64
		} else {
			missing++
		}
		if i >= window {
			old := values[i-window]
			if old.Valid {
				sum -= old.Float64
			} else {
				missing--
			}
		}
		if i >= window-1 && missing == 0 {
			out[i] = null.FloatFrom(sum / float64(window))
		}
	}
	return out
}

// RSI is the relative strength index over window diffs, using plain rolling
// means of gains and losses: 100 - 100/(1 + avgGain/avgLoss). A window with
// no movement at all is null; a window with no losses is 100.
func RSI(diffs []null.Float, window int) []null.Float {
	gains := make([]null.Float, len(diffs))
	losses := make([]null.Float, len(diffs))
	for i, d := range diffs {
		if !d.Valid {
			continue
		}
		gains[i] = null.FloatFrom(math.Max(d.Float64, 0))
		losses[i] = null.FloatFrom(math.Max(-d.Float64, 0))
	}

	avgGain := MovingAverage(gains, window)
	avgLoss := MovingAverage(losses, window)

	out := make([]null.Float, len(diffs))
	for i := range diffs {
		g, l := avgGain[i], avgLoss[i]
		if !g.Valid || !l.Valid {
			continue
		}
		switch {
		case l.Float64 == 0 && g.Float64 == 0:
			// undefined
		case l.Float64 == 0:
			out[i] = null.FloatFrom(100)
		default:
			rs := g.Float64 / l.Float64
			out[i] = null.FloatFrom(100 - 100/(1+rs))
		}
	}
	return out
}

// Closes lifts series closes into nullable values.
func Closes(recs []models.PriceRecord) []null.Float {
	out := make([]null.Float, len(recs))
	for i, r := range recs {
		out[i] = null.FloatFrom(r.Close)
	}
	return out
}

func last(xs []null.Float) null.Float {
	if len(xs) == 0 {
		return null.Float{}
	}
	return xs[len(xs)-1]
}
