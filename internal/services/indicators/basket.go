package indicators

import (
	"sort"

	"CryptoBasket/internal/domain/models"
	domrepo "CryptoBasket/internal/domain/repository"
	"CryptoBasket/pkg/util"

	"github.com/guregu/null/v6"
)

// Compose builds the basket series as the allocation-weighted sum of member
// closes (and opens) on the dates every member with data has. Members without
// data are left out and their weight is not redistributed, so a partial
// composition sits below the full basket level. No member with data gives an
// empty series.
func Compose(members []models.BasketMember, series map[string]models.Series) models.Series {
	present := make([]models.BasketMember, 0, len(members))
	for _, m := range members {
		if series[m.Symbol].Len() > 0 {
			present = append(present, m)
		}
	}
	if len(present) == 0 {
		return models.EmptySeries(models.BasketKey)
	}
	members = present

	type acc struct {
		rec     models.PriceRecord
		count   int
		opensOK bool
	}
	byDate := make(map[int64]*acc)
	for _, m := range members {
		for _, r := range series[m.Symbol].Records() {
			k := r.Date.Unix()
			a, ok := byDate[k]
			if !ok {
				a = &acc{rec: models.PriceRecord{Date: r.Date}, opensOK: true}
				byDate[k] = a
			}
			a.count++
			a.rec.Close += r.Close * m.Allocation
			if r.Open.Valid {
				a.rec.Open.Float64 += r.Open.Float64 * m.Allocation
			} else {
				a.opensOK = false
			}
		}
	}

	out := make([]models.PriceRecord, 0, len(byDate))
	for _, a := range byDate {
		if a.count != len(members) {
			continue
		}
		rec := a.rec
		rec.Open = null.NewFloat(rec.Open.Float64, a.opensOK)
		out = append(out, rec)
	}
	if len(out) == 0 {
		return models.EmptySeries(models.BasketKey)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return models.NewSeries(models.BasketKey, models.ProvenanceFallback, out)
}

// Window maps the most recent records of s to chart points for timeframe tf.
func Window(s models.Series, tf domrepo.Timeframe) []models.ChartPoint {
	recs := s.Tail(tf.Points())
	out := make([]models.ChartPoint, len(recs))
	for i, r := range recs {
		out[i] = models.ChartPoint{
			Name:   util.FormatDay(r.Date),
			Actual: null.FloatFrom(r.Close),
		}
	}
	return out
}

// Latest computes the indicators at the most recent record of s.
func Latest(s models.Series, window int) (models.BasketIndicators, bool) {
	latest, ok := s.Latest()
	if !ok {
		return models.BasketIndicators{}, false
	}
	recs := s.Records()
	diffs := PriceDiffs(recs)
	return models.BasketIndicators{
		Date:       util.FormatDay(latest.Date),
		Close:      latest.Close,
		PriceDiff:  last(diffs),
		RSI14:      last(RSI(diffs, window)),
		MA14:       last(MovingAverage(Closes(recs), window)),
		Provenance: s.Provenance,
	}, true
}
