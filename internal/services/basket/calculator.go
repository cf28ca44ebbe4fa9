package basket

import (
	"math"

	"CryptoBasket/internal/domain/models"
)

// ChangePercent is the change between the last two closes, in percent.
// It is undefined (ok=false) with fewer than two records, a non-positive
// previous close, or a non-finite result.
func ChangePercent(s models.Series) (float64, bool) {
	prev, latest, ok := s.LastTwo()
	if !ok || prev.Close <= 0 {
		return 0, false
	}
	v := (latest.Close - prev.Close) / prev.Close * 100
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Calculator derives the basket performance snapshot. It holds only
// configuration and is safe for concurrent use.
type Calculator struct {
	scaleFactor  float64
	defaultBest  models.Performer
	defaultWorst models.Performer
}

// NewCalculator returns a calculator. best and worst are reported when no
// member has a defined change.
func NewCalculator(scaleFactor float64, best, worst models.Performer) *Calculator {
	return &Calculator{scaleFactor: scaleFactor, defaultBest: best, defaultWorst: worst}
}

// Aggregate folds every member with a defined change into the snapshot.
// Members without one are skipped entirely. Changes are weighted averages
// over the contributing members' allocations; best and worst keep the first
// member in basket order on ties. Values are rounded only here, on exit.
func (c *Calculator) Aggregate(members []models.BasketMember, series map[string]models.Series) models.PerformanceSnapshot {
	var (
		totalValue         float64
		weightedChange     float64
		weightedPrediction float64
		weightSum          float64
		contributors       int
		best, worst        models.Performer
	)

	for _, m := range members {
		s, ok := series[m.Symbol]
		if !ok {
			continue
		}
		change, ok := ChangePercent(s)
		if !ok {
			continue
		}
		latest, _ := s.Latest()

		totalValue += latest.Close * m.Allocation * c.scaleFactor
		weightedChange += change * m.Allocation
		weightedPrediction += change * m.Multiplier * m.Allocation
		weightSum += m.Allocation

		if contributors == 0 || change > best.ChangePercent {
			best = models.Performer{Symbol: m.Symbol, ChangePercent: change}
		}
		if contributors == 0 || change < worst.ChangePercent {
			worst = models.Performer{Symbol: m.Symbol, ChangePercent: change}
		}
		contributors++
	}

	if contributors == 0 {
		return models.PerformanceSnapshot{
			BestPerformer:  roundPerformer(c.defaultBest),
			WorstPerformer: roundPerformer(c.defaultWorst),
		}
	}

	snap := models.PerformanceSnapshot{
		TotalValue:     Round2(totalValue),
		BestPerformer:  roundPerformer(best),
		WorstPerformer: roundPerformer(worst),
		Contributors:   contributors,
	}
	if weightSum > 0 {
		snap.Change24hPercent = Round2(weightedChange / weightSum)
		snap.PredictedChangePercent = Round2(weightedPrediction / weightSum)
	}
	return snap
}

func roundPerformer(p models.Performer) models.Performer {
	return models.Performer{Symbol: p.Symbol, ChangePercent: Round2(p.ChangePercent)}
}
