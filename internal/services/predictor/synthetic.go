package predictor

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"CryptoBasket/internal/domain/models"
	"CryptoBasket/internal/services/basket"

	"github.com/guregu/null/v6"
)

// DefaultSyntheticBase is the starting value of generated series.
const DefaultSyntheticBase = 4200

// RandomWalk generates a stand-in forecast: days+1 points labelled "Day i".
// The first half walks the actual value by U(-50, 50) per step; from the
// midpoint the predicted value walks by U(-30, 120). The midpoint carries
// both values so the two lines join.
type RandomWalk struct {
	base float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomWalk seeds from the runtime source.
func NewRandomWalk(base float64) *RandomWalk {
	return NewSeededRandomWalk(base, rand.Uint64(), rand.Uint64())
}

// NewSeededRandomWalk is deterministic for a given seed pair.
func NewSeededRandomWalk(base float64, seed1, seed2 uint64) *RandomWalk {
	if base <= 0 {
		base = DefaultSyntheticBase
	}
	return &RandomWalk{base: base, rng: rand.New(rand.NewPCG(seed1, seed2))}
}

func (g *RandomWalk) Generate(days int) []models.PredictionPoint {
	if days < 1 {
		days = 1
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	actual, predicted := g.base, g.base
	half := float64(days) / 2
	out := make([]models.PredictionPoint, 0, days+1)
	for i := 0; i <= days; i++ {
		p := models.PredictionPoint{Label: fmt.Sprintf("Day %d", i)}
		if float64(i) < half {
			actual += g.rng.Float64()*100 - 50
			p.Actual = null.FloatFrom(basket.Round2(actual))
		} else {
			predicted += g.rng.Float64()*150 - 30
			p.Predicted = null.FloatFrom(basket.Round2(predicted))
			if float64(i) == half {
				p.Actual = null.FloatFrom(basket.Round2(actual))
			}
		}
		out = append(out, p)
	}
	return out
}
