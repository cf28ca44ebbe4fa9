package indicators

import (
	"math"
	"testing"
	"time"

	"CryptoBasket/internal/domain/models"
	domrepo "CryptoBasket/internal/domain/repository"

	"github.com/guregu/null/v6"
	"github.com/peterldowns/testy/assert"
)

func vals(xs ...float64) []null.Float {
	out := make([]null.Float, len(xs))
	for i, x := range xs {
		out[i] = null.FloatFrom(x)
	}
	return out
}

func near(t *testing.T, want float64, got null.Float) {
	t.Helper()
	if !got.Valid {
		t.Fatalf("expected %v, got null", want)
	}
	if math.Abs(want-got.Float64) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, got.Float64)
	}
}

func rec(d int, open, closePrice float64) models.PriceRecord {
	return models.PriceRecord{
		Date:  time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC),
		Open:  null.FloatFrom(open),
		Close: closePrice,
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage(vals(1, 2, 3, 4, 5), 3)
	assert.False(t, got[0].Valid)
	assert.False(t, got[1].Valid)
	near(t, 2, got[2])
	near(t, 3, got[3])
	near(t, 4, got[4])

	withGap := []null.Float{null.FloatFrom(1), {}, null.FloatFrom(3), null.FloatFrom(5), null.FloatFrom(7)}
	got = MovingAverage(withGap, 2)
	assert.False(t, got[1].Valid)
	assert.False(t, got[2].Valid)
	near(t, 4, got[3])
	near(t, 6, got[4])
}

func TestRSI(t *testing.T) {
	// Window 2: gains (2,0) losses (0,1) -> avg 1 / 0.5 -> rs 2 -> 66.67
	got := RSI(vals(2, -1), 2)
	assert.False(t, got[0].Valid)
	near(t, 100-100/3.0, got[1])

	assert.Equal(t, null.FloatFrom(100), RSI(vals(1, 1), 2)[1])
	assert.False(t, RSI(vals(0, 0), 2)[1].Valid)
}

func TestPriceDiffs(t *testing.T) {
	recs := []models.PriceRecord{rec(1, 10, 12), {Close: 5}}
	got := PriceDiffs(recs)
	near(t, 2, got[0])
	assert.False(t, got[1].Valid)
}

func TestCompose(t *testing.T) {
	members := []models.BasketMember{
		{Symbol: "BTC", Allocation: 0.5},
		{Symbol: "ETH", Allocation: 0.5},
	}
	in := map[string]models.Series{
		"BTC": models.NewSeries("BTC", models.ProvenanceReal, []models.PriceRecord{rec(1, 90, 100), rec(2, 100, 110), rec(3, 110, 120)}),
		"ETH": models.NewSeries("ETH", models.ProvenanceReal, []models.PriceRecord{rec(2, 8, 10), {Date: rec(3, 0, 0).Date, Close: 20}}),
	}

	s := Compose(members, in)
	assert.Equal(t, models.ProvenanceFallback, s.Provenance)
	assert.Equal(t, []float64{60, 70}, s.Closes())

	recs := s.Records()
	near(t, 54, recs[0].Open)
	assert.False(t, recs[1].Open.Valid)

	// Members without data are skipped; the rest still compose.
	in["ETH"] = models.EmptySeries("ETH")
	partial := Compose(members, in)
	assert.Equal(t, models.ProvenanceFallback, partial.Provenance)
	assert.Equal(t, []float64{50, 55, 60}, partial.Closes())

	delete(in, "ETH")
	assert.Equal(t, []float64{50, 55, 60}, Compose(members, in).Closes())

	in["BTC"] = models.EmptySeries("BTC")
	assert.Equal(t, models.ProvenanceUnavailable, Compose(members, in).Provenance)
	assert.Equal(t, models.ProvenanceUnavailable, Compose(nil, in).Provenance)
}

func TestWindow(t *testing.T) {
	recs := make([]models.PriceRecord, 0, 100)
	for i := 0; i < 100; i++ {
		recs = append(recs, models.PriceRecord{
			Date:  time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Close: float64(i),
		})
	}
	s := models.NewSeries(models.BasketKey, models.ProvenanceReal, recs)

	assert.Equal(t, 24, len(Window(s, domrepo.TF24h)))
	assert.Equal(t, 7, len(Window(s, domrepo.TF7d)))
	assert.Equal(t, 30, len(Window(s, domrepo.TF30d)))
	assert.Equal(t, 90, len(Window(s, domrepo.TF90d)))

	pts := Window(s, domrepo.TF7d)
	assert.Equal(t, null.FloatFrom(99), pts[6].Actual)
	assert.False(t, pts[6].Predicted.Valid)
	assert.Equal(t, "2024-12-09", pts[6].Name)
}

func TestLatest(t *testing.T) {
	recs := make([]models.PriceRecord, 0, 20)
	for i := 1; i <= 20; i++ {
		recs = append(recs, rec(i, float64(i), float64(i+1)))
	}
	s := models.NewSeries(models.BasketKey, models.ProvenanceReal, recs)

	got, ok := Latest(s, DefaultWindow)
	assert.True(t, ok)
	assert.Equal(t, "2025-01-20", got.Date)
	assert.Equal(t, 21.0, got.Close)
	near(t, 1, got.PriceDiff)
	near(t, 100, got.RSI14)
	// mean of closes 8..21
	near(t, 14.5, got.MA14)

	_, ok = Latest(models.EmptySeries(models.BasketKey), DefaultWindow)
	assert.False(t, ok)
}
