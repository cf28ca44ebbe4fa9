package basket

import (
	"testing"

	"CryptoBasket/internal/domain/models"
	domrepo "CryptoBasket/internal/domain/repository"

	"github.com/google/go-cmp/cmp"
	"github.com/peterldowns/testy/assert"
)

var members = []models.BasketMember{
	{Symbol: "BTC", Name: "Bitcoin", Allocation: 0.5, Multiplier: 1.5, Color: "#F7931A"},
	{Symbol: "ETH", Name: "Ethereum", Allocation: 0.16, Multiplier: 1, Color: "#627EEA"},
	{Symbol: "ADA", Name: "Cardano", Allocation: 0.08, Multiplier: 1.1, Color: "#0033AD"},
	{Symbol: "XRP", Name: "XRP", Allocation: 0.04, Multiplier: 1, Color: "#23292F"},
}

func symbols(rows []models.TableRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Symbol
	}
	return out
}

func TestProjectOmitsInsufficientData(t *testing.T) {
	p := NewProjector(false, nil)
	in := map[string]models.Series{
		"BTC": series("BTC", 60000, 66000),
		"ETH": series("ETH", 3500),
		"ADA": series("ADA", 1, 1.1),
	}

	rows := p.Project(members, in, domrepo.SortAllocation, domrepo.SortDesc)
	assert.Equal(t, []string{"BTC", "ADA"}, symbols(rows))

	btc := rows[0]
	assert.Equal(t, "Bitcoin", btc.Name)
	assert.Equal(t, 66000.0, btc.Price)
	assert.Equal(t, 50.0, btc.AllocationPercent)
	assert.Equal(t, 10.0, btc.Change24hPercent)
	assert.Equal(t, 15.0, btc.Prediction7dPercent)
	assert.Equal(t, models.ProvenanceReal, btc.Provenance)
}

func TestProjectFallbackRows(t *testing.T) {
	p := NewProjector(true, []models.TableRow{
		{Symbol: "ETH", Name: "Ethereum", Price: 3543.67, AllocationPercent: 16, Change24hPercent: 4.1, Prediction7dPercent: 12.3},
		{Symbol: "xrp", Name: "XRP", Price: 0.54, AllocationPercent: 4, Change24hPercent: -2.1, Prediction7dPercent: -1.3},
	})
	in := map[string]models.Series{"BTC": series("BTC", 60000, 66000)}

	rows := p.Project(members, in, domrepo.SortAllocation, domrepo.SortDesc)
	// ADA has neither data nor a fallback row.
	assert.Equal(t, []string{"BTC", "ETH", "XRP"}, symbols(rows))
	assert.Equal(t, models.ProvenanceFallback, rows[1].Provenance)
	assert.Equal(t, 3543.67, rows[1].Price)
	assert.Equal(t, models.ProvenanceFallback, rows[2].Provenance)
	assert.Equal(t, "XRP", rows[2].Symbol)
}

func TestProjectSorting(t *testing.T) {
	p := NewProjector(false, nil)
	in := map[string]models.Series{
		"BTC": series("BTC", 100, 102),
		"ETH": series("ETH", 100, 110),
		"ADA": series("ADA", 100, 95),
		"XRP": series("XRP", 100, 102),
	}

	tests := []struct {
		field domrepo.SortField
		order domrepo.SortOrder
		want  []string
	}{
		{domrepo.SortAllocation, domrepo.SortDesc, []string{"BTC", "ETH", "ADA", "XRP"}},
		{domrepo.SortAllocation, domrepo.SortAsc, []string{"XRP", "ADA", "ETH", "BTC"}},
		{domrepo.SortChange24h, domrepo.SortDesc, []string{"ETH", "BTC", "XRP", "ADA"}},
		{domrepo.SortChange24h, domrepo.SortAsc, []string{"ADA", "BTC", "XRP", "ETH"}},
		{domrepo.SortSymbol, domrepo.SortAsc, []string{"ADA", "BTC", "ETH", "XRP"}},
		{domrepo.SortName, domrepo.SortAsc, []string{"BTC", "ADA", "ETH", "XRP"}},
		{domrepo.SortPrediction7d, domrepo.SortDesc, []string{"ETH", "BTC", "XRP", "ADA"}},
	}

	for _, test := range tests {
		rows := p.Project(members, in, test.field, test.order)
		assert.Equal(t, test.want, symbols(rows))
	}
}

func TestProjectIdempotent(t *testing.T) {
	p := NewProjector(true, []models.TableRow{
		{Symbol: "xrp", Name: "XRP", Price: 0.54, AllocationPercent: 4, Change24hPercent: -2.1, Prediction7dPercent: -1.3},
	})
	in := map[string]models.Series{
		"BTC": series("BTC", 84000.12, 86011.77, 85123.4),
		"ETH": series("ETH", 3543.67, 3610.2),
		"ADA": series("ADA", 0.45),
	}

	first := p.Project(members, in, domrepo.SortChange24h, domrepo.SortDesc)
	for i := 0; i < 10; i++ {
		if diff := cmp.Diff(first, p.Project(members, in, domrepo.SortChange24h, domrepo.SortDesc)); diff != "" {
			t.Fatalf("project not idempotent (-first +again):\n%s", diff)
		}
	}
}

func TestAllocationSlices(t *testing.T) {
	got := AllocationSlices(members)
	assert.Equal(t, 4, len(got))
	assert.Equal(t, models.AllocationSlice{Symbol: "ETH", Percent: 16, Color: "#627EEA"}, got[1])

	assert.Equal(t, 0, len(AllocationSlices(nil)))
}
