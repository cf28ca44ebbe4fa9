package basket

import (
	"sort"
	"strings"

	"CryptoBasket/internal/domain/models"
	domrepo "CryptoBasket/internal/domain/repository"
)

// Projector turns series and configuration into display rows.
type Projector struct {
	fallbackRows bool
	fallback     map[string]models.TableRow
}

// NewProjector returns a projector. When fallbackRows is set, members without
// enough data are filled from the static fallback table instead of omitted.
func NewProjector(fallbackRows bool, fallback []models.TableRow) *Projector {
	m := make(map[string]models.TableRow, len(fallback))
	for _, r := range fallback {
		r.Symbol = strings.ToUpper(strings.TrimSpace(r.Symbol))
		r.Provenance = models.ProvenanceFallback
		m[r.Symbol] = r
	}
	return &Projector{fallbackRows: fallbackRows, fallback: m}
}

// Project builds one row per member with a defined change, sorted by field
// and order. Ties keep basket order.
func (p *Projector) Project(
	members []models.BasketMember,
	series map[string]models.Series,
	field domrepo.SortField,
	order domrepo.SortOrder,
) []models.TableRow {
	rows := make([]models.TableRow, 0, len(members))
	for _, m := range members {
		row, ok := projectMember(m, series[m.Symbol])
		if !ok {
			if !p.fallbackRows {
				continue
			}
			fb, ok := p.fallback[m.Symbol]
			if !ok {
				continue
			}
			rows = append(rows, fb)
			continue
		}
		rows = append(rows, row)
	}
	SortRows(rows, field, order)
	return rows
}

func projectMember(m models.BasketMember, s models.Series) (models.TableRow, bool) {
	change, ok := ChangePercent(s)
	if !ok {
		return models.TableRow{}, false
	}
	latest, _ := s.Latest()
	return models.TableRow{
		Symbol:              m.Symbol,
		Name:                m.Name,
		Price:               latest.Close,
		AllocationPercent:   Round2(m.Allocation * 100),
		Change24hPercent:    Round2(change),
		Prediction7dPercent: Round2(change * m.Multiplier),
		Provenance:          models.ProvenanceReal,
	}, true
}

// SortRows orders rows in place, stably.
func SortRows(rows []models.TableRow, field domrepo.SortField, order domrepo.SortOrder) {
	less := lessFor(field)
	sort.SliceStable(rows, func(i, j int) bool {
		if order == domrepo.SortAsc {
			return less(rows[i], rows[j])
		}
		return less(rows[j], rows[i])
	})
}

func lessFor(field domrepo.SortField) func(a, b models.TableRow) bool {
	switch field {
	case domrepo.SortSymbol:
		return func(a, b models.TableRow) bool { return a.Symbol < b.Symbol }
	case domrepo.SortName:
		return func(a, b models.TableRow) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case domrepo.SortPrice:
		return func(a, b models.TableRow) bool { return a.Price < b.Price }
	case domrepo.SortChange24h:
		return func(a, b models.TableRow) bool { return a.Change24hPercent < b.Change24hPercent }
	case domrepo.SortPrediction7d:
		return func(a, b models.TableRow) bool { return a.Prediction7dPercent < b.Prediction7dPercent }
	default:
		return func(a, b models.TableRow) bool { return a.AllocationPercent < b.AllocationPercent }
	}
}

// AllocationSlices projects the configured weights for the pie chart.
func AllocationSlices(members []models.BasketMember) []models.AllocationSlice {
	out := make([]models.AllocationSlice, 0, len(members))
	for _, m := range members {
		out = append(out, models.AllocationSlice{
			Symbol:  m.Symbol,
			Percent: Round2(m.Allocation * 100),
			Color:   m.Color,
		})
	}
	return out
}
