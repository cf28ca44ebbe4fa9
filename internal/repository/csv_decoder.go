package repository

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"CryptoBasket/internal/domain/models"
	"CryptoBasket/pkg/util"

	"github.com/gocarina/gocsv"
	"github.com/guregu/null/v6"
)

// priceRow is the raw, untyped shape of a daily price CSV row. Columns not
// listed here (Price_diff, RSI, MA_14, ...) are ignored.
type priceRow struct {
	Date   string `csv:"Date"`
	Open   string `csv:"Open"`
	High   string `csv:"High"`
	Low    string `csv:"Low"`
	Close  string `csv:"Close"`
	Volume string `csv:"Volume"`
}

// DecodeStats reports what the decoder did with the input rows.
type DecodeStats struct {
	Rows       int
	Dropped    int
	Duplicates int
}

// DecodePriceCSV parses a header-row CSV into records sorted by date.
//
// Per-field rules: a row whose Date or Close cannot be parsed is dropped;
// Open/High/Low/Volume that cannot be parsed become null. Rows sharing a date
// keep the last occurrence.
func DecodePriceCSV(r io.Reader) ([]models.PriceRecord, DecodeStats, error) {
	var stats DecodeStats

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var rows []*priceRow
	if err := gocsv.UnmarshalCSV(cr, &rows); err != nil {
		return nil, stats, fmt.Errorf("decode csv: %w", err)
	}
	stats.Rows = len(rows)

	byDate := make(map[int64]int, len(rows))
	out := make([]models.PriceRecord, 0, len(rows))
	for _, row := range rows {
		rec, ok := row.record()
		if !ok {
			stats.Dropped++
			continue
		}
		key := rec.Date.Unix()
		if i, dup := byDate[key]; dup {
			out[i] = rec
			stats.Duplicates++
			continue
		}
		byDate[key] = len(out)
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, stats, nil
}

func (p *priceRow) record() (models.PriceRecord, bool) {
	date, ok := util.ParseDay(p.Date)
	if !ok {
		return models.PriceRecord{}, false
	}
	closePrice, ok := util.ParseFloat(p.Close)
	if !ok {
		return models.PriceRecord{}, false
	}
	return models.PriceRecord{
		Date:   date,
		Open:   optional(p.Open),
		High:   optional(p.High),
		Low:    optional(p.Low),
		Close:  closePrice,
		Volume: optional(p.Volume),
	}, true
}

func optional(s string) null.Float {
	v, ok := util.ParseFloat(s)
	return null.NewFloat(v, ok)
}
