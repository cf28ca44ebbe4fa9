package repository

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"CryptoBasket/internal/domain/models"
	domrepo "CryptoBasket/internal/domain/repository"
	xhttp "CryptoBasket/pkg/http"
)

// HTTPSeriesSource downloads per-symbol CSV files from fixed URLs.
type HTTPSeriesSource struct {
	urls   map[string]string
	client *xhttp.Client
}

// NewHTTPSeriesSource maps upper-cased symbols (and models.BasketKey) to CSV URLs.
func NewHTTPSeriesSource(urls map[string]string, basketURL string, client *xhttp.Client) *HTTPSeriesSource {
	m := make(map[string]string, len(urls)+1)
	for k, v := range urls {
		m[strings.ToUpper(k)] = v
	}
	if basketURL != "" {
		m[models.BasketKey] = basketURL
	}
	return &HTTPSeriesSource{urls: m, client: client}
}

func (s *HTTPSeriesSource) Fetch(ctx context.Context, symbol string) ([]models.PriceRecord, error) {
	url, ok := s.urls[strings.ToUpper(symbol)]
	if !ok {
		return nil, fmt.Errorf("no url configured for %s", symbol)
	}

	var body []byte
	err := s.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     url,
		Headers: map[string]string{"Accept": "text/csv"},
	}, &body)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", symbol, err)
	}

	recs, _, err := DecodePriceCSV(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}
	return recs, nil
}

var _ domrepo.SeriesSource = (*HTTPSeriesSource)(nil)
