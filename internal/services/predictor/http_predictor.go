package predictor

import (
	"context"
	"fmt"

	"CryptoBasket/internal/domain/models"
	"CryptoBasket/pkg/config"
)

// HTTPPredictor asks a remote forecasting service over JSON POST.
type HTTPPredictor struct {
	*HTTPServiceBase
	path     string
	attempts int
}

// NewHTTPPredictor builds a predictor for cfg.Predictor.URL + cfg.Predictor.Path.
func NewHTTPPredictor(cfg *config.Config) *HTTPPredictor {
	return &HTTPPredictor{
		HTTPServiceBase: NewHTTPServiceBase(cfg.Predictor.URL, cfg.Predictor.Timeout),
		path:            cfg.Predictor.Path,
		attempts:        cfg.Predictor.Retries + 1,
	}
}

func (p *HTTPPredictor) Predict(ctx context.Context, req models.PredictionRequest) ([]models.PredictionPoint, error) {
	var body []byte
	if err := p.PostJSONWithRetry(ctx, p.path, req, &body, p.attempts); err != nil {
		return nil, err
	}
	points, err := NormalizePoints(body)
	if err != nil {
		return nil, fmt.Errorf("normalize response: %w", err)
	}
	return points, nil
}
