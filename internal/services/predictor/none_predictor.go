package predictor

import (
	"context"
	"errors"

	"CryptoBasket/internal/domain/models"
)

// ErrNoPredictor is returned by the offline predictor.
var ErrNoPredictor = errors.New("no predictor configured")

// NonePredictor never answers. Every forecast goes down the synthetic path.
type NonePredictor struct{}

func (NonePredictor) Predict(context.Context, models.PredictionRequest) ([]models.PredictionPoint, error) {
	return nil, ErrNoPredictor
}
