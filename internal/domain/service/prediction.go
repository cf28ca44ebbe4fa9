package service

import (
	"context"

	"CryptoBasket/internal/domain/models"
)

// Predictor asks an external forecaster for a prediction series.
type Predictor interface {
	Predict(ctx context.Context, req models.PredictionRequest) ([]models.PredictionPoint, error)
}

// PointGenerator produces a local stand-in series when no predictor answers.
type PointGenerator interface {
	Generate(days int) []models.PredictionPoint
}
