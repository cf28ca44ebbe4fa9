//go:build wireinject
// +build wireinject

package di

import (
	"CryptoBasket/pkg/config"
	"CryptoBasket/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideHTTPClient,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideCache,

		// Repositories and external services
		ProvideSeriesSource,
		ProvideSnapshotPublisher,
		ProvidePredictor,
		ProvidePointGenerator,

		// Domain services
		ProvideMembers,
		ProvideCalculator,
		ProvideProjector,

		// Use cases
		ProvideSeriesLoader,
		ProvidePredictionBridge,
		ProvideHub,
		ProvideDashboardUseCase,

		// Transport and scheduling
		ProvideRateLimiter,
		ProvideHTTPHandler,
		ProvideScheduler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
