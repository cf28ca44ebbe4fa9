package di

import (
	"context"
	"fmt"
	"time"

	"CryptoBasket/internal/domain/models"
	domrepo "CryptoBasket/internal/domain/repository"
	domsvc "CryptoBasket/internal/domain/service"
	"CryptoBasket/internal/handler/api"
	"CryptoBasket/internal/realtime"
	internalrepo "CryptoBasket/internal/repository"
	"CryptoBasket/internal/scheduler"
	"CryptoBasket/internal/service/cache"
	"CryptoBasket/internal/service/ratelimit"
	"CryptoBasket/internal/services/basket"
	"CryptoBasket/internal/services/predictor"
	"CryptoBasket/internal/usecase"
	pkgch "CryptoBasket/pkg/clickhouse"
	"CryptoBasket/pkg/config"
	xhttp "CryptoBasket/pkg/http"
	pkgkafka "CryptoBasket/pkg/kafka"
	xlogger "CryptoBasket/pkg/logger"
	"CryptoBasket/pkg/metrics"
	"CryptoBasket/pkg/server"
)

// ProvideLogger builds the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*xlogger.Logger, error) {
	l, err := xlogger.New(&xlogger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(xlogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideHTTPClient creates the outbound client used by the http series source.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(
		xhttp.WithTimeout(cfg.Data.Timeout),
		xhttp.WithUserAgent("cryptobasket/"+cfg.Environment),
	)
}

// ProvideClickHouseClient creates a ClickHouse client when the series source
// reads from ClickHouse, and nil otherwise.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Data.Source != "clickhouse" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := pkgch.NewClient(ctx,
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	stmts := append(
		[]string{"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database},
		internalrepo.DailyPricesSchema(cfg.ClickHouse.Database, cfg.Data.Table)...,
	)
	if err := client.InitSchema(ctx, stmts); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideSeriesSource picks the series backend named by data.source.
func ProvideSeriesSource(cfg *config.Config, ch *pkgch.Client, client *xhttp.Client, logger *xlogger.Logger) (domrepo.SeriesSource, error) {
	switch cfg.Data.Source {
	case "file":
		src := internalrepo.NewFileSeriesSource(cfg.Data.Dir, cfg.Data.FilePattern, cfg.Data.BasketFile)
		src.SetLogger(logger)
		return src, nil
	case "http":
		return internalrepo.NewHTTPSeriesSource(cfg.Data.URLs, cfg.Data.BasketURL, client), nil
	case "clickhouse":
		if ch == nil {
			return nil, fmt.Errorf("series source: clickhouse client not configured")
		}
		src := internalrepo.NewCHSeriesSource(ch, cfg.ClickHouse.Database+"."+cfg.Data.Table)
		src.SetLogger(logger)
		return src, nil
	default:
		return nil, fmt.Errorf("series source: unknown data.source %q", cfg.Data.Source)
	}
}

// ProvidePredictor picks the predictor transport named by predictor.mode.
func ProvidePredictor(cfg *config.Config) domsvc.Predictor {
	switch cfg.Predictor.Mode {
	case "http":
		return predictor.NewHTTPPredictor(cfg)
	case "exec":
		return predictor.NewExecPredictor(cfg)
	default:
		return predictor.NonePredictor{}
	}
}

func ProvidePointGenerator(cfg *config.Config) domsvc.PointGenerator {
	return predictor.NewRandomWalk(cfg.Predictor.SyntheticBase)
}

// ProvideCache returns a Redis-backed cache when enabled and reachable,
// otherwise an in-process TTL cache.
func ProvideCache(cfg *config.Config, logger *xlogger.Logger) cache.BytesCache {
	if !cfg.Redis.Enabled {
		return cache.NewTTLCache(0)
	}
	rc, err := cache.NewRedisCache(context.Background(), cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Warn("redis unavailable, using in-memory cache", xlogger.String("addr", cfg.Redis.Addr), xlogger.Error(err))
		return cache.NewTTLCache(0)
	}
	return rc
}

// ProvideKafkaProducer creates a Kafka producer, or nil when kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideSnapshotPublisher wraps the producer; nil producer means no publishing.
func ProvideSnapshotPublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.SnapshotPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaSnapshotPublisher(producer, cfg.Kafka.Topic)
}

// ProvideMembers converts the configured basket into domain members.
func ProvideMembers(cfg *config.Config) []models.BasketMember {
	out := make([]models.BasketMember, len(cfg.Basket.Members))
	for i, m := range cfg.Basket.Members {
		out[i] = models.BasketMember{
			Symbol:     m.Symbol,
			Name:       m.Name,
			Allocation: m.Allocation,
			Multiplier: m.Multiplier,
			Color:      m.Color,
		}
	}
	return out
}

func ProvideCalculator(cfg *config.Config) *basket.Calculator {
	return basket.NewCalculator(
		cfg.Basket.ScaleFactor,
		models.Performer{Symbol: cfg.Basket.DefaultBest.Symbol, ChangePercent: cfg.Basket.DefaultBest.Change},
		models.Performer{Symbol: cfg.Basket.DefaultWorst.Symbol, ChangePercent: cfg.Basket.DefaultWorst.Change},
	)
}

// ProvideProjector builds the table projector; fallback allocations are
// configured as fractions like member allocations.
func ProvideProjector(cfg *config.Config) *basket.Projector {
	rows := make([]models.TableRow, len(cfg.Basket.Fallback))
	for i, f := range cfg.Basket.Fallback {
		rows[i] = models.TableRow{
			Symbol:              f.Symbol,
			Name:                f.Name,
			Price:               f.Price,
			AllocationPercent:   basket.Round2(f.Allocation * 100),
			Change24hPercent:    f.Change24h,
			Prediction7dPercent: f.Prediction7d,
		}
	}
	return basket.NewProjector(cfg.Basket.FallbackRows, rows)
}

func ProvideSeriesLoader(source domrepo.SeriesSource, m domrepo.Metrics, logger *xlogger.Logger, cfg *config.Config) *usecase.SeriesLoader {
	return usecase.NewSeriesLoader(source, m, logger, cfg.Data.Timeout)
}

func ProvidePredictionBridge(
	p domsvc.Predictor,
	gen domsvc.PointGenerator,
	c cache.BytesCache,
	m domrepo.Metrics,
	logger *xlogger.Logger,
	cfg *config.Config,
) *usecase.PredictionBridge {
	return usecase.NewPredictionBridge(p, gen, c, cfg.Predictor.CacheTTL, m, logger)
}

func ProvideHub() *realtime.Hub {
	return realtime.NewHub()
}

// ProvideDashboardUseCase wires the refresh pipeline and its delivery sinks.
func ProvideDashboardUseCase(
	cfg *config.Config,
	members []models.BasketMember,
	loader *usecase.SeriesLoader,
	bridge *usecase.PredictionBridge,
	calc *basket.Calculator,
	projector *basket.Projector,
	m domrepo.Metrics,
	logger *xlogger.Logger,
	hub *realtime.Hub,
	pub domrepo.SnapshotPublisher,
) *usecase.DashboardUseCase {
	uc := usecase.NewDashboardUseCase(members, loader, bridge, calc, projector, usecase.DashboardSettings{
		Horizons:        cfg.Predictor.Horizons,
		ComposeFallback: cfg.Basket.ComposeFallback,
		Window:          cfg.Data.Window,
		RefreshTimeout:  cfg.Refresh.Timeout,
	}, m, logger)
	uc.SetBroadcaster(hub)
	if pub != nil {
		uc.SetPublisher(pub)
	}
	return uc
}

func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.Predictor.RateCapacity, cfg.Predictor.RateRefill)
}

// ProvideHTTPHandler groups the REST and websocket routes.
func ProvideHTTPHandler(
	logger *xlogger.Logger,
	uc *usecase.DashboardUseCase,
	bridge *usecase.PredictionBridge,
	rl *ratelimit.Limiter,
	hub *realtime.Hub,
) xhttp.Handler {
	return xhttp.Handlers{
		api.NewDashboardEchoHandler(logger, uc, bridge, rl),
		api.NewWSEchoHandler(logger, hub, uc),
	}
}

func ProvideScheduler(uc *usecase.DashboardUseCase, cfg *config.Config, logger *xlogger.Logger) *scheduler.Scheduler {
	job := scheduler.RefreshFunc(func(ctx context.Context) error {
		uc.Refresh(ctx)
		return nil
	})
	return scheduler.New(job, cfg.Refresh.Timeout, logger)
}

// ProvideApp assembles the application lifecycle.
func ProvideApp(
	cfg *config.Config,
	logger *xlogger.Logger,
	handler xhttp.Handler,
	sched *scheduler.Scheduler,
	hub *realtime.Hub,
	pub domrepo.SnapshotPublisher,
	c cache.BytesCache,
	ch *pkgch.Client,
) *server.App {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	httpServer := xhttp.NewServer(handler,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithSlowThreshold(cfg.Server.SlowThreshold),
		xhttp.WithLogger(logger),
	)

	app := server.New(logger, httpServer, sched, hub)
	app.SetRefreshCron(cfg.Refresh.Enabled, cfg.Refresh.Cron)
	if pub != nil {
		app.AddCloser("kafka publisher", pub)
	}
	app.AddCloser("cache", c)
	if ch != nil {
		app.AddCloser("clickhouse", ch)
	}
	return app
}
