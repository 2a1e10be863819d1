package di

import (
	"fmt"

	domrepo "CoinSight/internal/domain/repository"
	"CoinSight/internal/handler/api"
	internalrepo "CoinSight/internal/repository"
	"CoinSight/internal/service/marketdata"
	"CoinSight/internal/service/metrics"
	"CoinSight/internal/usecase"
	"CoinSight/pkg/cache"
	"CoinSight/pkg/config"
	xhttp "CoinSight/pkg/http"
	applogger "CoinSight/pkg/logger"
	"CoinSight/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := cfg.Log.Level
	if level == "" {
		level = "info"
	}
	format := cfg.Log.Format
	if format == "" {
		format = "console"
	}
	output := cfg.Log.Output
	if output == "" {
		output = "stdout"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: output})
}

// ProvideCache creates the model-artifact cache backend, or nil when
// caching is disabled.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Backend {
	case "", "none":
		return nil, nil
	case "memory":
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MaxSize)), nil
	case "redis":
		return newRedisCache(cfg)
	case "layered":
		rc, err := newRedisCache(cfg)
		if err != nil {
			return nil, err
		}
		return cache.NewLayeredCache(rc, cache.WithLayeredMemorySize(cfg.Cache.MaxSize)), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

func newRedisCache(cfg *config.Config) (*cache.RedisCache, error) {
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, nil
}

// ProvideMetrics creates the Prometheus domain metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideArtifactStore creates the model artifact store.
func ProvideArtifactStore(cfg *config.Config, cacheSvc cache.Service) domrepo.ArtifactStore {
	return internalrepo.NewFileArtifactStore(cfg.Storage.ModelsDir, cacheSvc, cfg.Cache.TTL)
}

// ProvideMarketData creates the Yahoo Finance client.
func ProvideMarketData(cfg *config.Config) domrepo.MarketData {
	return marketdata.NewYahooClient(cfg.MarketData.BaseURL, cfg.MarketData.UserAgent, cfg.MarketData.Timeout)
}

// ProvideManifestReader creates the results manifest reader.
func ProvideManifestReader(cfg *config.Config) domrepo.ManifestReader {
	return internalrepo.NewJSONManifestReader(cfg.Storage.ManifestFile)
}

// ProvidePredictUseCase creates the prediction pipeline.
func ProvidePredictUseCase(
	artifacts domrepo.ArtifactStore,
	market domrepo.MarketData,
	manifest domrepo.ManifestReader,
	m domrepo.Metrics,
	logger *applogger.Logger,
	cfg *config.Config,
) *usecase.PredictUseCase {
	return usecase.NewPredictUseCase(artifacts, market, manifest, m, logger, cfg.Storage.PlotsDir, cfg.MarketData.WindowDays)
}

// ProvideHandler creates the HTTP handler.
func ProvideHandler(logger *applogger.Logger, cfg *config.Config, uc *usecase.PredictUseCase) xhttp.Handler {
	return api.NewPredictHandler(logger, cfg, uc)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, handler xhttp.Handler, cacheSvc cache.Service, logger *applogger.Logger) *server.App {
	return server.New(cfg, handler, cacheSvc, logger)
}
