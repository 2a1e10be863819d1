package repository

import (
	"context"

	"CoinSight/internal/domain/models"
	"CoinSight/internal/service/ml"
)

// MarketData retrieves daily closing prices over a trailing window.
type MarketData interface {
	FetchDailyCloses(ctx context.Context, symbol string, days int) (models.PriceSeries, error)
}

// ArtifactStore resolves and loads persisted model artifacts.
type ArtifactStore interface {
	Load(ctx context.Context, symbol string, modelID int) (*ml.Network, error)
}

// ManifestReader reads the offline results manifest.
type ManifestReader interface {
	Entry(symbol string, modelID int) (*models.ManifestEntry, error)
}

// Metrics records domain-level measurements.
type Metrics interface {
	RecordPrediction(symbol string, modelID int)
	RecordError(kind string)
	RecordStageLatency(stage string, seconds float64)
}
