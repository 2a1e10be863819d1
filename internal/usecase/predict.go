package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"CoinSight/internal/domain/models"
	domrepo "CoinSight/internal/domain/repository"
	"CoinSight/internal/services/preprocess"
	xhttp "CoinSight/pkg/http"
	xlogger "CoinSight/pkg/logger"
)

// PredictUseCase runs the prediction pipeline for one request: load model,
// fetch market data, normalize, infer, denormalize, attach metadata. No
// state survives a request; the fitted scaler is threaded through as a
// value and never shared.
type PredictUseCase struct {
	artifacts domrepo.ArtifactStore
	market    domrepo.MarketData
	manifest  domrepo.ManifestReader
	metrics   domrepo.Metrics
	logger    *xlogger.Logger

	plotsDir   string
	windowDays int
}

func NewPredictUseCase(
	artifacts domrepo.ArtifactStore,
	market domrepo.MarketData,
	manifest domrepo.ManifestReader,
	metrics domrepo.Metrics,
	logger *xlogger.Logger,
	plotsDir string,
	windowDays int,
) *PredictUseCase {
	return &PredictUseCase{
		artifacts:  artifacts,
		market:     market,
		manifest:   manifest,
		metrics:    metrics,
		logger:     logger,
		plotsDir:   plotsDir,
		windowDays: windowDays,
	}
}

// Predict executes the pipeline. baseURL is the request's scheme://host
// root, used to build the absolute plot link.
func (uc *PredictUseCase) Predict(ctx context.Context, symbol string, modelID int, baseURL string) (*models.PredictResponse, error) {
	start := time.Now()
	network, err := uc.artifacts.Load(ctx, symbol, modelID)
	uc.metrics.RecordStageLatency("load_model", time.Since(start).Seconds())
	if err != nil {
		return nil, uc.fail("load_model", err)
	}

	start = time.Now()
	series, err := uc.market.FetchDailyCloses(ctx, symbol, uc.windowDays)
	uc.metrics.RecordStageLatency("fetch_data", time.Since(start).Seconds())
	if err != nil {
		return nil, uc.fail("fetch_data", err)
	}

	tensor, scaler, err := preprocess.BuildWindow(series.Prices(), uc.windowDays)
	if err != nil {
		return nil, uc.fail("normalize", xhttp.InternalError("could not normalize market data").WithError(err))
	}

	start = time.Now()
	raw, err := network.Predict(tensor.Data)
	uc.metrics.RecordStageLatency("inference", time.Since(start).Seconds())
	if err != nil {
		return nil, uc.fail("inference", xhttp.InternalError("inference failed").WithError(err))
	}

	// Denormalize with this request's fitted bounds only.
	predicted := scaler.Inverse(raw)

	entry, err := uc.manifest.Entry(symbol, modelID)
	if err != nil {
		return nil, uc.fail("manifest", err)
	}

	uc.metrics.RecordPrediction(symbol, modelID)
	uc.logger.Info("prediction served",
		xlogger.String("symbol", symbol),
		xlogger.Int("model_id", modelID),
		xlogger.Float64("predicted_price", predicted),
		xlogger.Int("series_len", len(series)),
	)

	return &models.PredictResponse{
		Crypto:         symbol,
		ModelID:        modelID,
		PredictedPrice: predicted,
		PlotLink:       uc.plotLink(symbol, modelID, baseURL),
		ModelDetails: models.ModelDetails{
			Structure:      entry.Structure,
			BestFoldResult: entry.BestFold(),
		},
	}, nil
}

// plotLink returns the absolute URL of the pre-rendered plot, or nil when
// the file does not exist on disk.
func (uc *PredictUseCase) plotLink(symbol string, modelID int, baseURL string) *string {
	file := models.PlotFileName(symbol, modelID)
	if _, err := os.Stat(filepath.Join(uc.plotsDir, file)); err != nil {
		return nil
	}
	link := fmt.Sprintf("%s/plots/%s", baseURL, file)
	return &link
}

func (uc *PredictUseCase) fail(stage string, err error) error {
	var appErr *xhttp.AppError
	if errors.As(err, &appErr) {
		uc.metrics.RecordError(appErr.Code)
	} else {
		uc.metrics.RecordError("ERR_INTERNAL")
	}
	uc.logger.Error("prediction pipeline failed",
		xlogger.String("stage", stage),
		xlogger.Error(err),
	)
	return err
}
