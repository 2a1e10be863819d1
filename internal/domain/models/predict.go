package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Model identifiers select among pre-trained variants for a symbol.
const (
	MinModelID = 1
	MaxModelID = 6
)

// PredictRequest is the body of POST /predict. ModelID is bound as a raw
// JSON number so non-integer values can be rejected explicitly.
type PredictRequest struct {
	Crypto  string      `json:"crypto"`
	ModelID json.Number `json:"model_id"`
}

// PredictResponse is the success body of POST /predict.
type PredictResponse struct {
	Crypto         string       `json:"crypto"`
	ModelID        int          `json:"model_id"`
	PredictedPrice float64      `json:"predicted_price"`
	PlotLink       *string      `json:"plot_link"`
	ModelDetails   ModelDetails `json:"model_details"`
}

// ModelDetails carries the offline evaluation metadata returned with a
// prediction.
type ModelDetails struct {
	Structure      json.RawMessage        `json:"structure"`
	BestFoldResult map[string]interface{} `json:"best_fold_result"`
}

// ManifestEntry is one record of the offline-produced results manifest.
type ManifestEntry struct {
	Structure   json.RawMessage          `json:"structure"`
	BestR2Score *float64                 `json:"best_r2_score"`
	FoldResults []map[string]interface{} `json:"fold_results"`
}

// FoldScoreKey is the score field name inside each fold result, as written
// by the offline training pipeline.
const FoldScoreKey = "R²"

// BestFold returns the first fold whose score equals the recorded best score
// exactly. A missing match is not an error; the result is simply nil.
func (e *ManifestEntry) BestFold() map[string]interface{} {
	if e.BestR2Score == nil {
		return nil
	}
	for _, fold := range e.FoldResults {
		score, ok := fold[FoldScoreKey].(float64)
		if ok && score == *e.BestR2Score {
			return fold
		}
	}
	return nil
}

// ModelKey builds the manifest lookup key for a (symbol, model id) pair.
// External tooling produces manifests keyed by this exact format.
func ModelKey(symbol string, modelID int) string {
	return fmt.Sprintf("%s_model_%d", symbol, modelID)
}

// ArtifactFileName is the on-disk naming convention for model weights.
func ArtifactFileName(symbol string, modelID int) string {
	return fmt.Sprintf("%s_model_%d_best.json", symbol, modelID)
}

// PlotFileName is the on-disk naming convention for pre-rendered charts.
func PlotFileName(symbol string, modelID int) string {
	return fmt.Sprintf("%s_model_%d_plot.png", symbol, modelID)
}

// Close is one daily closing price observation.
type Close struct {
	Time  time.Time
	Price float64
}

// PriceSeries is an ordered sequence of daily closes, oldest first.
type PriceSeries []Close

// Prices returns the raw closing prices in order.
func (s PriceSeries) Prices() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Price
	}
	return out
}
