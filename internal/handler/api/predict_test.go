package api

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"CoinSight/internal/domain/models"
	"CoinSight/internal/service/ml"
	"CoinSight/internal/usecase"
	"CoinSight/pkg/config"
	xhttp "CoinSight/pkg/http"
	xlogger "CoinSight/pkg/logger"

	"github.com/labstack/echo/v4"
)

// --- mocks ---

type mockArtifacts struct {
	network *ml.Network
	err     error
	calls   int
}

func (m *mockArtifacts) Load(_ context.Context, _ string, _ int) (*ml.Network, error) {
	m.calls++
	return m.network, m.err
}

type mockMarket struct {
	series models.PriceSeries
	err    error
	calls  int
}

func (m *mockMarket) FetchDailyCloses(_ context.Context, _ string, _ int) (models.PriceSeries, error) {
	m.calls++
	return m.series, m.err
}

type mockManifest struct {
	entry *models.ManifestEntry
	err   error
}

func (m *mockManifest) Entry(_ string, _ int) (*models.ManifestEntry, error) {
	return m.entry, m.err
}

type noopMetrics struct{}

func (noopMetrics) RecordPrediction(string, int)       {}
func (noopMetrics) RecordError(string)                 {}
func (noopMetrics) RecordStageLatency(string, float64) {}

// --- helpers ---

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Environment = "test"
	cfg.Symbols = []string{"BTC-USD", "ETH-USD", "BNB-USD", "SOL-USD", "XRP-USD"}
	cfg.Storage.PlotsDir = t.TempDir()
	cfg.Storage.ModelsDir = t.TempDir()
	cfg.Storage.ManifestFile = filepath.Join(t.TempDir(), "modeling_results.json")
	cfg.MarketData.WindowDays = 120
	return cfg
}

func testLogger(t *testing.T) *xlogger.Logger {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

// constantModel outputs the given value for any 120-step input.
func constantModel(v float64) *ml.Network {
	weights := make([][]float64, 1)
	weights[0] = make([]float64, 120)
	return &ml.Network{
		InputSteps: 120,
		Layers: []ml.Layer{
			{Activation: "linear", Weights: weights, Biases: []float64{v}},
		},
	}
}

func increasingSeries(n int) models.PriceSeries {
	s := make(models.PriceSeries, n)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range s {
		s[i] = models.Close{Time: base.AddDate(0, 0, i), Price: float64(i + 1)}
	}
	return s
}

func newTestEcho(t *testing.T, cfg *config.Config, artifacts *mockArtifacts, market *mockMarket, manifest *mockManifest) *echo.Echo {
	t.Helper()
	uc := usecase.NewPredictUseCase(artifacts, market, manifest, noopMetrics{}, testLogger(t), cfg.Storage.PlotsDir, cfg.MarketData.WindowDays)
	h := NewPredictHandler(testLogger(t), cfg, uc)
	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func doPredict(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "http://example.com/predict", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body["error"]
}

// --- tests ---

func TestPredictInvalidSymbolNeverLoads(t *testing.T) {
	cfg := testConfig(t)
	artifacts := &mockArtifacts{}
	market := &mockMarket{}
	e := newTestEcho(t, cfg, artifacts, market, &mockManifest{})

	rec := doPredict(e, `{"crypto": "DOGE-USD", "model_id": 1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	msg := decodeError(t, rec)
	if !strings.Contains(msg, "BTC-USD") || !strings.Contains(msg, "XRP-USD") {
		t.Fatalf("error should list valid symbols, got %q", msg)
	}
	if artifacts.calls != 0 || market.calls != 0 {
		t.Fatalf("validation failure must not reach loader or fetcher")
	}
}

func TestPredictModelIDOutOfRange(t *testing.T) {
	cfg := testConfig(t)
	artifacts := &mockArtifacts{}
	e := newTestEcho(t, cfg, artifacts, &mockMarket{}, &mockManifest{})

	rec := doPredict(e, `{"crypto": "BTC-USD", "model_id": 7}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	msg := decodeError(t, rec)
	if !strings.Contains(msg, "1") || !strings.Contains(msg, "6") {
		t.Fatalf("error should name the valid range, got %q", msg)
	}
	if artifacts.calls != 0 {
		t.Fatalf("out-of-range model_id must not reach loader")
	}
}

func TestPredictModelIDNonInteger(t *testing.T) {
	cfg := testConfig(t)
	artifacts := &mockArtifacts{}
	e := newTestEcho(t, cfg, artifacts, &mockMarket{}, &mockManifest{})

	rec := doPredict(e, `{"crypto": "BTC-USD", "model_id": 3.5}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if artifacts.calls != 0 {
		t.Fatalf("non-integer model_id must not reach loader")
	}
}

func TestPredictEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	best := 0.91
	manifest := &mockManifest{entry: &models.ManifestEntry{
		Structure:   json.RawMessage(`["LSTM(64)","Dense(1)"]`),
		BestR2Score: &best,
		FoldResults: []map[string]interface{}{
			{"fold": float64(1), "R²": 0.88},
			{"fold": float64(2), "R²": 0.91},
		},
	}}
	e := newTestEcho(t, cfg,
		&mockArtifacts{network: constantModel(0.5)},
		&mockMarket{series: increasingSeries(120)},
		manifest,
	)

	rec := doPredict(e, `{"crypto": "BTC-USD", "model_id": 3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res models.PredictResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Crypto != "BTC-USD" || res.ModelID != 3 {
		t.Fatalf("unexpected echo fields %+v", res)
	}
	// model output 0.5 over series 1..120 denormalizes to the midpoint
	if math.Abs(res.PredictedPrice-60.5) > 1e-9 {
		t.Fatalf("unexpected prediction %v", res.PredictedPrice)
	}
	if res.PredictedPrice <= 1 || res.PredictedPrice >= 120 {
		t.Fatalf("prediction should fall inside observed bounds, got %v", res.PredictedPrice)
	}
	if res.PlotLink != nil {
		t.Fatalf("expected null plot link without file, got %v", *res.PlotLink)
	}
	if res.ModelDetails.BestFoldResult == nil {
		t.Fatalf("expected best fold in response")
	}
	if res.ModelDetails.BestFoldResult["fold"] != float64(2) {
		t.Fatalf("unexpected best fold %v", res.ModelDetails.BestFoldResult)
	}
}

func TestPredictPlotLinkWhenPresent(t *testing.T) {
	cfg := testConfig(t)
	plotFile := filepath.Join(cfg.Storage.PlotsDir, "BTC-USD_model_3_plot.png")
	if err := os.WriteFile(plotFile, []byte("png"), 0o644); err != nil {
		t.Fatalf("write plot: %v", err)
	}
	best := 1.0
	e := newTestEcho(t, cfg,
		&mockArtifacts{network: constantModel(0.5)},
		&mockMarket{series: increasingSeries(30)},
		&mockManifest{entry: &models.ManifestEntry{BestR2Score: &best}},
	)

	rec := doPredict(e, `{"crypto": "BTC-USD", "model_id": 3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res models.PredictResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	want := "http://example.com/plots/BTC-USD_model_3_plot.png"
	if res.PlotLink == nil || *res.PlotLink != want {
		t.Fatalf("unexpected plot link %v", res.PlotLink)
	}
}

func TestPredictMissingArtifact(t *testing.T) {
	cfg := testConfig(t)
	e := newTestEcho(t, cfg,
		&mockArtifacts{err: xhttp.BadRequestErrorf("model %s not found", models.ArtifactFileName("BTC-USD", 2)).WithCode("ERR_NOT_FOUND")},
		&mockMarket{},
		&mockManifest{},
	)

	rec := doPredict(e, `{"crypto": "BTC-USD", "model_id": 2}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	msg := decodeError(t, rec)
	if !strings.Contains(msg, "BTC-USD_model_2_best.json") {
		t.Fatalf("error should name the missing file, got %q", msg)
	}
}

func TestPredictUpstreamNoData(t *testing.T) {
	cfg := testConfig(t)
	e := newTestEcho(t, cfg,
		&mockArtifacts{network: constantModel(0.5)},
		&mockMarket{err: xhttp.BadRequestErrorf("no data found for BTC-USD").WithCode("ERR_NO_DATA")},
		&mockManifest{},
	)

	rec := doPredict(e, `{"crypto": "BTC-USD", "model_id": 1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPredictInternalErrorIsGeneric(t *testing.T) {
	cfg := testConfig(t)
	e := newTestEcho(t, cfg,
		&mockArtifacts{network: constantModel(0.5)},
		&mockMarket{series: increasingSeries(120)},
		&mockManifest{err: xhttp.InternalError("malformed results manifest")},
	)

	rec := doPredict(e, `{"crypto": "BTC-USD", "model_id": 1}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if decodeError(t, rec) == "" {
		t.Fatalf("expected error body")
	}
}

func TestHealthz(t *testing.T) {
	cfg := testConfig(t)
	e := newTestEcho(t, cfg, &mockArtifacts{}, &mockMarket{}, &mockManifest{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
