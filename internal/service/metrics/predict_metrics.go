package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	predictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coinsight",
			Subsystem: "predict",
			Name:      "predictions_total",
			Help:      "Successful predictions by symbol and model",
		},
		[]string{"symbol", "model_id"},
	)

	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coinsight",
			Subsystem: "predict",
			Name:      "errors_total",
			Help:      "Prediction pipeline errors by kind",
		},
		[]string{"kind"},
	)

	stageLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "coinsight",
			Subsystem: "predict",
			Name:      "stage_latency_seconds",
			Help:      "Latency of prediction pipeline stages",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"stage"},
	)
)

// Recorder implements the domain Metrics interface on Prometheus.
type Recorder struct{}

func New() *Recorder {
	once.Do(func() {
		prometheus.MustRegister(predictionsTotal, errorsTotal, stageLatency)
	})
	return &Recorder{}
}

func (*Recorder) RecordPrediction(symbol string, modelID int) {
	predictionsTotal.WithLabelValues(symbol, strconv.Itoa(modelID)).Inc()
}

func (*Recorder) RecordError(kind string) {
	errorsTotal.WithLabelValues(kind).Inc()
}

func (*Recorder) RecordStageLatency(stage string, seconds float64) {
	stageLatency.WithLabelValues(stage).Observe(seconds)
}
