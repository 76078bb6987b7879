package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wheel"

// Metrics - счетчики и датчики сервиса прогнозов
type Metrics struct {
	OutcomesTotal    *prometheus.CounterVec // по источнику: manual, batch, poll
	RejectedTotal    prometheus.Counter
	PredictionsTotal *prometheus.CounterVec // hit / miss
	AnomaliesTotal   prometheus.Counter
	FirstHitRate     prometheus.Gauge
	HistorySize      prometheus.Gauge
	PersistErrors    prometheus.Counter
	PollsTotal       *prometheus.CounterVec // ok / error
	PollDuration     prometheus.Histogram
}

// New регистрирует метрики в reg. Для тестов передается отдельный prometheus.NewRegistry()
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		OutcomesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outcomes_ingested_total",
			Help:      "Outcomes added to history by source",
		}, []string{"source"}),
		RejectedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outcomes_rejected_total",
			Help:      "Outcomes rejected as unknown symbols",
		}),
		PredictionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_evaluated_total",
			Help:      "Evaluated predictions by result",
		}, []string{"result"}),
		AnomaliesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "anomalies_detected_total",
			Help:      "Detected distribution anomalies",
		}),
		FirstHitRate: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "first_hit_rate_percent",
			Help:      "Share of evaluated predictions whose first symbol was correct",
		}),
		HistorySize: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_size",
			Help:      "Outcomes currently kept in history",
		}),
		PersistErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_errors_total",
			Help:      "Failed snapshot saves",
		}),
		PollsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "polls_total",
			Help:      "Remote feed polls by status",
		}, []string{"status"}),
		PollDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "poll_duration_seconds",
			Help:      "Remote feed fetch duration",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}
