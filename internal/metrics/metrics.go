package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/HaPhanBaoMinh/mfgdash/internal/alerting"
	"github.com/HaPhanBaoMinh/mfgdash/internal/domain"
)

var (
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mfgdash_evaluations_total",
			Help: "Total number of alert evaluations",
		},
		[]string{"status"}, // status: ok, rejected
	)

	EvaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mfgdash_evaluation_duration_seconds",
			Help:    "Time taken by one alert evaluation",
			Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05},
		},
	)

	AlertsRaisedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mfgdash_alerts_raised_total",
			Help: "Total number of alerts raised",
		},
		[]string{"severity", "metric"},
	)

	AlertHistorySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mfgdash_alert_history_size",
			Help: "Alerts currently retained in the history",
		},
	)

	Threshold = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mfgdash_threshold",
			Help: "Current alert threshold values",
		},
		[]string{"key"},
	)
)

// Recorder feeds the package collectors from the alerting Monitor.
type Recorder struct{}

func NewRecorder() *Recorder { return &Recorder{} }

func (Recorder) Evaluated(d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "rejected"
	}
	EvaluationsTotal.WithLabelValues(status).Inc()
	EvaluationDuration.Observe(d.Seconds())
}

func (Recorder) AlertRaised(a domain.Alert) {
	AlertsRaisedTotal.WithLabelValues(string(a.Severity), a.Metric).Inc()
}

func (Recorder) HistorySize(n int) {
	AlertHistorySize.Set(float64(n))
}

func (Recorder) ThresholdsChanged(s alerting.Set) {
	for k, v := range s {
		Threshold.WithLabelValues(string(k)).Set(v)
	}
}

var _ alerting.Recorder = Recorder{}
