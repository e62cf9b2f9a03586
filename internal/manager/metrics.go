package manager

import "github.com/prometheus/client_golang/prometheus"

var (
	modelLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "llmsvc",
			Subsystem: "model",
			Name:      "loads_total",
			Help:      "Model load attempts by result",
		},
		[]string{"result"},
	)

	modelLoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "llmsvc",
			Subsystem: "model",
			Name:      "load_duration_seconds",
			Help:      "Duration of successful model loads (provisioning included)",
			Buckets:   []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 900, 1800},
		},
	)

	modelDownloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "llmsvc",
			Subsystem: "model",
			Name:      "downloads_total",
			Help:      "Artifact downloads from the hub by result",
		},
		[]string{"result"},
	)

	generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "llmsvc",
			Name:      "generations_total",
			Help:      "Generation requests by kind (generate|chat) and result",
		},
		[]string{"kind", "result"},
	)
)

func init() {
	prometheus.MustRegister(modelLoadsTotal, modelLoadDuration, modelDownloadsTotal, generationsTotal)
}
