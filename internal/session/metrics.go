package session

import "github.com/prometheus/client_golang/prometheus"

var (
	fragmentsMetric = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mlxd",
		Subsystem: "session",
		Name:      "fragments_total",
		Help:      "Total engine fragments processed across all sessions",
	})

	completionsMetric = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mlxd",
		Subsystem: "session",
		Name:      "completions_total",
		Help:      "Completed generation sessions by finish reason",
	}, []string{"finish_reason"})
)

func init() {
	prometheus.MustRegister(fragmentsMetric, completionsMetric)
}
