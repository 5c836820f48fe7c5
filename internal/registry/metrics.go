package registry

import "github.com/prometheus/client_golang/prometheus"

var (
	loadsMetric = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mlxd",
		Subsystem: "registry",
		Name:      "loads_total",
		Help:      "Total number of model loads",
	})

	evictionsMetric = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mlxd",
		Subsystem: "registry",
		Name:      "evictions_total",
		Help:      "Total number of explicit model evictions",
	})

	residentMetric = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "mlxd",
		Subsystem: "registry",
		Name:      "resident_models",
		Help:      "Number of currently resident model handles",
	})
)

func init() {
	prometheus.MustRegister(loadsMetric, evictionsMetric, residentMetric)
}
