package exec

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Batches *prometheus.CounterVec
	Rows    *prometheus.CounterVec
	Errors  *prometheus.CounterVec
}

// NewMetrics creates the runner metrics and registers them with reg.  A nil
// reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Batches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arrowfunc",
			Name:      "batches_total",
			Help:      "Number of record batches evaluated.",
		}, []string{"function"}),
		Rows: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arrowfunc",
			Name:      "rows_total",
			Help:      "Number of rows evaluated.",
		}, []string{"function"}),
		Errors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arrowfunc",
			Name:      "errors_total",
			Help:      "Number of record batches that failed evaluation.",
		}, []string{"function"}),
	}
}
