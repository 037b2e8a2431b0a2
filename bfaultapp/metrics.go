package bfaultapp

import (
	"net/http"
	"strconv"

	"github.com/advdv/bfault"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusObserver counts handled faults by kind, status code and content type.
type PrometheusObserver struct {
	faults *prom.CounterVec
}

// NewPrometheusObserver constructs and registers the fault metrics.
func NewPrometheusObserver(reg prom.Registerer) *PrometheusObserver {
	o := &PrometheusObserver{
		faults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "bfault",
			Name:      "faults_handled_total",
			Help:      "Faults rendered into a negotiated error response",
		}, []string{"kind", "status", "content_type"}),
	}

	reg.MustRegister(o.faults)

	return o
}

// ObserveFault implements bfault.Observer.
func (o *PrometheusObserver) ObserveFault(_ *http.Request, out bfault.Outcome) {
	o.faults.WithLabelValues(
		out.Fault.Kind().String(),
		strconv.Itoa(out.Response.StatusCode()),
		out.Response.Header().Get("Content-Type"),
	).Inc()
}

// Faults returns the counter, for tests.
func (o *PrometheusObserver) Faults() *prom.CounterVec { return o.faults }

var _ bfault.Observer = &PrometheusObserver{}

// NewMetricsRegistry creates the registry the app's metrics are registered with.
func NewMetricsRegistry() *prom.Registry {
	return prom.NewRegistry()
}

// metricsHandler serves the metrics of reg.
func metricsHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
