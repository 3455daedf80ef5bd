package metrics

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	ApiTotal          *prometheus.CounterVec
	ApiInFlight       *prometheus.GaugeVec
	ApiDuration       *prometheus.HistogramVec
	ProviderTotal     *prometheus.CounterVec
	ProviderErrors    *prometheus.CounterVec
	OperationsStarted *prometheus.CounterVec
	OperationsSettled *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		ApiTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_total_requests",
			Help: "total number of api requests",
		}, []string{"route", "method", "status"}),
		ApiInFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "api_in_flight_requests",
			Help: "number of in flight api requests",
		}, []string{"method"}),
		ApiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "api request latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"route"}),
		ProviderTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "provider_total_calls",
			Help: "total number of upstream provider calls",
		}, []string{"call", "outcome"}),
		ProviderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "provider_errors_total",
			Help: "upstream provider failures by category",
		}, []string{"call", "category"}),
		OperationsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "operations_started_total",
			Help: "long running operations submitted",
		}, []string{"type"}),
		OperationsSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "operations_settled_total",
			Help: "long running operations observed in a terminal state",
		}, []string{"state"}),
	}

	metrics.Enable(reg)
	return metrics
}

func (m *Metrics) Enable(reg prometheus.Registerer) {
	reg.MustRegister(m.ApiTotal)
	reg.MustRegister(m.ApiInFlight)
	reg.MustRegister(m.ApiDuration)
	reg.MustRegister(m.ProviderTotal)
	reg.MustRegister(m.ProviderErrors)
	reg.MustRegister(m.OperationsStarted)
	reg.MustRegister(m.OperationsSettled)
}

func (m *Metrics) Disable(reg prometheus.Registerer) {
	reg.Unregister(m.ApiTotal)
	reg.Unregister(m.ApiInFlight)
	reg.Unregister(m.ApiDuration)
	reg.Unregister(m.ProviderTotal)
	reg.Unregister(m.ProviderErrors)
	reg.Unregister(m.OperationsStarted)
	reg.Unregister(m.OperationsSettled)
}

// ProviderCall records one upstream call. An empty category means success.
func (m *Metrics) ProviderCall(call, category string) {
	if m == nil {
		return
	}
	if category == "" {
		m.ProviderTotal.WithLabelValues(call, "ok").Inc()
		return
	}
	m.ProviderTotal.WithLabelValues(call, "error").Inc()
	m.ProviderErrors.WithLabelValues(call, category).Inc()
}

// OperationStarted records a submitted long running operation.
func (m *Metrics) OperationStarted(kind string) {
	if m == nil {
		return
	}
	m.OperationsStarted.WithLabelValues(kind).Inc()
}

// OperationSettled records an operation observed in a terminal state.
func (m *Metrics) OperationSettled(state string) {
	if m == nil {
		return
	}
	m.OperationsSettled.WithLabelValues(state).Inc()
}
