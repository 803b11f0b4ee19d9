package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the gateway. These are the
// structured events the request pipeline emits for external alerting; the
// pipeline itself never blocks on them.
type Metrics struct {
	TodosCreated        prometheus.Counter
	AuthFailures        prometheus.Counter
	FilterBlocks        *prometheus.CounterVec
	RateLimitRejections *prometheus.CounterVec
	StorageErrors       prometheus.Counter
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers metrics on the given registerer. Tests use a fresh
// registry per suite to avoid duplicate registration panics.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TodosCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "todo_gateway_todos_created_total",
			Help: "Total number of todo items created",
		}),
		AuthFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "todo_gateway_auth_failures_total",
			Help: "Total number of rejected API key authentications",
		}),
		FilterBlocks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "todo_gateway_filter_blocks_total",
			Help: "Total number of requests blocked by the filter chain",
		}, []string{"rule"}),
		RateLimitRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "todo_gateway_rate_limit_rejections_total",
			Help: "Total number of requests rejected by rate or quota limits",
		}, []string{"kind"}),
		StorageErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "todo_gateway_storage_errors_total",
			Help: "Total number of item store failures surfaced as 500s",
		}),
	}
}

func (m *Metrics) IncrementTodosCreated() {
	m.TodosCreated.Inc()
}

func (m *Metrics) IncrementAuthFailures() {
	m.AuthFailures.Inc()
}

func (m *Metrics) IncrementFilterBlocks(rule string) {
	m.FilterBlocks.WithLabelValues(rule).Inc()
}

func (m *Metrics) IncrementRateLimitRejections(kind string) {
	m.RateLimitRejections.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementStorageErrors() {
	m.StorageErrors.Inc()
}
