// Package metrics provides Prometheus metrics for basket computations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's collectors on a private registry so
// several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	BasketRequests *prometheus.CounterVec
	BasketEntries  *prometheus.GaugeVec
	SkippedRecords *prometheus.CounterVec
	FetchDuration  *prometheus.HistogramVec
	FetchErrors    *prometheus.CounterVec
}

func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "ust_basket"
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		BasketRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "basket",
			Name:      "requests_total",
			Help:      "Basket computations by contract and outcome",
		}, []string{"contract", "status"}),
		BasketEntries: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "basket",
			Name:      "entries",
			Help:      "Number of deliverable securities in the last basket per contract",
		}, []string{"contract"}),
		SkippedRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "basket",
			Name:      "skipped_records_total",
			Help:      "Malformed security records skipped during filtering",
		}, []string{"contract"}),
		FetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "treasury",
			Name:      "fetch_duration_seconds",
			Help:      "Latency of TreasuryDirect security list requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"class"}),
		FetchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "treasury",
			Name:      "fetch_errors_total",
			Help:      "Failed TreasuryDirect security list requests",
		}, []string{"class"}),
	}
}

// ObserveBasket records the outcome of one computation. Safe on a nil receiver.
func (m *Metrics) ObserveBasket(contract, status string, entries, skipped int) {
	if m == nil {
		return
	}
	m.BasketRequests.WithLabelValues(contract, status).Inc()
	if status == "ok" {
		m.BasketEntries.WithLabelValues(contract).Set(float64(entries))
		m.SkippedRecords.WithLabelValues(contract).Add(float64(skipped))
	}
}

// ObserveFetch records one provider request. Safe on a nil receiver.
func (m *Metrics) ObserveFetch(class string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(class).Observe(d.Seconds())
	if err != nil {
		m.FetchErrors.WithLabelValues(class).Inc()
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
