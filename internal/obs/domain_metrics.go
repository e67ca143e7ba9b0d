package obs

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// ReportMetrics groups collectors describing report view builds.
type ReportMetrics struct {
	// BuildsTotal counts view builds by view and result (ok, error, cache_hit).
	BuildsTotal *prometheus.CounterVec
	// BuildDuration records view build latency in milliseconds.
	BuildDuration *prometheus.HistogramVec
	// ClassifiedRows counts classified rows per category.
	ClassifiedRows *prometheus.CounterVec
	// OrdersLoaded tracks the size of the last loaded dataset.
	OrdersLoaded prometheus.Gauge
}

// NewReportMetrics registers report collectors on reg, reusing collectors that are already registered.
func NewReportMetrics(namespace string, reg prometheus.Registerer) *ReportMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &ReportMetrics{
		BuildsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_builds_total",
			Help:      "Count of report view builds by outcome.",
		}, []string{"view", "result"}),
		BuildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_build_duration_ms",
			Help:      "Latency of report view builds in milliseconds.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"view"}),
		ClassifiedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "abc_rows_total",
			Help:      "Count of ABC-classified warehouse product rows by category.",
		}, []string{"category"}),
		OrdersLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "orders_loaded",
			Help:      "Number of orders in the most recently loaded dataset.",
		}),
	}
	mustRegisterCollector(reg, m.BuildsTotal, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			m.BuildsTotal = v
		}
	})
	mustRegisterCollector(reg, m.BuildDuration, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.HistogramVec); ok {
			m.BuildDuration = v
		}
	})
	mustRegisterCollector(reg, m.ClassifiedRows, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			m.ClassifiedRows = v
		}
	})
	mustRegisterCollector(reg, m.OrdersLoaded, func(existing prometheus.Collector) {
		if v, ok := existing.(prometheus.Gauge); ok {
			m.OrdersLoaded = v
		}
	})
	return m
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register report metric: %w", err))
	}
}
