package service

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for the document store.
type Metrics struct {
	DispatchTotal      *prometheus.CounterVec
	ReadFailuresTotal  prometheus.Counter
	WriteFailuresTotal prometheus.Counter
	RemindersTotal     *prometheus.CounterVec
}

// NewMetrics registers the store metrics once per process and returns them.
//
// Metrics:
//   - taskboard_dispatch_total{action,result} - dispatch calls by outcome
//   - taskboard_store_read_failures_total - document reads that fell back to empty
//   - taskboard_store_write_failures_total - document writes that were dropped
//   - taskboard_reminders_total{kind} - reminder notifications raised
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			DispatchTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "taskboard_dispatch_total",
					Help: "Total number of dispatched store actions",
				},
				[]string{"action", "result"}, // result: "ok", "rejected", "error"
			),
			ReadFailuresTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "taskboard_store_read_failures_total",
				Help: "Total number of document reads that failed",
			}),
			WriteFailuresTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "taskboard_store_write_failures_total",
				Help: "Total number of document writes that failed",
			}),
			RemindersTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "taskboard_reminders_total",
					Help: "Total number of reminder notifications raised",
				},
				[]string{"kind"},
			),
		}
	})
	return globalMetrics
}
