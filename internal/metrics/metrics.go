// Package metrics exposes prometheus counters for the scan workflow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Scans = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stockscan",
		Name:      "scans_total",
		Help:      "Resolved scans by resulting state.",
	}, []string{"state"})

	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stockscan",
		Name:      "registrations_total",
		Help:      "Entities created through the registration workflow.",
	}, []string{"entity"})

	StockAdjustments = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stockscan",
		Name:      "stock_adjustments_total",
		Help:      "Stock adjustments by direction and result.",
	}, []string{"direction", "result"})

	ValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stockscan",
		Name:      "validation_failures_total",
		Help:      "Rejected writes by reason.",
	}, []string{"reason"})
)
