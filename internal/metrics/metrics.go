// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GraphFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canvas_graph_fetches_total",
			Help: "Graph fetches started by canvas controllers, labeled by outcome (ok, error, stale)",
		},
		[]string{"outcome"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "canvas_provider_fetch_seconds",
			Help:    "Latency of data provider calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	StoreTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canvas_store_transitions_total",
			Help: "Application store state transitions, labeled by action",
		},
		[]string{"action"},
	)

	Gestures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canvas_gestures_total",
			Help: "Canvas gestures handled, labeled by kind",
		},
		[]string{"kind"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "canvas_active_sessions",
			Help: "Number of live canvas sessions",
		},
	)
)
