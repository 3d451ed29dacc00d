package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup outcomes used as the "outcome" label
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation"
	OutcomeNotFound   = "not_found"
	OutcomeNetwork    = "network"
	OutcomeHTTP       = "http"
	OutcomeParse      = "parse"
	OutcomeError      = "error"
)

var (
	// LookupsTotal counts finished lookups.
	// Labels: outcome
	LookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leetstats",
		Subsystem: "lookup",
		Name:      "total",
		Help:      "Finished lookups by outcome",
	}, []string{"outcome"})

	// LookupsDropped counts triggers ignored because a lookup was in flight.
	LookupsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "leetstats",
		Subsystem: "lookup",
		Name:      "dropped_total",
		Help:      "Lookups dropped while another was in flight",
	})

	// FetchDuration measures upstream request latency.
	// Labels: shape, status (HTTP status or "error")
	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "leetstats",
		Subsystem: "upstream",
		Name:      "fetch_duration_seconds",
		Help:      "Upstream statistics request latency in seconds",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
	}, []string{"shape", "status"})

	// HTTPRequests counts widget server requests.
	// Labels: method, route, status
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leetstats",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served",
	}, []string{"method", "route", "status"})

	// WebSocketConnections tracks open widget connections.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "leetstats",
		Subsystem: "websocket",
		Name:      "connections",
		Help:      "Open WebSocket widget connections",
	})
)
