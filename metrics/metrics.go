// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of HTTP requests.",
}, []string{"method", "path", "status"})

var HTTPRequestDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "http_request_duration_seconds",
	Help:    "Duration of HTTP requests in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "path", "status"})

// Voting metrics
var VotesTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "votes_total",
	Help: "Accepted vote submissions.",
})

var ItemSelectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "item_selections_total",
	Help: "Counter increments per catalog item.",
}, []string{"item"})

var VotesRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "votes_rejected_total",
	Help: "Vote submissions rejected before reaching storage.",
}, []string{"reason"})

var CountsClearedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "counts_cleared_total",
	Help: "Administrative resets of all counters.",
})
