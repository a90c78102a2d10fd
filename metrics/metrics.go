// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics exposes Prometheus collectors for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "digital_access"

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"route", "method"},
	)

	indexScores = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "index_score",
			Help:      "Computed Digital Access Index scores [0,100]",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		},
		[]string{"category"},
	)

	literacyScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "literacy_score",
			Help:      "Computed digital literacy scores [0,1] of stored persons",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		},
	)

	invalidProfiles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_profiles_total",
			Help:      "Profiles rejected by validation, by offending field",
		},
		[]string{"field"},
	)
)

// ObserveRequest records one completed HTTP request
func ObserveRequest(route, method string, status int, d time.Duration) {
	requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// ObserveScore records a computed index
func ObserveScore(category string, score float64) {
	indexScores.WithLabelValues(category).Observe(score)
}

// ObserveLiteracy records a literacy score saved with a person record
func ObserveLiteracy(score float64) {
	literacyScores.Observe(score)
}

// ObserveInvalidProfile counts a validation failure for field
func ObserveInvalidProfile(field string) {
	invalidProfiles.WithLabelValues(field).Inc()
}

// Handler serves the default registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.Handler()
}
