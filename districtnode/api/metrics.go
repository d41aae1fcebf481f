package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "districtnode_api_requests_total",
		Help: "Count of HTTP requests handled by the boundary, by route and outcome.",
	}, []string{"route", "code"})

	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "districtnode_api_request_duration_seconds",
		Help:    "HTTP handler latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
)
