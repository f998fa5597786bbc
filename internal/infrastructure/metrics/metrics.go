package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Repair outcome labels.
const (
	ResultFixed      = "fixed"
	ResultUnresolved = "unresolved"
	ResultError      = "error"
)

var (
	// RepairsTotal counts replacement attempts by outcome.
	RepairsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quartermaster_repairs_total",
		Help: "Missing-part replacement attempts by result",
	}, []string{"result"})

	// SparesConsumed counts spare units drawn from stock by bay type.
	SparesConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quartermaster_spares_consumed_total",
		Help: "Spare parts drawn from the quartermaster by bay type",
	}, []string{"bay_type"})

	// CodecDefaults counts persisted records whose kind fell back to the default.
	CodecDefaults = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quartermaster_codec_default_kind_total",
		Help: "Persisted parts whose bay type could not be resolved",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quartermaster_http_requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quartermaster_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	}, []string{"method", "route"})
)
