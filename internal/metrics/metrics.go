package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Economy Metrics
var (
	SegmentsAcquired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSegmentsAcquired,
			Help: HelpTextSegmentsAcquired,
		},
		[]string{LabelSource},
	)

	SegmentsRevoked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSegmentsRevoked,
			Help: HelpTextSegmentsRevoked,
		},
	)

	PointsCredited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePointsCredited,
			Help: HelpTextPointsCredited,
		},
	)

	PointsDebited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePointsDebited,
			Help: HelpTextPointsDebited,
		},
	)

	MapCompletions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameMapCompletions,
			Help: HelpTextMapCompletions,
		},
	)

	PurchaseOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePurchaseOutcomes,
			Help: HelpTextPurchaseOutcomes,
		},
		[]string{LabelOperation, LabelResult},
	)
)

// Gateway Metrics
var (
	DiscordCommands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDiscordCommands,
			Help: HelpTextDiscordCommands,
		},
		[]string{LabelCommand, LabelResult},
	)

	MapRenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameMapRenderDuration,
			Help:    HelpTextMapRenderDuration,
			Buckets: RenderLatencyBuckets,
		},
	)
)

// RecordPointsDelta counts a balance change on the credit or debit side
func RecordPointsDelta(delta int) {
	switch {
	case delta > 0:
		PointsCredited.Add(float64(delta))
	case delta < 0:
		PointsDebited.Add(float64(-delta))
	}
}
