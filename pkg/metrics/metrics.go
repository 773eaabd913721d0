// Package metrics provides Prometheus metrics for the VAL builder service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RendersTotal tracks document renders by outcome
	RendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "valbuilder",
			Subsystem: "render",
			Name:      "documents_total",
			Help:      "Total number of VAL document renders by status",
		},
		[]string{"status"},
	)

	// RenderDuration tracks end-to-end render duration
	RenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "valbuilder",
			Subsystem: "render",
			Name:      "duration_seconds",
			Help:      "Duration of VAL document renders in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"stage"},
	)

	// MergeInputsTotal tracks PDF merge inputs by outcome
	MergeInputsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "valbuilder",
			Subsystem: "merge",
			Name:      "inputs_total",
			Help:      "Total number of PDF buffers offered to the merge engine",
		},
		[]string{"status"},
	)

	// MergedPages tracks pages written by the merge engine
	MergedPages = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "valbuilder",
			Subsystem: "merge",
			Name:      "pages_total",
			Help:      "Total number of pages written to merged documents",
		},
	)

	// BrowserInstalls tracks headless browser provisioning attempts
	BrowserInstalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "valbuilder",
			Subsystem: "browser",
			Name:      "installs_total",
			Help:      "Total number of headless browser provisioning attempts",
		},
		[]string{"status"},
	)

	// DetailBatches tracks save-changes batches
	DetailBatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "valbuilder",
			Subsystem: "details",
			Name:      "batches_total",
			Help:      "Total number of detail change batches by status",
		},
		[]string{"status"},
	)

	// TemplateItemsCopied tracks template items copied onto new VALs
	TemplateItemsCopied = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "valbuilder",
			Subsystem: "details",
			Name:      "template_items_copied_total",
			Help:      "Total number of template items copied onto new VAL documents",
		},
	)

	// BracketSubstitutions tracks bracket tags seen during renders
	BracketSubstitutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "valbuilder",
			Subsystem: "render",
			Name:      "bracket_tags_total",
			Help:      "Total number of bracket tags processed by outcome",
		},
		[]string{"outcome"},
	)

	// MappingCacheLookups tracks bracket mapping cache hits and misses
	MappingCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "valbuilder",
			Subsystem: "cache",
			Name:      "mapping_lookups_total",
			Help:      "Total number of bracket mapping cache lookups",
		},
		[]string{"result"},
	)

	// KafkaMessagesPublished tracks Kafka messages published
	KafkaMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "valbuilder",
			Subsystem: "kafka",
			Name:      "messages_published_total",
			Help:      "Total number of messages published to Kafka",
		},
		[]string{"topic", "status"},
	)

	// KafkaPublishDuration tracks Kafka publish duration
	KafkaPublishDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "valbuilder",
			Subsystem: "kafka",
			Name:      "publish_duration_seconds",
			Help:      "Duration of Kafka publish operations in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	// HTTPRequestsTotal tracks inbound HTTP requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "valbuilder",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of inbound HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	// HTTPRequestDuration tracks inbound HTTP request duration
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "valbuilder",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of inbound HTTP requests in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)
)

// RecordRender records a finished render
func RecordRender(status string, durationSeconds float64) {
	RendersTotal.WithLabelValues(status).Inc()
	RenderDuration.WithLabelValues("total").Observe(durationSeconds)
}

// RecordRenderStage records the duration of one render stage
func RecordRenderStage(stage string, durationSeconds float64) {
	RenderDuration.WithLabelValues(stage).Observe(durationSeconds)
}

// RecordMergeInput records one merge input outcome
func RecordMergeInput(status string) {
	MergeInputsTotal.WithLabelValues(status).Inc()
}

func RecordMergedPages(n int) {
	MergedPages.Add(float64(n))
}

func RecordBrowserInstall(status string) {
	BrowserInstalls.WithLabelValues(status).Inc()
}

func RecordDetailBatch(status string) {
	DetailBatches.WithLabelValues(status).Inc()
}

func RecordTemplateItemsCopied(n int) {
	TemplateItemsCopied.Add(float64(n))
}

func RecordBracketSubstitution(outcome string) {
	BracketSubstitutions.WithLabelValues(outcome).Inc()
}

func RecordMappingCache(result string) {
	MappingCacheLookups.WithLabelValues(result).Inc()
}

// RecordKafkaPublish records a Kafka publish operation
func RecordKafkaPublish(topic, status string, durationSeconds float64) {
	KafkaMessagesPublished.WithLabelValues(topic, status).Inc()
	KafkaPublishDuration.Observe(durationSeconds)
}

// RecordHTTPRequest records an inbound HTTP request
func RecordHTTPRequest(method, route, statusCode string, durationSeconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
}
