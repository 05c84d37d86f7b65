package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogctl_api_requests_total",
			Help: "Total number of admin API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalogctl_api_request_duration_seconds",
			Help:    "Admin API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Upload Metrics
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogctl_uploads_total",
			Help: "Total number of media uploads by outcome",
		},
		[]string{"kind", "status"},
	)

	UploadBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogctl_upload_bytes_total",
			Help: "Bytes sent in media uploads",
		},
		[]string{"kind"},
	)

	UploadRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogctl_upload_rejections_total",
			Help: "Files rejected before upload",
		},
		[]string{"kind", "reason"},
	)

	UploadBatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalogctl_upload_batch_duration_seconds",
			Help:    "Duration of a complete upload batch in seconds",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 14), // 0.5s to ~68 minutes
		},
		[]string{"kind"},
	)

	// Storage Metrics
	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogctl_storage_operations_total",
			Help: "Total number of object storage operations",
		},
		[]string{"operation", "status"},
	)

	// Cache Metrics
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogctl_cache_hits_total",
			Help: "Total number of lookup cache hits",
		},
		[]string{"kind"},
	)

	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogctl_cache_misses_total",
			Help: "Total number of lookup cache misses",
		},
		[]string{"kind"},
	)

	// Webhook Metrics
	WebhookDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogctl_webhook_deliveries_total",
			Help: "Total number of webhook deliveries",
		},
		[]string{"event", "status"},
	)

	// Error Metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogctl_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)

// RecordAPIRequest records an admin API round trip
func RecordAPIRequest(method, endpoint, status string, duration float64) {
	APIRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordUpload records the outcome of a single upload
func RecordUpload(kind string, success bool, bytesSent int64) {
	status := "success"
	if !success {
		status = "failed"
	}
	UploadsTotal.WithLabelValues(kind, status).Inc()
	UploadBytesTotal.WithLabelValues(kind).Add(float64(bytesSent))
}

// RecordUploadRejection records a file rejected by validation
func RecordUploadRejection(kind, reason string) {
	UploadRejectionsTotal.WithLabelValues(kind, reason).Inc()
}

// RecordUploadBatch records a finished batch
func RecordUploadBatch(kind string, duration float64) {
	UploadBatchDuration.WithLabelValues(kind).Observe(duration)
}

// RecordStorageOperation records an object storage call
func RecordStorageOperation(operation, status string) {
	StorageOperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordCacheAccess records a lookup cache hit or miss
func RecordCacheAccess(kind string, hit bool) {
	if hit {
		CacheHitsTotal.WithLabelValues(kind).Inc()
	} else {
		CacheMissesTotal.WithLabelValues(kind).Inc()
	}
}

// RecordWebhookDelivery records one webhook POST
func RecordWebhookDelivery(event string, delivered bool) {
	status := "delivered"
	if !delivered {
		status = "failed"
	}
	WebhookDeliveriesTotal.WithLabelValues(event, status).Inc()
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
