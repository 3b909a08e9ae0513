package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "frameseek_operations_total",
		Help: "Total number of remote operations, by operation and outcome",
	}, []string{"op", "status"})

	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "frameseek_operation_duration_seconds",
		Help:    "Duration of remote operations",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
	}, []string{"op"})

	FramesExtractedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frameseek_frames_extracted_total",
		Help: "Total number of frames received from extraction",
	})

	UploadBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frameseek_upload_bytes_total",
		Help: "Total bytes of video uploaded",
	})
)
