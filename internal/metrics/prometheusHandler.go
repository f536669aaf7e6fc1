package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var countRunsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_export_runs_in_queue",
	Help: "Number of export runs waiting for the worker",
})

var exportRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "export_runs_total",
	Help: "Export runs labelled by final status",
}, []string{"status"})

var groupsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "export_groups_processed_total",
	Help: "Document groups processed labelled by outcome",
}, []string{"outcome"})

var pagesSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "export_pages_skipped_total",
	Help: "Pages skipped because they could not be read or rendered",
})

var engineFallbackTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "export_pdf_engine_fallback_total",
	Help: "How often the advanced pdf engine fell back to the basic one",
})

var cacheResidentBytes = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "image_cache_resident_bytes",
	Help: "Estimated bytes of decoded images held by the image cache",
})

var cacheClearsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "image_cache_clears_total",
	Help: "Number of times the image cache was cleared",
})

var groupRenderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "export_group_render_duration_seconds",
	Help:    "Time spent rendering one document group.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30},
}, []string{"format"})

var runDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "export_run_duration_seconds",
	Help:    "Total time spent in one export run.",
	Buckets: []float64{.5, 1, 5, 10, 30, 60, 300, 900},
}, []string{"status"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementRunsInQueue() {
	countRunsInQueue.Inc()
}

func DecrementRunsInQueue() {
	countRunsInQueue.Dec()
}

func CaptureRunMetrics(status string, timeElapsed time.Duration) {
	exportRunsTotal.WithLabelValues(status).Inc()
	runDuration.WithLabelValues(status).Observe(timeElapsed.Seconds())
}

func CaptureGroupMetrics(format, outcome string, timeElapsed time.Duration) {
	groupsProcessedTotal.WithLabelValues(outcome).Inc()
	groupRenderDuration.WithLabelValues(format).Observe(timeElapsed.Seconds())
}

func AddPagesSkipped(n int) {
	pagesSkippedTotal.Add(float64(n))
}

func IncrementEngineFallback() {
	engineFallbackTotal.Inc()
}

func SetCacheResidentBytes(n int64) {
	cacheResidentBytes.Set(float64(n))
}

func IncrementCacheClears() {
	cacheClearsTotal.Inc()
}
