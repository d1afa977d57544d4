package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

// Failure stages for application submissions.
const (
	StageValidation = "validation"
	StageUpload     = "upload"
	StagePersist    = "persist"
)

var (
	applicationsSubmittedTotal atomic.Uint64
	draftsOpenedTotal          atomic.Uint64
	jobSearchesTotal           atomic.Uint64

	failuresMu          sync.Mutex
	applicationFailures = map[string]uint64{}

	applyDuration = newHistogram([]float64{50, 100, 250, 500, 1000, 2000, 5000, 10000})
)

// IncApplicationSubmitted counts a persisted application.
func IncApplicationSubmitted() {
	applicationsSubmittedTotal.Add(1)
}

// IncApplicationFailed counts a failed submission at the given stage.
func IncApplicationFailed(stage string) {
	failuresMu.Lock()
	applicationFailures[stage]++
	failuresMu.Unlock()
}

// IncDraftOpened counts a wizard draft opened for a job.
func IncDraftOpened() {
	draftsOpenedTotal.Add(1)
}

// IncJobSearch counts a job listing query.
func IncJobSearch() {
	jobSearchesTotal.Add(1)
}

// ObserveApplyDurationMs records an apply duration in milliseconds.
func ObserveApplyDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	applyDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "applications_submitted_total", "Total job applications persisted", applicationsSubmittedTotal.Load())
	writeFailures(&buf)
	writeCounter(&buf, "drafts_opened_total", "Total application drafts opened", draftsOpenedTotal.Load())
	writeCounter(&buf, "job_searches_total", "Total job listing queries", jobSearchesTotal.Load())
	writeHistogram(&buf, "apply_duration_ms", "Application submit duration in milliseconds", applyDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe records value; counts are stored cumulatively per bucket.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeFailures(buf *bytes.Buffer) {
	failuresMu.Lock()
	defer failuresMu.Unlock()
	fmt.Fprintf(buf, "# HELP applications_failed_total Total failed job applications by stage\n")
	fmt.Fprintf(buf, "# TYPE applications_failed_total counter\n")
	for _, stage := range []string{StageValidation, StageUpload, StagePersist} {
		fmt.Fprintf(buf, "applications_failed_total{stage=%q} %d\n", stage, applicationFailures[stage])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	for i, bound := range snap.buckets {
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), snap.counts[i])
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// SinceMillis returns the elapsed time since start in milliseconds.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
