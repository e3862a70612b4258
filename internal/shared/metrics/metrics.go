package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	placementsAttachedTotal atomic.Uint64
	placementsDetachedTotal atomic.Uint64
	resumeReordersTotal     atomic.Uint64
	snippetVersionsTotal    atomic.Uint64

	composeDuration = newHistogram([]float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
)

// IncPlacementAttached increments the attach counter.
func IncPlacementAttached() {
	placementsAttachedTotal.Add(1)
}

// IncPlacementDetached increments the detach counter.
func IncPlacementDetached() {
	placementsDetachedTotal.Add(1)
}

// IncResumeReordered increments the reorder counter.
func IncResumeReordered() {
	resumeReordersTotal.Add(1)
}

// IncSnippetVersion increments the snippet version counter.
func IncSnippetVersion() {
	snippetVersionsTotal.Add(1)
}

// ObserveComposeDurationMs records a resume composition duration in milliseconds.
func ObserveComposeDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	composeDuration.Observe(value)
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
	writeCounter(&buf, "placements_attached_total", "Total entries attached to resumes", placementsAttachedTotal.Load())
	writeCounter(&buf, "placements_detached_total", "Total entries detached from resumes", placementsDetachedTotal.Load())
	writeCounter(&buf, "resume_reorders_total", "Total resume section reorders", resumeReordersTotal.Load())
	writeCounter(&buf, "snippet_versions_total", "Total snippet versions written", snippetVersionsTotal.Load())
	writeHistogram(&buf, "compose_duration_ms", "Resume composition duration in milliseconds", composeDuration.Snapshot())
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

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
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
