// Package metrics provides Prometheus metrics for the booth.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	sessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photobooth_session_transitions_total",
			Help: "Session state transitions by target state",
		},
		[]string{"state"},
	)

	imagesCaptured = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photobooth_images_captured_total",
			Help: "Images accepted into a session",
		},
	)

	knownImages = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photobooth_session_images",
			Help: "Images in the current session",
		},
	)

	pollDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "photobooth_poll_duration_seconds",
			Help:    "Time spent listing the image directory per tick",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		},
	)

	archivesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photobooth_archives_total",
			Help: "Archives written",
		},
		[]string{"status"},
	)

	archiveBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photobooth_archive_bytes_total",
			Help: "Bytes written into archives",
		},
	)

	archiveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "photobooth_archive_duration_seconds",
			Help:    "Time to write one archive",
			Buckets: prometheus.DefBuckets,
		},
	)

	capturesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photobooth_camera_triggers_total",
			Help: "Camera trigger attempts",
		},
		[]string{"status"},
	)
)

// Handler returns the /metrics handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordTransition counts a state change into state.
func RecordTransition(state string) {
	sessionsTotal.WithLabelValues(state).Inc()
}

// RecordPoll records one watcher tick.
func RecordPoll(d time.Duration, found int, total int) {
	pollDuration.Observe(d.Seconds())
	if found > 0 {
		imagesCaptured.Add(float64(found))
	}
	knownImages.Set(float64(total))
}

// ResetSessionImages zeroes the per-session gauge.
func ResetSessionImages() {
	knownImages.Set(0)
}

// RecordArchive records one archive write.
func RecordArchive(d time.Duration, size int64, ok bool) {
	archiveDuration.Observe(d.Seconds())
	if ok {
		archivesTotal.WithLabelValues("ok").Inc()
		archiveBytes.Add(float64(size))
		return
	}
	archivesTotal.WithLabelValues("error").Inc()
}

// RecordCapture records one camera trigger.
func RecordCapture(status string) {
	capturesTotal.WithLabelValues(status).Inc()
}
