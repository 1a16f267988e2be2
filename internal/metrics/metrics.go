// file: internal/metrics/metrics.go
// version: 1.0.0
// guid: 7a9b1c3d-5e6f-4a0b-2c4d-6e8f0a2b4c5d

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	searchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notekeeper",
		Name:      "searches_total",
		Help:      "Total number of searches served by mode (ranked, strict, fuzzy)",
	}, []string{"mode"})
	searchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "notekeeper",
		Name:      "search_duration_seconds",
		Help:      "Histogram of search durations in seconds by mode",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12), // ~0.5ms up to ~1s
	}, []string{"mode"})
	fuzzyFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "notekeeper",
		Name:      "search_fuzzy_fallbacks_total",
		Help:      "Number of searches where the strict pass was empty and fuzzy matching ran",
	})
	notesImported = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notekeeper",
		Name:      "notes_imported_total",
		Help:      "Total number of notes imported by source (watcher, api, cli)",
	}, []string{"source"})

	notesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "notekeeper",
		Name:      "notes_total",
		Help:      "Current total number of notes",
	})
	categoriesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "notekeeper",
		Name:      "categories_total",
		Help:      "Current total number of categories",
	})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(searchesTotal, searchDuration, fuzzyFallbacks,
			notesImported, notesGauge, categoriesGauge)
	})
}

// Search helpers
func IncSearch(mode string) { searchesTotal.WithLabelValues(mode).Inc() }
func ObserveSearchDuration(mode string, d time.Duration) {
	searchDuration.WithLabelValues(mode).Observe(d.Seconds())
}
func IncFuzzyFallback() { fuzzyFallbacks.Inc() }

// Import helpers
func IncNotesImported(source string, n int) {
	notesImported.WithLabelValues(source).Add(float64(n))
}

// Gauges
func SetNotes(n int)      { notesGauge.Set(float64(n)) }
func SetCategories(n int) { categoriesGauge.Set(float64(n)) }
