package pipeline

import (
	"slices"
	"sync"
	"time"
)

type latencySample struct {
	at       time.Time
	duration time.Duration
}

// LatencySnapshot is a point-in-time aggregate of classification latencies,
// in milliseconds.
type LatencySnapshot struct {
	Count int     `json:"count"`
	MinMs float64 `json:"min_ms"`
	MaxMs float64 `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// LatencyStats keeps classification latencies within a rolling window.
type LatencyStats struct {
	mu      sync.Mutex
	samples []latencySample
	window  time.Duration
}

func NewLatencyStats(window time.Duration) *LatencyStats {
	if window <= 0 {
		window = time.Hour
	}
	return &LatencyStats{
		samples: make([]latencySample, 0, 256),
		window:  window,
	}
}

func (s *LatencyStats) Record(d time.Duration) {
	if d < 0 {
		d = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, latencySample{at: now, duration: d})
}

func (s *LatencyStats) Snapshot() LatencySnapshot {
	now := time.Now()

	s.mu.Lock()
	s.pruneLocked(now)
	values := make([]float64, len(s.samples))
	for i, sm := range s.samples {
		values[i] = float64(sm.duration) / float64(time.Millisecond)
	}
	s.mu.Unlock()

	if len(values) == 0 {
		return LatencySnapshot{}
	}

	slices.Sort(values)
	var sum float64
	for _, v := range values {
		sum += v
	}
	return LatencySnapshot{
		Count: len(values),
		MinMs: values[0],
		MaxMs: values[len(values)-1],
		AvgMs: sum / float64(len(values)),
		P50Ms: percentile(values, 50),
		P95Ms: percentile(values, 95),
		P99Ms: percentile(values, 99),
	}
}

func (s *LatencyStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	s.samples = slices.DeleteFunc(s.samples, func(sm latencySample) bool {
		return sm.at.Before(cutoff)
	})
}

// percentile interpolates linearly between the two nearest ranks.
func percentile(sorted []float64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return sorted[0]
	}
	if pct >= 100 {
		return sorted[len(sorted)-1]
	}

	index := float64(len(sorted)-1) * pct / 100
	lower := int(index)
	if lower+1 >= len(sorted) {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower] + (sorted[lower+1]-sorted[lower])*weight
}
