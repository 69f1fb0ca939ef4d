package pipeline

import (
	"math"
	"slices"
	"sync"
	"time"
)

// StatsSnapshot is a point-in-time aggregate of classification latencies.
type StatsSnapshot struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
}

// ClassifyStats tracks per-document classification latencies within a
// rolling window. Observations arrive in time order, so stale ones always
// form a prefix and eviction is a single cut.
type ClassifyStats struct {
	mu     sync.Mutex
	at     []time.Time
	ms     []int64
	window time.Duration
}

func NewClassifyStats(window time.Duration) *ClassifyStats {
	if window <= 0 {
		window = time.Hour
	}
	return &ClassifyStats{window: window}
}

func (s *ClassifyStats) Record(durationMs int64) {
	if durationMs < 0 {
		durationMs = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evict(now)
	s.at = append(s.at, now)
	s.ms = append(s.ms, durationMs)
}

func (s *ClassifyStats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evict(time.Now())
	if len(s.ms) == 0 {
		return StatsSnapshot{}
	}

	values := slices.Clone(s.ms)
	slices.Sort(values)

	var sum int64
	for _, v := range values {
		sum += v
	}

	return StatsSnapshot{
		Count: len(values),
		MinMs: values[0],
		MaxMs: values[len(values)-1],
		AvgMs: float64(sum) / float64(len(values)),
		P50Ms: percentile(values, 50),
		P95Ms: percentile(values, 95),
	}
}

func (s *ClassifyStats) evict(now time.Time) {
	cutoff := now.Add(-s.window)
	n := 0
	for n < len(s.at) && s.at[n].Before(cutoff) {
		n++
	}
	if n > 0 {
		s.at = slices.Delete(s.at, 0, n)
		s.ms = slices.Delete(s.ms, 0, n)
	}
}

// percentile returns the nearest-rank percentile of an ascending slice.
func percentile(sorted []int64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(math.Ceil(pct / 100 * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return float64(sorted[rank-1])
}
