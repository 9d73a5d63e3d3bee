package stats

import (
	"sort"
	"sync"
	"time"
)

// Stats accumulates per-route request statistics for this instance.
type Stats struct {
	mutex         sync.RWMutex
	requests      map[string]int64
	responseTimes map[string][]time.Duration
	startTime     time.Time
}

// Snapshot is the JSON view served by the stats endpoint.
type Snapshot struct {
	TotalRequests int64                 `json:"total_requests"`
	Uptime        time.Duration         `json:"uptime"`
	Routes        map[string]RouteStats `json:"routes"`
}

// RouteStats summarizes the requests handled on one route.
type RouteStats struct {
	Requests    int64         `json:"requests"`
	AvgResponse time.Duration `json:"avg_response"`
	P50Response time.Duration `json:"p50_response"`
	P95Response time.Duration `json:"p95_response"`
	P99Response time.Duration `json:"p99_response"`
}

func NewStats() *Stats {
	return &Stats{
		requests:      make(map[string]int64),
		responseTimes: make(map[string][]time.Duration),
		startTime:     time.Now(),
	}
}

// RecordRequest registers one handled request on a route.
func (s *Stats) RecordRequest(route string, duration time.Duration) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.requests[route]++
	s.responseTimes[route] = append(s.responseTimes[route], duration)

	// Keep a bounded latency window per route.
	if len(s.responseTimes[route]) > 1000 {
		s.responseTimes[route] = s.responseTimes[route][1:]
	}
}

func (s *Stats) Snapshot() Snapshot {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	snap := Snapshot{
		Uptime: time.Since(s.startTime),
		Routes: make(map[string]RouteStats),
	}

	for route, count := range s.requests {
		snap.TotalRequests += count

		rs := RouteStats{
			Requests: count,
		}

		durations := s.responseTimes[route]
		if len(durations) > 0 {
			sorted := make([]time.Duration, len(durations))
			copy(sorted, durations)
			sort.Slice(sorted, func(i, j int) bool {
				return sorted[i] < sorted[j]
			})

			rs.AvgResponse = average(sorted)
			rs.P50Response = percentile(sorted, 0.50)
			rs.P95Response = percentile(sorted, 0.95)
			rs.P99Response = percentile(sorted, 0.99)
		}

		snap.Routes[route] = rs
	}

	return snap
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
