package domain

import "time"

// Report summarizes one load-test run against the transactions backend.
type Report struct {
	ID            string        `json:"id"`
	Target        string        `json:"target"`
	StartedAt     time.Time     `json:"started_at"`
	Workers       int           `json:"workers"`
	TotalRequests int           `json:"total_requests"`
	Succeeded     int           `json:"succeeded"`
	Degraded      int           `json:"degraded"`
	Failed        int           `json:"failed"`
	Duration      time.Duration `json:"duration_ns"`
	MinLatency    time.Duration `json:"min_latency_ns"`
	AvgLatency    time.Duration `json:"avg_latency_ns"`
	MaxLatency    time.Duration `json:"max_latency_ns"`
	// Throughput is requests per second over the whole run.
	Throughput float64 `json:"throughput"`
}
