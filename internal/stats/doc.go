// Package stats collects per-route request statistics for a single instance.
// Handlers emit events to a buffered channel; a collector goroutine folds
// them into counts and latency percentiles served on the stats endpoint.
// Numbers are per-instance only and reset with the process.
package stats
