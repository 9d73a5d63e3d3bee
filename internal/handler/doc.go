// Package handler implements the HTTP endpoints of the demo backend: the
// instance-reporting root route, the liveness probe, the synthetic-latency
// heavy route, and the diagnostics route.
package handler
