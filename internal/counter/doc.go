// Package counter implements the process-local request counter reported by
// the demo endpoints. The count resets to zero whenever the process restarts.
package counter
