package counter

import "sync/atomic"

// Counter counts requests served by the demo endpoints over the lifetime of
// the process. The original demo used an unguarded shared integer and
// accepted undercounting under load; this owned atomic keeps the observable
// single-client behavior (strict +1 per request) while making concurrent
// increments lossless.
type Counter struct {
	n atomic.Int64
}

func New() *Counter {
	return &Counter{}
}

// Inc increments the counter and returns the value after the increment.
func (c *Counter) Inc() int64 {
	return c.n.Add(1)
}

// Value returns the current count.
func (c *Counter) Value() int64 {
	return c.n.Load()
}
