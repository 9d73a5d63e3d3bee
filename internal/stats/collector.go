package stats

import (
	"context"
	"log/slog"
	"time"
)

// RequestEvent reports one handled request to the collector.
type RequestEvent struct {
	Route     string
	Timestamp time.Time
	Duration  time.Duration
}

// Collector owns the Stats and consumes events from a single goroutine, so
// handlers never contend on the stats lock directly.
type Collector struct {
	eventCh chan RequestEvent
	stats   *Stats
	logger  *slog.Logger
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh: make(chan RequestEvent, bufferSize),
		stats:   NewStats(),
		logger:  logger,
	}
}

// Emit hands an event to the collector without blocking. Events are dropped
// when the buffer is full; the stats are advisory, not billing.
func (c *Collector) Emit(event RequestEvent) {
	select {
	case c.eventCh <- event:
	default:
	}
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Stats collector started")
	defer c.logger.Info("Stats collector stopped")

	for {
		select {
		case event := <-c.eventCh:
			c.stats.RecordRequest(event.Route, event.Duration)
		case <-ctx.Done():
			// Drain remaining events before shutdown
			c.drain()
			return
		}
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.stats.RecordRequest(event.Route, event.Duration)
		default:
			return
		}
	}
}
