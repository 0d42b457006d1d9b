// Package stats periodically samples goroutine and per-reader queue depth
// into a small ring of snapshots, mirroring RTOS_stats_UDP_thread's
// periodic osThreadEnumerate/stack-high-water-mark sampling loop. Go has no
// task table or stack watermark to read, so runtime.NumGoroutine and the
// MRRB's own space queries stand in for them.
package stats

import (
	"runtime"
	"sync"
	"time"

	"github.com/LucaRufer/MRRB"
)

// ReaderSample is one reader's queue depth at sample time.
type ReaderSample struct {
	Handle         any
	RemainingSpace uint64
}

// Sample is one point in the collector's ring.
type Sample struct {
	Time           time.Time
	NumGoroutine   int
	RemainingSpace uint64
	Readers        []ReaderSample
}

// Collector samples an MRRB on an interval and keeps the last capacity
// samples, overwriting the oldest the way RTOS_stats_UDP_thread overwrites
// its single in-flight packet buffer every period rather than accumulating
// history on the embedded target.
type Collector struct {
	buf      *mrrb.MRRB
	handles  []any
	interval time.Duration

	mu       sync.Mutex
	ring     []Sample
	next     int
	filled   bool
	capacity int

	done chan struct{}
}

// New creates a Collector over buf, sampling RemainingSpace for each of
// handles (the reader handles known to the caller; the core package does
// not enumerate its own readers).
func New(buf *mrrb.MRRB, handles []any, interval time.Duration, capacity int) *Collector {
	return &Collector{
		buf:      buf,
		handles:  handles,
		interval: interval,
		ring:     make([]Sample, capacity),
		capacity: capacity,
		done:     make(chan struct{}),
	}
}

// Run samples until Stop is called. It blocks; call it from its own
// goroutine.
func (c *Collector) Run() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.sample()
		case <-c.done:
			return
		}
	}
}

// Stop ends Run.
func (c *Collector) Stop() { close(c.done) }

func (c *Collector) sample() {
	s := Sample{
		Time:           time.Now(),
		NumGoroutine:   runtime.NumGoroutine(),
		RemainingSpace: c.buf.RemainingSpace(),
	}
	for _, h := range c.handles {
		space, err := c.buf.RemainingSpaceFor(h)
		if err != nil {
			continue
		}
		s.Readers = append(s.Readers, ReaderSample{Handle: h, RemainingSpace: space})
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ring[c.next] = s
	c.next = (c.next + 1) % c.capacity
	if c.next == 0 {
		c.filled = true
	}
}

// Snapshots returns every retained sample, oldest first.
func (c *Collector) Snapshots() []Sample {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.filled {
		out := make([]Sample, c.next)
		copy(out, c.ring[:c.next])
		return out
	}
	out := make([]Sample, c.capacity)
	copy(out, c.ring[c.next:])
	copy(out[c.capacity-c.next:], c.ring[:c.next])
	return out
}
