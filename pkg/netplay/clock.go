package netplay

import (
	"fmt"
	"sync"
	"time"
)

// Clock is a per-side countdown with an optional per-move increment.
// The online game screen runs one per player; the protocol itself
// carries no time control.
type Clock struct {
	mu        sync.Mutex
	duration  time.Duration
	remaining time.Duration
	increment time.Duration
	paused    bool
	stop      chan struct{}
}

// NewClock returns a paused clock and starts its ticker.
func NewClock(duration, increment time.Duration) *Clock {
	c := &Clock{
		duration:  duration,
		remaining: duration,
		increment: increment,
		paused:    true,
		stop:      make(chan struct{}),
	}
	go c.run()
	return c
}

func (c *Clock) run() {
	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	for {
		select {
		case <-tick.C:
			c.mu.Lock()
			if !c.paused && c.remaining > 0 {
				c.remaining -= time.Second
			}
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}

// Tick starts the clock running and credits the increment, called when
// the turn passes to this side.
func (c *Clock) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = false
	c.remaining += c.increment
}

// Pause freezes the countdown.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
}

// Reset restores the full duration.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remaining = c.duration
}

// Expired reports whether the side ran out of time.
func (c *Clock) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining <= 0
}

// Stop ends the ticker goroutine.
func (c *Clock) Stop() {
	close(c.stop)
}

func (c *Clock) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := c.remaining
	if r < 0 {
		r = 0
	}
	return fmt.Sprintf("%d:%02d", int(r.Minutes()), int(r.Seconds())%60)
}
