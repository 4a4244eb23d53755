package listing

import (
	"sync"
	"time"
)

// DefaultAdvanceInterval is how long the carousel rests on one slide.
const DefaultAdvanceInterval = 5 * time.Second

// Carousel tracks the visible slide of the featured subset and advances it
// on a timer. Manual navigation takes effect immediately and restarts the
// interval, so the next automatic tick is relative to the new slide.
//
// The invariant 0 <= Index() < size holds for every reachable state; a
// carousel of size 0 never advances and never fires.
type Carousel struct {
	mu       sync.Mutex
	size     int
	index    int
	interval time.Duration
	paused   bool
	timer    *time.Timer
	done     chan struct{}
	closed   bool

	// onAdvance, when set, is called with the new index after every
	// automatic advance. It runs on the timer goroutine.
	onAdvance func(index int)
}

// NewCarousel starts a carousel over size slides. The timer only runs when
// there is more than one slide to rotate through.
func NewCarousel(size int, interval time.Duration, onAdvance func(index int)) *Carousel {
	c := &Carousel{
		size:      size,
		interval:  interval,
		done:      make(chan struct{}),
		onAdvance: onAdvance,
	}

	if size > 1 {
		c.timer = time.NewTimer(interval)
		go c.loop()
	}

	return c
}

func (c *Carousel) loop() {
	for {
		select {
		case <-c.done:
			return
		case <-c.timer.C:
			c.mu.Lock()
			if c.closed {
				c.mu.Unlock()
				return
			}
			if c.paused {
				// Skip the tick but keep the clock running.
				c.timer.Reset(c.interval)
				c.mu.Unlock()
				continue
			}
			c.index = (c.index + 1) % c.size
			idx := c.index
			fn := c.onAdvance
			c.timer.Reset(c.interval)
			c.mu.Unlock()

			if fn != nil {
				fn(idx)
			}
		}
	}
}

// Index returns the current slide.
func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Next advances one slide, wrapping past the last slide to the first.
func (c *Carousel) Next() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.size == 0 {
		return 0
	}
	c.index = (c.index + 1) % c.size
	c.restartLocked()
	return c.index
}

// Prev retreats one slide, wrapping before the first slide to the last.
func (c *Carousel) Prev() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.size == 0 {
		return 0
	}
	c.index = (c.index - 1 + c.size) % c.size
	c.restartLocked()
	return c.index
}

// Goto jumps to the given slide (dot navigation). Out-of-range targets are
// ignored.
func (c *Carousel) Goto(index int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index >= 0 && index < c.size {
		c.index = index
		c.restartLocked()
	}
	return c.index
}

// Pause holds the current slide while the pointer is over the track.
func (c *Carousel) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
}

// Resume lets the timer advance slides again.
func (c *Carousel) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = false
	c.restartLocked()
}

// Close releases the timer goroutine. No callback fires after Close returns.
func (c *Carousel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
	}
	close(c.done)
}

// restartLocked resets the interval so the next automatic advance is
// measured from now. Callers must hold mu.
func (c *Carousel) restartLocked() {
	if c.timer == nil || c.closed {
		return
	}
	if !c.timer.Stop() {
		select {
		case <-c.timer.C:
		default:
		}
	}
	c.timer.Reset(c.interval)
}
