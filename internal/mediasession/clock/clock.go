// Package clock abstracts timer scheduling and the randomness source used
// for glare back-off jitter, so session tests can run without real delays.
package clock

import (
	"sync"
	"time"

	"github.com/pion/randutil"
)

// TimerID identifies a scheduled timer for later cancellation.
type TimerID uint64

// Clock schedules one-shot timers and produces jittered durations.
type Clock interface {
	// SetTimer arranges for fn to run after d elapses, and returns an ID
	// that Cancel can use to abort it before it fires.
	SetTimer(d time.Duration, fn func()) TimerID
	// Cancel stops a previously scheduled timer. Canceling an already-fired
	// or unknown ID is a no-op.
	Cancel(id TimerID)
	// JitterDuration returns a pseudo-random duration in [0, max), rounded
	// down to the nearest 10ms, matching the glare back-off granularity.
	JitterDuration(max time.Duration) time.Duration
	// Now returns the current time.
	Now() time.Time
}

// RealClock is the production Clock, backed by time.AfterFunc and
// pion/randutil for jitter.
type RealClock struct {
	mu      sync.Mutex
	nextID  TimerID
	timers  map[TimerID]*time.Timer
	randGen randutil.MathRandomGenerator
}

// New returns a RealClock ready for use.
func New() *RealClock {
	return &RealClock{
		timers:  make(map[TimerID]*time.Timer),
		randGen: randutil.NewMathRandomGenerator(),
	}
}

func (c *RealClock) SetTimer(d time.Duration, fn func()) TimerID {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.mu.Unlock()

	t := time.AfterFunc(d, func() {
		c.mu.Lock()
		delete(c.timers, id)
		c.mu.Unlock()
		fn()
	})

	c.mu.Lock()
	c.timers[id] = t
	c.mu.Unlock()

	return id
}

func (c *RealClock) Cancel(id TimerID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
}

func (c *RealClock) JitterDuration(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	const unit = 10 * time.Millisecond
	steps := int64(max / unit)
	if steps <= 0 {
		return 0
	}
	n := c.randGen.Intn(int(steps))
	return time.Duration(n) * unit
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}
