package model

import (
	"sync"
	"time"
)

// DefaultClockTime is each side's budget when a game does not set one.
const DefaultClockTime = 10 * time.Minute

// Clock is one side's countdown. It only runs while that side is to move.
type Clock struct {
	mu          sync.Mutex
	timeLeft    time.Duration
	lastStarted time.Time // When the clock was last started
	isRunning   bool
	now         func() time.Time
}

func NewClock(initialTime time.Duration) *Clock {
	return &Clock{
		timeLeft: initialTime,
		now:      time.Now,
	}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		c.lastStarted = c.now()
		c.isRunning = true
	}
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		c.timeLeft -= c.now().Sub(c.lastStarted)
		c.isRunning = false
	}
}

// Reset stops the clock and refills it.
func (c *Clock) Reset(initialTime time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.timeLeft = initialTime
	c.isRunning = false
}

func (c *Clock) GetTimeLeft() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		return c.timeLeft - c.now().Sub(c.lastStarted)
	}
	return c.timeLeft
}

// Flagged reports whether the clock has run out.
func (c *Clock) Flagged() bool {
	return c.GetTimeLeft() <= 0
}

// tenths is the time left in tenths of a second, as the client displays it.
func (c *Clock) tenths() int {
	return int(c.GetTimeLeft().Milliseconds() / 100)
}
