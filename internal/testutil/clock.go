package testutil

import (
	"strconv"
	"sync"
	"time"
)

// Epoch is the instant FixedClock starts at.
var Epoch = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// StubClock is a manually advanced vcs.Clock. Safe for concurrent use.
type StubClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewStubClock creates a StubClock reading t.
func NewStubClock(t time.Time) *StubClock {
	return &StubClock{now: t}
}

// FixedClock returns a StubClock reading Epoch.
func FixedClock() *StubClock {
	return NewStubClock(Epoch)
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d and returns the new reading.
func (c *StubClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// StubIDGenerator hands out "id-1", "id-2", ... in call order.
type StubIDGenerator struct {
	mu   sync.Mutex
	next int
}

func NewStubIDGenerator() *StubIDGenerator {
	return &StubIDGenerator{}
}

func (g *StubIDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return "id-" + strconv.Itoa(g.next)
}

// Issued returns how many IDs have been handed out.
func (g *StubIDGenerator) Issued() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.next
}
