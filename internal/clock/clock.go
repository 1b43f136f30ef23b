package clock

import (
	"sync"
	"time"
)

// Clock is the wall-clock source used by the timer drivers
type Clock interface {
	Now() time.Time
}

// System reads the real wall clock
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Manual is a Clock that only moves when told to
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	return m.now
}

func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}
