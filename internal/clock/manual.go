package clock

import (
	"sync"
	"time"
)

// Manual is a Clock that only moves when Advance is called. Due callbacks
// fire synchronously on the caller's goroutine, in deadline order.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	c       *Manual
	id      int
	at      time.Time
	every   time.Duration
	fn      func()
	stopped bool
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Every(d time.Duration, fn func()) Timer {
	if d <= 0 {
		panic("clock: non-positive interval")
	}
	return m.schedule(d, d, fn)
}

func (m *Manual) After(d time.Duration, fn func()) Timer {
	return m.schedule(d, 0, fn)
}

func (m *Manual) schedule(d, every time.Duration, fn func()) *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{c: m, id: m.seq, at: m.now.Add(d), every: every, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

func (t *manualTimer) Stop() {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	t.stopped = true
}

// Pending reports how many timers are still scheduled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, firing every callback that falls due
// on the way. Timers scheduled by a callback fire in the same call if they
// fall due before the new time.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	for {
		t := m.nextDue(target)
		if t == nil {
			break
		}
		m.now = t.at
		if t.every > 0 {
			t.at = t.at.Add(t.every)
		} else {
			t.stopped = true
		}
		m.mu.Unlock()
		t.fn()
		m.mu.Lock()
	}
	m.now = target
	m.compact()
	m.mu.Unlock()
}

func (m *Manual) nextDue(target time.Time) *manualTimer {
	var next *manualTimer
	for _, t := range m.timers {
		if t.stopped || t.at.After(target) {
			continue
		}
		if next == nil || t.at.Before(next.at) || (t.at.Equal(next.at) && t.id < next.id) {
			next = t
		}
	}
	return next
}

func (m *Manual) compact() {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(m.timers); i++ {
		m.timers[i] = nil
	}
	m.timers = live
}
