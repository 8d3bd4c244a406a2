package clock

import (
	"sync"
	"time"
)

// Timer is a handle to a scheduled callback. Stop never blocks and may be
// called more than once.
type Timer interface {
	Stop()
}

// Clock schedules callbacks. Callbacks run outside of any lock held by the
// clock, so they may schedule or stop other timers.
type Clock interface {
	Now() time.Time
	Every(d time.Duration, fn func()) Timer
	After(d time.Duration, fn func()) Timer
}

type realClock struct{}

// Real returns a Clock backed by the runtime timers. Callbacks run on their
// own goroutines.
func Real() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

type ticker struct {
	t    *time.Ticker
	done chan struct{}
	once sync.Once
}

func (realClock) Every(d time.Duration, fn func()) Timer {
	tk := &ticker{t: time.NewTicker(d), done: make(chan struct{})}
	go func() {
		for {
			select {
			case <-tk.done:
				return
			case <-tk.t.C:
				// a tick may race with Stop; drop it if so
				select {
				case <-tk.done:
					return
				default:
				}
				fn()
			}
		}
	}()
	return tk
}

func (tk *ticker) Stop() {
	tk.once.Do(func() {
		tk.t.Stop()
		close(tk.done)
	})
}

type afterTimer struct{ t *time.Timer }

func (a afterTimer) Stop() { a.t.Stop() }

func (realClock) After(d time.Duration, fn func()) Timer {
	return afterTimer{t: time.AfterFunc(d, fn)}
}
