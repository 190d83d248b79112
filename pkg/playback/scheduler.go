package playback

import (
	"sync"
	"time"
)

// TickHandle cancels a repeating tick task.
type TickHandle interface {
	Stop()
}

// Scheduler arms a repeating task firing at a fixed interval. The
// controller keeps at most one armed task at any time; tests inject a
// manual implementation to drive ticks without a real clock.
type Scheduler interface {
	Start(interval time.Duration, tick func()) TickHandle
}

func NewTickerScheduler() Scheduler { return &tickerScheduler{} }

type tickerScheduler struct{}

type tickerHandle struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (h *tickerHandle) Stop() {
	h.once.Do(func() {
		h.ticker.Stop()
		close(h.done)
	})
}

func (s *tickerScheduler) Start(interval time.Duration, tick func()) TickHandle {
	h := &tickerHandle{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-h.done:
				return
			case <-h.ticker.C:
				tick()
			}
		}
	}()
	return h
}
