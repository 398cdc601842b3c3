package app

import (
	"sync/atomic"
	"time"

	"github.com/dshills/blockdnd/internal/drag"
)

// loopScheduler runs timer callbacks on the event loop by posting them to
// the backend.
type loopScheduler struct {
	post func(func()) error
}

type loopTimer struct {
	timer *time.Timer
	done  atomic.Bool
}

func (s *loopScheduler) AfterFunc(d time.Duration, f func()) drag.Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		// A full or closed queue drops the callback; the timer is then
		// simply lost, as if stopped.
		_ = s.post(func() {
			if t.done.Swap(true) {
				return
			}
			f()
		})
	})
	return t
}

// Stop prevents the callback from running, even if it is already queued.
func (t *loopTimer) Stop() bool {
	if t.done.Swap(true) {
		return false
	}
	t.timer.Stop()
	return true
}
