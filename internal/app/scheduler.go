package app

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Scheduler abstracts timer scheduling so the round engine never touches
// real timers directly. Tests drive the engine with a manual scheduler;
// production uses ClockScheduler on a real clock.
type Scheduler interface {
	// After invokes fn once after d. The returned func cancels the callback
	// if it has not fired yet; calling it more than once is safe.
	After(d time.Duration, fn func()) func()
	// Every invokes fn repeatedly at interval d until cancelled.
	Every(d time.Duration, fn func()) func()
}

// ClockScheduler schedules callbacks on a clockwork clock, so a fake clock
// can drive it deterministically in tests.
type ClockScheduler struct {
	clock clockwork.Clock
}

func NewClockScheduler(clock clockwork.Clock) *ClockScheduler {
	return &ClockScheduler{clock: clock}
}

func (s *ClockScheduler) After(d time.Duration, fn func()) func() {
	timer := s.clock.NewTimer(d)
	done := make(chan struct{})
	go func() {
		select {
		case <-timer.Chan():
			fn()
		case <-done:
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			stopAndDrainTimer(timer)
			close(done)
		})
	}
}

func (s *ClockScheduler) Every(d time.Duration, fn func()) func() {
	ticker := s.clock.NewTicker(d)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.Chan():
				fn()
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

// stopAndDrainTimer stops a timer and drains its channel if it already
// fired, per the time.Timer.Stop documentation.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}
