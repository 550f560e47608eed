// Package cooldown implements the resend cooldown of verification codes:
// a countdown that starts when a code has been sent and blocks new requests
// until it reaches zero.
package cooldown

import (
	"sync"
	"time"
)

// DefaultDuration is the cooldown used when none is configured.
const DefaultDuration = 60 * time.Second

// Timer counts down whole seconds. It is either idle (Remaining() == 0) or
// counting. Counting runs on one goroutine that ends when the count reaches
// zero or when Close is called.
type Timer struct {
	mu        sync.Mutex
	seconds   int
	interval  time.Duration
	remaining int
	closed    bool
	stop      chan struct{}
	done      chan struct{}
}

type Option func(*Timer)

// WithTickInterval changes how long one "second" lasts. Tests use it to run
// a countdown in milliseconds.
func WithTickInterval(d time.Duration) Option {
	return func(t *Timer) {
		if d > 0 {
			t.interval = d
		}
	}
}

// New returns an idle timer that counts down from d, truncated to whole
// seconds and never less than one.
func New(d time.Duration, opts ...Option) *Timer {
	seconds := int(d / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	t := &Timer{seconds: seconds, interval: time.Second}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Arm starts the countdown at the full duration. It is a no-op while the
// timer is already counting or after Close.
func (t *Timer) Arm() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || t.remaining > 0 {
		return
	}

	t.remaining = t.seconds
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	go t.run(t.stop, t.done)
}

func (t *Timer) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !t.tick() {
				return
			}
		}
	}
}

// tick decrements the count by one and reports whether the timer is still
// counting. The count never goes below zero.
func (t *Timer) tick() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.remaining > 0 {
		t.remaining--
	}
	return t.remaining > 0
}

func (t *Timer) IsActive() bool {
	return t.Remaining() > 0
}

// Remaining returns the seconds left; 0 means idle.
func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Seconds returns the full countdown length.
func (t *Timer) Seconds() int {
	return t.seconds
}

// Close cancels a running countdown, waits for its goroutine to exit and
// disables the timer. It is safe to call more than once.
func (t *Timer) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	t.remaining = 0
	stop, done := t.stop, t.done
	t.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
}
