package catalog

import (
	"context"
	"sync"
	"time"
)

// DefaultSuggestionDelay is how long keystrokes settle before a
// search-suggestion request goes out.
const DefaultSuggestionDelay = 280 * time.Millisecond

// Debouncer coalesces rapid triggers into one trailing call. Each trigger
// cancels the pending timer and the context of any run it supersedes.
type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultSuggestionDelay
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules fn after the debounce delay, replacing any pending or
// running invocation. fn receives a context canceled by later triggers.
func (d *Debouncer) Trigger(ctx context.Context, fn func(context.Context)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	if d.cancel != nil {
		d.cancel()
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.timer = time.AfterFunc(d.delay, func() {
		if runCtx.Err() != nil {
			return
		}
		fn(runCtx)
	})
}

// Stop cancels any pending or running invocation.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
