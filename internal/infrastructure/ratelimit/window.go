// Package ratelimit holds the in-process limiter used when no Redis is configured.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count int
	start time.Time
}

// Window is a fixed-window limiter keyed by an arbitrary string. Expired
// windows are swept by a janitor so address churn cannot grow the table forever.
type Window struct {
	mu      sync.Mutex
	entries map[string]*window
	max     int
	size    time.Duration
	now     func() time.Time
}

func NewWindow(max int, size time.Duration) *Window {
	if max <= 0 {
		max = 1
	}
	if size <= 0 {
		size = time.Minute
	}
	return &Window{
		entries: make(map[string]*window),
		max:     max,
		size:    size,
		now:     time.Now,
	}
}

func (w *Window) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	now := w.now()

	w.mu.Lock()
	defer w.mu.Unlock()

	e, ok := w.entries[key]
	if !ok || now.Sub(e.start) >= w.size {
		w.entries[key] = &window{count: 1, start: now}
		return true, 0, nil
	}
	if e.count >= w.max {
		return false, e.start.Add(w.size).Sub(now), nil
	}
	e.count++
	return true, 0, nil
}

// Sweep drops every window that has already closed.
func (w *Window) Sweep() int {
	now := w.now()

	w.mu.Lock()
	defer w.mu.Unlock()

	removed := 0
	for k, e := range w.entries {
		if now.Sub(e.start) >= w.size {
			delete(w.entries, k)
			removed++
		}
	}
	return removed
}

// Len reports how many keys are tracked.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}

// RunJanitor sweeps once per window until ctx is cancelled.
func (w *Window) RunJanitor(ctx context.Context) {
	ticker := time.NewTicker(w.size)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Sweep()
		}
	}
}
