// Package ticker runs a callback on a fixed interval while a workout is in
// progress.
package ticker

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// Ticker is a restartable repeating task. The callback runs once immediately
// on Start and then every interval until Stop.
type Ticker struct {
	interval time.Duration

	mu        sync.Mutex
	scheduler *gocron.Scheduler
}

// New creates a stopped Ticker.
func New(interval time.Duration) *Ticker {
	return &Ticker{interval: interval}
}

// Start schedules fn, replacing any task already running.
func (t *Ticker) Start(fn func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	if _, err := s.Every(t.interval).Do(fn); err != nil {
		return fmt.Errorf("scheduling ticker: %w", err)
	}
	s.StartAsync()
	t.scheduler = s
	return nil
}

// Stop cancels the task and waits for a running callback to return.
// Stopping a stopped Ticker does nothing.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Running reports whether a task is scheduled.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scheduler != nil
}

func (t *Ticker) stopLocked() {
	if t.scheduler == nil {
		return
	}
	t.scheduler.Stop()
	t.scheduler = nil
}
