package server

import (
	"sync"
	"time"
)

// Tracker records run outcomes for the status endpoint. Safe for use from
// the scheduler goroutine while the server reads it.
type Tracker struct {
	mu        sync.Mutex
	lastRun   *time.Time
	lastError string
	nextRun   *time.Time
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker { return &Tracker{} }

// RunCompleted records the outcome of a pipeline run
func (t *Tracker) RunCompleted(at time.Time, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastRun = &at
	t.lastError = ""
	if err != nil {
		t.lastError = err.Error()
	}
}

// NextRun records the next scheduled trigger
func (t *Tracker) NextRun(at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextRun = &at
}

// Status implements StatusProvider
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Status{LastRun: t.lastRun, LastError: t.lastError, NextRun: t.nextRun}
}
