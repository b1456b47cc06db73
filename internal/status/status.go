// Package status tracks whether the bot loop is running. One Status is
// created at startup and shared by the bot and the health endpoints.
package status

import (
	"sync"
	"time"
)

// Snapshot is a point-in-time copy of the status.
type Snapshot struct {
	Running      bool       `json:"running"`
	StartTime    *time.Time `json:"start_time"`
	LastActivity *time.Time `json:"last_activity"`
}

// Status is safe for concurrent use.
type Status struct {
	mu           sync.RWMutex
	now          func() time.Time
	running      bool
	startTime    time.Time
	lastActivity time.Time
}

// New returns a stopped status using the wall clock.
func New() *Status {
	return NewWithClock(time.Now)
}

// NewWithClock is New with an injectable clock.
func NewWithClock(now func() time.Time) *Status {
	return &Status{now: now}
}

// MarkRunning records that the bot loop started.
func (s *Status) MarkRunning() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
	s.startTime = s.now()
}

// MarkStopped records that the bot loop ended.
func (s *Status) MarkStopped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
}

// Touch records bot activity.
func (s *Status) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = s.now()
}

// Running reports whether the bot loop is running.
func (s *Status) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Uptime is the time since MarkRunning, or zero if never started.
func (s *Status) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.startTime.IsZero() {
		return 0
	}
	return s.now().Sub(s.startTime)
}

// Snapshot copies the current state.
func (s *Status) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{Running: s.running}
	if !s.startTime.IsZero() {
		t := s.startTime
		snap.StartTime = &t
	}
	if !s.lastActivity.IsZero() {
		t := s.lastActivity
		snap.LastActivity = &t
	}
	return snap
}
