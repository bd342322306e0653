package pipeline

import (
	"sync"
	"time"
)

// Stats summarizes what one sync run did.
type Stats struct {
	Collected int `json:"collected"`
	New       int `json:"new"`
	Saved     int `json:"saved"`
	Schedules int `json:"schedules"`
}

// Result is the structured outcome of one run, exposed verbatim through the
// control surface.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Stats   Stats  `json:"stats"`
}

// Snapshot is a point-in-time copy of the run status for readers.
type Snapshot struct {
	IsRunning  bool       `json:"is_running"`
	LastRun    *time.Time `json:"last_run"`
	LastResult *Result    `json:"last_result"`
	Error      string     `json:"error"`
}

// Status tracks whether a run is active and what the last run produced.
// It is written only by the runner; the HTTP handlers read snapshots and may
// observe slightly stale state.
type Status struct {
	mu         sync.RWMutex
	isRunning  bool
	lastRun    *time.Time
	lastResult *Result
	lastError  string
}

func NewStatus() *Status {
	return &Status{}
}

// TryStart flips the running flag and reports whether this caller won it.
// At most one run is active at a time.
func (s *Status) TryStart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return false
	}

	s.isRunning = true
	s.lastError = ""
	return true
}

// Finish records the run outcome and returns the status to idle. It runs on
// every exit path, success or not.
func (s *Status) Finish(result Result, runErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.lastRun = &now
	s.lastResult = &result
	if runErr != nil {
		s.lastError = runErr.Error()
	}
	s.isRunning = false
}

// IsRunning reports whether a run is currently active.
func (s *Status) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Snapshot returns a copy of the current status.
func (s *Status) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		IsRunning:  s.isRunning,
		LastRun:    s.lastRun,
		LastResult: s.lastResult,
		Error:      s.lastError,
	}
}
