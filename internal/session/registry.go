package session

import (
	"errors"
	"log"
	"sync"
	"time"
)

// Timing defaults for the resume guards
const (
	// DefaultResumeTimeout bounds how long a resume waits for the guard
	DefaultResumeTimeout = 30 * time.Second
	// DefaultGuardTTL is how long an unused guard survives before reaping
	DefaultGuardTTL = time.Hour
)

// ErrResumeTimeout is returned when the per-session resume guard could not
// be acquired within the bounded wait. The caller may retry.
var ErrResumeTimeout = errors.New("session: resume guard acquisition timed out")

// resumeGuard serializes resume attempts for one session id. The semaphore
// channel holds at most one token; lastUsed drives TTL eviction.
type resumeGuard struct {
	sem      chan struct{}
	lastUsed time.Time
}

// Registry is the process-wide registry of live sessions and resume guards.
// Entries are created on session start/resume, removed on finish/pause, and
// idle guards are reaped on a timer.
type Registry struct {
	mu     sync.Mutex
	live   map[int64]*Session      // keyed by user id
	guards map[string]*resumeGuard // keyed by session id
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		live:   make(map[int64]*Session),
		guards: make(map[string]*resumeGuard),
	}
}

// Live returns the learner's live session, if any
func (r *Registry) Live(userID int64) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.live[userID]
	return s, ok
}

// SetLive registers a session as the learner's live session
func (r *Registry) SetLive(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.live[s.UserID] = s
}

// RemoveLive drops the learner's live session from the registry
func (r *Registry) RemoveLive(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.live, userID)
}

// LiveCount returns the number of live sessions
func (r *Registry) LiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

// AcquireResume acquires the per-session resume guard, waiting at most
// timeout. On success it returns a release function; on timeout it returns
// ErrResumeTimeout so a crashed holder cannot block resumes forever.
func (r *Registry) AcquireResume(sessionID string, timeout time.Duration) (func(), error) {
	r.mu.Lock()
	guard, ok := r.guards[sessionID]
	if !ok {
		guard = &resumeGuard{sem: make(chan struct{}, 1)}
		r.guards[sessionID] = guard
	}
	guard.lastUsed = time.Now()
	r.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case guard.sem <- struct{}{}:
		return func() {
			r.mu.Lock()
			guard.lastUsed = time.Now()
			r.mu.Unlock()
			<-guard.sem
		}, nil
	case <-timer.C:
		return nil, ErrResumeTimeout
	}
}

// ReapIdleGuards removes guards that are not held and have not been used
// for longer than maxIdle. A reaped guard is recreated on the next resume,
// so this only bounds memory growth from abandoned sessions.
func (r *Registry) ReapIdleGuards(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	reaped := 0
	cutoff := time.Now().Add(-maxIdle)
	for id, guard := range r.guards {
		if len(guard.sem) == 0 && guard.lastUsed.Before(cutoff) {
			delete(r.guards, id)
			reaped++
		}
	}

	if reaped > 0 {
		log.Printf("Registry: reaped %d idle resume guards", reaped)
	}
	return reaped
}
