package session

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/drillbot/pkg/models"
)

var (
	// ErrSessionNotFound is returned when no durable record matches a
	// (learner, session) pair. The caller must not fabricate a fresh
	// session silently.
	ErrSessionNotFound = errors.New("session: saved session not found")
	// ErrSessionExists is returned when the learner already has a live
	// session that conflicts with the requested operation
	ErrSessionExists = errors.New("session: learner already has a live session")
	// ErrNoLiveSession is returned when an operation needs a live session
	// and the learner has none
	ErrNoLiveSession = errors.New("session: no live session for learner")
)

// Store is the durable storage the manager pauses sessions into. Implemented
// by database.SessionRepository.
type Store interface {
	Save(snap Snapshot) error
	Load(userID int64, sessionID string) (Snapshot, error)
	Delete(userID int64, sessionID string) error
	ListAll(userID int64) ([]Snapshot, error)
}

// Manager drives the session lifecycle: start, pause, resume, finish. It
// owns the registry of live sessions and arbitrates concurrent resumes.
type Manager struct {
	registry      *Registry
	store         Store
	resumeTimeout time.Duration
}

// NewManager creates a manager over the given durable store
func NewManager(store Store) *Manager {
	return &Manager{
		registry:      NewRegistry(),
		store:         store,
		resumeTimeout: DefaultResumeTimeout,
	}
}

// Registry exposes the live-session registry for housekeeping jobs
func (m *Manager) Registry() *Registry {
	return m.registry
}

// SetResumeTimeout overrides the bounded wait for the resume guard
func (m *Manager) SetResumeTimeout(d time.Duration) {
	m.resumeTimeout = d
}

// Start creates a new session for the learner and registers it as live.
// A learner runs at most one live session at a time.
func (m *Manager) Start(userID int64, dictID, dictName string, words []string) (*Session, error) {
	if _, ok := m.registry.Live(userID); ok {
		return nil, ErrSessionExists
	}

	s, err := New(userID, dictID, dictName, words)
	if err != nil {
		return nil, err
	}

	m.registry.SetLive(s)
	return s, nil
}

// Live returns the learner's live session, if any
func (m *Manager) Live(userID int64) (*Session, bool) {
	return m.registry.Live(userID)
}

// Pause persists the learner's live session and removes it from the
// registry. The operation is atomic from the caller's view: on a failed
// save the session stays live and the error is reported, so no progress is
// lost to a half-finished pause.
func (m *Manager) Pause(userID int64) error {
	s, ok := m.registry.Live(userID)
	if !ok {
		return ErrNoLiveSession
	}

	if err := m.store.Save(s.Snapshot()); err != nil {
		return fmt.Errorf("pause session %s: %w", s.SessionID, err)
	}

	m.registry.RemoveLive(userID)
	log.Printf("Session %s paused for user %d", s.SessionID, userID)
	return nil
}

// Resume restores a paused session from durable storage and registers it as
// live. At most one resume proceeds per session id at a time; a duplicate
// resume of an already-live session returns that session instead of
// creating a second one.
func (m *Manager) Resume(userID int64, sessionID string) (*Session, error) {
	release, err := m.registry.AcquireResume(sessionID, m.resumeTimeout)
	if err != nil {
		return nil, err
	}
	defer release()

	if live, ok := m.registry.Live(userID); ok {
		if live.SessionID == sessionID {
			// Повторный resume (например, ретрай сети) — сессия уже живая
			return live, nil
		}
		return nil, ErrSessionExists
	}

	snap, err := m.store.Load(userID, sessionID)
	if err != nil {
		return nil, err
	}

	s, err := Restore(snap)
	if err != nil {
		return nil, fmt.Errorf("resume session %s: %w", sessionID, err)
	}

	m.registry.SetLive(s)
	log.Printf("Session %s resumed for user %d (%d/%d mastered)",
		sessionID, userID, s.Progress().Mastered, len(s.Words))
	return s, nil
}

// Finish finalizes the learner's live session, removes any durable record,
// and unregisters it. The returned stats are ready for the progress tracker.
func (m *Manager) Finish(userID int64) (models.SessionStats, error) {
	s, ok := m.registry.Live(userID)
	if !ok {
		return models.SessionStats{}, ErrNoLiveSession
	}

	stats := s.Finish()

	// Запись на диске могла остаться от предыдущей паузы
	if err := m.store.Delete(userID, s.SessionID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		log.Printf("Warning: failed to delete saved session %s: %v", s.SessionID, err)
	}

	m.registry.RemoveLive(userID)
	return stats, nil
}

// Terminate discards a paused session's durable record without resuming it
func (m *Manager) Terminate(userID int64, sessionID string) error {
	return m.store.Delete(userID, sessionID)
}

// ListSaved returns the learner's paused sessions restored from durable
// storage, keyed by session id. Corrupt records are skipped by the store.
func (m *Manager) ListSaved(userID int64) (map[string]*Session, error) {
	snaps, err := m.store.ListAll(userID)
	if err != nil {
		return nil, err
	}

	sessions := make(map[string]*Session, len(snaps))
	for _, snap := range snaps {
		s, err := Restore(snap)
		if err != nil {
			log.Printf("Warning: skipping unrestorable session %s: %v", snap.SessionID, err)
			continue
		}
		sessions[s.SessionID] = s
	}
	return sessions, nil
}
