package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/drillbot/internal/session"
)

// SessionRepository persists paused learning sessions. The payload column
// holds the full session snapshot as JSON, including every per-word counter,
// so a resumed session behaves identically to the paused one.
type SessionRepository struct{}

// NewSessionRepository creates a new repository instance
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

// Save inserts or replaces the durable record for a session
func (r *SessionRepository) Save(snap session.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to serialize session %s: %v", snap.SessionID, err)
	}

	query := `
		INSERT INTO learning_sessions (user_id, session_id, payload, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, session_id) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := DB.Exec(query, snap.UserID, snap.SessionID, string(payload), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save session %s: %v", snap.SessionID, err)
	}
	return nil
}

// Load reads back the snapshot for a (learner, session) pair. A missing
// record is reported as session.ErrSessionNotFound.
func (r *SessionRepository) Load(userID int64, sessionID string) (session.Snapshot, error) {
	var payload string
	err := DB.Get(&payload,
		"SELECT payload FROM learning_sessions WHERE user_id = $1 AND session_id = $2",
		userID, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Snapshot{}, session.ErrSessionNotFound
	}
	if err != nil {
		return session.Snapshot{}, fmt.Errorf("failed to load session %s: %v", sessionID, err)
	}

	var snap session.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return session.Snapshot{}, fmt.Errorf("failed to decode session %s: %v", sessionID, err)
	}
	return snap, nil
}

// Delete removes the durable record for a session
func (r *SessionRepository) Delete(userID int64, sessionID string) error {
	result, err := DB.Exec(
		"DELETE FROM learning_sessions WHERE user_id = $1 AND session_id = $2",
		userID, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %v", sessionID, err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return session.ErrSessionNotFound
	}
	return nil
}

// ListAll returns every saved snapshot for a learner. Individual corrupt
// payloads are skipped and logged; they never abort the whole scan.
func (r *SessionRepository) ListAll(userID int64) ([]session.Snapshot, error) {
	var payloads []string
	err := DB.Select(&payloads,
		"SELECT payload FROM learning_sessions WHERE user_id = $1 ORDER BY updated_at DESC",
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions for user %d: %v", userID, err)
	}

	snaps := make([]session.Snapshot, 0, len(payloads))
	for _, payload := range payloads {
		var snap session.Snapshot
		if err := json.Unmarshal([]byte(payload), &snap); err != nil {
			log.Printf("Warning: skipping corrupt session record for user %d: %v", userID, err)
			continue
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// DeleteExpired removes saved sessions untouched for longer than maxAge.
// Returns the number of deleted records.
func (r *SessionRepository) DeleteExpired(maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	result, err := DB.Exec("DELETE FROM learning_sessions WHERE updated_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %v", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return rows, nil
}
