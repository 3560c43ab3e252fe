package session

import (
	"fmt"

	"github.com/example/drillbot/internal/adaptive"
	"github.com/example/drillbot/pkg/models"
)

// Snapshot is the full serializable state of a session. It carries every
// per-word counter, including the priority score and the streak, so that a
// restored session selects words identically to the paused one.
type Snapshot struct {
	SessionID   string                  `json:"session_id"`
	UserID      int64                   `json:"user_id"`
	DictID      string                  `json:"dict_id"`
	DictName    string                  `json:"dict_name"`
	CurrentWord string                  `json:"current_word"`
	TotalShown  int                     `json:"total_shown"`
	Stats       models.SessionStats     `json:"stats"`
	Words       map[string]*models.Word `json:"words"`
}

// Snapshot captures the session state for persistence
func (s *Session) Snapshot() Snapshot {
	words := make(map[string]*models.Word, len(s.Words))
	for text, w := range s.Words {
		copied := *w
		words[text] = &copied
	}

	return Snapshot{
		SessionID:   s.SessionID,
		UserID:      s.UserID,
		DictID:      s.DictID,
		DictName:    s.DictName,
		CurrentWord: s.CurrentWord,
		TotalShown:  s.TotalShown,
		Stats:       s.Stats,
		Words:       words,
	}
}

// Restore rebuilds a session from a snapshot
func Restore(snap Snapshot) (*Session, error) {
	if snap.SessionID == "" {
		return nil, fmt.Errorf("session: snapshot has no session id")
	}
	if len(snap.Words) == 0 {
		return nil, ErrEmptyPool
	}

	words := make(map[string]*models.Word, len(snap.Words))
	for text, w := range snap.Words {
		copied := *w
		if copied.Text == "" {
			copied.Text = text
		}
		words[text] = &copied
	}

	return &Session{
		SessionID:   snap.SessionID,
		UserID:      snap.UserID,
		DictID:      snap.DictID,
		DictName:    snap.DictName,
		Words:       words,
		CurrentWord: snap.CurrentWord,
		TotalShown:  snap.TotalShown,
		Stats:       snap.Stats,
		algo:        adaptive.New(),
	}, nil
}
