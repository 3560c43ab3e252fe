package session

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/example/drillbot/internal/adaptive"
	"github.com/example/drillbot/pkg/models"
)

var (
	// ErrEmptyPool is returned when a session is constructed without words
	ErrEmptyPool = errors.New("session: word pool is empty")
	// ErrUnknownWord is returned when an answer arrives for a word that is
	// not in the pool or is not the word currently shown
	ErrUnknownWord = errors.New("session: unknown or stale word")
)

// Session is one bounded drill run over a fixed word pool for one learner.
// Calls on a Session are expected to be serialized by the caller; the
// session itself holds no locks.
type Session struct {
	SessionID string
	UserID    int64
	DictID    string
	DictName  string

	Words       map[string]*models.Word
	CurrentWord string
	TotalShown  int

	Stats models.SessionStats

	algo *adaptive.Algorithm
}

// New creates a session for the given learner and deduplicated word list.
// The caller is responsible for vetting the input words.
func New(userID int64, dictID, dictName string, wordsList []string) (*Session, error) {
	if len(wordsList) == 0 {
		return nil, ErrEmptyPool
	}

	sessionID := uuid.NewString()[:8]

	words := make(map[string]*models.Word, len(wordsList))
	for _, text := range wordsList {
		words[text] = models.NewWord(text)
	}

	s := &Session{
		SessionID: sessionID,
		UserID:    userID,
		DictID:    dictID,
		DictName:  dictName,
		Words:     words,
		Stats: models.SessionStats{
			SessionID:  sessionID,
			UserID:     userID,
			DictID:     dictID,
			DictName:   dictName,
			StartedAt:  time.Now(),
			TotalWords: len(words),
		},
		algo: adaptive.New(),
	}

	log.Printf("Session %s created for user %d: %d words from %q", sessionID, userID, len(words), dictName)
	return s, nil
}

// NextWord returns the next word to show, or "" when every word is
// mastered and the session is complete
func (s *Session) NextWord() string {
	next := s.algo.NextWord(s.Words)
	if next == "" {
		return ""
	}

	s.CurrentWord = next
	s.TotalShown++
	return next
}

// GetWord returns the tracked state of a word, or nil if it is not in the pool
func (s *Session) GetWord(text string) *models.Word {
	return s.Words[text]
}

// RecordAnswer applies one answer for the currently shown word. It rejects
// answers for words outside the pool and answers for a word that is no
// longer current (a stale client racing with a pause, for example).
func (s *Session) RecordAnswer(text string, correct bool) error {
	word, ok := s.Words[text]
	if !ok {
		return fmt.Errorf("%w: %q not in pool", ErrUnknownWord, text)
	}
	if text != s.CurrentWord {
		return fmt.Errorf("%w: %q is not the current word", ErrUnknownWord, text)
	}

	wasMastered := word.IsMastered
	s.algo.ApplyAnswer(word, correct)

	if correct {
		s.Stats.CorrectAnswers++
	} else {
		s.Stats.IncorrectAnswers++
	}

	if word.IsMastered && !wasMastered {
		// Каждое слово попадает в список не более одного раза за сессию
		if !containsWord(s.Stats.WordsMasteredList, text) {
			s.Stats.WordsMasteredList = append(s.Stats.WordsMasteredList, text)
			s.Stats.WordsMastered++
			log.Printf("Session %s: word %q mastered (%d/%d)", s.SessionID, text, s.Stats.WordsMastered, s.Stats.TotalWords)
		}
	}

	return nil
}

// IsComplete reports whether every word in the pool is mastered
func (s *Session) IsComplete() bool {
	return s.algo.IsPoolComplete(s.Words)
}

// Progress recomputes the pool aggregate for display
func (s *Session) Progress() adaptive.PoolProgress {
	return s.algo.Progress(s.Words)
}

// ProgressPercentage returns the mastered share of the pool, 0-100
func (s *Session) ProgressPercentage() int {
	if len(s.Words) == 0 {
		return 0
	}
	return s.Progress().Mastered * 100 / len(s.Words)
}

// Finish stamps the end time and returns the final statistics. Finishing
// before completion is legal; the stats then reflect a partial run.
func (s *Session) Finish() models.SessionStats {
	now := time.Now()
	s.Stats.EndedAt = &now

	log.Printf("Session %s finished: %d/%d mastered, %d correct, %d incorrect, %d sec",
		s.SessionID, s.Stats.WordsMastered, s.Stats.TotalWords,
		s.Stats.CorrectAnswers, s.Stats.IncorrectAnswers, s.Stats.DurationSeconds())

	return s.Stats
}

func containsWord(list []string, text string) bool {
	for _, w := range list {
		if w == text {
			return true
		}
	}
	return false
}
