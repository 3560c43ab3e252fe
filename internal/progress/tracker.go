package progress

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/example/drillbot/pkg/models"
)

// Store is the durable storage for learner progress records. Implemented by
// database.ProgressRepository.
type Store interface {
	GetByUser(userID int64) (*models.LearnerProgress, error)
	Save(progress *models.LearnerProgress) error
}

// Tracker folds per-session outcomes into durable cross-session learner
// progress. Every mutation is a load-modify-save; writes for the same
// learner are serialized with a per-learner lock so two sessions finishing
// at once cannot clobber each other.
type Tracker struct {
	store Store

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewTracker creates a tracker over the given store
func NewTracker(store Store) *Tracker {
	return &Tracker{
		store: store,
		locks: make(map[int64]*sync.Mutex),
	}
}

// learnerLock returns the mutex serializing writes for one learner
func (t *Tracker) learnerLock(userID int64) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	lock, ok := t.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[userID] = lock
	}
	return lock
}

// RecordSession folds a finished session's statistics into the learner's
// durable record. TotalWordsLearned counts distinct words only: it is
// incremented when a word's TimesMastered transitions from 0, so a word
// re-mastered in a later session (or a redelivered stats record) does not
// inflate the count.
func (t *Tracker) RecordSession(stats models.SessionStats) error {
	lock := t.learnerLock(stats.UserID)
	lock.Lock()
	defer lock.Unlock()

	p, err := t.store.GetByUser(stats.UserID)
	if err != nil {
		return fmt.Errorf("record session %s: %v", stats.SessionID, err)
	}

	p.TotalSessions++
	p.TotalAttempts += stats.CorrectAnswers + stats.IncorrectAnswers
	p.TotalCorrect += stats.CorrectAnswers
	p.TotalIncorrect += stats.IncorrectAnswers

	dict := p.Dictionaries[stats.DictID]
	if dict == nil {
		dict = make(map[string]*models.WordProgress)
		p.Dictionaries[stats.DictID] = dict
	}

	now := time.Now()
	for _, word := range stats.WordsMasteredList {
		wp := dict[word]
		if wp == nil {
			wp = &models.WordProgress{Word: word}
			dict[word] = wp
		}

		if wp.TimesMastered == 0 {
			// Первое освоение этого слова за всё время
			p.TotalWordsLearned++
		}
		wp.TimesMastered++
		wp.LastAttempted = &now
	}

	p.LastActivity = &now

	if err := t.store.Save(p); err != nil {
		return fmt.Errorf("record session %s: %v", stats.SessionID, err)
	}

	log.Printf("Progress updated for user %d: session %s, %d words mastered",
		stats.UserID, stats.SessionID, len(stats.WordsMasteredList))
	return nil
}

// RecordAnswer is the finer-grained update path used when per-answer
// durability is wanted. It updates the word's all-time counters and the
// learner totals, and stamps the last attempt time.
func (t *Tracker) RecordAnswer(userID int64, dictID, word string, correct bool) error {
	lock := t.learnerLock(userID)
	lock.Lock()
	defer lock.Unlock()

	p, err := t.store.GetByUser(userID)
	if err != nil {
		return fmt.Errorf("record answer for %q: %v", word, err)
	}

	dict := p.Dictionaries[dictID]
	if dict == nil {
		dict = make(map[string]*models.WordProgress)
		p.Dictionaries[dictID] = dict
	}

	wp := dict[word]
	if wp == nil {
		wp = &models.WordProgress{Word: word}
		dict[word] = wp
	}

	now := time.Now()
	if correct {
		wp.TotalCorrect++
		p.TotalCorrect++
	} else {
		wp.TotalIncorrect++
		p.TotalIncorrect++
	}
	wp.LastAttempted = &now

	p.TotalAttempts++
	p.LastActivity = &now

	return t.store.Save(p)
}

// DictionaryStats is the read-side aggregate over one dictionary's words
type DictionaryStats struct {
	TotalWords     int
	WordsMastered  int
	SuccessRate    float64
	TotalAttempts  int
	TotalCorrect   int
	TotalIncorrect int
	LastActivity   *time.Time
}

// DictionaryProgress aggregates the learner's all-time results for one
// dictionary
func (t *Tracker) DictionaryProgress(userID int64, dictID string) (DictionaryStats, error) {
	p, err := t.store.GetByUser(userID)
	if err != nil {
		return DictionaryStats{}, err
	}

	var stats DictionaryStats
	dict := p.Dictionaries[dictID]

	for _, wp := range dict {
		stats.TotalWords++
		if wp.TimesMastered > 0 {
			stats.WordsMastered++
		}
		stats.TotalCorrect += wp.TotalCorrect
		stats.TotalIncorrect += wp.TotalIncorrect
		if wp.LastAttempted != nil {
			if stats.LastActivity == nil || wp.LastAttempted.After(*stats.LastActivity) {
				stats.LastActivity = wp.LastAttempted
			}
		}
	}

	stats.TotalAttempts = stats.TotalCorrect + stats.TotalIncorrect
	if stats.TotalAttempts > 0 {
		stats.SuccessRate = float64(stats.TotalCorrect) / float64(stats.TotalAttempts) * 100
	}
	return stats, nil
}

// TotalStats is the read-side aggregate over the whole learner record
type TotalStats struct {
	TotalSessions     int
	TotalWordsLearned int
	TotalAttempts     int
	TotalCorrect      int
	TotalIncorrect    int
	SuccessRate       float64
	LastActivity      *time.Time
}

// TotalProgress returns the learner's all-time totals
func (t *Tracker) TotalProgress(userID int64) (TotalStats, error) {
	p, err := t.store.GetByUser(userID)
	if err != nil {
		return TotalStats{}, err
	}

	return TotalStats{
		TotalSessions:     p.TotalSessions,
		TotalWordsLearned: p.TotalWordsLearned,
		TotalAttempts:     p.TotalAttempts,
		TotalCorrect:      p.TotalCorrect,
		TotalIncorrect:    p.TotalIncorrect,
		SuccessRate:       p.SuccessRate(),
		LastActivity:      p.LastActivity,
	}, nil
}
