package models

import "time"

// WordProgress tracks a single word across sessions (long-term)
type WordProgress struct {
	Word           string     `json:"word"`
	TotalCorrect   int        `json:"total_correct"`
	TotalIncorrect int        `json:"total_incorrect"`
	TimesMastered  int        `json:"times_mastered"`
	LastAttempted  *time.Time `json:"last_attempted,omitempty"`
}

// LearnerProgress is the durable cross-session record of one learner
type LearnerProgress struct {
	UserID            int64      `json:"user_id" db:"user_id"`
	TotalWordsLearned int        `json:"total_words_learned" db:"total_words_learned"`
	TotalSessions     int        `json:"total_sessions" db:"total_sessions"`
	TotalAttempts     int        `json:"total_attempts" db:"total_attempts"`
	TotalCorrect      int        `json:"total_correct" db:"total_correct"`
	TotalIncorrect    int        `json:"total_incorrect" db:"total_incorrect"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	LastActivity      *time.Time `json:"last_activity,omitempty" db:"last_activity"`
	// Dictionaries maps dictionary id -> word text -> progress
	Dictionaries map[string]map[string]*WordProgress `json:"dictionaries"`
}

// NewLearnerProgress creates an empty progress record for a learner
func NewLearnerProgress(userID int64) *LearnerProgress {
	return &LearnerProgress{
		UserID:       userID,
		CreatedAt:    time.Now(),
		Dictionaries: make(map[string]map[string]*WordProgress),
	}
}

// SuccessRate returns the all-time percent of correct answers (0-100)
func (p *LearnerProgress) SuccessRate() float64 {
	if p.TotalAttempts == 0 {
		return 0
	}
	return float64(p.TotalCorrect) / float64(p.TotalAttempts) * 100
}
