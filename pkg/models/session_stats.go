package models

import "time"

// SessionStats holds the running statistics of one learning session
type SessionStats struct {
	SessionID        string     `json:"session_id" db:"session_id"`
	UserID           int64      `json:"user_id" db:"user_id"`
	DictID           string     `json:"dict_id" db:"dict_id"`
	DictName         string     `json:"dict_name" db:"dict_name"`
	StartedAt        time.Time  `json:"started_at" db:"started_at"`
	EndedAt          *time.Time `json:"ended_at,omitempty" db:"ended_at"` // nil until the session is finished
	TotalWords       int        `json:"total_words" db:"total_words"`
	CorrectAnswers   int        `json:"correct_answers" db:"correct_answers"`
	IncorrectAnswers int        `json:"incorrect_answers" db:"incorrect_answers"`
	WordsMastered    int        `json:"words_mastered" db:"words_mastered"`
	// WordsMasteredList keeps the order in which words were mastered,
	// each word at most once per session
	WordsMasteredList []string `json:"words_mastered_list"`
}

// DurationSeconds returns the session length in seconds, 0 if not finished
func (s *SessionStats) DurationSeconds() int {
	if s.EndedAt == nil {
		return 0
	}
	return int(s.EndedAt.Sub(s.StartedAt).Seconds())
}

// SuccessRate returns the percent of correct answers (0-100)
func (s *SessionStats) SuccessRate() float64 {
	total := s.CorrectAnswers + s.IncorrectAnswers
	if total == 0 {
		return 0
	}
	return float64(s.CorrectAnswers) / float64(total) * 100
}

// IsComplete reports whether every word of the pool was mastered
func (s *SessionStats) IsComplete() bool {
	return s.WordsMastered >= s.TotalWords
}
