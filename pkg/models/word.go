package models

// Priority score bounds for word selection
const (
	MinPriorityScore = 1
	MaxPriorityScore = 100
)

// Word represents one learning word tracked for mastery within a session
type Word struct {
	Text               string `json:"text" db:"text"`
	ConsecutiveCorrect int    `json:"consecutive_correct" db:"consecutive_correct"` // Correct answers in a row, reset on any error
	TotalAttempts      int    `json:"total_attempts" db:"total_attempts"`
	CorrectCount       int    `json:"correct_count" db:"correct_count"`
	IncorrectCount     int    `json:"incorrect_count" db:"incorrect_count"`
	IsMastered         bool   `json:"is_mastered" db:"is_mastered"`
	PriorityScore      int    `json:"priority_score" db:"priority_score"` // 1-100, higher = show sooner
}

// NewWord creates a word with maximum urgency and no attempts recorded
func NewWord(text string) *Word {
	return &Word{
		Text:          text,
		PriorityScore: MaxPriorityScore,
	}
}

// HasRecentError reports whether the word was answered incorrectly and has
// not been answered correctly since
func (w *Word) HasRecentError() bool {
	return w.IncorrectCount > 0 && w.ConsecutiveCorrect == 0
}
