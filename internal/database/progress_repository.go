package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/drillbot/pkg/models"
)

// ProgressRepository handles database operations for long-term learner
// progress. Totals live in columns; the per-dictionary word map is stored
// as a JSON document in the dictionaries column.
type ProgressRepository struct{}

// NewProgressRepository creates a new repository instance
func NewProgressRepository() *ProgressRepository {
	return &ProgressRepository{}
}

// progressRow mirrors the learner_progress table layout
type progressRow struct {
	UserID            int64        `db:"user_id"`
	TotalWordsLearned int          `db:"total_words_learned"`
	TotalSessions     int          `db:"total_sessions"`
	TotalAttempts     int          `db:"total_attempts"`
	TotalCorrect      int          `db:"total_correct"`
	TotalIncorrect    int          `db:"total_incorrect"`
	Dictionaries      string       `db:"dictionaries"`
	CreatedAt         time.Time    `db:"created_at"`
	LastActivity      sql.NullTime `db:"last_activity"`
}

// GetByUser returns the learner's progress record. A learner with no stored
// record gets a fresh empty one; it is persisted on the next Save.
func (r *ProgressRepository) GetByUser(userID int64) (*models.LearnerProgress, error) {
	var row progressRow
	err := DB.Get(&row, `
		SELECT user_id, total_words_learned, total_sessions, total_attempts,
		       total_correct, total_incorrect, dictionaries, created_at, last_activity
		FROM learner_progress
		WHERE user_id = $1
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewLearnerProgress(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress for user %d: %v", userID, err)
	}

	progress := &models.LearnerProgress{
		UserID:            row.UserID,
		TotalWordsLearned: row.TotalWordsLearned,
		TotalSessions:     row.TotalSessions,
		TotalAttempts:     row.TotalAttempts,
		TotalCorrect:      row.TotalCorrect,
		TotalIncorrect:    row.TotalIncorrect,
		CreatedAt:         row.CreatedAt,
	}
	if row.LastActivity.Valid {
		t := row.LastActivity.Time
		progress.LastActivity = &t
	}

	if err := json.Unmarshal([]byte(row.Dictionaries), &progress.Dictionaries); err != nil {
		return nil, fmt.Errorf("failed to decode dictionaries for user %d: %v", userID, err)
	}
	if progress.Dictionaries == nil {
		progress.Dictionaries = make(map[string]map[string]*models.WordProgress)
	}

	return progress, nil
}

// Save upserts the learner's progress record
func (r *ProgressRepository) Save(progress *models.LearnerProgress) error {
	dictionaries, err := json.Marshal(progress.Dictionaries)
	if err != nil {
		return fmt.Errorf("failed to serialize dictionaries for user %d: %v", progress.UserID, err)
	}

	var lastActivity sql.NullTime
	if progress.LastActivity != nil {
		lastActivity = sql.NullTime{Time: *progress.LastActivity, Valid: true}
	}

	query := `
		INSERT INTO learner_progress (
			user_id, total_words_learned, total_sessions, total_attempts,
			total_correct, total_incorrect, dictionaries, created_at, last_activity
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			total_words_learned = EXCLUDED.total_words_learned,
			total_sessions = EXCLUDED.total_sessions,
			total_attempts = EXCLUDED.total_attempts,
			total_correct = EXCLUDED.total_correct,
			total_incorrect = EXCLUDED.total_incorrect,
			dictionaries = EXCLUDED.dictionaries,
			last_activity = EXCLUDED.last_activity
	`
	_, err = DB.Exec(query,
		progress.UserID,
		progress.TotalWordsLearned,
		progress.TotalSessions,
		progress.TotalAttempts,
		progress.TotalCorrect,
		progress.TotalIncorrect,
		string(dictionaries),
		progress.CreatedAt,
		lastActivity,
	)
	if err != nil {
		return fmt.Errorf("failed to save progress for user %d: %v", progress.UserID, err)
	}
	return nil
}
