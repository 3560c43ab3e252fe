package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/drillbot/pkg/models"
)

// ErrDictionaryNotFound is returned when no dictionary matches the given id
var ErrDictionaryNotFound = errors.New("database: dictionary not found")

// DictionaryRepository handles database operations for word pools
type DictionaryRepository struct{}

// NewDictionaryRepository creates a new repository instance
func NewDictionaryRepository() *DictionaryRepository {
	return &DictionaryRepository{}
}

// dictionaryRow mirrors the dictionaries table layout
type dictionaryRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Words     string    `db:"words"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row *dictionaryRow) toModel() (*models.Dictionary, error) {
	dict := &models.Dictionary{
		ID:        row.ID,
		Name:      row.Name,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(row.Words), &dict.Words); err != nil {
		return nil, fmt.Errorf("failed to decode words for dictionary %s: %v", row.ID, err)
	}
	return dict, nil
}

// Create inserts a new dictionary
func (r *DictionaryRepository) Create(dict *models.Dictionary) error {
	words, err := json.Marshal(dict.Words)
	if err != nil {
		return fmt.Errorf("failed to serialize words: %v", err)
	}

	now := time.Now().UTC()
	dict.CreatedAt = now
	dict.UpdatedAt = now

	_, err = DB.Exec(`
		INSERT INTO dictionaries (id, name, words, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, dict.ID, dict.Name, string(words), dict.CreatedAt, dict.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create dictionary %s: %v", dict.ID, err)
	}
	return nil
}

// GetByID returns one dictionary with its word list
func (r *DictionaryRepository) GetByID(id string) (*models.Dictionary, error) {
	var row dictionaryRow
	err := DB.Get(&row, "SELECT * FROM dictionaries WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDictionaryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dictionary %s: %v", id, err)
	}
	return row.toModel()
}

// GetAll returns every stored dictionary, newest first
func (r *DictionaryRepository) GetAll() ([]models.Dictionary, error) {
	var rows []dictionaryRow
	err := DB.Select(&rows, "SELECT * FROM dictionaries ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list dictionaries: %v", err)
	}

	dicts := make([]models.Dictionary, 0, len(rows))
	for i := range rows {
		dict, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		dicts = append(dicts, *dict)
	}
	return dicts, nil
}

// Update replaces the name and word list of an existing dictionary
func (r *DictionaryRepository) Update(dict *models.Dictionary) error {
	words, err := json.Marshal(dict.Words)
	if err != nil {
		return fmt.Errorf("failed to serialize words: %v", err)
	}

	dict.UpdatedAt = time.Now().UTC()
	result, err := DB.Exec(`
		UPDATE dictionaries SET name = $1, words = $2, updated_at = $3 WHERE id = $4
	`, dict.Name, string(words), dict.UpdatedAt, dict.ID)
	if err != nil {
		return fmt.Errorf("failed to update dictionary %s: %v", dict.ID, err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return ErrDictionaryNotFound
	}
	return nil
}

// Delete removes a dictionary
func (r *DictionaryRepository) Delete(id string) error {
	_, err := DB.Exec("DELETE FROM dictionaries WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete dictionary %s: %v", id, err)
	}
	return nil
}
