package models

import "time"

// Dictionary is a named collection of words used as a session pool
type Dictionary struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Words     []string  `json:"words"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
