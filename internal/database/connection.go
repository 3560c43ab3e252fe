package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. DB_TYPE selects the
// driver: "postgres" uses DATABASE_URL, anything else falls back to a local
// SQLite file under DATABASE_PATH (default data/drillbot.db).
func Connect() error {
	if dbType() == "postgres" {
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}

		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %v", err)
		}
		DB = db
		return initializeSchema()
	}

	// SQLite
	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = filepath.Join("data", "drillbot.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %v", err)
	}

	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %v", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	DB = db
	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// dbType returns the configured database type, defaulting to sqlite
func dbType() string {
	t := os.Getenv("DB_TYPE")
	if t == "" {
		return "sqlite"
	}
	return t
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	// Paused sessions: one self-describing payload per (learner, session)
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS learning_sessions (
			user_id BIGINT NOT NULL,
			session_id TEXT NOT NULL,
			payload TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, session_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create learning_sessions table: %v", err)
	}

	// Cross-session learner progress: totals as columns, per-dictionary
	// word map as a JSON document
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS learner_progress (
			user_id BIGINT PRIMARY KEY,
			total_words_learned INTEGER NOT NULL DEFAULT 0,
			total_sessions INTEGER NOT NULL DEFAULT 0,
			total_attempts INTEGER NOT NULL DEFAULT 0,
			total_correct INTEGER NOT NULL DEFAULT 0,
			total_incorrect INTEGER NOT NULL DEFAULT 0,
			dictionaries TEXT NOT NULL DEFAULT '{}',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			last_activity TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create learner_progress table: %v", err)
	}

	// Word pools available for drilling
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS dictionaries (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			words TEXT NOT NULL DEFAULT '[]',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create dictionaries table: %v", err)
	}

	return nil
}
