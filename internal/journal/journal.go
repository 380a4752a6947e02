package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Categories used across the appliance
const (
	CategoryInput       = "input"
	CategoryCapture     = "capture"
	CategoryRecognition = "recognition"
	CategoryTranslation = "translation"
	CategorySynthesis   = "synthesis"
	CategoryPlayback    = "playback"
	CategoryCleanup     = "cleanup"
	CategoryDisplay     = "display"
	CategoryStartup     = "startup"
)

// DefaultMaxEntries is how many rows are kept when no limit is configured
const DefaultMaxEntries = 500

// Entry is one journal row
type Entry struct {
	ID       int64
	At       time.Time
	Category string
	Message  string
}

// Journal is an append-only error log backed by SQLite
type Journal struct {
	db         *sql.DB
	logger     *zap.Logger
	maxEntries int
}

// Open opens or creates the journal database at path
func Open(path string, maxEntries int, logger *zap.Logger) (*Journal, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	// One writer keeps SQLite from returning SQLITE_BUSY under the session and signal goroutines
	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create journal tables: %w", err)
	}

	return &Journal{
		db:         db,
		logger:     logger,
		maxEntries: maxEntries,
	}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS errors (
		id integer PRIMARY KEY AUTOINCREMENT,
		at integer NOT NULL,
		category text NOT NULL,
		message text NOT NULL
	)`)
	return err
}

// LogError appends an entry. Failures are logged and otherwise ignored.
func (j *Journal) LogError(category, message string) {
	j.logger.Warn("Journal entry",
		zap.String("category", category),
		zap.String("message", message))

	if _, err := j.db.Exec(
		`INSERT INTO errors (at, category, message) VALUES (?, ?, ?)`,
		time.Now().UnixMilli(), category, message,
	); err != nil {
		j.logger.Error("Failed to write journal entry", zap.Error(err))
		return
	}

	if _, err := j.db.Exec(
		`DELETE FROM errors WHERE id <= (SELECT MAX(id) FROM errors) - ?`,
		j.maxEntries,
	); err != nil {
		j.logger.Error("Failed to prune journal", zap.Error(err))
	}
}

// Recent returns up to n entries, newest first
func (j *Journal) Recent(n int) ([]Entry, error) {
	rows, err := j.db.Query(
		`SELECT id, at, category, message FROM errors ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var at int64
		if err := rows.Scan(&e.ID, &at, &e.Category, &e.Message); err != nil {
			return nil, fmt.Errorf("failed to read journal row: %w", err)
		}
		e.At = time.UnixMilli(at)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database
func (j *Journal) Close() error {
	return j.db.Close()
}
