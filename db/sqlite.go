package db

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"sample-sorter/models"
	"sample-sorter/utils"

	_ "github.com/mattn/go-sqlite3" // SQLite driver registration
)

// SQLiteClient persists the library ledger: which source files have already
// been classified and where they went. The classification core itself keeps
// no state; this exists so re-running the sorter skips files it has already
// placed.
type SQLiteClient struct {
	db *sql.DB
}

func NewSQLiteClient(dataSourceName string) (*SQLiteClient, error) {
	// Extract the file path before query parameters
	dbPath := dataSourceName
	if idx := strings.Index(dataSourceName, "?"); idx != -1 {
		dbPath = dataSourceName[:idx]
	}

	dbDir := filepath.Dir(dbPath)
	if dbDir != "." && dbDir != "" {
		if err := utils.CreateFolder(dbDir); err != nil {
			return nil, fmt.Errorf("error creating database directory: %s", err)
		}
	}

	// Add busy timeout param to DSN (milliseconds)
	if !strings.Contains(dataSourceName, "_busy_timeout") {
		if strings.Contains(dataSourceName, "?") {
			dataSourceName += "&_busy_timeout=5000"
		} else {
			dataSourceName += "?_busy_timeout=5000"
		}
	}

	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("error connecting to SQLite: %s", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("error creating tables: %s", err)
	}

	return &SQLiteClient{db: db}, nil
}

func createTables(db *sql.DB) error {
	createSortedFiles := `
    CREATE TABLE IF NOT EXISTS sorted_files (
        id TEXT PRIMARY KEY,
        source_path TEXT NOT NULL,
        source_modified INTEGER NOT NULL,
        category TEXT NOT NULL,
        color TEXT NOT NULL,
        confidence REAL NOT NULL DEFAULT 0,
        degraded INTEGER NOT NULL DEFAULT 0,
        destination TEXT NOT NULL,
        processed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        UNIQUE (source_path, source_modified)
    );
    CREATE INDEX IF NOT EXISTS idx_sorted_files_source ON sorted_files(source_path);
    CREATE INDEX IF NOT EXISTS idx_sorted_files_category ON sorted_files(category);
    `

	if _, err := db.Exec(createSortedFiles); err != nil {
		return fmt.Errorf("error creating sorted_files table: %s", err)
	}
	return nil
}

func (s *SQLiteClient) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordSortedFile inserts one ledger row. Re-recording the same source file
// at the same modification time replaces the previous row.
func (s *SQLiteClient) RecordSortedFile(record *models.SortedFile) error {
	if record.ProcessedAt.IsZero() {
		record.ProcessedAt = time.Now()
	}

	degradedInt := 0
	if record.Degraded {
		degradedInt = 1
	}

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO sorted_files (
			id, source_path, source_modified, category, color,
			confidence, degraded, destination, processed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.SourcePath,
		record.SourceModified,
		record.Category,
		record.Color,
		record.Confidence,
		degradedInt,
		record.Destination,
		record.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("error storing sorted file: %s", err)
	}
	return nil
}

// IsSorted reports whether the source file at this modification time has
// already been placed into the library.
func (s *SQLiteClient) IsSorted(sourcePath string, sourceModified int64) (bool, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM sorted_files WHERE source_path = ? AND source_modified = ?",
		sourcePath, sourceModified,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("error querying sorted files: %s", err)
	}
	return count > 0, nil
}

// ListSortedFiles returns the ledger, newest first.
func (s *SQLiteClient) ListSortedFiles() ([]models.SortedFile, error) {
	rows, err := s.db.Query(`
		SELECT id, source_path, source_modified, category, color,
		       confidence, degraded, destination, processed_at
		FROM sorted_files
		ORDER BY processed_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("error querying sorted files: %s", err)
	}
	defer rows.Close()

	var records []models.SortedFile
	for rows.Next() {
		var record models.SortedFile
		var degradedInt int
		if err := rows.Scan(
			&record.ID,
			&record.SourcePath,
			&record.SourceModified,
			&record.Category,
			&record.Color,
			&record.Confidence,
			&degradedInt,
			&record.Destination,
			&record.ProcessedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning sorted file: %s", err)
		}
		record.Degraded = degradedInt == 1
		records = append(records, record)
	}

	return records, rows.Err()
}

// CountByCategory summarises how many files landed in each category.
func (s *SQLiteClient) CountByCategory() (map[string]int, error) {
	rows, err := s.db.Query("SELECT category, COUNT(*) FROM sorted_files GROUP BY category")
	if err != nil {
		return nil, fmt.Errorf("error counting by category: %s", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("error scanning count: %s", err)
		}
		counts[category] = count
	}
	return counts, rows.Err()
}
