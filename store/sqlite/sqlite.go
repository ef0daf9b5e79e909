// Package sqlite provides a ReportStore backed by a local SQLite database,
// the default persistent backend for single-node deployments.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/smallnest/personaforge/store"
)

// SqliteReportStore implements store.ReportStore using SQLite.
type SqliteReportStore struct {
	db        *sql.DB
	tableName string
}

// SqliteOptions configuration for the SQLite connection.
type SqliteOptions struct {
	Path      string
	TableName string // Default "reports"
}

// NewSqliteReportStore opens the database and ensures the schema exists.
func NewSqliteReportStore(opts SqliteOptions) (*SqliteReportStore, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "reports"
	}

	s := &SqliteReportStore{
		db:        db,
		tableName: tableName,
	}

	if err := s.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// InitSchema creates the necessary table if it doesn't exist.
func (s *SqliteReportStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			timestamp DATETIME NOT NULL,
			report TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_timestamp ON %s (timestamp);
	`, s.tableName, s.tableName, s.tableName)

	_, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SqliteReportStore) Close() error {
	return s.db.Close()
}

// Save stores an entry and evicts the oldest rows beyond store.MaxReports.
func (s *SqliteReportStore) Save(ctx context.Context, entry *store.ReportEntry) error {
	reportJSON, err := json.Marshal(entry.Report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, url, timestamp, report)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			url = excluded.url,
			timestamp = excluded.timestamp,
			report = excluded.report
	`, s.tableName)

	_, err = s.db.ExecContext(ctx, query,
		entry.ID,
		entry.URL,
		entry.Timestamp.UTC(),
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	prune := fmt.Sprintf(`
		DELETE FROM %s WHERE id NOT IN (
			SELECT id FROM %s ORDER BY timestamp DESC LIMIT ?
		)
	`, s.tableName, s.tableName)

	if _, err := s.db.ExecContext(ctx, prune, store.MaxReports); err != nil {
		return fmt.Errorf("failed to prune report history: %w", err)
	}
	return nil
}

// Get retrieves one entry by ID.
func (s *SqliteReportStore) Get(ctx context.Context, id string) (*store.ReportEntry, error) {
	query := fmt.Sprintf(`
		SELECT id, url, timestamp, report
		FROM %s
		WHERE id = ?
	`, s.tableName)

	entry, err := scanEntry(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	return entry, nil
}

// List returns all entries, most recent first.
func (s *SqliteReportStore) List(ctx context.Context) ([]*store.ReportEntry, error) {
	query := fmt.Sprintf(`
		SELECT id, url, timestamp, report
		FROM %s
		ORDER BY timestamp DESC
	`, s.tableName)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var entries []*store.ReportEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report rows: %w", err)
	}

	return entries, nil
}

// Delete removes one entry by ID.
func (s *SqliteReportStore) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.tableName)
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}

// Clear removes all entries.
func (s *SqliteReportStore) Clear(ctx context.Context) error {
	query := fmt.Sprintf("DELETE FROM %s", s.tableName)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to clear reports: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*store.ReportEntry, error) {
	var entry store.ReportEntry
	var ts time.Time
	var reportJSON string

	if err := row.Scan(&entry.ID, &entry.URL, &ts, &reportJSON); err != nil {
		return nil, err
	}
	entry.Timestamp = ts

	if err := json.Unmarshal([]byte(reportJSON), &entry.Report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &entry, nil
}
