// Package postgres provides a ReportStore backed by PostgreSQL via pgx,
// for multi-node deployments needing durable shared history.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smallnest/personaforge/store"
)

// DBPool defines the interface for the database connection pool.
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresReportStore implements store.ReportStore using PostgreSQL.
type PostgresReportStore struct {
	pool      DBPool
	tableName string
}

// PostgresOptions configuration for the Postgres connection.
type PostgresOptions struct {
	ConnString string
	TableName  string // Default "reports"
}

// NewPostgresReportStore creates a new Postgres report store.
func NewPostgresReportStore(ctx context.Context, opts PostgresOptions) (*PostgresReportStore, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "reports"
	}

	return &PostgresReportStore{
		pool:      pool,
		tableName: tableName,
	}, nil
}

// NewPostgresReportStoreWithPool creates a store around an existing pool.
// Useful for testing with mocks.
func NewPostgresReportStoreWithPool(pool DBPool, tableName string) *PostgresReportStore {
	if tableName == "" {
		tableName = "reports"
	}
	return &PostgresReportStore{
		pool:      pool,
		tableName: tableName,
	}
}

// InitSchema creates the necessary table if it doesn't exist.
func (s *PostgresReportStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL,
			report JSONB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_timestamp ON %s (timestamp);
	`, s.tableName, s.tableName, s.tableName)

	_, err := s.pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *PostgresReportStore) Close() error {
	s.pool.Close()
	return nil
}

// Save stores an entry and evicts rows beyond store.MaxReports.
func (s *PostgresReportStore) Save(ctx context.Context, entry *store.ReportEntry) error {
	reportJSON, err := json.Marshal(entry.Report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, url, timestamp, report)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			url = EXCLUDED.url,
			timestamp = EXCLUDED.timestamp,
			report = EXCLUDED.report
	`, s.tableName)

	_, err = s.pool.Exec(ctx, query,
		entry.ID,
		entry.URL,
		entry.Timestamp,
		reportJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	prune := fmt.Sprintf(`
		DELETE FROM %s WHERE id NOT IN (
			SELECT id FROM %s ORDER BY timestamp DESC LIMIT $1
		)
	`, s.tableName, s.tableName)

	if _, err := s.pool.Exec(ctx, prune, store.MaxReports); err != nil {
		return fmt.Errorf("failed to prune report history: %w", err)
	}
	return nil
}

// Get retrieves one entry by ID.
func (s *PostgresReportStore) Get(ctx context.Context, id string) (*store.ReportEntry, error) {
	query := fmt.Sprintf(`
		SELECT id, url, timestamp, report
		FROM %s
		WHERE id = $1
	`, s.tableName)

	var entry store.ReportEntry
	var reportJSON []byte

	err := s.pool.QueryRow(ctx, query, id).Scan(
		&entry.ID,
		&entry.URL,
		&entry.Timestamp,
		&reportJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	if err := json.Unmarshal(reportJSON, &entry.Report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &entry, nil
}

// List returns all entries, most recent first.
func (s *PostgresReportStore) List(ctx context.Context) ([]*store.ReportEntry, error) {
	query := fmt.Sprintf(`
		SELECT id, url, timestamp, report
		FROM %s
		ORDER BY timestamp DESC
	`, s.tableName)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var entries []*store.ReportEntry
	for rows.Next() {
		var entry store.ReportEntry
		var reportJSON []byte

		if err := rows.Scan(&entry.ID, &entry.URL, &entry.Timestamp, &reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		if err := json.Unmarshal(reportJSON, &entry.Report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report rows: %w", err)
	}

	return entries, nil
}

// Delete removes one entry by ID.
func (s *PostgresReportStore) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.tableName)
	if _, err := s.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}

// Clear removes all entries.
func (s *PostgresReportStore) Clear(ctx context.Context) error {
	query := fmt.Sprintf("DELETE FROM %s", s.tableName)
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to clear reports: %w", err)
	}
	return nil
}
