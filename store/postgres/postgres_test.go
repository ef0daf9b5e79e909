package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/personaforge/persona"
	"github.com/smallnest/personaforge/store"
)

func testData() store.ReportData {
	return store.ReportData{
		ProductProfile: &persona.ProductProfile{Name: "Acme Notes"},
	}
}

func TestPostgresReportStore_Save(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ps := NewPostgresReportStoreWithPool(mock, "reports")

	entry := &store.ReportEntry{
		ID:        "r1",
		URL:       "https://example.com",
		Timestamp: time.Now().UTC(),
		Report:    testData(),
	}
	reportJSON, _ := json.Marshal(entry.Report)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reports")).
		WithArgs(entry.ID, entry.URL, entry.Timestamp, reportJSON).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reports WHERE id NOT IN")).
		WithArgs(store.MaxReports).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, ps.Save(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReportStore_Save_DatabaseError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ps := NewPostgresReportStoreWithPool(mock, "reports")

	entry := &store.ReportEntry{ID: "r1", URL: "https://example.com", Timestamp: time.Now().UTC()}
	reportJSON, _ := json.Marshal(entry.Report)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reports")).
		WithArgs(entry.ID, entry.URL, entry.Timestamp, reportJSON).
		WillReturnError(errors.New("database connection failed"))

	err = ps.Save(context.Background(), entry)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save report")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReportStore_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ps := NewPostgresReportStoreWithPool(mock, "reports")

	ts := time.Now().UTC()
	reportJSON, _ := json.Marshal(testData())
	rows := pgxmock.NewRows([]string{"id", "url", "timestamp", "report"}).
		AddRow("r1", "https://example.com", ts, reportJSON)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, url, timestamp, report FROM reports WHERE id = $1")).
		WithArgs("r1").
		WillReturnRows(rows)

	entry, err := ps.Get(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", entry.ID)
	assert.Equal(t, "https://example.com", entry.URL)
	require.NotNil(t, entry.Report.ProductProfile)
	assert.Equal(t, "Acme Notes", entry.Report.ProductProfile.Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReportStore_Get_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ps := NewPostgresReportStoreWithPool(mock, "reports")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, url, timestamp, report FROM reports WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err = ps.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReportStore_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ps := NewPostgresReportStoreWithPool(mock, "reports")

	ts := time.Now().UTC()
	reportJSON, _ := json.Marshal(testData())
	rows := pgxmock.NewRows([]string{"id", "url", "timestamp", "report"}).
		AddRow("r2", "https://b.example.com", ts, reportJSON).
		AddRow("r1", "https://a.example.com", ts.Add(-time.Minute), reportJSON)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, url, timestamp, report FROM reports ORDER BY timestamp DESC")).
		WillReturnRows(rows)

	entries, err := ps.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "r2", entries[0].ID)
	assert.Equal(t, "r1", entries[1].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReportStore_List_InvalidJSON(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ps := NewPostgresReportStoreWithPool(mock, "reports")

	rows := pgxmock.NewRows([]string{"id", "url", "timestamp", "report"}).
		AddRow("r1", "https://example.com", time.Now().UTC(), []byte("{invalid"))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, url, timestamp, report FROM reports ORDER BY timestamp DESC")).
		WillReturnRows(rows)

	_, err = ps.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal report")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReportStore_DeleteAndClear(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ps := NewPostgresReportStoreWithPool(mock, "reports")

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reports WHERE id = $1")).
		WithArgs("r1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reports")).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	require.NoError(t, ps.Delete(context.Background(), "r1"))
	require.NoError(t, ps.Clear(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReportStore_InitSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ps := NewPostgresReportStoreWithPool(mock, "reports")

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS reports")).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, ps.InitSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewPostgresReportStoreWithPool_DefaultTableName(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ps := NewPostgresReportStoreWithPool(mock, "")
	assert.Equal(t, "reports", ps.tableName)
}
