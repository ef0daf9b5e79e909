// Package store defines report history persistence. A ReportStore keeps the
// most recent reports, capped at MaxReports; saving beyond the cap evicts the
// oldest entries. Backends live in the subpackages memory, sqlite, redis and
// postgres.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/smallnest/personaforge/persona"
)

// MaxReports is the number of report entries a store retains.
const MaxReports = 10

// ErrNotFound is returned when no report exists for the requested ID.
var ErrNotFound = errors.New("report not found")

// ReportData is the pipeline output persisted with a report. Fields produced
// before a failed stage may be present while later ones are absent.
type ReportData struct {
	ProductProfile  *persona.ProductProfile  `json:"productProfile,omitempty"`
	CustomerProfile *persona.CustomerProfile `json:"customerProfile,omitempty"`
	Personas        []persona.UserPersona    `json:"personas,omitempty"`
}

// ReportEntry is one saved report.
type ReportEntry struct {
	ID        string     `json:"id"`
	URL       string     `json:"url"`
	Timestamp time.Time  `json:"timestamp"`
	Report    ReportData `json:"report"`
}

// NewEntry builds a ReportEntry with a fresh ID and the current time.
func NewEntry(url string, data ReportData) *ReportEntry {
	return &ReportEntry{
		ID:        uuid.NewString(),
		URL:       url,
		Timestamp: time.Now().UTC(),
		Report:    data,
	}
}

// ReportStore persists report history.
type ReportStore interface {
	// Save stores an entry, replacing any entry with the same ID, and
	// evicts the oldest entries beyond MaxReports.
	Save(ctx context.Context, entry *ReportEntry) error

	// List returns all entries, most recent first.
	List(ctx context.Context) ([]*ReportEntry, error)

	// Get retrieves one entry by ID; ErrNotFound when absent.
	Get(ctx context.Context, id string) (*ReportEntry, error)

	// Delete removes one entry by ID. Deleting an absent ID is not an error.
	Delete(ctx context.Context, id string) error

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
