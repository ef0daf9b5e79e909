// Package memory provides an in-memory ReportStore, the default for the CLI
// and for tests.
package memory

import (
	"context"
	"sync"

	"github.com/smallnest/personaforge/store"
)

// MemoryReportStore implements store.ReportStore in process memory.
// Safe for concurrent use.
type MemoryReportStore struct {
	mu      sync.RWMutex
	entries []*store.ReportEntry // most recent first
}

// NewMemoryReportStore creates an empty in-memory report store.
func NewMemoryReportStore() *MemoryReportStore {
	return &MemoryReportStore{}
}

// Save stores an entry at the front of the history and evicts entries beyond
// store.MaxReports.
func (s *MemoryReportStore) Save(_ context.Context, entry *store.ReportEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *entry
	kept := make([]*store.ReportEntry, 0, len(s.entries)+1)
	kept = append(kept, &cp)
	for _, e := range s.entries {
		if e.ID != entry.ID {
			kept = append(kept, e)
		}
	}
	if len(kept) > store.MaxReports {
		kept = kept[:store.MaxReports]
	}
	s.entries = kept
	return nil
}

// List returns all entries, most recent first.
func (s *MemoryReportStore) List(_ context.Context) ([]*store.ReportEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*store.ReportEntry, len(s.entries))
	for i, e := range s.entries {
		cp := *e
		out[i] = &cp
	}
	return out, nil
}

// Get retrieves one entry by ID.
func (s *MemoryReportStore) Get(_ context.Context, id string) (*store.ReportEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

// Delete removes one entry by ID.
func (s *MemoryReportStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

// Clear removes all entries.
func (s *MemoryReportStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryReportStore) Close() error { return nil }
