package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps records in a map. Records are copied on the way in and
// out, so callers never share snapshot slices with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (m *MemoryStore) Save(ctx context.Context, rec Record) error {
	if err := CheckID(rec.ID); err != nil {
		return err
	}
	rec.Snapshot = rec.Snapshot.Clone()

	m.mu.Lock()
	m.records[rec.ID] = rec
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Load(ctx context.Context, id string) (Record, error) {
	if err := CheckID(id); err != nil {
		return Record{}, err
	}

	m.mu.RLock()
	rec, ok := m.records[id]
	m.mu.RUnlock()
	if !ok {
		return Record{}, ErrNotFound
	}
	rec.Snapshot = rec.Snapshot.Clone()
	return rec, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := CheckID(id); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	return nil
}

// List returns summaries, most recently updated first.
func (m *MemoryStore) List(ctx context.Context) ([]Summary, error) {
	m.mu.RLock()
	out := make([]Summary, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, Summary{ID: rec.ID, State: rec.Snapshot.State, UpdatedAt: rec.UpdatedAt})
	}
	m.mu.RUnlock()

	sortSummaries(out)
	return out, nil
}

func sortSummaries(s []Summary) {
	sort.Slice(s, func(i, j int) bool {
		if !s[i].UpdatedAt.Equal(s[j].UpdatedAt) {
			return s[i].UpdatedAt.After(s[j].UpdatedAt)
		}
		return s[i].ID < s[j].ID
	})
}
