package repository

import (
	"context"
	"sync"

	"github.com/stemsi/qbank-manager/internal/model"
)

// MemoryBankStore keeps the bank in process memory. Entries are copied on the
// way in and out so callers never share slices with the store.
type MemoryBankStore struct {
	mu      sync.RWMutex
	entries []model.Entry
	saves   int
}

// NewMemoryBankStore creates a store seeded with entries.
func NewMemoryBankStore(entries ...model.Entry) *MemoryBankStore {
	return &MemoryBankStore{entries: cloneEntries(entries)}
}

func (s *MemoryBankStore) Load(ctx context.Context) ([]model.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEntries(s.entries), nil
}

func (s *MemoryBankStore) Save(ctx context.Context, entries []model.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = cloneEntries(entries)
	s.saves++
	return nil
}

// Saves returns how many times Save has succeeded.
func (s *MemoryBankStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

func cloneEntries(entries []model.Entry) []model.Entry {
	out := make([]model.Entry, len(entries))
	for i, e := range entries {
		out[i] = e
		if e.Questions != nil {
			out[i].Questions = make([]model.Question, len(e.Questions))
			for j, q := range e.Questions {
				out[i].Questions[j] = q
				if q.Options != nil {
					out[i].Questions[j].Options = append(model.Options{}, q.Options...)
				}
			}
		}
	}
	return out
}
