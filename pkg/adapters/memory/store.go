package memory

import (
	"context"
	"sync"

	"github.com/aretw0/syllabus/pkg/domain"
)

// Store implements ports.LedgerStore in memory.
// Safe for concurrent use.
type Store struct {
	ledger domain.Ledger
	mu     sync.RWMutex
}

// NewStore creates an in-memory ledger seeded with entries.
func NewStore(entries ...domain.LedgerEntry) *Store {
	return &Store{ledger: domain.NewLedger(entries...)}
}

// Load returns the current ledger. Ledger values are immutable, so no copy is needed.
func (s *Store) Load(ctx context.Context) (domain.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger, nil
}

// Append records entry and returns the new ledger.
func (s *Store) Append(ctx context.Context, entry domain.LedgerEntry) (domain.Ledger, error) {
	if err := ctx.Err(); err != nil {
		return domain.Ledger{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = s.ledger.Append(entry)
	return s.ledger, nil
}
