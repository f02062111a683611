package ports

import (
	"context"

	"github.com/aretw0/syllabus/pkg/domain"
)

// LedgerStore persists the append-only progress ledger.
// There is deliberately no update or delete operation.
type LedgerStore interface {
	// Load returns the latest ledger snapshot. A missing ledger is an empty ledger.
	Load(ctx context.Context) (domain.Ledger, error)

	// Append durably records entry after all existing entries and returns the new ledger.
	// Either the entry is recorded or an error is returned; partial writes are not visible.
	Append(ctx context.Context, entry domain.LedgerEntry) (domain.Ledger, error)
}
