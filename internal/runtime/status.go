package runtime

import (
	"context"

	"github.com/aretw0/syllabus/internal/resolver"
	"github.com/aretw0/syllabus/pkg/domain"
)

// Status is a read-only summary of the learner's progress.
type Status struct {
	Progress resolver.Progress   `json:"progress"`
	Next     *domain.Topic       `json:"next,omitempty"`
	Position int                 `json:"position"` // of Next in the catalog, -1 when complete
	Complete bool                `json:"complete"`
	Stale    []string            `json:"stale,omitempty"`
	Last     *domain.LedgerEntry `json:"last,omitempty"`
}

// Status reports progress without touching the workspace or the ledger.
func (c *Controller) Status(ctx context.Context) (Status, error) {
	catalog, ledger, err := c.Snapshot(ctx)
	if err != nil {
		return Status{}, err
	}
	return ComputeStatus(catalog, ledger), nil
}

// ComputeStatus derives a Status from a catalog and ledger snapshot.
func ComputeStatus(catalog *domain.Catalog, ledger domain.Ledger) Status {
	res := resolver.Resolve(catalog, ledger)
	st := Status{
		Progress: resolver.ComputeProgress(catalog, ledger),
		Position: -1,
		Complete: res.Complete,
		Stale:    resolver.StaleReferences(catalog, ledger),
	}
	if !res.Complete {
		topic := res.Topic
		st.Next = &topic
		st.Position = res.Position
	}
	if last, ok := ledger.Last(); ok {
		st.Last = &last
	}
	return st
}
