package ports

import (
	"context"

	"github.com/aretw0/syllabus/pkg/domain"
)

// CatalogSource loads the curriculum. It is read once per session and never written.
type CatalogSource interface {
	// Load returns the ordered catalog.
	// Returns an error wrapping domain.ErrInvalidCatalog when the source is malformed.
	Load(ctx context.Context) (*domain.Catalog, error)
}
