// Package catalog gives read access to the shop's physical parts/services
// catalog: the services and inventory sub-catalogs of the POS database.
// Lookups are read-only from this module's perspective.
package catalog

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/taller-garcia/quote-sync/internal/policy"
)

// Source says which physical sub-catalog a record came from. It is the
// ground truth for the record's category: the services table holds labor,
// the inventory table holds articles.
type Source string

// Sub-catalog sources.
const (
	SourceServices  Source = "servicios"
	SourceInventory Source = "inventario"
)

// Category maps the sub-catalog to the supplier-policy category.
func (s Source) Category() policy.Category {
	if s == SourceServices {
		return policy.CategoryService
	}
	return policy.CategoryArticle
}

// Record is one catalog entry, as retrieved by key or description search.
type Record struct {
	Key         string  `json:"key"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Source      Source  `json:"source"`
}

// ErrUnavailable marks lookups that failed because the store could not be
// reached or the query errored. Callers must keep this distinct from a
// not-found result: "no match" and "could not check" are different answers.
var ErrUnavailable = eris.New("catalog store unavailable")

// unavailable wraps a store failure so eris.Is(err, ErrUnavailable) holds.
func unavailable(op string, err error) error {
	return eris.Wrapf(ErrUnavailable, "catalog: %s: %v", op, err)
}

// Store is the catalog lookup interface. All methods return (nil, nil) when
// nothing matches and an ErrUnavailable-wrapped error when the lookup could
// not be performed. Description searches check the services sub-catalog
// before inventory and prefer the shortest matching description on ties.
type Store interface {
	// FindByKey looks a record up by exact catalog key.
	FindByKey(ctx context.Context, key string) (*Record, error)
	// FindByDescriptionExact matches the whole description,
	// case- and surrounding-whitespace-insensitive.
	FindByDescriptionExact(ctx context.Context, text string) (*Record, error)
	// FindByDescriptionSubstring matches descriptions containing the text.
	FindByDescriptionSubstring(ctx context.Context, text string) (*Record, error)
	// Close releases the underlying connections.
	Close() error
}
