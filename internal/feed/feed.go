// Package feed reads pending quotation line items from an intake source.
package feed

import (
	"context"

	"github.com/taller-garcia/quote-sync/internal/model"
)

// Source provides pending line items awaiting quotation.
type Source interface {
	// Fetch returns the pending line items in intake order.
	Fetch(ctx context.Context) ([]model.LineItem, error)
}
