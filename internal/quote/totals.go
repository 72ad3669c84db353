// Package quote assembles and persists quotations from resolved line items.
package quote

import "github.com/taller-garcia/quote-sync/internal/model"

// DefaultTaxRate is the VAT rate backed out of quoted amounts.
const DefaultTaxRate = 0.16

// Totals holds a quotation's aggregate amounts. Quoted amounts are gross;
// the subtotal is backed out at the tax rate, so Subtotal+Tax == Total up
// to float rounding.
type Totals struct {
	Total    float64 `json:"total"`
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
}

// ComputeTotals sums the amounts of the given line items and backs out the
// tax: subtotal = total / (1 + rate), tax = total - subtotal. A rate <= 0
// falls back to DefaultTaxRate.
func ComputeTotals(items []model.LineItem, taxRate float64) Totals {
	if taxRate <= 0 {
		taxRate = DefaultTaxRate
	}

	var total float64
	for _, it := range items {
		total += it.Amount
	}

	subtotal := total / (1 + taxRate)
	return Totals{
		Total:    total,
		Subtotal: subtotal,
		Tax:      total - subtotal,
	}
}
