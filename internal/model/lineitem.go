package model

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// LineItem is one free-text quotation line from the upstream feed.
// Immutable once decoded; the resolver never mutates it.
type LineItem struct {
	ID          int     `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
	Supplier    string  `json:"supplier"`
}

// FeedRecord is the wire form of a line item as the upstream feed emits it.
// Numeric fields arrive as decimal strings; pcompra is carried but unused.
type FeedRecord struct {
	ID          int    `json:"id"`
	Importe     string `json:"importe"`
	PCompra     string `json:"pcompra"`
	Cantidad    string `json:"cantidad"`
	Unitario    string `json:"unitario"`
	Proveedor   string `json:"proveedor"`
	Descripcion string `json:"descripcion"`
}

// LineItem decodes the wire record into a LineItem, parsing the decimal
// strings. An empty description is allowed through; the resolver rejects it.
func (r FeedRecord) LineItem() (LineItem, error) {
	amount, err := parseDecimal(r.Importe)
	if err != nil {
		return LineItem{}, eris.Wrapf(err, "model: record %d: importe", r.ID)
	}
	qty, err := parseDecimal(r.Cantidad)
	if err != nil {
		return LineItem{}, eris.Wrapf(err, "model: record %d: cantidad", r.ID)
	}
	unit, err := parseDecimal(r.Unitario)
	if err != nil {
		return LineItem{}, eris.Wrapf(err, "model: record %d: unitario", r.ID)
	}

	return LineItem{
		ID:          r.ID,
		Description: strings.TrimSpace(r.Descripcion),
		Quantity:    qty,
		UnitPrice:   unit,
		Amount:      amount,
		Supplier:    strings.TrimSpace(r.Proveedor),
	}, nil
}

// parseDecimal parses a feed decimal string. Empty strings decode to zero,
// matching how the feed represents absent numeric fields.
func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "parse decimal %q", s)
	}
	return v, nil
}
