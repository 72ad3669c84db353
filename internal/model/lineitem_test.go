package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedRecordLineItem(t *testing.T) {
	rec := FeedRecord{
		ID:          42,
		Importe:     "232.00",
		PCompra:     "150.00",
		Cantidad:    "2",
		Unitario:    "116.00",
		Proveedor:   " GARCIA ",
		Descripcion: "  ROTULA SUPERIOR ",
	}

	item, err := rec.LineItem()
	require.NoError(t, err)
	assert.Equal(t, 42, item.ID)
	assert.Equal(t, "ROTULA SUPERIOR", item.Description)
	assert.Equal(t, "GARCIA", item.Supplier)
	assert.InDelta(t, 232.0, item.Amount, 1e-9)
	assert.InDelta(t, 2.0, item.Quantity, 1e-9)
	assert.InDelta(t, 116.0, item.UnitPrice, 1e-9)
}

func TestFeedRecordEmptyNumericFields(t *testing.T) {
	rec := FeedRecord{ID: 1, Descripcion: "MANO DE OBRA"}

	item, err := rec.LineItem()
	require.NoError(t, err)
	assert.Zero(t, item.Amount)
	assert.Zero(t, item.Quantity)
	assert.Zero(t, item.UnitPrice)
}

func TestFeedRecordBadDecimal(t *testing.T) {
	tests := []struct {
		name string
		rec  FeedRecord
	}{
		{"importe", FeedRecord{ID: 1, Importe: "abc"}},
		{"cantidad", FeedRecord{ID: 1, Cantidad: "1,5"}},
		{"unitario", FeedRecord{ID: 1, Unitario: "$116"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.rec.LineItem()
			assert.Error(t, err)
		})
	}
}
