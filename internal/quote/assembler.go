package quote

import (
	"context"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/taller-garcia/quote-sync/internal/db"
	"github.com/taller-garcia/quote-sync/internal/model"
)

// HeaderDefaults are the fixed header fields the POS expects on quotations
// created by this tool. Ticket and description stay empty; the POS program
// generates them.
type HeaderDefaults struct {
	Client      string `yaml:"client" mapstructure:"client"`
	User        string `yaml:"user" mapstructure:"user"`
	CustomerKey string `yaml:"customer_key" mapstructure:"customer_key"`
	Type        string `yaml:"type" mapstructure:"type"`
}

// Assembler persists quotations (header + details) into the POS database.
type Assembler struct {
	pool    db.Pool
	header  HeaderDefaults
	taxRate float64
}

// NewAssembler builds an Assembler over a shared pool.
func NewAssembler(pool db.Pool, header HeaderDefaults, taxRate float64) *Assembler {
	if taxRate <= 0 {
		taxRate = DefaultTaxRate
	}
	return &Assembler{pool: pool, header: header, taxRate: taxRate}
}

const (
	nextFolioSQL = `SELECT COALESCE(MAX(folio), 0) + 1 FROM cotizaciones4`

	insertHeaderSQL = `INSERT INTO cotizaciones4
	(folio, fecha, cliente, ticket, hora, total, subtotal, iva,
	 tipo, usuario, articulos, descripcion, cvecte, band)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	insertDetailSQL = `INSERT INTO cotizaciones4det
	(folio, cant, clave, descripcion, unitario, importe,
	 unitariosiniva, importesiniva, stock)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
)

// NextFolio returns the next available quotation folio (1 when the table
// is empty).
func (a *Assembler) NextFolio(ctx context.Context) (int, error) {
	var folio int
	if err := a.pool.QueryRow(ctx, nextFolioSQL).Scan(&folio); err != nil {
		return 0, eris.Wrap(err, "quote: next folio")
	}
	return folio, nil
}

// Create persists a quotation from resolved items and totals, returning the
// assigned folio. Header and details are written in a single transaction:
// either the whole quotation lands or none of it does. At least one
// resolved item is required.
func (a *Assembler) Create(ctx context.Context, items []model.ResolvedItem, totals Totals) (int, error) {
	if len(items) == 0 {
		return 0, eris.New("quote: no resolved items to assemble")
	}

	folio, err := a.NextFolio(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now()

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "quote: begin tx")
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, insertHeaderSQL,
		folio,
		now.Format("2006-01-02"),
		a.header.Client,
		"",
		now.Format("03:04:05 PM"),
		totals.Total,
		totals.Subtotal,
		totals.Tax,
		a.header.Type,
		a.header.User,
		strconv.Itoa(len(items)),
		"",
		a.header.CustomerKey,
		false,
	)
	if err != nil {
		return 0, eris.Wrapf(err, "quote: insert header folio %d", folio)
	}

	divisor := 1 + a.taxRate
	for _, it := range items {
		_, err = tx.Exec(ctx, insertDetailSQL,
			folio,
			it.Item.Quantity,
			it.CatalogKey,
			it.CatalogDescription,
			it.Item.UnitPrice,
			it.Item.Amount,
			it.Item.UnitPrice/divisor,
			it.Item.Amount/divisor,
			false,
		)
		if err != nil {
			return 0, eris.Wrapf(err, "quote: insert detail %s folio %d", it.CatalogKey, folio)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrapf(err, "quote: commit folio %d", folio)
	}

	zap.L().Info("quote: quotation created",
		zap.Int("folio", folio),
		zap.Int("items", len(items)),
		zap.Float64("total", totals.Total),
	)

	return folio, nil
}
