package catalog

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/taller-garcia/quote-sync/internal/db"
	"github.com/taller-garcia/quote-sync/internal/match"
)

// PostgresStore implements Store against the POS database over pgx.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres wraps an existing pool. The pool is shared with quotation
// persistence; Close is a no-op so the owner controls the lifecycle.
func NewPostgres(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Lookup queries per sub-catalog. The services table keys on cve/precio,
// inventory on clave/pventa; both expose descripcion.
const (
	servicesByKey = `SELECT cve, descripcion, precio FROM servicios WHERE cve = $1 LIMIT 1`
	articlesByKey = `SELECT clave, descripcion, pventa FROM inventario WHERE clave = $1 LIMIT 1`

	servicesByDescExact = `SELECT cve, descripcion, precio FROM servicios
WHERE UPPER(BTRIM(descripcion)) = $1 LIMIT 1`
	articlesByDescExact = `SELECT clave, descripcion, pventa FROM inventario
WHERE UPPER(BTRIM(descripcion)) = $1 LIMIT 1`

	servicesByDescLike = `SELECT cve, descripcion, precio FROM servicios
WHERE UPPER(descripcion) LIKE '%' || $1 || '%' ORDER BY LENGTH(descripcion) ASC, cve ASC LIMIT 1`
	articlesByDescLike = `SELECT clave, descripcion, pventa FROM inventario
WHERE UPPER(descripcion) LIKE '%' || $1 || '%' ORDER BY LENGTH(descripcion) ASC, clave ASC LIMIT 1`
)

// FindByKey checks the services sub-catalog first, then inventory.
func (s *PostgresStore) FindByKey(ctx context.Context, key string) (*Record, error) {
	rec, err := s.queryOne(ctx, servicesByKey, SourceServices, key)
	if err != nil || rec != nil {
		return rec, err
	}
	return s.queryOne(ctx, articlesByKey, SourceInventory, key)
}

// FindByDescriptionExact matches the full normalized description,
// services before inventory.
func (s *PostgresStore) FindByDescriptionExact(ctx context.Context, text string) (*Record, error) {
	norm := match.Normalize(text)
	rec, err := s.queryOne(ctx, servicesByDescExact, SourceServices, norm)
	if err != nil || rec != nil {
		return rec, err
	}
	return s.queryOne(ctx, articlesByDescExact, SourceInventory, norm)
}

// FindByDescriptionSubstring matches descriptions containing the text,
// shortest description first, services before inventory.
func (s *PostgresStore) FindByDescriptionSubstring(ctx context.Context, text string) (*Record, error) {
	norm := match.Normalize(text)
	rec, err := s.queryOne(ctx, servicesByDescLike, SourceServices, norm)
	if err != nil || rec != nil {
		return rec, err
	}
	return s.queryOne(ctx, articlesByDescLike, SourceInventory, norm)
}

// Close is a no-op; the shared pool is closed by its owner.
func (s *PostgresStore) Close() error {
	return nil
}

func (s *PostgresStore) queryOne(ctx context.Context, sql string, source Source, arg string) (*Record, error) {
	row := s.pool.QueryRow(ctx, sql, arg)

	rec := Record{Source: source}
	if err := row.Scan(&rec.Key, &rec.Description, &rec.Price); err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, unavailable(string(source)+" lookup", err)
	}
	return &rec, nil
}
