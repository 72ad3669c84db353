package catalog

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/taller-garcia/quote-sync/internal/match"
)

// SQLiteStore implements Store over a local snapshot of the POS catalog,
// for offline resolution and integration testing.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) a catalog snapshot at the given path.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: sqlite open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			sqlDB.Close()
			return nil, eris.Wrapf(err, "catalog: sqlite exec %s", pragma)
		}
	}
	return &SQLiteStore{db: sqlDB}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS servicios (
	cve         TEXT PRIMARY KEY,
	descripcion TEXT NOT NULL,
	precio      REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS inventario (
	clave       TEXT PRIMARY KEY,
	descripcion TEXT NOT NULL,
	pventa      REAL NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_servicios_descripcion ON servicios(descripcion);
CREATE INDEX IF NOT EXISTS idx_inventario_descripcion ON inventario(descripcion);
`

// Migrate creates the snapshot schema.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteMigration); err != nil {
		return eris.Wrap(err, "catalog: sqlite migrate")
	}
	return nil
}

// Import upserts records into the snapshot, routing each to its
// sub-catalog table. Returns the number of records written.
func (s *SQLiteStore) Import(ctx context.Context, records []Record) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "catalog: sqlite import begin")
	}
	defer tx.Rollback()

	const upsertService = `INSERT INTO servicios (cve, descripcion, precio) VALUES (?, ?, ?)
ON CONFLICT(cve) DO UPDATE SET descripcion = excluded.descripcion, precio = excluded.precio`
	const upsertArticle = `INSERT INTO inventario (clave, descripcion, pventa) VALUES (?, ?, ?)
ON CONFLICT(clave) DO UPDATE SET descripcion = excluded.descripcion, pventa = excluded.pventa`

	n := 0
	for _, rec := range records {
		stmt := upsertArticle
		if rec.Source == SourceServices {
			stmt = upsertService
		}
		if _, err := tx.ExecContext(ctx, stmt, rec.Key, rec.Description, rec.Price); err != nil {
			return n, eris.Wrapf(err, "catalog: sqlite import %s", rec.Key)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return n, eris.Wrap(err, "catalog: sqlite import commit")
	}
	return n, nil
}

const (
	sqliteServicesByKey = `SELECT cve, descripcion, precio FROM servicios WHERE cve = ? LIMIT 1`
	sqliteArticlesByKey = `SELECT clave, descripcion, pventa FROM inventario WHERE clave = ? LIMIT 1`

	sqliteServicesByDescExact = `SELECT cve, descripcion, precio FROM servicios
WHERE UPPER(TRIM(descripcion)) = ? LIMIT 1`
	sqliteArticlesByDescExact = `SELECT clave, descripcion, pventa FROM inventario
WHERE UPPER(TRIM(descripcion)) = ? LIMIT 1`

	sqliteServicesByDescLike = `SELECT cve, descripcion, precio FROM servicios
WHERE UPPER(descripcion) LIKE '%' || ? || '%' ORDER BY LENGTH(descripcion) ASC, cve ASC LIMIT 1`
	sqliteArticlesByDescLike = `SELECT clave, descripcion, pventa FROM inventario
WHERE UPPER(descripcion) LIKE '%' || ? || '%' ORDER BY LENGTH(descripcion) ASC, clave ASC LIMIT 1`
)

// FindByKey checks services first, then inventory.
func (s *SQLiteStore) FindByKey(ctx context.Context, key string) (*Record, error) {
	rec, err := s.queryOne(ctx, sqliteServicesByKey, SourceServices, key)
	if err != nil || rec != nil {
		return rec, err
	}
	return s.queryOne(ctx, sqliteArticlesByKey, SourceInventory, key)
}

// FindByDescriptionExact matches the full normalized description.
func (s *SQLiteStore) FindByDescriptionExact(ctx context.Context, text string) (*Record, error) {
	norm := match.Normalize(text)
	rec, err := s.queryOne(ctx, sqliteServicesByDescExact, SourceServices, norm)
	if err != nil || rec != nil {
		return rec, err
	}
	return s.queryOne(ctx, sqliteArticlesByDescExact, SourceInventory, norm)
}

// FindByDescriptionSubstring matches descriptions containing the text.
func (s *SQLiteStore) FindByDescriptionSubstring(ctx context.Context, text string) (*Record, error) {
	norm := match.Normalize(text)
	rec, err := s.queryOne(ctx, sqliteServicesByDescLike, SourceServices, norm)
	if err != nil || rec != nil {
		return rec, err
	}
	return s.queryOne(ctx, sqliteArticlesByDescLike, SourceInventory, norm)
}

// Close closes the snapshot database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) queryOne(ctx context.Context, query string, source Source, arg string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, query, arg)

	rec := Record{Source: source}
	if err := row.Scan(&rec.Key, &rec.Description, &rec.Price); err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, unavailable(string(source)+" lookup", err)
	}
	return &rec, nil
}
