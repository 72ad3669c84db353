package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockStore creates a PostgresStore backed by pgxmock.
func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgres(mock), mock
}

func TestPostgresFindByKey_Service(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT cve, descripcion, precio FROM servicios WHERE cve = \$1`).
		WithArgs("SER001").
		WillReturnRows(pgxmock.NewRows([]string{"cve", "descripcion", "precio"}).
			AddRow("SER001", "MANO DE OBRA", 350.0))

	rec, err := s.FindByKey(context.Background(), "SER001")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "SER001", rec.Key)
	assert.Equal(t, SourceServices, rec.Source)
	assert.InDelta(t, 350.0, rec.Price, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByKey_FallsThroughToInventory(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT cve, descripcion, precio FROM servicios WHERE cve = \$1`).
		WithArgs("20-0101").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`SELECT clave, descripcion, pventa FROM inventario WHERE clave = \$1`).
		WithArgs("20-0101").
		WillReturnRows(pgxmock.NewRows([]string{"clave", "descripcion", "pventa"}).
			AddRow("20-0101", "ROTULA SUPERIOR", 420.0))

	rec, err := s.FindByKey(context.Background(), "20-0101")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, SourceInventory, rec.Source)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByKey_NotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`FROM servicios WHERE cve = \$1`).
		WithArgs("NOPE").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`FROM inventario WHERE clave = \$1`).
		WithArgs("NOPE").
		WillReturnError(pgx.ErrNoRows)

	rec, err := s.FindByKey(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByKey_Unavailable(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`FROM servicios WHERE cve = \$1`).
		WithArgs("SER001").
		WillReturnError(errors.New("connection refused"))

	rec, err := s.FindByKey(context.Background(), "SER001")
	require.Error(t, err)
	assert.Nil(t, rec)
	assert.True(t, eris.Is(err, ErrUnavailable))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByDescriptionExact_Normalizes(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`FROM servicios\s+WHERE UPPER\(BTRIM\(descripcion\)\) = \$1`).
		WithArgs("MANO DE OBRA").
		WillReturnRows(pgxmock.NewRows([]string{"cve", "descripcion", "precio"}).
			AddRow("SER001", "MANO DE OBRA", 350.0))

	rec, err := s.FindByDescriptionExact(context.Background(), "  mano de obra ")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "SER001", rec.Key)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByDescriptionSubstring_ServicesFirst(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`FROM servicios\s+WHERE UPPER\(descripcion\) LIKE`).
		WithArgs("ROTULA").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`FROM inventario\s+WHERE UPPER\(descripcion\) LIKE`).
		WithArgs("ROTULA").
		WillReturnRows(pgxmock.NewRows([]string{"clave", "descripcion", "pventa"}).
			AddRow("20-0101", "ROTULA SUPERIOR", 420.0))

	rec, err := s.FindByDescriptionSubstring(context.Background(), "rotula")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "20-0101", rec.Key)
	assert.Equal(t, SourceInventory, rec.Source)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresClose_NoOp(t *testing.T) {
	s, _ := newMockStore(t)
	assert.NoError(t, s.Close())
}

func TestSourceCategory(t *testing.T) {
	assert.Equal(t, "service", string(SourceServices.Category()))
	assert.Equal(t, "article", string(SourceInventory.Category()))
}
