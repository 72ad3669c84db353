package resolver

import (
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taller-garcia/quote-sync/internal/catalog"
	"github.com/taller-garcia/quote-sync/internal/concept"
	"github.com/taller-garcia/quote-sync/internal/model"
	"github.com/taller-garcia/quote-sync/internal/policy"
)

func init() {
	// Replace global logger with a no-op to avoid nil pointer panics in tests.
	zap.ReplaceGlobals(zap.NewNop())
}

// fakeStore is an in-memory catalog.Store. A non-nil err makes every lookup
// fail, simulating an unreachable catalog.
type fakeStore struct {
	records []catalog.Record
	err     error
}

func (f *fakeStore) FindByKey(_ context.Context, key string) (*catalog.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.records {
		if f.records[i].Key == key {
			return &f.records[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindByDescriptionExact(_ context.Context, text string) (*catalog.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	norm := strings.ToUpper(strings.TrimSpace(text))
	for i := range f.records {
		if strings.ToUpper(f.records[i].Description) == norm {
			return &f.records[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindByDescriptionSubstring(_ context.Context, text string) (*catalog.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	norm := strings.ToUpper(strings.TrimSpace(text))
	var best *catalog.Record
	for i := range f.records {
		if strings.Contains(strings.ToUpper(f.records[i].Description), norm) {
			if best == nil || len(f.records[i].Description) < len(best.Description) {
				best = &f.records[i]
			}
		}
	}
	return best, nil
}

func (f *fakeStore) Close() error { return nil }

func testEntries() []concept.Entry {
	return []concept.Entry{
		{Phrase: "MANO DE OBRA", Key: "SER001", Family: "servicios"},
		{Phrase: "ROTULA SUPERIOR", Key: "20-0101", Family: "suspension"},
		{Phrase: "ROTULA INFERIOR", Key: "20-0102", Family: "suspension"},
		{Phrase: "BIRLO AUTOMOTRIZ", Key: "31-0101", Family: "tornilleria"},
	}
}

func testStore() *fakeStore {
	return &fakeStore{records: []catalog.Record{
		{Key: "SER001", Description: "MANO DE OBRA", Price: 350, Source: catalog.SourceServices},
		{Key: "20-0101", Description: "ROTULA SUPERIOR", Price: 420, Source: catalog.SourceInventory},
		{Key: "20-0102", Description: "ROTULA INFERIOR", Price: 410, Source: catalog.SourceInventory},
		{Key: "31-0101", Description: "BIRLO AUTOMOTRIZ", Price: 35, Source: catalog.SourceInventory},
	}}
}

func newTestResolver(store catalog.Store) *Resolver {
	return New(store, policy.Default(), testEntries())
}

func item(id int, desc, supplier string) model.LineItem {
	return model.LineItem{ID: id, Description: desc, Supplier: supplier, Quantity: 1, UnitPrice: 100, Amount: 100}
}

func TestResolveExactConcept(t *testing.T) {
	r := newTestResolver(testStore())

	res, rej, err := r.Resolve(context.Background(), item(1, "ROTULA SUPERIOR", ""))
	require.NoError(t, err)
	require.Nil(t, rej)
	require.NotNil(t, res)
	assert.Equal(t, "20-0101", res.CatalogKey)
	assert.Equal(t, model.MatchExact, res.Kind)
	assert.InDelta(t, 420.0, res.UnitPriceLocal, 1e-9)
}

func TestResolveCompleteConcept(t *testing.T) {
	r := newTestResolver(testStore())

	res, rej, err := r.Resolve(context.Background(), item(2, "rotula superior izquierda", "REFACCIONARIA LOPEZ"))
	require.NoError(t, err)
	require.Nil(t, rej)
	require.NotNil(t, res)
	assert.Equal(t, "20-0101", res.CatalogKey)
	assert.Equal(t, model.MatchComplete, res.Kind)
}

func TestResolveSupplierIneligibleArticle(t *testing.T) {
	// In-house supplier quoting a suspension part: the concept matches but
	// policy forbids it, and the direct lookup must not rescue it.
	r := newTestResolver(testStore())

	res, rej, err := r.Resolve(context.Background(), item(3, "ROTULA SUPERIOR PREMIUM", "GARCIA"))
	require.NoError(t, err)
	assert.Nil(t, res)
	require.NotNil(t, rej)
	assert.Equal(t, model.RejectSupplierIneligible, rej.Reason)
	assert.NotEmpty(t, rej.Detail)
}

func TestResolveExactConceptStillPolicyChecked(t *testing.T) {
	// Exact concept match bypasses the scoring gate, so the resolver must
	// re-validate the fetched record against the supplier rules.
	r := newTestResolver(testStore())

	res, rej, err := r.Resolve(context.Background(), item(4, "MANO DE OBRA", "REFACCIONARIA LOPEZ"))
	require.NoError(t, err)
	assert.Nil(t, res)
	require.NotNil(t, rej)
	assert.Equal(t, model.RejectSupplierIneligible, rej.Reason)
	assert.Contains(t, rej.Detail, "cannot provide services")
}

func TestResolveInHouseAllowedArticle(t *testing.T) {
	r := newTestResolver(testStore())

	res, rej, err := r.Resolve(context.Background(), item(5, "BIRLO AUTOMOTRIZ", "GARCIA"))
	require.NoError(t, err)
	require.Nil(t, rej)
	require.NotNil(t, res)
	assert.Equal(t, "31-0101", res.CatalogKey)
}

func TestResolveDirectFallbackExact(t *testing.T) {
	// No concept covers wiper blades, but the catalog has the row.
	store := testStore()
	store.records = append(store.records, catalog.Record{
		Key: "40-0001", Description: "PLUMAS LIMPIAPARABRISAS", Price: 180, Source: catalog.SourceInventory,
	})
	r := newTestResolver(store)

	res, rej, err := r.Resolve(context.Background(), item(6, "plumas limpiaparabrisas", "REFACCIONARIA LOPEZ"))
	require.NoError(t, err)
	require.Nil(t, rej)
	require.NotNil(t, res)
	assert.Equal(t, "40-0001", res.CatalogKey)
	assert.Equal(t, model.MatchExact, res.Kind)
}

func TestResolveDirectFallbackSubstring(t *testing.T) {
	store := testStore()
	store.records = append(store.records, catalog.Record{
		Key: "40-0002", Description: "KIT PLUMAS LIMPIAPARABRISAS 22", Price: 220, Source: catalog.SourceInventory,
	})
	r := newTestResolver(store)

	res, rej, err := r.Resolve(context.Background(), item(7, "PLUMAS LIMPIAPARABRISAS 22", ""))
	require.NoError(t, err)
	require.Nil(t, rej)
	require.NotNil(t, res)
	assert.Equal(t, "40-0002", res.CatalogKey)
	assert.Equal(t, model.MatchPartial, res.Kind)
}

func TestResolveNotFound(t *testing.T) {
	r := newTestResolver(testStore())

	res, rej, err := r.Resolve(context.Background(), item(8, "TAPETES DE HULE", "REFACCIONARIA LOPEZ"))
	require.NoError(t, err)
	assert.Nil(t, res)
	require.NotNil(t, rej)
	assert.Equal(t, model.RejectNotFound, rej.Reason)
}

func TestResolveEmptyDescription(t *testing.T) {
	r := newTestResolver(testStore())

	res, rej, err := r.Resolve(context.Background(), item(9, "   ", ""))
	require.NoError(t, err)
	assert.Nil(t, res)
	require.NotNil(t, rej)
	assert.Equal(t, model.RejectNotFound, rej.Reason)
	assert.Equal(t, "empty description", rej.Detail)
}

func TestResolveStoreFailureIsError(t *testing.T) {
	sentinel := eris.New("connection refused")
	r := newTestResolver(&fakeStore{err: sentinel})

	res, rej, err := r.Resolve(context.Background(), item(10, "ROTULA SUPERIOR", ""))
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Nil(t, rej)
	assert.True(t, eris.Is(err, sentinel))
}

func TestResolveThirdPartyArticle(t *testing.T) {
	r := newTestResolver(testStore())

	res, rej, err := r.Resolve(context.Background(), item(12, "BIRLO AUTOMOTRIZ", "REFACCIONARIA LOPEZ"))
	require.NoError(t, err)
	require.Nil(t, rej)
	require.NotNil(t, res)
	assert.Equal(t, "31-0101", res.CatalogKey)
	assert.Equal(t, model.MatchExact, res.Kind)
}

func TestResolveIsIdempotent(t *testing.T) {
	r := newTestResolver(testStore())
	it := item(13, "rotula superior izquierda", "REFACCIONARIA LOPEZ")

	first, _, err := r.Resolve(context.Background(), it)
	require.NoError(t, err)
	second, _, err := r.Resolve(context.Background(), it)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveConceptKeyDriftFallsBack(t *testing.T) {
	// The concept table points at 20-0101 but the catalog lost the row;
	// resolution falls back to description search and still succeeds.
	store := testStore()
	store.records = []catalog.Record{
		{Key: "20-0199", Description: "ROTULA SUPERIOR IZQUIERDA", Price: 430, Source: catalog.SourceInventory},
	}
	r := newTestResolver(store)

	res, rej, err := r.Resolve(context.Background(), item(11, "ROTULA SUPERIOR IZQUIERDA", ""))
	require.NoError(t, err)
	require.Nil(t, rej)
	require.NotNil(t, res)
	assert.Equal(t, "20-0199", res.CatalogKey)
}
