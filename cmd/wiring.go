package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/taller-garcia/quote-sync/internal/catalog"
	"github.com/taller-garcia/quote-sync/internal/concept"
	"github.com/taller-garcia/quote-sync/internal/db"
	"github.com/taller-garcia/quote-sync/internal/feed"
	"github.com/taller-garcia/quote-sync/internal/policy"
	"github.com/taller-garcia/quote-sync/internal/resolver"
)

// initPool connects to the POS postgres database.
func initPool(ctx context.Context) (db.Pool, error) {
	if cfg.Catalog.DatabaseURL == "" {
		return nil, eris.New("catalog database URL is required (QUOTESYNC_CATALOG_DATABASE_URL)")
	}
	return db.Connect(ctx, cfg.Catalog.DatabaseURL, &db.PoolConfig{
		MaxConns: cfg.Catalog.Pool.MaxConns,
		MinConns: cfg.Catalog.Pool.MinConns,
	})
}

// initCatalog builds the catalog store for the configured driver. The
// returned pool is non-nil only for postgres; callers needing writes must
// check for it.
func initCatalog(ctx context.Context) (catalog.Store, db.Pool, error) {
	switch cfg.Catalog.Driver {
	case "sqlite":
		st, err := catalog.NewSQLite(cfg.Catalog.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return st, nil, nil
	case "postgres":
		pool, err := initPool(ctx)
		if err != nil {
			return nil, nil, err
		}
		return catalog.NewPostgres(pool), pool, nil
	default:
		return nil, nil, eris.Errorf("unsupported catalog driver: %s", cfg.Catalog.Driver)
	}
}

// initResolver assembles the resolver over the given store from the
// configured policy and the embedded concept table.
func initResolver(store catalog.Store) (*resolver.Resolver, error) {
	entries, err := concept.All()
	if err != nil {
		return nil, err
	}
	rules := policy.NewRules(cfg.Policy.InHouseSupplier, cfg.Policy.ServiceKeywords, cfg.Policy.AllowedArticles)
	return resolver.New(store, rules, entries), nil
}

// initFeed builds the configured intake source. The --input flag on a
// command overrides the configured source with a local file.
func initFeed(inputOverride string) (feed.Source, error) {
	if inputOverride != "" {
		return feed.NewFileSource(inputOverride), nil
	}
	switch cfg.Feed.Source {
	case "file":
		if cfg.Feed.FilePath == "" {
			return nil, eris.New("feed file path is required (QUOTESYNC_FEED_FILE_PATH)")
		}
		return feed.NewFileSource(cfg.Feed.FilePath), nil
	case "supabase":
		return feed.NewSupabaseSource(feed.SupabaseOptions{
			BaseURL:           cfg.Feed.SupabaseURL,
			APIKey:            cfg.Feed.SupabaseKey,
			Table:             cfg.Feed.SupabaseTable,
			RequestsPerSecond: cfg.Feed.RequestsPerSecond,
		})
	default:
		return nil, eris.Errorf("unsupported feed source: %s", cfg.Feed.Source)
	}
}
