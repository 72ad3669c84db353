// Package resolver maps free-text line items to canonical catalog records,
// or to a structured rejection when no eligible match exists. Every line
// item yields exactly one of the two; nothing is silently dropped.
package resolver

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/taller-garcia/quote-sync/internal/catalog"
	"github.com/taller-garcia/quote-sync/internal/concept"
	"github.com/taller-garcia/quote-sync/internal/match"
	"github.com/taller-garcia/quote-sync/internal/model"
	"github.com/taller-garcia/quote-sync/internal/policy"
)

// Resolver orchestrates concept scoring, direct catalog lookup and the
// supplier eligibility filter for each line item.
type Resolver struct {
	store   catalog.Store
	rules   *policy.Rules
	entries []concept.Entry
}

// New builds a Resolver over the given catalog store, supplier rules and
// concept table.
func New(store catalog.Store, rules *policy.Rules, entries []concept.Entry) *Resolver {
	return &Resolver{store: store, rules: rules, entries: entries}
}

// Resolve maps one line item. Exactly one of the two returned records is
// non-nil on success. A non-nil error means the catalog store failed; that
// is a distinct, fatal condition for the item, never reported as not-found.
func (r *Resolver) Resolve(ctx context.Context, item model.LineItem) (*model.ResolvedItem, *model.RejectionRecord, error) {
	log := zap.L().With(
		zap.String("component", "resolver"),
		zap.Int("item_id", item.ID),
	)

	if strings.TrimSpace(item.Description) == "" {
		return nil, &model.RejectionRecord{
			Item:   item,
			Reason: model.RejectNotFound,
			Detail: "empty description",
		}, nil
	}

	candidates, gated := match.Rank(item.Description, item.Supplier, r.entries, r.rules)

	if len(candidates) == 0 {
		log.Debug("resolver: no concept candidates, trying direct lookup",
			zap.String("description", item.Description),
			zap.Int("supplier_gated", len(gated)),
		)
		return r.resolveDirect(ctx, item, gated)
	}

	best := candidates[0]
	log.Debug("resolver: best concept candidate",
		zap.String("phrase", best.Concept.Phrase),
		zap.String("key", best.Concept.Key),
		zap.Int("score", best.Score),
		zap.String("kind", string(best.Kind)),
		zap.Strings("matched_tokens", best.MatchedTokens),
	)

	rec, err := r.store.FindByKey(ctx, best.Concept.Key)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "resolver: item %d: lookup key %s", item.ID, best.Concept.Key)
	}
	if rec == nil {
		// Data drift between the static concept table and the live
		// catalog; fall back to searching by the original description.
		log.Warn("resolver: concept key missing from catalog",
			zap.String("phrase", best.Concept.Phrase),
			zap.String("key", best.Concept.Key),
		)
		return r.resolveDirect(ctx, item, gated)
	}

	// Re-validate the chosen record against the supplier rules using the
	// record's own category. Exact matches skip the scoring gate, and the
	// physical sub-catalog, not the concept classifier, is ground truth.
	if dec := r.rules.Check(rec.Source.Category(), rec.Description, item.Supplier); !dec.Allowed {
		return nil, &model.RejectionRecord{
			Item:   item,
			Reason: model.RejectSupplierIneligible,
			Detail: dec.Detail,
		}, nil
	}

	return resolved(item, rec, best.Kind), nil, nil
}

// resolveDirect is the fallback path: exact description lookup, then
// substring, against the live catalog. gated carries concept candidates
// that only failed the supplier gate, so a miss here can still be
// attributed to supplier policy rather than a missing catalog entry.
func (r *Resolver) resolveDirect(ctx context.Context, item model.LineItem, gated []match.Candidate) (*model.ResolvedItem, *model.RejectionRecord, error) {
	rec, err := r.store.FindByDescriptionExact(ctx, item.Description)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "resolver: item %d: exact lookup", item.ID)
	}
	kind := model.MatchExact
	if rec == nil {
		rec, err = r.store.FindByDescriptionSubstring(ctx, item.Description)
		if err != nil {
			return nil, nil, eris.Wrapf(err, "resolver: item %d: substring lookup", item.ID)
		}
		kind = model.MatchPartial
	}

	if rec == nil {
		if len(gated) > 0 {
			return nil, &model.RejectionRecord{
				Item:   item,
				Reason: model.RejectSupplierIneligible,
				Detail: gated[0].GateDetail,
			}, nil
		}
		return nil, &model.RejectionRecord{
			Item:   item,
			Reason: model.RejectNotFound,
			Detail: "no concept or catalog entry matches the description",
		}, nil
	}

	if dec := r.rules.Check(rec.Source.Category(), rec.Description, item.Supplier); !dec.Allowed {
		return nil, &model.RejectionRecord{
			Item:   item,
			Reason: model.RejectSupplierIneligible,
			Detail: dec.Detail,
		}, nil
	}

	return resolved(item, rec, kind), nil, nil
}

func resolved(item model.LineItem, rec *catalog.Record, kind model.MatchKind) *model.ResolvedItem {
	return &model.ResolvedItem{
		Item:               item,
		CatalogKey:         rec.Key,
		CatalogDescription: rec.Description,
		UnitPriceLocal:     rec.Price,
		Kind:               kind,
	}
}
