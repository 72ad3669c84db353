package resolver

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/taller-garcia/quote-sync/internal/model"
)

// Failure records a line item whose resolution could not be completed
// because the catalog store failed. Distinct from a rejection: the item was
// never checked, not unmatched.
type Failure struct {
	Item model.LineItem
	Err  error
}

// Result aggregates a whole feed run. Every input item lands in exactly one
// of Resolved, Rejected or Failed.
type Result struct {
	model.Resolution
	Failed []Failure
}

// outcome carries one item's result back to its input slot.
type outcome struct {
	resolved *model.ResolvedItem
	rejected *model.RejectionRecord
	err      error
}

// ResolveAll resolves every line item. Items are independent, so they may
// be resolved concurrently up to the given limit; limit <= 1 keeps the
// sequential reference behavior with deterministic, ordered log output.
// Output order always follows input order regardless of the limit.
func (r *Resolver) ResolveAll(ctx context.Context, items []model.LineItem, limit int) *Result {
	if limit < 1 {
		limit = 1
	}

	outcomes := make([]outcome, len(items))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, item := range items {
		g.Go(func() error {
			res, rej, err := r.Resolve(gCtx, item)
			outcomes[i] = outcome{resolved: res, rejected: rej, err: err}
			// Store failures are collected per item, not raised.
			return nil
		})
	}
	_ = g.Wait()

	result := &Result{}
	for i, o := range outcomes {
		switch {
		case o.err != nil:
			result.Failed = append(result.Failed, Failure{Item: items[i], Err: o.err})
		case o.resolved != nil:
			result.Resolution.Resolved = append(result.Resolution.Resolved, *o.resolved)
		case o.rejected != nil:
			result.Resolution.Rejected = append(result.Resolution.Rejected, *o.rejected)
		}
	}

	zap.L().Info("resolver: run complete",
		zap.Int("items", len(items)),
		zap.Int("resolved", len(result.Resolution.Resolved)),
		zap.Int("rejected", len(result.Resolution.Rejected)),
		zap.Int("failed", len(result.Failed)),
	)

	return result
}
