package main

import (
	"encoding/json"
	"os"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taller-garcia/quote-sync/internal/catalog"
	"github.com/taller-garcia/quote-sync/internal/model"
	"github.com/taller-garcia/quote-sync/internal/quote"
)

var (
	quoteInput  string
	quoteDryRun bool
)

// quoteSummary is the JSON summary printed after a run.
type quoteSummary struct {
	RunID    string                  `json:"run_id"`
	Folio    int                     `json:"folio,omitempty"`
	DryRun   bool                    `json:"dry_run"`
	Totals   quote.Totals            `json:"totals"`
	Resolved []model.ResolvedItem    `json:"resolved"`
	Rejected []model.RejectionRecord `json:"rejected,omitempty"`
}

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Resolve pending line items and create a quotation",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		runID := uuid.New().String()
		log := zap.L().With(zap.String("run_id", runID))

		pool, err := initPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		store := catalog.NewPostgres(pool)
		res, err := initResolver(store)
		if err != nil {
			return err
		}

		src, err := initFeed(quoteInput)
		if err != nil {
			return err
		}

		items, err := src.Fetch(ctx)
		if err != nil {
			return eris.Wrap(err, "fetch pending items")
		}
		if len(items) == 0 {
			log.Info("no pending line items, nothing to quote")
			return nil
		}

		result := res.ResolveAll(ctx, items, cfg.Resolver.Concurrency)
		for _, f := range result.Failed {
			log.Error("line item failed",
				zap.Int("id", f.Item.ID),
				zap.Error(f.Err),
			)
		}
		if len(result.Failed) > 0 {
			return eris.Errorf("%d line items failed to resolve, aborting", len(result.Failed))
		}
		if len(result.Resolved) == 0 {
			return eris.New("no line items resolved to a catalog entry, quotation not created")
		}

		// Totals cover every incoming line, rejected ones included, so the
		// quoted total matches the intake batch.
		totals := quote.ComputeTotals(items, cfg.Quote.TaxRate)

		summary := quoteSummary{
			RunID:    runID,
			DryRun:   quoteDryRun,
			Totals:   totals,
			Resolved: result.Resolved,
			Rejected: result.Rejected,
		}

		if !quoteDryRun {
			asm := quote.NewAssembler(pool, cfg.Quote.Header(), cfg.Quote.TaxRate)
			folio, err := asm.Create(ctx, result.Resolved, totals)
			if err != nil {
				return err
			}
			summary.Folio = folio
		}

		log.Info("quote run complete",
			zap.Int("folio", summary.Folio),
			zap.Bool("dry_run", quoteDryRun),
			zap.Int("resolved", len(result.Resolved)),
			zap.Int("rejected", len(result.Rejected)),
			zap.Float64("total", totals.Total),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	quoteCmd.Flags().StringVar(&quoteInput, "input", "", "JSON file of feed records (overrides configured source)")
	quoteCmd.Flags().BoolVar(&quoteDryRun, "dry-run", false, "resolve and compute totals without writing the quotation")
	rootCmd.AddCommand(quoteCmd)
}
