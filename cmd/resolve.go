package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taller-garcia/quote-sync/internal/resolver"
)

var (
	resolveInput  string
	resolveFormat string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve pending line items without writing a quotation",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		store, pool, err := initCatalog(ctx)
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck
		if pool != nil {
			defer pool.Close()
		}

		res, err := initResolver(store)
		if err != nil {
			return err
		}

		src, err := initFeed(resolveInput)
		if err != nil {
			return err
		}

		items, err := src.Fetch(ctx)
		if err != nil {
			return eris.Wrap(err, "fetch pending items")
		}
		if len(items) == 0 {
			zap.L().Info("no pending line items")
			return nil
		}

		result := res.ResolveAll(ctx, items, cfg.Resolver.Concurrency)
		for _, f := range result.Failed {
			zap.L().Error("line item failed",
				zap.Int("id", f.Item.ID),
				zap.Error(f.Err),
			)
		}

		switch resolveFormat {
		case "table":
			return printTable(result)
		case "csv":
			return printCSV(result)
		default:
			return eris.Errorf("unsupported output format: %s", resolveFormat)
		}
	},
}

func printTable(result *resolver.Result) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tINPUT\tKEY\tCATALOG\tKIND\tUNIT")
	for _, it := range result.Resolved {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%.2f\n",
			it.Item.ID, it.Item.Description, it.CatalogKey, it.CatalogDescription, it.Kind, it.UnitPriceLocal)
	}
	for _, rej := range result.Rejected {
		fmt.Fprintf(w, "%d\t%s\t-\t%s\t%s\t-\n",
			rej.Item.ID, rej.Item.Description, rej.Detail, rej.Reason)
	}
	return w.Flush()
}

func printCSV(result *resolver.Result) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"id", "input", "key", "catalog", "kind", "unit_price"}); err != nil {
		return eris.Wrap(err, "write csv header")
	}
	for _, it := range result.Resolved {
		rec := []string{
			strconv.Itoa(it.Item.ID),
			it.Item.Description,
			it.CatalogKey,
			it.CatalogDescription,
			string(it.Kind),
			strconv.FormatFloat(it.UnitPriceLocal, 'f', 2, 64),
		}
		if err := w.Write(rec); err != nil {
			return eris.Wrap(err, "write csv row")
		}
	}
	for _, rej := range result.Rejected {
		rec := []string{
			strconv.Itoa(rej.Item.ID),
			rej.Item.Description,
			"",
			rej.Detail,
			string(rej.Reason),
			"",
		}
		if err := w.Write(rec); err != nil {
			return eris.Wrap(err, "write csv row")
		}
	}
	return nil
}

func init() {
	resolveCmd.Flags().StringVar(&resolveInput, "input", "", "JSON file of feed records (overrides configured source)")
	resolveCmd.Flags().StringVar(&resolveFormat, "format", "table", "output format: table or csv")
	rootCmd.AddCommand(resolveCmd)
}
