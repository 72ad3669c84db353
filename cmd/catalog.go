package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taller-garcia/quote-sync/internal/catalog"
)

var catalogImportPath string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the local sqlite catalog mirror",
}

var catalogMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the local catalog schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := catalog.NewSQLite(cfg.Catalog.SQLitePath)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(cmd.Context()); err != nil {
			return err
		}
		zap.L().Info("catalog schema ready",
			zap.String("path", cfg.Catalog.SQLitePath),
		)
		return nil
	},
}

var catalogImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import catalog records from a JSON export",
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := os.ReadFile(catalogImportPath)
		if err != nil {
			return eris.Wrapf(err, "read %s", catalogImportPath)
		}
		var records []catalog.Record
		if err := json.Unmarshal(data, &records); err != nil {
			return eris.Wrapf(err, "decode %s", catalogImportPath)
		}

		st, err := catalog.NewSQLite(cfg.Catalog.SQLitePath)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(cmd.Context()); err != nil {
			return err
		}
		n, err := st.Import(cmd.Context(), records)
		if err != nil {
			return err
		}

		zap.L().Info("catalog import complete",
			zap.Int("records", n),
			zap.String("path", cfg.Catalog.SQLitePath),
		)
		return nil
	},
}

func init() {
	catalogImportCmd.Flags().StringVar(&catalogImportPath, "json", "", "path to JSON catalog export (required)")
	_ = catalogImportCmd.MarkFlagRequired("json")
	catalogCmd.AddCommand(catalogMigrateCmd)
	catalogCmd.AddCommand(catalogImportCmd)
	rootCmd.AddCommand(catalogCmd)
}
