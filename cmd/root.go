package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taller-garcia/quote-sync/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "quote-sync",
	Short: "Quotation intake for the workshop POS",
	Long:  "Pulls pending free-text line items, resolves each against the POS catalog under the supplier eligibility policy, and writes quotations.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
