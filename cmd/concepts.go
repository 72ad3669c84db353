package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taller-garcia/quote-sync/internal/concept"
)

var conceptsCmd = &cobra.Command{
	Use:   "concepts",
	Short: "Inspect the embedded concept table",
}

var conceptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all concept phrases and their catalog keys",
	RunE: func(_ *cobra.Command, _ []string) error {
		entries, err := concept.All()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PHRASE\tKEY\tFAMILY")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Phrase, e.Key, e.Family)
		}
		return w.Flush()
	},
}

var conceptsAuditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Report phrases mapped to more than one catalog key",
	RunE: func(_ *cobra.Command, _ []string) error {
		dups, err := concept.Duplicates()
		if err != nil {
			return err
		}
		if len(dups) == 0 {
			zap.L().Info("concept table clean, no duplicate phrases")
			return nil
		}

		for _, d := range dups {
			fmt.Printf("%s -> %s\n", d.Phrase, strings.Join(d.Keys, ", "))
		}
		zap.L().Warn("duplicate concept phrases found",
			zap.Int("count", len(dups)),
		)
		return nil
	},
}

func init() {
	conceptsCmd.AddCommand(conceptsListCmd)
	conceptsCmd.AddCommand(conceptsAuditCmd)
	rootCmd.AddCommand(conceptsCmd)
}
