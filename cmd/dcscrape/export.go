package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lonestardata/dcscrape/internal/dataset"
)

var (
	exportInput string
	exportOut   string
)

// exportCmd creates the "export" subcommand: converts a CSV dataset
// into an Excel workbook for hand-off.
func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a dataset CSV as an Excel workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := dataset.ReadCSV(exportInput)
			if err != nil {
				return fmt.Errorf("load dataset: %w", err)
			}

			out := exportOut
			if out == "" {
				out = strings.TrimSuffix(exportInput, ".csv") + ".xlsx"
			}

			if err := dataset.WriteXLSX(out, rows); err != nil {
				return fmt.Errorf("export: %w", err)
			}

			fmt.Printf("Exported %d records to %s\n", len(rows), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&exportInput, "input", "i", "", "dataset CSV to export (required)")
	cmd.Flags().StringVar(&exportOut, "out", "", "output .xlsx path (default: input with .xlsx extension)")
	cmd.MarkFlagRequired("input")

	return cmd
}
