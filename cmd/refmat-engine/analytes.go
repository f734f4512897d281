// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/refmat-engine/pkg/types"
)

var analytesCmd = &cobra.Command{
	Use:   "analytes <material-id>",
	Short: "Fetch and print the certified analytes of one material",
	Long: `Analytes fetches the detail record for a material id (the urn:rm:
identifier from a search) and prints its analyte table. With --sort-value the
rows are ordered by numeric value, highest first; unparseable values sort
last.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalytes,
}

func runAnalytes(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.Logger.Sync()

	summary := types.MaterialSummary{ID: args[0]}
	detail, err := p.Repo.FetchDetail(context.Background(), summary)
	if err != nil {
		return err
	}

	w := os.Stdout
	fmt.Fprintf(w, "%s\n", detail.Title)
	if detail.MaterialType != "" {
		fmt.Fprintf(w, "Type: %s\n", detail.MaterialType)
	}
	if detail.DOI != "" {
		fmt.Fprintf(w, "DOI:  %s\n", detail.DOI)
	}
	fmt.Fprintln(w)

	if len(detail.Analytes) == 0 {
		fmt.Fprintln(w, "No analyte data published.")
		return nil
	}

	analytes := detail.Analytes
	if byValue, _ := cmd.Flags().GetBool("sort-value"); byValue {
		analytes = append([]types.Analyte(nil), analytes...)
		sort.SliceStable(analytes, func(i, j int) bool {
			return analytes[i].NumericValue() > analytes[j].NumericValue()
		})
	}

	fmt.Fprintf(w, "%-28s  %-10s  %-12s  %-10s  %-12s\n",
		"Analyte", "Value", "Uncertainty", "Unit", "Category")
	fmt.Fprintln(w, strings.Repeat("-", 78))
	for _, a := range analytes {
		fmt.Fprintf(w, "%-28s  %-10s  %-12s  %-10s  %-12s\n",
			a.Name, a.Value, a.Uncertainty, a.Unit, a.Category)
	}
	return nil
}

func init() {
	analytesCmd.Flags().Bool("sort-value", false, "order analytes by numeric value, highest first")

	rootCmd.AddCommand(analytesCmd)
}
