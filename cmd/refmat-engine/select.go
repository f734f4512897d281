// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/refmat-engine/internal/selection"
	"github.com/pdiddy/refmat-engine/pkg/types"
)

var selectCmd = &cobra.Command{
	Use:   "select <query>",
	Short: "Search, select analytes by name, and print their enrichment",
	Long: `Select runs the aggregation pipeline for the query, picks the analytes
named with --pick out of the flattened list (case-insensitive), enriches them
through the identity service, and prints the resulting selection table.
Analytes whose enrichment fails stay selected with a placeholder identity.`,
	Args: cobra.ExactArgs(1),
	RunE: runSelect,
}

func runSelect(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.Logger.Sync()

	picks, _ := cmd.Flags().GetStringSlice("pick")
	if len(picks) == 0 {
		return fmt.Errorf("no analytes picked: pass --pick with one or more analyte names")
	}

	out, err := p.Aggregator.Search(context.Background(), args[0])
	if err != nil {
		return err
	}

	wanted := make(map[string]bool, len(picks))
	for _, name := range picks {
		wanted[strings.ToLower(strings.TrimSpace(name))] = true
	}
	var picked []types.Analyte
	for _, a := range out.Analytes {
		if wanted[strings.ToLower(a.Name)] {
			picked = append(picked, a)
		}
	}
	if len(picked) == 0 {
		return fmt.Errorf("none of the picked names appear in the %d analytes found", len(out.Analytes))
	}

	store := selection.NewStore()
	coord, err := selection.NewCoordinator(p.Resolver, store, p.Config.Enrichment, p.Logger)
	if err != nil {
		return err
	}
	if err := coord.Apply(context.Background(), picked); err != nil {
		return err
	}

	printSelection(store.Snapshot())
	return nil
}

func printSelection(snap selection.Snapshot) {
	w := os.Stdout
	fmt.Fprintf(w, "%-24s  %-10s  %-24s  %-12s  %-10s\n",
		"Analyte", "Value", "Canonical name", "Formula", "Weight")
	fmt.Fprintln(w, strings.Repeat("-", 88))

	for i, a := range snap.Analytes {
		ident := snap.Enrichment[i]
		canonical := ident.CanonicalName
		if ident.IsUnknown() {
			canonical = "(unresolved)"
		}
		weight := ""
		if ident.MolecularWeight != nil {
			weight = fmt.Sprintf("%.4g", *ident.MolecularWeight)
		}
		fmt.Fprintf(w, "%-24s  %-10s  %-24s  %-12s  %-10s\n",
			a.Name, a.Value, canonical, ident.Formula, weight)
	}
	fmt.Fprintf(w, "\n%d analytes selected\n", len(snap.Analytes))
}

func init() {
	selectCmd.Flags().StringSlice("pick", nil, "analyte names to select (repeat or comma-separate)")

	rootCmd.AddCommand(selectCmd)
}
