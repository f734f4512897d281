// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/refmat-engine/internal/aggregate"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the repository for reference materials by compound name",
	Long: `Search resolves the query against the chemical identity service, fans
repository searches out over the query and every known alias, and prints the
deduplicated material list. When the canonical name differs from the query it
is printed as a "did you mean" suggestion; pass --accept-suggestion to re-run
the search with it.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.Logger.Sync()

	query := args[0]
	out, err := p.Aggregator.Search(context.Background(), query)

	acceptSuggestion, _ := cmd.Flags().GetBool("accept-suggestion")
	if err == nil && acceptSuggestion && out.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "Re-running with suggestion %q\n", out.Suggestion)
		query = out.Suggestion
		out, err = p.Aggregator.Search(context.Background(), query)
	}

	if err != nil {
		if errors.Is(err, aggregate.ErrNoResults) {
			fmt.Fprintln(os.Stdout, err.Error())
			return nil
		}
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		if err := aggregate.FormatJSON(out, os.Stdout); err != nil {
			return err
		}
	} else {
		aggregate.FormatTable(out, os.Stdout)
		if showAnalytes, _ := cmd.Flags().GetBool("analytes"); showAnalytes {
			fmt.Fprintln(os.Stdout)
			aggregate.FormatAnalytes(out, os.Stdout)
		}
	}

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		if err := aggregate.WriteResultFile(output, query, out); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved results to %s\n", output)
	}
	return nil
}

func init() {
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("analytes", false, "also print the flattened analyte list")
	searchCmd.Flags().Bool("accept-suggestion", false, "re-run the search with the canonical name when it differs")
	searchCmd.Flags().String("output", "", "save the run to a YAML result file")

	rootCmd.AddCommand(searchCmd)
}
