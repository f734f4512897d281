// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/refmat-engine/internal/identity"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <term>",
	Short: "Resolve a compound name against the chemical identity service",
	Long: `Resolve normalizes the term, looks it up in the identity service, and
prints the canonical name, synonyms, and property bundle.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.Logger.Sync()

	ident, err := p.Resolver.Resolve(context.Background(), args[0])
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			fmt.Fprintf(os.Stdout, "No identity match for %q.\n", args[0])
			return nil
		}
		return err
	}

	w := os.Stdout
	fmt.Fprintf(w, "Canonical name:  %s\n", ident.CanonicalName)
	if ident.IUPACName != "" {
		fmt.Fprintf(w, "IUPAC name:      %s\n", ident.IUPACName)
	}
	fmt.Fprintf(w, "Formula:         %s\n", ident.Formula)
	fmt.Fprintf(w, "Compound id:     %d\n", ident.CompoundID)
	if ident.SMILES != "" {
		fmt.Fprintf(w, "SMILES:          %s\n", ident.SMILES)
	}
	if ident.InChIKey != "" {
		fmt.Fprintf(w, "InChIKey:        %s\n", ident.InChIKey)
	}
	if ident.MolecularWeight != nil {
		fmt.Fprintf(w, "Mol. weight:     %.4g\n", *ident.MolecularWeight)
	}
	if ident.ExactMass != nil {
		fmt.Fprintf(w, "Exact mass:      %.6g\n", *ident.ExactMass)
	}
	if ident.PolarSurfaceArea != nil {
		fmt.Fprintf(w, "Polar surf. area: %.4g\n", *ident.PolarSurfaceArea)
	}
	if p := ident.Polarity(); p != nil {
		fmt.Fprintf(w, "Polarity:        %.4g\n", *p)
	}
	if len(ident.Synonyms) > 0 {
		fmt.Fprintf(w, "Synonyms:        %s\n", strings.Join(ident.Synonyms, ", "))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
