// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// FormatTable writes the material list as a human-readable table to w.
func FormatTable(out Output, w io.Writer) {
	if len(out.Materials) == 0 {
		fmt.Fprintln(w, "No materials found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-18s  %-60s\n", "Rank", "Name", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 86))

	for i, m := range out.Materials {
		fmt.Fprintf(w, "%-4d  %-18s  %-60s\n", i+1,
			truncate(m.DisplayName, 18), truncate(m.SearchableName, 60))
	}

	fmt.Fprintf(w, "\n%d materials, %d analytes", len(out.Materials), len(out.Analytes))
	if out.DupsRemoved > 0 {
		fmt.Fprintf(w, " (%d duplicates removed)", out.DupsRemoved)
	}
	fmt.Fprintln(w)

	if out.Suggestion != "" {
		fmt.Fprintf(w, "Did you mean: %s\n", out.Suggestion)
	}
	for _, e := range out.TermErrors {
		fmt.Fprintf(w, "warning: term search failed: %s\n", e)
	}
}

// FormatAnalytes writes the flattened analyte list to w, grouped the way it
// arrived (one origin material at a time).
func FormatAnalytes(out Output, w io.Writer) {
	if len(out.Analytes) == 0 {
		fmt.Fprintln(w, "No analyte data published.")
		return
	}

	fmt.Fprintf(w, "%-28s  %-10s  %-12s  %-10s  %-24s\n",
		"Analyte", "Value", "Uncertainty", "Unit", "Material")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, a := range out.Analytes {
		fmt.Fprintf(w, "%-28s  %-10s  %-12s  %-10s  %-24s\n",
			truncate(a.Name, 28), truncate(a.Value, 10), truncate(a.Uncertainty, 12),
			truncate(a.Unit, 10), truncate(a.OriginMaterialName, 24))
	}
	fmt.Fprintf(w, "\n%d analytes\n", len(out.Analytes))
}

// FormatJSON writes the aggregated output as indented JSON to w.
func FormatJSON(out Output, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// truncate shortens s to max display characters, counting runes so that
// multi-byte analyte names (Greek letters, superscripts) are never cut
// mid-character.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
