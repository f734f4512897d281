// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package identity

import (
	"regexp"
	"strings"
)

// symbolReplacer substitutes special symbols that appear in published
// analyte names with the plain-text equivalents the identity service
// understands. Greek letters are spelled out; numeric superscripts are
// lowered to digits.
var symbolReplacer = strings.NewReplacer(
	"α", "alpha", "Α", "alpha",
	"β", "beta", "Β", "beta",
	"γ", "gamma", "Γ", "gamma",
	"δ", "delta", "Δ", "delta",
	"ε", "epsilon",
	"κ", "kappa",
	"λ", "lambda",
	"μ", "mu", "µ", "mu",
	"ω", "omega", "Ω", "omega",
	"⁰", "0", "¹", "1", "²", "2", "³", "3", "⁴", "4",
	"⁵", "5", "⁶", "6", "⁷", "7", "⁸", "8", "⁹", "9",
	"′", "'", "’", "'",
)

// trailingQualifier matches a parenthetical qualifier at the end of a name,
// e.g. "Lead (total)" or "Chromium (VI)".
var trailingQualifier = regexp.MustCompile(`\s*\([^()]*\)\s*$`)

// NormalizeTerm prepares a free-text name for an identity lookup: special
// symbols are substituted, a trailing parenthetical qualifier is stripped,
// and whitespace runs collapse to single spaces (the URL layer escapes the
// separator for the service).
func NormalizeTerm(term string) string {
	s := symbolReplacer.Replace(term)
	s = trailingQualifier.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}
