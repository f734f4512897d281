// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the refmat-engine pipeline.
package types

import (
	"math"
	"strconv"
	"strings"
)

// MaterialSummary is one reference material returned by a repository search.
// Summaries are immutable once created; ID is the repository-assigned
// identity key used for cross-term deduplication.
type MaterialSummary struct {
	// ID is the repository identifier (a URN-style string).
	ID string `json:"id" yaml:"id"`

	// DisplayName is the short name shown to the user (the feed title up to
	// the first colon).
	DisplayName string `json:"display_name" yaml:"display_name"`

	// SearchableName is the full feed title, retained for matching.
	SearchableName string `json:"searchable_name" yaml:"searchable_name"`

	// AbstractText is the feed entry summary.
	AbstractText string `json:"abstract_text" yaml:"abstract_text"`
}

// MaterialDetail is the full record behind a MaterialSummary. Details are
// fetched lazily per summary and are not cached; a re-fetch is acceptable.
type MaterialDetail struct {
	Title           string    `json:"title" yaml:"title"`
	AbstractText    string    `json:"abstract_text" yaml:"abstract_text"`
	MaterialType    string    `json:"material_type" yaml:"material_type"`
	DOI             string    `json:"doi,omitempty" yaml:"doi,omitempty"`
	PublicationDate string    `json:"publication_date,omitempty" yaml:"publication_date,omitempty"`
	Analytes        []Analyte `json:"analytes" yaml:"analytes"`
}

// Analyte is one measured constituent of a reference material. Value fields
// are opaque strings as published by the repository; NumericValue provides a
// derived, non-authoritative ordering view.
type Analyte struct {
	Name        string `json:"name" yaml:"name"`
	Quantity    string `json:"quantity" yaml:"quantity"`
	Value       string `json:"value" yaml:"value"`
	Uncertainty string `json:"uncertainty" yaml:"uncertainty"`
	Unit        string `json:"unit" yaml:"unit"`
	Category    string `json:"category" yaml:"category"`

	// OriginMaterialName and OriginMaterialType record which material the
	// analyte was flattened out of during aggregation.
	OriginMaterialName string `json:"origin_material_name,omitempty" yaml:"origin_material_name,omitempty"`
	OriginMaterialType string `json:"origin_material_type,omitempty" yaml:"origin_material_type,omitempty"`
}

// SameAnalyte reports whether two analytes refer to the same constituent.
// Names are compared case-insensitively. This is the dedup contract for
// search-time flattening and for selection adds.
func SameAnalyte(a, b Analyte) bool {
	return strings.EqualFold(a.Name, b.Name)
}

// SameSelectedEntry reports whether two analytes are the same selected
// record, by structural equality of the whole value. This is the removal
// contract for the selection store.
func SameSelectedEntry(a, b Analyte) bool {
	return a == b
}

// valueQualifiers are prefixes that qualify a published value without
// changing its magnitude for ordering purposes.
var valueQualifiers = []string{"<", ">", "≤", "≥", "+", "~", "≈"}

// NumericValue parses the analyte value for sorting. Qualifier prefixes are
// stripped first; anything unparseable maps to -Inf so unparsed values sink
// to the bottom of a descending sort. It never fails.
func (a Analyte) NumericValue() float64 {
	s := strings.TrimSpace(a.Value)
	for _, q := range valueQualifiers {
		s = strings.TrimPrefix(s, q)
	}
	s = strings.TrimSpace(s)
	// European decimal comma shows up in older records.
	s = strings.ReplaceAll(s, ",", ".")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.Inf(-1)
	}
	return v
}
