// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate turns one user query into a deduplicated material list
// and a provenance-tagged analyte list, tolerating partial upstream failure
// at every stage.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/refmat-engine/pkg/types"
)

// ErrSuperseded is returned when a newer Search call was issued before this
// one finished. The caller discards the result; nothing from the stale batch
// reaches current state.
var ErrSuperseded = errors.New("search superseded by a newer query")

// ErrNoResults is the sentinel matched by errors.Is for both no-result
// conditions. The concrete NoResultsError distinguishes them.
var ErrNoResults = errors.New("no materials found")

// NoResultsError reports an empty aggregate result. IdentityMatched
// distinguishes "the identity service knew the compound but the repository
// has nothing" from "neither service had a match", so the caller can decide
// whether a did-you-mean affordance makes sense.
type NoResultsError struct {
	Query           string
	IdentityMatched bool
	CanonicalName   string
}

func (e *NoResultsError) Error() string {
	if e.IdentityMatched {
		return fmt.Sprintf("no materials for %q or its known synonyms (identity: %q)", e.Query, e.CanonicalName)
	}
	return fmt.Sprintf("no materials and no identity match for %q", e.Query)
}

func (e *NoResultsError) Is(target error) bool { return target == ErrNoResults }

// IdentityResolver resolves a free-text term to a chemical identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, term string) (types.ChemicalIdentity, error)
}

// RepositoryClient searches the reference-material repository and fetches
// material details.
type RepositoryClient interface {
	Search(ctx context.Context, term string) ([]types.MaterialSummary, error)
	FetchDetail(ctx context.Context, summary types.MaterialSummary) (types.MaterialDetail, error)
}

// Output holds one aggregated search run.
type Output struct {
	// Materials is the deduplicated result set, sorted by display name.
	Materials []types.MaterialSummary

	// Analytes is the flattened constituent list, grouped by origin
	// material in discovery order.
	Analytes []types.Analyte

	// Suggestion is the canonical name when it differs from the query
	// (case-insensitive); empty otherwise. It is never applied silently.
	Suggestion string

	// TermErrors records per-term search failures that were skipped.
	TermErrors []string

	// DupsRemoved counts materials discovered via more than one term.
	DupsRemoved int
}

// Aggregator orchestrates the identity resolver and the repository client.
// It is safe for concurrent use; a generation counter suppresses results of
// superseded searches.
type Aggregator struct {
	Identity IdentityResolver
	Repo     RepositoryClient
	Config   types.SearchConfig
	Logger   *zap.Logger

	gen atomic.Uint64
}

// Search expands query into a term set via the identity service, fans out
// repository searches over the terms, deduplicates by material id, fetches
// each unique material's detail, and flattens the analytes with provenance.
// Identity failure is never fatal; per-term and per-material failures are
// logged and skipped. Only whole-batch emptiness is reported, as a
// NoResultsError.
func (a *Aggregator) Search(ctx context.Context, query string) (Output, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Output{}, fmt.Errorf("query is empty: provide a material or compound name")
	}

	gen := a.gen.Add(1)

	terms, ident, identityMatched := a.expandTerms(ctx, query)

	summaries, termErrors, dups, err := a.searchTerms(ctx, gen, terms)
	if err != nil {
		return Output{}, err
	}

	if len(summaries) == 0 {
		return Output{}, &NoResultsError{
			Query:           query,
			IdentityMatched: identityMatched,
			CanonicalName:   ident.CanonicalName,
		}
	}

	analytes, err := a.fetchAnalytes(ctx, gen, summaries)
	if err != nil {
		return Output{}, err
	}

	materials := make([]types.MaterialSummary, len(summaries))
	copy(materials, summaries)
	sort.SliceStable(materials, func(i, j int) bool {
		if materials[i].DisplayName != materials[j].DisplayName {
			return materials[i].DisplayName < materials[j].DisplayName
		}
		return materials[i].ID < materials[j].ID
	})
	if a.Config.MaxMaterials > 0 && len(materials) > a.Config.MaxMaterials {
		materials = materials[:a.Config.MaxMaterials]
	}

	var suggestion string
	if identityMatched && !strings.EqualFold(ident.CanonicalName, query) {
		suggestion = ident.CanonicalName
	}

	return Output{
		Materials:   materials,
		Analytes:    analytes,
		Suggestion:  suggestion,
		TermErrors:  termErrors,
		DupsRemoved: dups,
	}, nil
}

// stale reports whether a newer search has claimed the generation counter.
func (a *Aggregator) stale(gen uint64) bool {
	return a.gen.Load() != gen
}

// expandTerms builds the search term set: the literal query plus the
// canonical name and synonyms. Any identity failure leaves the set at the
// query alone.
func (a *Aggregator) expandTerms(ctx context.Context, query string) ([]string, types.ChemicalIdentity, bool) {
	terms := []string{query}
	seen := map[string]bool{strings.ToLower(query): true}

	ident, err := a.Identity.Resolve(ctx, query)
	if err != nil {
		a.Logger.Warn("identity resolution failed, searching literal term only",
			zap.String("query", query), zap.Error(err))
		return terms, types.ChemicalIdentity{}, false
	}

	for _, t := range append([]string{ident.CanonicalName}, ident.Synonyms...) {
		t = strings.TrimSpace(t)
		if t == "" || seen[strings.ToLower(t)] {
			continue
		}
		seen[strings.ToLower(t)] = true
		terms = append(terms, t)
	}
	return terms, ident, true
}

// searchTerms fans the repository search out over terms and merges the
// results into a set keyed by material id. Results are collected
// positionally and merged in term order, so which search finishes first
// never affects the merged set or its discovery order; per-term failures
// are collected, not propagated.
func (a *Aggregator) searchTerms(ctx context.Context, gen uint64, terms []string) ([]types.MaterialSummary, []string, int, error) {
	type termResult struct {
		summaries []types.MaterialSummary
		err       error
	}

	results := make([]termResult, len(terms))
	var wg sync.WaitGroup

	for i, term := range terms {
		if i > 0 && a.Config.InterTermDelay > 0 {
			time.Sleep(a.Config.InterTermDelay)
		}
		wg.Add(1)
		go func(i int, term string) {
			defer wg.Done()
			summaries, err := a.Repo.Search(ctx, term)
			results[i] = termResult{summaries: summaries, err: err}
		}(i, term)
	}
	wg.Wait()

	byID := make(map[string]bool)
	var merged []types.MaterialSummary
	var termErrors []string
	dups := 0
	for i, tr := range results {
		if tr.err != nil {
			termErrors = append(termErrors, fmt.Sprintf("%s: %v", terms[i], tr.err))
			a.Logger.Warn("term search failed", zap.String("term", terms[i]), zap.Error(tr.err))
			continue
		}
		for _, s := range tr.summaries {
			if byID[s.ID] {
				dups++
				continue
			}
			byID[s.ID] = true
			merged = append(merged, s)
		}
	}

	if a.stale(gen) {
		return nil, nil, 0, ErrSuperseded
	}
	return merged, termErrors, dups, nil
}

// fetchAnalytes fetches details for the unique materials in parallel and
// flattens their analytes, stamped with origin provenance. Per-material
// failures are logged and skipped. Results are collected positionally so
// the flattened list groups analytes by material in the order the
// materials were discovered, regardless of which fetch finishes first.
func (a *Aggregator) fetchAnalytes(ctx context.Context, gen uint64, summaries []types.MaterialSummary) ([]types.Analyte, error) {
	details := make([]*types.MaterialDetail, len(summaries))
	var wg sync.WaitGroup

	for i, s := range summaries {
		wg.Add(1)
		go func(i int, s types.MaterialSummary) {
			defer wg.Done()
			detail, err := a.Repo.FetchDetail(ctx, s)
			if err != nil {
				a.Logger.Warn("detail fetch failed, skipping material",
					zap.String("material_id", s.ID), zap.Error(err))
				return
			}
			details[i] = &detail
		}(i, s)
	}
	wg.Wait()

	var analytes []types.Analyte
	for i, detail := range details {
		if detail == nil {
			continue
		}
		origin := detail.Title
		if origin == "" {
			origin = summaries[i].DisplayName
		}
		for _, an := range detail.Analytes {
			an.OriginMaterialName = origin
			an.OriginMaterialType = detail.MaterialType
			analytes = append(analytes, an)
		}
	}

	if a.stale(gen) {
		return nil, ErrSuperseded
	}
	return analytes, nil
}
