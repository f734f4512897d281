// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package selection

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/pdiddy/refmat-engine/pkg/types"
)

type mockResolver struct {
	mu    sync.Mutex
	fail  map[string]bool
	calls map[string]int
}

func newMockResolver(fail ...string) *mockResolver {
	m := &mockResolver{fail: make(map[string]bool), calls: make(map[string]int)}
	for _, f := range fail {
		m.fail[f] = true
	}
	return m
}

func (m *mockResolver) Resolve(_ context.Context, term string) (types.ChemicalIdentity, error) {
	m.mu.Lock()
	m.calls[term]++
	m.mu.Unlock()
	if m.fail[term] {
		return types.ChemicalIdentity{}, errors.New("upstream failure")
	}
	return types.ChemicalIdentity{CanonicalName: term, CompoundID: 42}, nil
}

func (m *mockResolver) callCount(term string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[term]
}

func newTestCoordinator(t *testing.T, r Resolver) (*Coordinator, *Store) {
	t.Helper()
	store := NewStore()
	c, err := NewCoordinator(r, store, types.EnrichmentConfig{}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewCoordinator() error = %v", err)
	}
	return c, store
}

func TestApplyAddsWithEnrichment(t *testing.T) {
	c, store := newTestCoordinator(t, newMockResolver())

	err := c.Apply(context.Background(), []types.Analyte{analyte("Cadmium"), analyte("Mercury")})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	snap := store.Snapshot()
	if len(snap.Analytes) != 2 {
		t.Fatalf("len(Analytes) = %d, want 2", len(snap.Analytes))
	}
	if snap.Enrichment[0].CanonicalName != "Cadmium" || snap.Enrichment[1].CanonicalName != "Mercury" {
		t.Errorf("enrichment pairing = %q/%q", snap.Enrichment[0].CanonicalName, snap.Enrichment[1].CanonicalName)
	}
}

func TestApplyPlaceholderOnPartialFailure(t *testing.T) {
	c, store := newTestCoordinator(t, newMockResolver("B"))

	err := c.Apply(context.Background(), []types.Analyte{analyte("A"), analyte("B")})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	snap := store.Snapshot()
	// Both analytes selected; B carries the placeholder at its own index,
	// not a missing or shifted entry.
	if len(snap.Analytes) != 2 || len(snap.Enrichment) != 2 {
		t.Fatalf("lengths = %d/%d, want 2/2", len(snap.Analytes), len(snap.Enrichment))
	}
	if snap.Enrichment[0].IsUnknown() {
		t.Error("A's enrichment should have resolved")
	}
	if !snap.Enrichment[1].IsUnknown() {
		t.Error("B's enrichment should be the placeholder")
	}
	if snap.Enrichment[1].CanonicalName != "B" {
		t.Errorf("placeholder name = %q, want analyte name echoed", snap.Enrichment[1].CanonicalName)
	}
}

func TestApplyRemovesDeselected(t *testing.T) {
	c, store := newTestCoordinator(t, newMockResolver())
	a, b := analyte("A"), analyte("B")

	c.Apply(context.Background(), []types.Analyte{a, b})
	c.Apply(context.Background(), []types.Analyte{b})

	snap := store.Snapshot()
	if len(snap.Analytes) != 1 || snap.Analytes[0].Name != "B" {
		t.Errorf("Analytes = %+v, want only B", snap.Analytes)
	}
}

func TestApplyCacheAvoidsRefetch(t *testing.T) {
	r := newMockResolver()
	c, _ := newTestCoordinator(t, r)
	a := analyte("Cadmium")

	c.Apply(context.Background(), []types.Analyte{a})
	c.Apply(context.Background(), nil) // deselect
	c.Apply(context.Background(), []types.Analyte{a})

	if n := r.callCount("Cadmium"); n != 1 {
		t.Errorf("resolver called %d times, want 1 (cache hit on re-select)", n)
	}
}

func TestApplyFailureNotCached(t *testing.T) {
	r := newMockResolver("Cadmium")
	c, _ := newTestCoordinator(t, r)
	a := analyte("Cadmium")

	c.Apply(context.Background(), []types.Analyte{a})
	c.Apply(context.Background(), nil)
	c.Apply(context.Background(), []types.Analyte{a})

	// A placeholder is not cached; the re-select retries.
	if n := r.callCount("Cadmium"); n != 2 {
		t.Errorf("resolver called %d times, want 2", n)
	}
}

func TestApplyAddDiffIsCaseInsensitive(t *testing.T) {
	r := newMockResolver()
	c, store := newTestCoordinator(t, r)

	c.Apply(context.Background(), []types.Analyte{analyte("cadmium")})
	c.Apply(context.Background(), []types.Analyte{analyte("cadmium"), analyte("CADMIUM")})

	if n := r.callCount("cadmium") + r.callCount("CADMIUM"); n != 1 {
		t.Errorf("resolver calls = %d, want 1 (same analyte under case folding)", n)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}

func TestApplyUnchangedSelectionIsQuiet(t *testing.T) {
	c, store := newTestCoordinator(t, newMockResolver())
	a := analyte("A")

	c.Apply(context.Background(), []types.Analyte{a})

	notifications := 0
	store.Subscribe(func(Snapshot) { notifications++ })
	c.Apply(context.Background(), []types.Analyte{a})

	if notifications != 0 {
		t.Errorf("notifications = %d, want 0 for an unchanged selection", notifications)
	}
}
