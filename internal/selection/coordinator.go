// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package selection

import (
	"context"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/pdiddy/refmat-engine/pkg/types"
)

const defaultCacheSize = 256

// Resolver resolves an analyte name to a chemical identity.
type Resolver interface {
	Resolve(ctx context.Context, term string) (types.ChemicalIdentity, error)
}

// Coordinator bridges selection-change events to the store. It resolves
// newly selected analytes in parallel, substitutes a placeholder identity
// when a resolution fails, and caches resolved identities so re-selecting
// an analyte does not re-hit the identity service.
type Coordinator struct {
	Resolver Resolver
	Store    *Store
	Logger   *zap.Logger

	cache *lru.Cache[string, types.ChemicalIdentity]

	mu       sync.Mutex
	previous []types.Analyte
}

// NewCoordinator wires a coordinator to a store and a resolver.
func NewCoordinator(resolver Resolver, store *Store, cfg types.EnrichmentConfig, logger *zap.Logger) (*Coordinator, error) {
	size := cfg.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, types.ChemicalIdentity](size)
	if err != nil {
		return nil, err
	}
	return &Coordinator{
		Resolver: resolver,
		Store:    store,
		Logger:   logger,
		cache:    cache,
	}, nil
}

// Apply reconciles the store with a new selection. Additions are diffed by
// name (case-insensitive), removals structurally, matching the store's own
// contracts. Removal is applied immediately; additions are applied in one
// Add call once every parallel resolution has completed or substituted a
// placeholder. A failed resolution never drops the selection.
func (c *Coordinator) Apply(ctx context.Context, newSelection []types.Analyte) error {
	added, removed := c.diff(newSelection)

	// Removal is not gated on enrichment completion.
	if len(removed) > 0 {
		c.Store.Remove(removed)
	}
	if len(added) == 0 {
		return nil
	}

	identities := c.resolveAll(ctx, added)
	return c.Store.Add(added, identities)
}

// diff computes added and removed relative to the previously applied
// selection and records newSelection as the new baseline.
func (c *Coordinator) diff(newSelection []types.Analyte) (added, removed []types.Analyte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, a := range newSelection {
		if !containsName(c.previous, a) && !containsName(added, a) {
			added = append(added, a)
		}
	}
	for _, p := range c.previous {
		if !containsEntry(newSelection, p) {
			removed = append(removed, p)
		}
	}
	c.previous = append([]types.Analyte(nil), newSelection...)
	return added, removed
}

// resolveAll resolves the analytes in parallel, keeping results positionally
// aligned with the input. Cache hits skip the network; failures substitute
// the unknown-identity placeholder.
func (c *Coordinator) resolveAll(ctx context.Context, analytes []types.Analyte) []types.ChemicalIdentity {
	identities := make([]types.ChemicalIdentity, len(analytes))
	var wg sync.WaitGroup

	for i, a := range analytes {
		if ident, ok := c.cache.Get(cacheKey(a.Name)); ok {
			identities[i] = ident
			continue
		}
		wg.Add(1)
		go func(i int, a types.Analyte) {
			defer wg.Done()
			ident, err := c.Resolver.Resolve(ctx, a.Name)
			if err != nil {
				c.Logger.Warn("enrichment failed, selecting with placeholder identity",
					zap.String("analyte", a.Name), zap.Error(err))
				identities[i] = types.UnknownIdentity(a.Name)
				return
			}
			c.cache.Add(cacheKey(a.Name), ident)
			identities[i] = ident
		}(i, a)
	}

	wg.Wait()
	return identities
}

func cacheKey(name string) string { return strings.ToLower(name) }

func containsName(list []types.Analyte, a types.Analyte) bool {
	for _, cur := range list {
		if types.SameAnalyte(cur, a) {
			return true
		}
	}
	return false
}

func containsEntry(list []types.Analyte, a types.Analyte) bool {
	for _, cur := range list {
		if types.SameSelectedEntry(cur, a) {
			return true
		}
	}
	return false
}
