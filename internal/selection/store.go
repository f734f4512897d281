// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selection holds the user's cross-screen analyte selection and its
// enrichment data, and bridges selection events to the identity service.
package selection

import (
	"errors"
	"sync"

	"github.com/pdiddy/refmat-engine/pkg/types"
)

// ErrInconsistent reports a violated pairing invariant. It indicates a
// defect in the caller, never a user-facing condition.
var ErrInconsistent = errors.New("selection: analytes and identities must be paired")

// Snapshot is an immutable view of the selection. The two slices are always
// the same length: Enrichment[i] belongs to Analytes[i].
type Snapshot struct {
	Analytes   []types.Analyte
	Enrichment []types.ChemicalIdentity
}

// Observer receives a snapshot after every effective mutation.
type Observer func(Snapshot)

// Store is the process-wide selection state. It is created at application
// start and lives for the process; all mutation goes through Add, Remove,
// and Clear, each of which is atomic relative to observers.
type Store struct {
	mu         sync.Mutex
	analytes   []types.Analyte
	enrichment []types.ChemicalIdentity
	observers  map[int]Observer
	nextObsID  int
}

// NewStore returns an empty selection store.
func NewStore() *Store {
	return &Store{observers: make(map[int]Observer)}
}

// Add appends each analyte/identity pair whose analyte name is not already
// selected (case-insensitive). Re-adding a selected analyte is a silent
// no-op. The two inputs must be positionally paired; a length mismatch is
// ErrInconsistent. Observers are notified only if something was appended.
func (s *Store) Add(analytes []types.Analyte, identities []types.ChemicalIdentity) error {
	if len(analytes) != len(identities) {
		return ErrInconsistent
	}

	s.mu.Lock()
	appended := 0
	for i, a := range analytes {
		if s.indexByName(a) >= 0 {
			continue
		}
		s.analytes = append(s.analytes, a)
		s.enrichment = append(s.enrichment, identities[i])
		appended++
	}
	snap, observers := s.snapshotLocked(appended > 0)
	s.mu.Unlock()

	notify(observers, snap)
	return nil
}

// Remove deletes each analyte that matches a selected entry structurally,
// together with its index-aligned identity. Unknown analytes are ignored.
// Observers are notified only if something was removed.
func (s *Store) Remove(analytes []types.Analyte) {
	s.mu.Lock()
	removed := 0
	for _, a := range analytes {
		idx := -1
		for i, cur := range s.analytes {
			if types.SameSelectedEntry(cur, a) {
				idx = i
				break
			}
		}
		if idx < 0 {
			continue
		}
		s.analytes = append(s.analytes[:idx], s.analytes[idx+1:]...)
		s.enrichment = append(s.enrichment[:idx], s.enrichment[idx+1:]...)
		removed++
	}
	snap, observers := s.snapshotLocked(removed > 0)
	s.mu.Unlock()

	notify(observers, snap)
}

// Clear empties the selection unconditionally and notifies observers.
func (s *Store) Clear() {
	s.mu.Lock()
	s.analytes = nil
	s.enrichment = nil
	snap, observers := s.snapshotLocked(true)
	s.mu.Unlock()

	notify(observers, snap)
}

// Snapshot returns a copy of the current selection.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Analytes:   append([]types.Analyte(nil), s.analytes...),
		Enrichment: append([]types.ChemicalIdentity(nil), s.enrichment...),
	}
}

// Len returns the number of selected analytes.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.analytes)
}

// Subscribe registers an observer and returns its unsubscribe function.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// indexByName returns the index of the selected analyte with the same name
// (case-insensitive), or -1. Caller holds the mutex.
func (s *Store) indexByName(a types.Analyte) int {
	for i, cur := range s.analytes {
		if types.SameAnalyte(cur, a) {
			return i
		}
	}
	return -1
}

// snapshotLocked copies the state and observer list for notification
// outside the lock. A nil observer list means no notification is due.
// Caller holds the mutex.
func (s *Store) snapshotLocked(changed bool) (Snapshot, []Observer) {
	if !changed || len(s.observers) == 0 {
		return Snapshot{}, nil
	}
	snap := Snapshot{
		Analytes:   append([]types.Analyte(nil), s.analytes...),
		Enrichment: append([]types.ChemicalIdentity(nil), s.enrichment...),
	}
	observers := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	return snap, observers
}

// notify delivers the snapshot outside the store lock so observers can call
// back into the store.
func notify(observers []Observer, snap Snapshot) {
	for _, fn := range observers {
		fn(snap)
	}
}
