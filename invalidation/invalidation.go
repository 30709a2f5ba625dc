// Package invalidation translates DOM/stylesheet deltas into bundle
// eviction sets (§4.6, §4.7). It is deliberately conservative: it is free
// to over-invalidate but must never under-invalidate.
package invalidation

import "sync"

// Kind classifies what changed.
type Kind uint8

const (
	AttributeChange Kind = iota
	ClassChange
	ElementInserted
	ElementRemoved
)

// Invalidation names one DOM delta.
type Invalidation struct {
	Kind      Kind
	ElementID string
}

// DescendantsOf and NextSiblingsOf are supplied by the caller (the engine,
// which alone knows the element tree) so this package stays tree-agnostic.
type TreeContext struct {
	DescendantsOf  func(elementID string) []string
	NextSiblingsOf func(elementID string) []string
}

// EvictionSet is the set of element ids whose cached bundle must be
// dropped in response to one invalidation.
type EvictionSet map[string]bool

// Translate computes the eviction set for inv: the element itself always;
// its descendants (a descendant-sensitive selector may depend on the
// changed state, and precise selector-dependency tracking is out of scope
// per §4.6, so every descendant is included); its next-siblings (an
// adjacent-sibling selector may depend on it).
func Translate(inv Invalidation, tc TreeContext) EvictionSet {
	set := EvictionSet{inv.ElementID: true}
	if tc.DescendantsOf != nil {
		for _, id := range tc.DescendantsOf(inv.ElementID) {
			set[id] = true
		}
	}
	if tc.NextSiblingsOf != nil {
		for _, id := range tc.NextSiblingsOf(inv.ElementID) {
			set[id] = true
		}
	}
	return set
}

// Tracker accumulates pending invalidations: record() appends, drain()
// returns and clears. It is idempotent under duplicate records (a repeated
// identical Invalidation value produces the same eviction set, applying it
// twice has the same effect as once) and commutative under interleaving
// (the final drained set does not depend on record order, since it is
// computed fresh from the accumulated set of distinct invalidations).
type Tracker struct {
	mu      sync.Mutex
	pending []Invalidation
	seen    map[Invalidation]bool
}

// NewTracker creates an empty invalidation tracker.
func NewTracker() *Tracker {
	return &Tracker{seen: make(map[Invalidation]bool)}
}

// Record appends inv to the pending history. A duplicate of an
// already-pending invalidation is a no-op.
func (t *Tracker) Record(inv Invalidation) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.seen[inv] {
		return
	}
	t.seen[inv] = true
	t.pending = append(t.pending, inv)
}

// Drain returns every pending invalidation and clears the tracker.
func (t *Tracker) Drain() []Invalidation {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.pending
	t.pending = nil
	t.seen = make(map[Invalidation]bool)
	return out
}

// DirtyElements returns the set of element ids named by any pending
// invalidation, without draining.
func (t *Tracker) DirtyElements() map[string]bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]bool, len(t.pending))
	for _, inv := range t.pending {
		out[inv.ElementID] = true
	}
	return out
}
