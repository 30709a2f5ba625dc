// Package cssom is the CSS Object Model: a registry of parsed stylesheets
// keyed by an opaque id, each holding a flat list of cascade.Rule ready for
// matching. Its shape — a store guarded against concurrent access, origin
// tagged at registration time — follows the teacher's dom/style/cssom.CSSOM,
// generalized from cascadia direct-matching to the specification's own
// selector/cascade pipeline.
package cssom

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/npillmayer/schuko/tracing"

	"stylo/cascade"
	"stylo/cssom/douceuradapter"
)

func tracer() tracing.Trace {
	return tracing.Select("stylo.cssom")
}

// SheetID identifies a registered stylesheet.
type SheetID uint64

// Sheet is a parsed stylesheet: an origin-tagged, source-ordered list of
// rules ready for matching against elements.
type Sheet struct {
	ID     SheetID
	Origin cascade.Origin
	Rules  []cascade.Rule
	URL    string
}

// Store holds every registered stylesheet. It is safe for concurrent reads;
// registration is expected to be single-writer, per §5.
type Store struct {
	mu        sync.RWMutex
	sheets    map[SheetID]*Sheet
	nextID    uint64
	sourceN   uint32
	selectors *CompiledSelectorCache
}

// NewStore creates an empty stylesheet store.
func NewStore() *Store {
	return &Store{sheets: make(map[SheetID]*Sheet), selectors: NewCompiledSelectorCache()}
}

// ParseStylesheet parses source as CSS text at the given origin and
// registers it, returning its id. Malformed individual rules are skipped
// with a logged warning (§7); a structurally invalid stylesheet (the
// parser cannot tokenize it at all) returns a *douceuradapter.ParseError.
// Every selector accepted by this module's own parser is also run through
// CompiledSelectorCache as a cascadia parity cross-check; a selector
// cascadia cannot compile is logged but never rejects the rule, since
// cascadia is a second opinion at the ingestion boundary, not the matcher
// of record.
func (st *Store) ParseStylesheet(source string, origin cascade.Origin, url string) (SheetID, error) {
	rules, err := douceuradapter.ParseRules(source, origin, st.nextSourceOrder, st.crossCheckSelector)
	if err != nil {
		return 0, err
	}
	id := SheetID(atomic.AddUint64(&st.nextID, 1))
	st.mu.Lock()
	st.sheets[id] = &Sheet{ID: id, Origin: origin, Rules: rules, URL: url}
	st.mu.Unlock()
	tracer().Debugf("registered stylesheet %d (%d rules, origin=%d)", id, len(rules), origin)
	return id, nil
}

// crossCheckSelector compiles selectorText with cascadia, logging a
// diagnostic when cascadia rejects selector text stylo's own parser
// accepted (or vice versa would be worth knowing, but cascadia.Compile
// gives no signal short of a successful match to detect that half).
func (st *Store) crossCheckSelector(selectorText string) {
	if _, err := st.selectors.Compile(selectorText); err != nil {
		tracer().Debugf("cascadia parity check: could not compile selector %q: %v", selectorText, err)
	}
}

// CompiledSelectorCount returns the number of distinct selectors the
// cascadia parity cache has successfully compiled so far, for introspection
// and tests.
func (st *Store) CompiledSelectorCount() int {
	return st.selectors.Size()
}

func (st *Store) nextSourceOrder() uint32 {
	return atomic.AddUint32(&st.sourceN, 1) - 1
}

// Get returns the sheet for id.
func (st *Store) Get(id SheetID) (*Sheet, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sheets[id]
	return s, ok
}

// Remove evicts a stylesheet from the store.
func (st *Store) Remove(id SheetID) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sheets, id)
}

// Count returns the number of registered stylesheets.
func (st *Store) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sheets)
}

// AllRules returns every rule across every registered stylesheet, the input
// the matcher filters down to the applicable set for one element. Pointers
// index directly into each Sheet's own Rules slice (stable for the
// sheet's lifetime) rather than copies, so two calls return the same
// *cascade.Rule identity for the same underlying rule — the property the
// rule tree (package ruletree) depends on to let two elements matching the
// same rule land on the same trie node.
func (st *Store) AllRules() []*cascade.Rule {
	st.mu.RLock()
	defer st.mu.RUnlock()
	var all []*cascade.Rule
	for _, s := range st.sheets {
		for i := range s.Rules {
			all = append(all, &s.Rules[i])
		}
	}
	return all
}

// InlineRule builds a synthetic author-origin rule for set_inline_style:
// its selector list is empty (it is never matched by selector, only
// attached directly to its host element by the caller) and its
// specificity, once a cascade.ApplicableRule is built from it by the
// caller, should use value.InlineSpecificity.
func InlineRule(source string, sourceOrder uint32) (cascade.Rule, error) {
	decls, err := douceuradapter.ParseInlineDeclarations(source)
	if err != nil {
		return cascade.Rule{}, fmt.Errorf("parsing inline style: %w", err)
	}
	return cascade.Rule{Declarations: decls, Origin: cascade.Author, SourceOrder: sourceOrder}, nil
}
