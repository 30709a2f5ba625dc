// Package engine is the public façade named in §6: parse_stylesheet,
// set_inline_style, compute_styles, get_computed_style, invalidate_styles,
// and the introspection trio. It wires together selector, matcher,
// cascade, mediaquery, customprop, stylist, cache, ruletree, invalidation,
// and styledtree, the way the teacher's dom/style/cssom.CSSOM.Style wires
// its own rules tree, property groups, and tree.Walker into one call.
package engine

import (
	"errors"
	"fmt"
	"hash/fnv"
	"sort"
	"sync"

	"stylo/cache"
	"stylo/cascade"
	"stylo/cssom"
	"stylo/cssom/douceuradapter"
	"stylo/customprop"
	"stylo/domiface"
	"stylo/invalidation"
	"stylo/matcher"
	"stylo/mediaquery"
	"stylo/ruletree"
	"stylo/selector"
	"stylo/stylist"
	"stylo/styledtree"
	"stylo/treewalk"
	"stylo/value"
)

// Error taxonomy (§6/§7). Each is a sentinel checked with errors.Is;
// ParseError additionally carries the line/column/message triple the
// boundary promises for parse-time failures.
var (
	ErrInvalidSelector     = errors.New("engine: invalid selector")
	ErrUnsupportedProperty = errors.New("engine: unsupported property")
	ErrInvalidValue        = errors.New("engine: invalid value")
	ErrCircularReference   = errors.New("engine: circular var() reference")
	ErrComputationError    = errors.New("engine: computation error")
	ErrElementNotFound     = errors.New("engine: element not found")
	ErrStylesheetNotFound  = errors.New("engine: stylesheet not found")
	ErrOutOfMemory         = errors.New("engine: out of memory")
)

// ParseError reports a structural stylesheet parse failure at a line and
// column, per §7. It wraps the underlying parser error so callers can
// still unwrap to the douceur/selector-level cause.
type ParseError struct {
	Line, Column int
	Message      string
	Err          error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Engine is the stylo façade: the single entry point an embedding host
// drives from parsed CSS plus a DOM-like element tree to computed style
// bundles. An Engine is not safe for concurrent mutation from multiple
// goroutines beyond what §5 allows (single writer per resolution pass);
// its internal maps are still mutex-guarded defensively, mirroring the
// teacher's rulesTreeType.
type Engine struct {
	cfg Config

	mu       sync.Mutex
	sheets   *cssom.Store
	cache    *cache.Cache
	sharing  *cache.Sharing
	ruleRoot *ruletree.Node

	inlineStyles map[string][]value.Declaration // elementID -> declarations
	bundles      map[string]*stylist.ComputedBundle
	nodes        map[string]domiface.Element

	invalidations *invalidation.Tracker

	visitedURLs map[string]bool
	targetID    string

	nextInlineOrder uint32

	// inlineMarkerRule is a single sentinel shared by every inline-style
	// rule key so repeated resolutions of the same element reuse the same
	// rule-tree branch instead of growing a fresh one per call.
	inlineMarkerRule *cascade.Rule
}

// New builds an Engine from the given options, applying defaultConfig()
// first. A non-empty Config.UserAgentCSS is registered immediately at
// UserAgent origin.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	e := &Engine{
		cfg:           cfg,
		sheets:        cssom.NewStore(),
		cache:         cache.New(),
		sharing:       cache.NewSharing(),
		ruleRoot:      ruletree.NewRoot(),
		inlineStyles:  make(map[string][]value.Declaration),
		bundles:       make(map[string]*stylist.ComputedBundle),
		nodes:         make(map[string]domiface.Element),
		invalidations: invalidation.NewTracker(),
		visitedURLs:   make(map[string]bool),
	}
	e.inlineMarkerRule = &cascade.Rule{SourceOrder: ^uint32(0), Origin: cascade.Author}
	if cfg.UserAgentCSS != "" {
		if _, err := e.ParseStylesheet(cfg.UserAgentCSS, cascade.UserAgent, ""); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// ParseStylesheet registers source as a new stylesheet at the given origin,
// returning its id. A structurally invalid stylesheet (one douceur cannot
// tokenize at all) returns a *ParseError; an individual malformed rule
// inside an otherwise-valid stylesheet is skipped per §7 and does not
// surface here.
func (e *Engine) ParseStylesheet(source string, origin cascade.Origin, sourceURL string) (cssom.SheetID, error) {
	if source == "" {
		return 0, &ParseError{Line: 1, Column: 1, Message: "empty stylesheet source"}
	}
	id, err := e.sheets.ParseStylesheet(source, origin, sourceURL)
	if err != nil {
		if pe, ok := err.(*douceuradapter.ParseError); ok {
			return 0, &ParseError{Line: pe.Line, Column: pe.Column, Message: pe.Message, Err: err}
		}
		return 0, &ParseError{Line: 1, Column: 1, Message: err.Error(), Err: err}
	}
	return id, nil
}

// SetInlineStyle installs an ad-hoc declaration block for elementID at
// author origin with a specificity higher than any selector-based rule
// (value.InlineSpecificity), per §6.
func (e *Engine) SetInlineStyle(elementID, source string) error {
	e.mu.Lock()
	order := e.nextInlineOrder
	e.nextInlineOrder++
	e.mu.Unlock()
	rule, err := cssom.InlineRule(source, order)
	if err != nil {
		return &ParseError{Line: 1, Column: 1, Message: err.Error(), Err: err}
	}
	e.mu.Lock()
	e.inlineStyles[elementID] = rule.Declarations
	delete(e.bundles, elementID)
	e.mu.Unlock()
	e.cache.Invalidate(elementID)
	tracer().Debugf("installed inline style for element %s (%d declarations)", elementID, len(rule.Declarations))
	return nil
}

// SetVisited marks url as a visited link target, consulted by :visited.
func (e *Engine) SetVisited(url string) {
	e.mu.Lock()
	e.visitedURLs[url] = true
	e.mu.Unlock()
}

// SetTarget sets the current URL-fragment target, consulted by :target.
func (e *Engine) SetTarget(elementID string) {
	e.mu.Lock()
	e.targetID = elementID
	e.mu.Unlock()
}

// ComputeStyles traverses root's element tree and returns a parallel tree
// of styled nodes carrying each element's computed bundle. Per §5, when
// Config.Parallel is set, sibling subtrees are resolved concurrently; the
// contract (deterministic result, single-writer cache) holds either way.
func (e *Engine) ComputeStyles(root domiface.Element) (*treewalk.Node[*styledtree.StyNode], error) {
	rootStore := customprop.NewStore()
	return e.resolveSubtree(root, nil, rootStore)
}

func (e *Engine) resolveSubtree(el domiface.Element, parent *stylist.ComputedBundle, custom *customprop.Store) (*treewalk.Node[*styledtree.StyNode], error) {
	bundle, childStore, pseudoBundles, err := e.resolveOne(el, parent, custom)
	if err != nil {
		return nil, err
	}
	node := styledtree.NewNode(el)
	styledtree.Of(node).SetBundle(bundle)
	for kind, pb := range pseudoBundles {
		styledtree.Of(node).SetPseudo(kind, pb)
	}

	children := el.Children()
	childNodes := make([]*treewalk.Node[*styledtree.StyNode], len(children))

	if e.cfg.Parallel && len(children) > 1 {
		var wg sync.WaitGroup
		errs := make([]error, len(children))
		for i, ch := range children {
			wg.Add(1)
			go func(i int, ch domiface.Element) {
				defer wg.Done()
				cn, err := e.resolveSubtree(ch, bundle, childStore)
				childNodes[i] = cn
				errs[i] = err
			}(i, ch)
		}
		wg.Wait()
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
	} else {
		for i, ch := range children {
			cn, err := e.resolveSubtree(ch, bundle, childStore)
			if err != nil {
				return nil, err
			}
			childNodes[i] = cn
		}
	}
	for _, cn := range childNodes {
		node.AddChild(cn)
	}
	return node, nil
}

// resolveOne resolves a single element's computed bundle (cache-checked,
// sharing-checked), any pseudo-element bundles its applicable rules produce,
// and returns the custom-property store its children should inherit from
// (§4.4: custom properties inherit unconditionally).
func (e *Engine) resolveOne(el domiface.Element, parent *stylist.ComputedBundle, parentCustom *customprop.Store) (*stylist.ComputedBundle, *customprop.Store, map[styledtree.PseudoKind]*stylist.ComputedBundle, error) {
	e.mu.Lock()
	e.nodes[el.ElementID()] = el
	e.mu.Unlock()

	applicable, ruleKeys, pseudoApplicable := e.applicableRules(el)
	parentFp := cache.FingerprintBundle(parent)
	key := cache.Key{
		MatchFingerprint:  fingerprintRuleKeys(ruleKeys),
		ParentFingerprint: parentFp,
		HasParent:         parent != nil,
		State:             el.StateFlags(),
	}

	childCustom := e.customStoreFor(applicable, parentCustom)

	bundle, err := e.resolveHostBundle(el, key, applicable, ruleKeys, parent, childCustom)
	if err != nil {
		return nil, nil, nil, err
	}

	pseudoBundles := e.resolvePseudoBundles(pseudoApplicable, bundle, childCustom)
	return bundle, childCustom, pseudoBundles, nil
}

// resolveHostBundle resolves el's own computed bundle via the cache/sharing
// fast paths before falling back to a full cascade+stylist resolution.
func (e *Engine) resolveHostBundle(el domiface.Element, key cache.Key, applicable []cascade.ApplicableRule, ruleKeys []ruletree.RuleKey, parent *stylist.ComputedBundle, childCustom *customprop.Store) (*stylist.ComputedBundle, error) {
	if b, ok := e.cache.Get(key); ok {
		e.rememberBundle(el.ElementID(), b)
		return b, nil
	}
	if donorKey, ok := e.sharing.Donor(el); ok {
		if b, ok2 := e.cache.Peek(donorKey); ok2 {
			e.cache.Insert(key, el.ElementID(), b)
			e.rememberBundle(el.ElementID(), b)
			return b, nil
		}
	}

	winning := cascade.Resolve(applicable)
	refLens := referenceLengths(parent)
	bundle, err := stylist.Resolve(winning, parent, e.cfg.RootFontSizePx,
		e.cfg.Viewport.WidthPx, e.cfg.Viewport.HeightPx, refLens, childCustom)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrComputationError, err)
	}

	if e.cfg.MaxCachedBundles > 0 && e.cache.Size() >= e.cfg.MaxCachedBundles {
		return nil, ErrOutOfMemory
	}

	e.cache.Insert(key, el.ElementID(), bundle)
	e.sharing.Register(el, key)
	node := e.ruleRoot.Walk(ruleKeys)
	storeNodeBundle(node, key.ParentFingerprint, key.State, bundle)
	e.rememberBundle(el.ElementID(), bundle)
	return bundle, nil
}

// resolvePseudoBundles resolves one computed bundle per pseudo-element kind
// that matched el, each cascading and inheriting against the host's own
// bundle exactly as if the pseudo-element were the host's last child (§9).
// Pseudo bundles are not cached or shared: they are cheap to recompute and
// rare enough (most elements match none) that a side-table would add
// bookkeeping cost with no measurable benefit.
func (e *Engine) resolvePseudoBundles(pseudoApplicable map[string][]cascade.ApplicableRule, host *stylist.ComputedBundle, childCustom *customprop.Store) map[styledtree.PseudoKind]*stylist.ComputedBundle {
	if len(pseudoApplicable) == 0 {
		return nil
	}
	refLens := referenceLengths(host)
	out := make(map[styledtree.PseudoKind]*stylist.ComputedBundle, len(pseudoApplicable))
	for name, applicable := range pseudoApplicable {
		kind, ok := styledtree.PseudoKindByName(name)
		if !ok {
			continue
		}
		winning := cascade.Resolve(applicable)
		bundle, err := stylist.Resolve(winning, host, e.cfg.RootFontSizePx,
			e.cfg.Viewport.WidthPx, e.cfg.Viewport.HeightPx, refLens, childCustom)
		if err != nil {
			continue
		}
		out[kind] = bundle
	}
	return out
}

func (e *Engine) rememberBundle(elementID string, b *stylist.ComputedBundle) {
	e.mu.Lock()
	e.bundles[elementID] = b
	e.mu.Unlock()
}

// customStoreFor forks the parent's custom-property store and applies any
// `--name` declarations this element's applicable rules set, so children
// see the updated values (§4.4: custom properties inherit unconditionally).
// Entries are applied in the same normal-then-important, origin/
// specificity/source-order sequence cascade.Resolve uses for ordinary
// properties, so a later, more-specific --name overwrites an earlier one.
func (e *Engine) customStoreFor(applicable []cascade.ApplicableRule, parent *customprop.Store) *customprop.Store {
	child := parent.Fork()
	type entry struct {
		name string
		val  string
		ar   cascade.ApplicableRule
	}
	var normal, important []entry
	for _, ar := range applicable {
		for _, d := range ar.Declarations {
			if !d.IsCustomProperty() {
				continue
			}
			en := entry{name: d.CustomName, val: d.Value.Keyword, ar: ar}
			if d.Important {
				important = append(important, en)
			} else {
				normal = append(normal, en)
			}
		}
	}
	apply := func(entries []entry, importantPartition bool) {
		sort.SliceStable(entries, func(i, j int) bool {
			return customLess(entries[i].ar, entries[j].ar, importantPartition)
		})
		for _, en := range entries {
			child.Set(en.name, en.val)
		}
	}
	apply(normal, false)
	apply(important, true)
	return child
}

// customLess mirrors cascade.Resolve's (origin, specificity, source_order)
// comparator so custom-property resolution orders declarations exactly
// like ordinary ones (§4.2), with the important partition's origin
// priority inverted the same way.
func customLess(a, b cascade.ApplicableRule, importantPartition bool) bool {
	ao, bo := int(a.Origin), int(b.Origin)
	if importantPartition {
		ao, bo = -ao, -bo
	}
	if ao != bo {
		return ao < bo
	}
	if cmp := a.Specificity.Compare(b.Specificity); cmp != 0 {
		return cmp < 0
	}
	return a.SourceOrder < b.SourceOrder
}

// applicableRules gathers the rules (selector-based plus any inline style)
// that match el, filtered through the media evaluator, per the control
// flow described in §2. A rule whose matching branch targets a pseudo-
// element (e.g. `li::marker`, `div::before`) is kept out of the host's own
// applicable set entirely and returned instead in pseudoApplicable, keyed
// by pseudo-element name (§4.1/§9: a pseudo-element selector's declarations
// form a distinct computed bundle, not a contribution to the host's own
// cascade). It also returns the ordered rule-tree keys used both for the
// cache's match fingerprint and for ruletree sharing — pseudo-element rules
// never enter that fingerprint, since they do not affect the host's own
// resolution or its cacheability.
func (e *Engine) applicableRules(el domiface.Element) ([]cascade.ApplicableRule, []ruletree.RuleKey, map[string][]cascade.ApplicableRule) {
	all := e.sheets.AllRules()
	matchCtx := matcher.Context{VisitedURLs: e.snapshotVisited(), TargetID: e.snapshotTarget()}

	type matched struct {
		rule *cascade.Rule
		sp   value.Specificity
	}
	var hits []matched
	pseudoHits := make(map[string][]matched)
	for _, r := range all {
		if r.MediaQuery != "" {
			list, err := mediaquery.Parse(r.MediaQuery)
			if err == nil && !list.Matches(e.cfg.Viewport) {
				continue
			}
		}
		buckets := matchingBuckets(r.Selectors, el, matchCtx)
		for name, sp := range buckets {
			if name == "" {
				hits = append(hits, matched{rule: r, sp: sp})
			} else {
				pseudoHits[name] = append(pseudoHits[name], matched{rule: r, sp: sp})
			}
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].rule.SourceOrder < hits[j].rule.SourceOrder })

	applicable := make([]cascade.ApplicableRule, 0, len(hits)+1)
	keys := make([]ruletree.RuleKey, 0, len(hits)+1)
	for _, m := range hits {
		applicable = append(applicable, cascade.ApplicableRule{
			Declarations: m.rule.Declarations,
			Specificity:  m.sp,
			Origin:       m.rule.Origin,
			SourceOrder:  m.rule.SourceOrder,
		})
		keys = append(keys, ruletree.RuleKey{Rule: m.rule, Specificity: [3]int{m.sp.ID, m.sp.Class, m.sp.Type}})
	}

	e.mu.Lock()
	inline, hasInline := e.inlineStyles[el.ElementID()]
	e.mu.Unlock()
	if hasInline {
		applicable = append(applicable, cascade.ApplicableRule{
			Declarations: inline,
			Specificity:  value.InlineSpecificity,
			Origin:       cascade.Author,
			SourceOrder:  ^uint32(0),
		})
		keys = append(keys, ruletree.RuleKey{
			Rule:        e.inlineMarkerRule,
			Specificity: [3]int{value.InlineSpecificity.ID, 0, 0},
		})
	}

	var pseudoApplicable map[string][]cascade.ApplicableRule
	if len(pseudoHits) > 0 {
		pseudoApplicable = make(map[string][]cascade.ApplicableRule, len(pseudoHits))
		for name, ms := range pseudoHits {
			sort.SliceStable(ms, func(i, j int) bool { return ms[i].rule.SourceOrder < ms[j].rule.SourceOrder })
			arr := make([]cascade.ApplicableRule, 0, len(ms))
			for _, m := range ms {
				arr = append(arr, cascade.ApplicableRule{
					Declarations: m.rule.Declarations,
					Specificity:  m.sp,
					Origin:       m.rule.Origin,
					SourceOrder:  m.rule.SourceOrder,
				})
			}
			pseudoApplicable[name] = arr
		}
	}

	return applicable, keys, pseudoApplicable
}

// matchingBuckets partitions a selector list's matching branches by the
// pseudo-element they target, the empty string bucket meaning "the host
// element itself". Within each bucket it keeps only the highest specificity
// among that bucket's matching complexes, since a comma-separated list is
// sugar for independently-applicable selectors (§4.2).
func matchingBuckets(list selector.SelectorList, el domiface.Element, ctx matcher.Context) map[string]value.Specificity {
	var best map[string]value.Specificity
	for _, c := range list.Items {
		if !matcher.MatchesComplex(c, el, ctx) {
			continue
		}
		name, _ := c.Rightmost().PseudoElement()
		sp := c.Specificity()
		if best == nil {
			best = make(map[string]value.Specificity)
		}
		if cur, ok := best[name]; !ok || cur.Less(sp) {
			best[name] = sp
		}
	}
	return best
}

// GetComputedStyle returns a previously-resolved bundle. It fails with
// ErrElementNotFound if the element has not been resolved by a prior
// ComputeStyles call.
func (e *Engine) GetComputedStyle(elementID string) (*stylist.ComputedBundle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, ok := e.bundles[elementID]
	if !ok {
		return nil, ErrElementNotFound
	}
	return b, nil
}

// InvalidateStyles enqueues an eviction for inv and immediately applies it
// to the cache (§4.6/§4.7: invalidations are applied before the next
// resolution pass begins, and this engine has no separate apply phase).
func (e *Engine) InvalidateStyles(inv invalidation.Invalidation) {
	e.invalidations.Record(inv)
	for _, pending := range e.invalidations.Drain() {
		set := invalidation.Translate(pending, e.treeContext())
		for id := range set {
			e.cache.Invalidate(id)
			e.mu.Lock()
			delete(e.bundles, id)
			e.mu.Unlock()
		}
	}
}

func (e *Engine) treeContext() invalidation.TreeContext {
	return invalidation.TreeContext{
		DescendantsOf: func(id string) []string {
			e.mu.Lock()
			el, ok := e.nodes[id]
			e.mu.Unlock()
			if !ok {
				return nil
			}
			var out []string
			var walk func(domiface.Element)
			walk = func(n domiface.Element) {
				for _, c := range n.Children() {
					out = append(out, c.ElementID())
					walk(c)
				}
			}
			walk(el)
			return out
		},
		NextSiblingsOf: func(id string) []string {
			e.mu.Lock()
			el, ok := e.nodes[id]
			e.mu.Unlock()
			if !ok {
				return nil
			}
			parent, ok := el.Parent()
			if !ok {
				return nil
			}
			siblings := parent.Children()
			var out []string
			afterSelf := false
			for _, s := range siblings {
				if afterSelf {
					out = append(out, s.ElementID())
				}
				if s.ElementID() == id {
					afterSelf = true
				}
			}
			return out
		},
	}
}

// StylesheetCount returns the number of registered stylesheets.
func (e *Engine) StylesheetCount() int { return e.sheets.Count() }

// CacheSize returns the number of cached computed bundles.
func (e *Engine) CacheSize() int { return e.cache.Size() }

// ClearCache drops every cached bundle and zeroes hit/miss stats.
func (e *Engine) ClearCache() { e.cache.Clear() }

// HitRate exposes the cache's hit rate for introspection/telemetry.
func (e *Engine) HitRate() float64 { return e.cache.HitRate() }

func (e *Engine) snapshotVisited() map[string]bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]bool, len(e.visitedURLs))
	for k, v := range e.visitedURLs {
		out[k] = v
	}
	return out
}

func (e *Engine) snapshotTarget() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.targetID
}

// referenceLengths supplies the box-model percentage base the stylist
// needs (§4.3): the parent's resolved width when known, else 0. A real
// layout-aware embedding host may override this via a richer context; the
// core stylist never guesses it on its own.
func referenceLengths(parent *stylist.ComputedBundle) map[value.PropertyID]float64 {
	ref := 0.0
	if parent != nil {
		if v, ok := parent.Get(value.PropWidth); ok && v.Kind == value.KindLength {
			ref = v.Px
		}
	}
	out := make(map[value.PropertyID]float64, 4)
	for _, pid := range []value.PropertyID{
		value.PropWidth, value.PropHeight,
		value.PropMarginTop, value.PropMarginRight, value.PropMarginBottom, value.PropMarginLeft,
		value.PropPaddingTop, value.PropPaddingRight, value.PropPaddingBottom, value.PropPaddingLeft,
	} {
		out[pid] = ref
	}
	return out
}

// fingerprintRuleKeys hashes an ordered sequence of rule-tree keys into a
// cache.Fingerprint, the "selector_match_fingerprint" of §4.6's cache key.
// SourceOrder is a store-wide monotonic counter, so it alone identifies a
// rule uniquely; it is far cheaper to hash than re-serializing selectors.
func fingerprintRuleKeys(keys []ruletree.RuleKey) cache.Fingerprint {
	h := fnv.New64a()
	for _, k := range keys {
		fmt.Fprintf(h, "%d:%d,%d,%d;", k.Rule.SourceOrder, k.Specificity[0], k.Specificity[1], k.Specificity[2])
	}
	return cache.Fingerprint(h.Sum64())
}

// storeNodeBundle installs b in the rule-tree node reached by an
// element's matched rule sequence, namespaced by the parent/state context
// the node's single bundle slot cannot otherwise distinguish (§9's rule
// tree is shared by rule sequence; inherited properties still vary by
// parent, so the node keeps one bundle per observed (parent, state) pair).
// Each call installs a fresh copy of the map, so a map already installed is
// never written to while a parallel sibling resolution may be reading it.
func storeNodeBundle(node *ruletree.Node, parentFp cache.Fingerprint, state domiface.StateFlags, b *stylist.ComputedBundle) {
	sub, _ := node.Bundle()
	old, _ := sub.(map[nodeBundleKey]*stylist.ComputedBundle)
	m := make(map[nodeBundleKey]*stylist.ComputedBundle, len(old)+1)
	for k, v := range old {
		m[k] = v
	}
	m[nodeBundleKey{parentFp, state}] = b
	node.SetBundle(m)
}

type nodeBundleKey struct {
	parentFp cache.Fingerprint
	state    domiface.StateFlags
}
