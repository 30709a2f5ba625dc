package cssom

import (
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// CompiledSelectorCache compiles CSS3 selector text with cascadia and
// caches the result, mirroring the teacher's rulesTreeType.selectors cache
// of compiled cascadia.Sel values (dom/style/cssom.go). stylo's own
// selector/matcher pair is the matcher of record for every resolution
// call; Store owns one of these caches and runs every selector through it
// at ingestion time (Store.crossCheckSelector, wired through
// douceuradapter.ParseRules's onSelectorText hook) as a parity compiler —
// a selector cascadia cannot compile is logged, never rejected, since the
// core matcher must keep working over the generic domiface.Element, which
// cascadia cannot target, and so never takes a direct dependency on it.
type CompiledSelectorCache struct {
	mu       sync.Mutex
	compiled map[string]cascadia.Sel
	errs     map[string]error
}

// NewCompiledSelectorCache creates an empty cache.
func NewCompiledSelectorCache() *CompiledSelectorCache {
	return &CompiledSelectorCache{
		compiled: make(map[string]cascadia.Sel),
		errs:     make(map[string]error),
	}
}

// Compile compiles selectorText, caching both successful compiles and
// compile errors so a selector cascadia cannot parse is not retried on
// every lookup.
func (c *CompiledSelectorCache) Compile(selectorText string) (cascadia.Sel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sel, ok := c.compiled[selectorText]; ok {
		return sel, nil
	}
	if err, ok := c.errs[selectorText]; ok {
		return nil, err
	}
	sel, err := cascadia.Compile(selectorText)
	if err != nil {
		c.errs[selectorText] = err
		return nil, err
	}
	c.compiled[selectorText] = sel
	return sel, nil
}

// MatchesHTML reports whether selectorText, compiled via cascadia,
// matches n. It is the parity-check entry point: callers compare this
// result against matcher.Matches over stylo's own selector AST for the
// same selector text and node.
func (c *CompiledSelectorCache) MatchesHTML(selectorText string, n *html.Node) (bool, error) {
	sel, err := c.Compile(selectorText)
	if err != nil {
		return false, err
	}
	return sel.Match(n), nil
}

// Size returns the number of distinct selector strings successfully
// compiled so far.
func (c *CompiledSelectorCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.compiled)
}
