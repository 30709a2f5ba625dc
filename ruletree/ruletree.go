// Package ruletree implements the rule tree described in §3 and §9: a trie
// shared across elements that match the same ordered sequence of
// applicable rules, so their computed bundles can be shared too. Nodes are
// immutable once linked — a child is only ever appended, never mutated —
// the same parent-pointer, never-a-cycle discipline the teacher's
// persistent/tree.Node uses for its copy-on-write trees, adapted here to a
// map-indexed trie instead of an index-addressed child slice since rule
// tree branching is keyed by rule identity, not position.
package ruletree

import (
	"sync"

	"stylo/cascade"
)

// RuleKey identifies one applicable rule uniquely enough to dedupe trie
// branches: the originating stylesheet rule together with the specificity
// the matcher assigned it (two elements reaching the same rule via
// different selector branches of the same rule still share a node only if
// the winning specificity also agrees, matching the Applicable-rule
// definition in §3).
type RuleKey struct {
	Rule        *cascade.Rule
	Specificity [3]int
}

// Node is one rule-tree node: the applicable rule that reached it (nil at
// the root), a reference to its parent, and a cache slot for the computed
// bundle shared by every element whose matching rule sequence ends here.
type Node struct {
	mu       sync.Mutex
	parent   *Node
	key      RuleKey
	hasKey   bool
	children map[RuleKey]*Node
	bundle   interface{} // opaque to this package; the engine stores its bundles keyed by parent and state here
}

// NewRoot creates the empty root of a rule tree.
func NewRoot() *Node {
	return &Node{children: make(map[RuleKey]*Node)}
}

// Child returns (creating if necessary) the node reached by appending key
// to n's path. Concurrent callers racing to create the same child observe
// a single winner.
func (n *Node) Child(key RuleKey) *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.children == nil {
		n.children = make(map[RuleKey]*Node)
	}
	if ch, ok := n.children[key]; ok {
		return ch
	}
	ch := &Node{parent: n, key: key, hasKey: true, children: make(map[RuleKey]*Node)}
	n.children[key] = ch
	return ch
}

// Walk extends n by an ordered sequence of keys, one Child call per key.
func (n *Node) Walk(keys []RuleKey) *Node {
	cur := n
	for _, k := range keys {
		cur = cur.Child(k)
	}
	return cur
}

// Parent returns the node's parent, or nil at the root.
func (n *Node) Parent() *Node { return n.parent }

// Rule returns the applicable-rule key that reached this node, if any.
func (n *Node) Rule() (RuleKey, bool) { return n.key, n.hasKey }

// Bundle returns the memoized bundle for this node, if installed.
func (n *Node) Bundle() (interface{}, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.bundle, n.bundle != nil
}

// SetBundle installs the value shared by every element whose matching rule
// sequence terminates at n, replacing whatever was stored before; of two
// concurrent calls, the later one wins. The engine calls it each time it
// resolves an element whose rule sequence ends here.
func (n *Node) SetBundle(b interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bundle = b
}
