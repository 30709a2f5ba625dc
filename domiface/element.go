// Package domiface defines the capability interface the matcher and
// stylist consume from the embedding host's document tree, per §6 of the
// specification. The core never depends on a concrete DOM implementation;
// domiface/htmladapter supplies one adapter over golang.org/x/net/html for
// callers that already hold a parsed HTML tree.
package domiface

// StateFlags is a bitset of dynamic states that affect selector matching.
type StateFlags uint8

const (
	Hover StateFlags = 1 << iota
	Active
	Focus
	Visited
)

func (f StateFlags) Has(bit StateFlags) bool { return f&bit != 0 }

// Element is the capability interface the matcher and stylist require from
// a document-tree node. Implementations need not be safe for concurrent
// mutation; the contracts in §5 only require that a single resolution pass
// sees a stable snapshot.
type Element interface {
	// ElementID is an opaque, stable identifier suitable for cache keys.
	ElementID() string

	TagName() string
	ID() string
	Classes() []string
	Attribute(name string) (string, bool)

	Parent() (Element, bool)
	PreviousSibling() (Element, bool)
	// Children enumerates this element's element children in document
	// order. The specification's operation list (§6) only names the
	// sibling/ancestor accessors the matcher needs; compute_styles' tree
	// traversal additionally requires this primitive, so it is part of
	// the capability interface stylo's engine consumes.
	Children() []Element

	// SiblingPosition returns this element's 1-based position among its
	// parent's element children.
	SiblingPosition() int
	// SiblingCount returns the total number of element children of the
	// parent (or 1 if there is no parent).
	SiblingCount() int
	// SiblingPositionOfType mirrors SiblingPosition restricted to
	// same-tag siblings, for :nth-of-type.
	SiblingPositionOfType() int
	SiblingCountOfType() int

	HasChildren() bool

	IsEnabled() bool
	IsChecked() bool
	LinkURL() (string, bool)

	StateFlags() StateFlags
}
