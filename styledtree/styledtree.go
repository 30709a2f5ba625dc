// Package styledtree builds the parallel tree of styled nodes the engine
// returns from compute_styles: one node per element, each carrying its
// computed bundle plus any pseudo-element bundles attached to it. Its
// shape — a generic treewalk.Node[*StyNode] whose payload points back at
// itself — is lifted directly from the teacher's dom/styledtree.StyNode,
// generalized from an *html.Node-keyed single PropertyMap to a
// domiface.Element-keyed stylist.ComputedBundle plus a pseudo-element side
// map, per §9's note that pseudo-element bundles may be modeled as tagged
// variants rather than a separate side-table.
package styledtree

import (
	"stylo/domiface"
	"stylo/stylist"
	"stylo/treewalk"
)

// PseudoKind identifies a pseudo-element bundle attached to a host node.
type PseudoKind uint8

const (
	PseudoBefore PseudoKind = iota
	PseudoAfter
	PseudoFirstLine
	PseudoFirstLetter
	PseudoSelection
	PseudoMarker
)

// PseudoBundle pairs a pseudo-element's computed bundle with a rendered
// flag, mirroring the source's "separable style object with a rendered
// flag" design noted in §9.
type PseudoBundle struct {
	Bundle   *stylist.ComputedBundle
	Rendered bool
}

// StyNode is one node of the styled tree: the element it was computed for,
// its computed bundle, and any pseudo-element bundles attached to it.
type StyNode struct {
	treewalk.Node[*StyNode]
	element domiface.Element
	bundle  *stylist.ComputedBundle
	pseudos map[PseudoKind]*PseudoBundle
}

// NewNode creates a styled node for el, not yet styled.
func NewNode(el domiface.Element) *treewalk.Node[*StyNode] {
	sn := &StyNode{element: el}
	sn.Payload = sn
	return &sn.Node
}

// Of returns the styled-node payload of a generic tree node, or nil.
func Of(n *treewalk.Node[*StyNode]) *StyNode {
	if n == nil {
		return nil
	}
	return n.Payload
}

// Element returns the element this node was computed for.
func (sn *StyNode) Element() domiface.Element { return sn.element }

// Bundle returns the node's computed bundle, or nil if not yet styled.
func (sn *StyNode) Bundle() *stylist.ComputedBundle { return sn.bundle }

// SetBundle installs the node's computed bundle.
func (sn *StyNode) SetBundle(b *stylist.ComputedBundle) { sn.bundle = b }

// Pseudo returns the bundle attached for the given pseudo-element kind, if
// any has been computed.
func (sn *StyNode) Pseudo(kind PseudoKind) (*PseudoBundle, bool) {
	if sn.pseudos == nil {
		return nil, false
	}
	p, ok := sn.pseudos[kind]
	return p, ok
}

// SetPseudo attaches a pseudo-element bundle to the host node.
func (sn *StyNode) SetPseudo(kind PseudoKind, b *stylist.ComputedBundle) {
	if sn.pseudos == nil {
		sn.pseudos = make(map[PseudoKind]*PseudoBundle)
	}
	sn.pseudos[kind] = &PseudoBundle{Bundle: b, Rendered: true}
}

// pseudoKindNames maps the selector-level pseudo-element name (as produced
// by selector.Compound.PseudoElement) to the PseudoKind the styled tree
// keys its side-map by.
var pseudoKindNames = map[string]PseudoKind{
	"before":       PseudoBefore,
	"after":        PseudoAfter,
	"first-line":   PseudoFirstLine,
	"first-letter": PseudoFirstLetter,
	"selection":    PseudoSelection,
	"marker":       PseudoMarker,
}

// PseudoKindByName resolves a selector pseudo-element name to its PseudoKind,
// or reports false for a name the styled tree does not model.
func PseudoKindByName(name string) (PseudoKind, bool) {
	k, ok := pseudoKindNames[name]
	return k, ok
}

// ParentBundle returns the computed bundle of sn's parent node, or nil at
// the root.
func (sn *StyNode) ParentBundle() *stylist.ComputedBundle {
	p := sn.Node.Parent()
	if p == nil {
		return nil
	}
	parentSty := Of(p)
	if parentSty == nil {
		return nil
	}
	return parentSty.bundle
}
