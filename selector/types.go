// Package selector defines the CSS selector AST and a parser that turns
// selector text into it. The matching logic itself lives in package
// matcher, which walks this AST against a domiface.Element.
package selector

import (
	"strings"

	"stylo/value"
)

// Combinator links two compound selectors inside a Complex chain.
type Combinator uint8

const (
	// Descendant is the implicit whitespace combinator.
	Descendant Combinator = iota
	Child                 // >
	AdjacentSibling        // +
)

// SimpleKind discriminates the tagged union of simple selectors.
type SimpleKind uint8

const (
	Universal SimpleKind = iota
	Type
	Class
	Id
	Attribute
	PseudoClass
	PseudoElement
)

// AttrOp is the comparison operator an Attribute simple selector applies.
type AttrOp uint8

const (
	AttrExists AttrOp = iota
	AttrEquals
	AttrIncludes     // ~=
	AttrDashMatch    // |=
	AttrPrefix       // ^=
	AttrSuffix       // $=
	AttrSubstring    // *=
)

// Simple is one tagged-union simple selector component.
type Simple struct {
	Kind SimpleKind

	Name string // Type/Class/Id name, Attribute name, PseudoClass/PseudoElement kind

	// Attribute fields.
	AttrOp          AttrOp
	AttrValue       string
	AttrHasValue    bool
	AttrCaseInsens  bool

	// PseudoClass argument, e.g. "2n+1" for :nth-child, a selector list
	// for :not(), a language tag for :lang().
	Arg string
	Not *SelectorList
}

// Specificity returns the specificity contribution of a single simple
// selector, per §4.2: id->(1,0,0), class/attribute/pseudo-class->(0,1,0),
// type/pseudo-element->(0,0,1), universal->(0,0,0).
func (s Simple) Specificity() value.Specificity {
	switch s.Kind {
	case Id:
		return value.Specificity{ID: 1}
	case Class, Attribute, PseudoClass:
		return value.Specificity{Class: 1}
	case Type, PseudoElement:
		return value.Specificity{Type: 1}
	default:
		return value.Specificity{}
	}
}

// Compound is a conjunction of simple selectors that must all match the
// same element. Invariant: at most one Id component; any PseudoElement
// component is rightmost (enforced by the parser).
type Compound struct {
	Simples []Simple
}

// Specificity sums the specificity of every component.
func (c Compound) Specificity() value.Specificity {
	var sp value.Specificity
	for _, s := range c.Simples {
		sp = sp.Add(s.Specificity())
	}
	return sp
}

// PseudoElement returns the pseudo-element kind of this compound, if any,
// and whether one is present.
func (c Compound) PseudoElement() (string, bool) {
	for _, s := range c.Simples {
		if s.Kind == PseudoElement {
			return s.Name, true
		}
	}
	return "", false
}

// Step is one (compound, combinator-to-its-left) pair inside a Complex
// selector, read right-to-left as the matcher evaluates it.
type Step struct {
	Compound   Compound
	Combinator Combinator // combinator joining Compound to the step to its left; ignored on the leftmost step
}

// Complex is a right-to-left chain of compounds joined by combinators. The
// terminal (rightmost) compound has no trailing combinator — it is simply
// Steps[len-1].Compound, and Steps[len-1].Combinator is unused.
type Complex struct {
	Steps []Step
}

// Specificity sums the specificity of every compound in the chain.
func (c Complex) Specificity() value.Specificity {
	var sp value.Specificity
	for _, st := range c.Steps {
		sp = sp.Add(st.Compound.Specificity())
	}
	return sp
}

// Rightmost returns the terminal compound an element must match directly.
func (c Complex) Rightmost() Compound {
	return c.Steps[len(c.Steps)-1].Compound
}

// SelectorList is a comma-separated list of Complex selectors. It matches
// an element if any member does. An empty list never matches, per §4.1.
type SelectorList struct {
	Items []Complex
}

func (l SelectorList) String() string {
	parts := make([]string, len(l.Items))
	for i := range l.Items {
		parts[i] = "<complex>"
	}
	return strings.Join(parts, ", ")
}
