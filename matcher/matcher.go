// Package matcher decides whether a selector applies to an element in
// situ. Its structural pseudo-class logic (nth-child counting, :empty,
// :root) is modeled on cascadia's pseudo_classes.go, generalized to operate
// over domiface.Element instead of *html.Node so the core has no direct
// dependency on golang.org/x/net/html.
package matcher

import (
	"strings"

	"stylo/domiface"
	"stylo/selector"
)

// Context carries the match-time state the predicate needs beyond the
// element tree itself: dynamic state flags are already folded into the
// element by its adapter, but the visited-URL set and the current
// URL-fragment target are cross-cutting and supplied here.
type Context struct {
	VisitedURLs map[string]bool
	TargetID    string
}

// Matches reports whether a selector list matches el. An empty list never
// matches (§4.1); a list matches if any member does.
func Matches(list selector.SelectorList, el domiface.Element, ctx Context) bool {
	for _, complex := range list.Items {
		if MatchesComplex(complex, el, ctx) {
			return true
		}
	}
	return false
}

// MatchesComplex evaluates one complex selector right-to-left: the
// rightmost compound must match el directly, then each preceding
// (compound, combinator) pair climbs the tree per its combinator.
func MatchesComplex(c selector.Complex, el domiface.Element, ctx Context) bool {
	if len(c.Steps) == 0 {
		return false
	}
	last := len(c.Steps) - 1
	if !matchesCompound(c.Steps[last].Compound, el, ctx) {
		return false
	}
	return matchChain(c.Steps, last, el, ctx)
}

// matchChain walks leftward from stepIndex, already known to match el,
// verifying every preceding step against ancestors/siblings.
func matchChain(steps []selector.Step, stepIndex int, el domiface.Element, ctx Context) bool {
	if stepIndex == 0 {
		return true
	}
	comb := steps[stepIndex].Combinator
	prevCompound := steps[stepIndex-1].Compound
	switch comb {
	case selector.Descendant:
		anc, ok := el.Parent()
		for ok {
			if matchesCompound(prevCompound, anc, ctx) && matchChain(steps, stepIndex-1, anc, ctx) {
				return true
			}
			anc, ok = anc.Parent()
		}
		return false
	case selector.Child:
		parent, ok := el.Parent()
		if !ok {
			return false
		}
		return matchesCompound(prevCompound, parent, ctx) && matchChain(steps, stepIndex-1, parent, ctx)
	case selector.AdjacentSibling:
		sib, ok := el.PreviousSibling()
		if !ok {
			return false
		}
		return matchesCompound(prevCompound, sib, ctx) && matchChain(steps, stepIndex-1, sib, ctx)
	default:
		return false
	}
}

func matchesCompound(c selector.Compound, el domiface.Element, ctx Context) bool {
	if len(c.Simples) == 0 {
		return false
	}
	for _, s := range c.Simples {
		if !matchesSimple(s, el, ctx) {
			return false
		}
	}
	return true
}

func matchesSimple(s selector.Simple, el domiface.Element, ctx Context) bool {
	switch s.Kind {
	case selector.Universal:
		return true
	case selector.Type:
		return strings.EqualFold(el.TagName(), s.Name)
	case selector.Class:
		for _, c := range el.Classes() {
			if c == s.Name {
				return true
			}
		}
		return false
	case selector.Id:
		return el.ID() == s.Name
	case selector.Attribute:
		return matchAttribute(s, el)
	case selector.PseudoClass:
		return matchPseudoClass(s, el, ctx)
	case selector.PseudoElement:
		return matchPseudoElement(s.Name, el)
	default:
		return false
	}
}

func matchAttribute(s selector.Simple, el domiface.Element) bool {
	v, ok := el.Attribute(s.Name)
	if s.AttrOp == selector.AttrExists {
		return ok
	}
	if !ok {
		return false
	}
	want := s.AttrValue
	have := v
	if s.AttrCaseInsens {
		want = strings.ToLower(want)
		have = strings.ToLower(have)
	}
	switch s.AttrOp {
	case selector.AttrEquals:
		return have == want
	case selector.AttrIncludes:
		for _, tok := range strings.Fields(have) {
			if tok == want {
				return true
			}
		}
		return false
	case selector.AttrDashMatch:
		return have == want || strings.HasPrefix(have, want+"-")
	case selector.AttrPrefix:
		return strings.HasPrefix(have, want)
	case selector.AttrSuffix:
		return strings.HasSuffix(have, want)
	case selector.AttrSubstring:
		return strings.Contains(have, want)
	default:
		return false
	}
}

// matchPseudoElement reports whether el is a legal host for the named
// pseudo-element. ::first-line/::first-letter require block-level layout
// (approximated: not one of the canonical inline tags); ::marker requires a
// list item; the remaining pseudo-elements attach to any element.
func matchPseudoElement(name string, el domiface.Element) bool {
	switch name {
	case "before", "after", "selection":
		return true
	case "first-line", "first-letter":
		return !inlineTags[strings.ToLower(el.TagName())]
	case "marker":
		return strings.EqualFold(el.TagName(), "li")
	default:
		return false
	}
}

var inlineTags = map[string]bool{
	"a": true, "span": true, "b": true, "i": true, "em": true, "strong": true,
	"small": true, "code": true, "abbr": true, "sub": true, "sup": true,
	"label": true, "button": true, "input": true, "select": true, "textarea": true,
}
