// Package htmladapter adapts golang.org/x/net/html nodes to domiface.Element,
// the reference adapter named in SPEC_FULL.md's external-interfaces section.
// Its tag/attribute/sibling traversal mirrors the helpers cascadia's own
// pseudo-class matchers use internally (nodeText, nth-child counting over
// html.ElementNode siblings).
package htmladapter

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"stylo/domiface"
)

// Node wraps an *html.Node to satisfy domiface.Element.
type Node struct {
	n     *html.Node
	state domiface.StateFlags
	target string // not set by Wrap; :target matching reads matcher.Context.TargetID
}

// Wrap adapts n, with an optional set of dynamic state flags (hover/active/
// focus/visited) the caller wants to be in effect during matching.
func Wrap(n *html.Node, state domiface.StateFlags) *Node {
	return &Node{n: n, state: state}
}

func (w *Node) ElementID() string {
	return fmt.Sprintf("%p", w.n)
}

func (w *Node) TagName() string {
	return w.n.Data
}

func (w *Node) ID() string {
	v, _ := w.Attribute("id")
	return v
}

func (w *Node) Classes() []string {
	v, ok := w.Attribute("class")
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	return strings.Fields(v)
}

func (w *Node) Attribute(name string) (string, bool) {
	for _, a := range w.n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

func (w *Node) Parent() (domiface.Element, bool) {
	p := w.n.Parent
	for p != nil && p.Type != html.ElementNode {
		p = p.Parent
	}
	if p == nil {
		return nil, false
	}
	return Wrap(p, w.state), true
}

func (w *Node) PreviousSibling() (domiface.Element, bool) {
	s := w.n.PrevSibling
	for s != nil && s.Type != html.ElementNode {
		s = s.PrevSibling
	}
	if s == nil {
		return nil, false
	}
	return Wrap(s, w.state), true
}

func (w *Node) Children() []domiface.Element {
	var out []domiface.Element
	for c := w.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, Wrap(c, w.state))
		}
	}
	return out
}

func (w *Node) SiblingPosition() int {
	if w.n.Parent == nil {
		return 1
	}
	pos := 0
	for c := w.n.Parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		pos++
		if c == w.n {
			return pos
		}
	}
	return pos
}

func (w *Node) SiblingCount() int {
	if w.n.Parent == nil {
		return 1
	}
	count := 0
	for c := w.n.Parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			count++
		}
	}
	return count
}

func (w *Node) SiblingPositionOfType() int {
	if w.n.Parent == nil {
		return 1
	}
	pos := 0
	for c := w.n.Parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != w.n.Data {
			continue
		}
		pos++
		if c == w.n {
			return pos
		}
	}
	return pos
}

func (w *Node) SiblingCountOfType() int {
	if w.n.Parent == nil {
		return 1
	}
	count := 0
	for c := w.n.Parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == w.n.Data {
			count++
		}
	}
	return count
}

func (w *Node) HasChildren() bool {
	for c := w.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return true
		}
	}
	return false
}

func (w *Node) IsEnabled() bool {
	_, disabled := w.Attribute("disabled")
	return !disabled
}

func (w *Node) IsChecked() bool {
	_, ok := w.Attribute("checked")
	return ok
}

func (w *Node) LinkURL() (string, bool) {
	return w.Attribute("href")
}

func (w *Node) StateFlags() domiface.StateFlags {
	return w.state
}
