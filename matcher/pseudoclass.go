package matcher

import (
	"strings"

	"stylo/domiface"
	"stylo/selector"
)

// matchPseudoClass dispatches structural, dynamic, form, and :target
// pseudo-classes, per §4.1.
func matchPseudoClass(s selector.Simple, el domiface.Element, ctx Context) bool {
	switch s.Name {
	case "first-child":
		return el.SiblingPosition() == 1
	case "last-child":
		return el.SiblingPosition() == el.SiblingCount()
	case "only-child":
		return el.SiblingCount() == 1
	case "first-of-type":
		return el.SiblingPositionOfType() == 1
	case "last-of-type":
		return el.SiblingPositionOfType() == el.SiblingCountOfType()
	case "only-of-type":
		return el.SiblingCountOfType() == 1
	case "nth-child":
		return matchNth(s.Arg, el.SiblingPosition())
	case "nth-last-child":
		return matchNth(s.Arg, el.SiblingCount()-el.SiblingPosition()+1)
	case "nth-of-type":
		return matchNth(s.Arg, el.SiblingPositionOfType())
	case "nth-last-of-type":
		return matchNth(s.Arg, el.SiblingCountOfType()-el.SiblingPositionOfType()+1)
	case "empty":
		return !el.HasChildren()
	case "root":
		_, hasParent := el.Parent()
		return !hasParent
	case "hover":
		return el.StateFlags().Has(domiface.Hover)
	case "active":
		return el.StateFlags().Has(domiface.Active)
	case "focus":
		return el.StateFlags().Has(domiface.Focus)
	case "visited":
		if el.StateFlags().Has(domiface.Visited) {
			return true
		}
		url, ok := el.LinkURL()
		return ok && ctx.VisitedURLs[url]
	case "link":
		_, ok := el.LinkURL()
		return ok && !matchPseudoClass(selector.Simple{Name: "visited"}, el, ctx)
	case "enabled":
		return el.IsEnabled()
	case "disabled":
		return !el.IsEnabled()
	case "checked":
		return el.IsChecked()
	case "target":
		return ctx.TargetID != "" && el.ElementID() == ctx.TargetID
	case "not":
		if s.Not == nil {
			return true
		}
		return !Matches(*s.Not, el, ctx)
	case "lang":
		v, ok := el.Attribute("lang")
		if ok {
			arg := strings.ToLower(s.Arg)
			v = strings.ToLower(v)
			if v == arg || strings.HasPrefix(v, arg+"-") {
				return true
			}
		}
		if parent, ok := el.Parent(); ok {
			return matchPseudoClass(s, parent, ctx)
		}
		return false
	default:
		return false
	}
}

func matchNth(arg string, position int) bool {
	n, err := selector.ParseNth(arg)
	if err != nil {
		return false
	}
	return n.Matches(position)
}
