// Package cascade orders applicable rules and picks the winning declaration
// per property, per §4.2. Its two-pass sort (normal declarations, then
// important declarations with inverted origin priority) mirrors the
// cascade ordering the teacher's dom/style/css package applies per
// PropertyGroup, generalized to the full origin/specificity/source-order
// triple the specification demands.
package cascade

import (
	"sort"

	"stylo/selector"
	"stylo/value"
)

// Origin classifies a stylesheet's provenance, the outermost cascade key.
type Origin uint8

const (
	UserAgent Origin = iota
	User
	Author
)

// Rule is one parsed style rule, the unit the matcher evaluates. MediaQuery
// is an opaque condition evaluated by package mediaquery before a rule is
// considered applicable at all; it is stored here as a string so this
// package has no dependency on the media-query AST.
type Rule struct {
	Selectors    selector.SelectorList
	Declarations []value.Declaration
	Origin       Origin
	SourceOrder  uint32
	MediaQuery   string
}

// ApplicableRule pairs a rule with the specificity of the branch that
// matched a particular element.
type ApplicableRule struct {
	Declarations []value.Declaration
	Specificity  value.Specificity
	Origin       Origin
	SourceOrder  uint32
}

// Resolve orders applicable rules and returns the winning raw value per
// property. Declarations are partitioned into normal and important; each
// partition is sorted independently (important's origin comparison is
// reversed), then applied in order so later writes clobber earlier ones —
// normal first, important on top.
func Resolve(applicable []ApplicableRule) map[value.PropertyID]value.Raw {
	type entry struct {
		decl value.Declaration
		ar   ApplicableRule
	}
	var normal, important []entry
	for _, ar := range applicable {
		for _, d := range ar.Declarations {
			if d.IsCustomProperty() {
				continue
			}
			e := entry{decl: d, ar: ar}
			if d.Important {
				important = append(important, e)
			} else {
				normal = append(normal, e)
			}
		}
	}
	sort.SliceStable(normal, func(i, j int) bool {
		return less(normal[i].ar, normal[j].ar, false)
	})
	sort.SliceStable(important, func(i, j int) bool {
		return less(important[i].ar, important[j].ar, true)
	})
	out := make(map[value.PropertyID]value.Raw)
	for _, e := range normal {
		out[e.decl.Property] = e.decl.Value
	}
	for _, e := range important {
		out[e.decl.Property] = e.decl.Value
	}
	return out
}

// less compares two applicable rules by (origin, specificity, source_order)
// ascending, with origin reversed when comparing the important partition.
func less(a, b ApplicableRule, importantPartition bool) bool {
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
