// Package stylist drives inheritance and unit resolution: it turns a
// cascade's winning raw declarations plus a parent bundle into a computed
// bundle, per §4.3. It generalizes the teacher's PropertyGroup/PropertyMap
// cascading walk (dom/style/property.go, dom/style/cssom/cssom.go's
// createStyleGroups) from the teacher's approximate, string-keyed property
// groups to the specification's exact per-property inheritance and
// absolute-pixel unit resolution.
package stylist

import (
	"github.com/npillmayer/schuko/tracing"

	"stylo/customprop"
	"stylo/value"
)

func tracer() tracing.Trace {
	return tracing.Select("stylo.stylist")
}

// ResolvedValue is a property's fully-computed value: every length is in
// px, every color has resolved alpha, no inherit/var/calc remains.
type ResolvedValue struct {
	Kind    value.Kind // KindKeyword, KindLength (Px populated), KindColor, or KindNumber
	Keyword string
	Px      float64
	Color   value.Color
	Number  float64
}

// ComputedBundle is the flat, fully-resolved property set for one element.
type ComputedBundle struct {
	Properties map[value.PropertyID]ResolvedValue
}

// NewComputedBundle creates an empty bundle.
func NewComputedBundle() *ComputedBundle {
	return &ComputedBundle{Properties: make(map[value.PropertyID]ResolvedValue)}
}

// Get returns a property's resolved value, defaulting to the zero value if
// absent (callers resolve every property during assembly, so absence only
// occurs for property ids stylo does not model).
func (b *ComputedBundle) Get(id value.PropertyID) (ResolvedValue, bool) {
	v, ok := b.Properties[id]
	return v, ok
}

// IsFullyResolved checks the bundle invariant: every length field carries a
// finite px value, satisfied by construction since Resolve never stores a
// KindLength ResolvedValue without going through Length.Px first.
func (b *ComputedBundle) IsFullyResolved() bool {
	for _, v := range b.Properties {
		if v.Kind == value.KindLength {
			if v.Px != v.Px { // NaN check without importing math
				return false
			}
		}
	}
	return true
}

// FontSizePx returns the bundle's resolved font-size, defaulting to 16 for
// a bundle that never set one (the root's implicit parent).
func (b *ComputedBundle) FontSizePx() float64 {
	if v, ok := b.Get(value.PropFontSize); ok && v.Kind == value.KindLength {
		return v.Px
	}
	return 16
}

// Resolve assembles a computed bundle from cascaded declarations. parent
// may be nil (the tree root). referenceLengths supplies the per-property
// percentage base the stylist alone knows (box-model widths, etc.) — the
// unit resolver never guesses it, per §4.3.
func Resolve(
	winning map[value.PropertyID]value.Raw,
	parent *ComputedBundle,
	rootFontSizePx, viewportWidthPx, viewportHeightPx float64,
	referenceLengths map[value.PropertyID]float64,
	customStore *customprop.Store,
) (*ComputedBundle, error) {
	out := NewComputedBundle()
	parentFontSize := 16.0
	if parent != nil {
		parentFontSize = parent.FontSizePx()
	}

	// font-size resolves first among inherited properties so sibling
	// em-valued properties on this element see it already computed.
	order := orderedProperties()
	var circularErr error
	for _, pid := range order {
		raw, explicit := winning[pid]
		if !explicit {
			if value.Inherited[pid] && parent != nil {
				if pv, ok := parent.Get(pid); ok {
					out.Properties[pid] = pv
					continue
				}
			}
			raw = value.Initial[pid]
		} else if raw.Kind == value.KindInherit {
			if parent != nil {
				if pv, ok := parent.Get(pid); ok {
					out.Properties[pid] = pv
					continue
				}
			}
			raw = value.Initial[pid]
		}
		resCtx := value.ResolutionContext{
			ParentFontSizePx: parentFontSize,
			RootFontSizePx:   rootFontSizePx,
			ViewportWidthPx:  viewportWidthPx,
			ViewportHeightPx: viewportHeightPx,
			ReferenceLength:  referenceLengths[pid],
		}
		rv, err := resolveOne(raw, resCtx, customStore)
		if err != nil {
			if _, ok := err.(*customprop.ErrCircularReference); ok {
				circularErr = err
				rv = initialResolved(pid)
			} else {
				return nil, err
			}
		}
		out.Properties[pid] = rv
		if pid == value.PropFontSize {
			parentFontSize = rv.Px
		}
	}
	if circularErr != nil {
		tracer().Infof("circular var() reference resolved to initial value: %v", circularErr)
	}
	return out, nil
}

func initialResolved(pid value.PropertyID) ResolvedValue {
	rv, _ := resolveOne(value.Initial[pid], value.ResolutionContext{}, customprop.NewStore())
	return rv
}

func resolveOne(raw value.Raw, ctx value.ResolutionContext, customStore *customprop.Store) (ResolvedValue, error) {
	switch raw.Kind {
	case value.KindVar:
		resolved, err := customprop.ResolveVar(raw, customStore)
		if err != nil {
			return ResolvedValue{}, err
		}
		return resolveOne(resolved, ctx, customStore)
	case value.KindCalc:
		px := customprop.EvalCalc(raw.Calc, ctx)
		return ResolvedValue{Kind: value.KindLength, Px: px}, nil
	case value.KindLength:
		return ResolvedValue{Kind: value.KindLength, Px: raw.Length.Px(ctx)}, nil
	case value.KindColor:
		return ResolvedValue{Kind: value.KindColor, Color: raw.Color}, nil
	case value.KindNumber:
		return ResolvedValue{Kind: value.KindNumber, Number: raw.Number}, nil
	case value.KindKeyword:
		return ResolvedValue{Kind: value.KindKeyword, Keyword: raw.Keyword}, nil
	case value.KindInherit:
		// Unreachable in normal flow (handled by the caller before
		// reaching resolveOne); treated as the initial keyword sentinel
		// defensively.
		return ResolvedValue{Kind: value.KindKeyword, Keyword: "initial"}, nil
	default:
		return ResolvedValue{Kind: value.KindKeyword, Keyword: ""}, nil
	}
}

func orderedProperties() []value.PropertyID {
	return []value.PropertyID{
		value.PropFontSize, // first: em on siblings depends on it
		value.PropColor,
		value.PropBackgroundColor,
		value.PropDisplay,
		value.PropPosition,
		value.PropFontFamily,
		value.PropLineHeight,
		value.PropTextAlign,
		value.PropWidth,
		value.PropHeight,
		value.PropMarginTop,
		value.PropMarginRight,
		value.PropMarginBottom,
		value.PropMarginLeft,
		value.PropPaddingTop,
		value.PropPaddingRight,
		value.PropPaddingBottom,
		value.PropPaddingLeft,
		value.PropBorderTopWidth,
		value.PropBorderRightWidth,
		value.PropBorderBottomWidth,
		value.PropBorderLeftWidth,
	}
}
