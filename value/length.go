package value

import (
	"fmt"
	"math"
)

// Unit identifies the unit a Length is expressed in prior to resolution.
type Unit uint8

const (
	Px Unit = iota
	Em
	Rem
	Percent
	Vw
	Vh
)

func (u Unit) String() string {
	switch u {
	case Px:
		return "px"
	case Em:
		return "em"
	case Rem:
		return "rem"
	case Percent:
		return "%"
	case Vw:
		return "vw"
	case Vh:
		return "vh"
	default:
		return "?"
	}
}

// Length is a value paired with a unit. It is not necessarily resolved to
// pixels; resolution happens against a ResolutionContext (see the customprop
// and stylist packages).
type Length struct {
	Value float64
	Unit  Unit
}

// IsFinite reports whether l satisfies the Length invariant (finite value).
func (l Length) IsFinite() bool {
	return !math.IsNaN(l.Value) && !math.IsInf(l.Value, 0)
}

func (l Length) String() string {
	return fmt.Sprintf("%g%s", l.Value, l.Unit)
}

// ResolutionContext carries everything a Length needs to resolve to an
// absolute pixel value. ReferenceLength is the percentage base and is
// supplied per-call by the caller (the stylist, for box-model percentages)
// — the resolver never guesses it.
type ResolutionContext struct {
	ParentFontSizePx float64
	RootFontSizePx   float64
	ViewportWidthPx  float64
	ViewportHeightPx float64
	ReferenceLength  float64
}

// Px resolves l to an absolute pixel value under ctx. Division by zero is
// not possible here (lengths carry no division); calc() handles that case
// in the customprop package.
func (l Length) Px(ctx ResolutionContext) float64 {
	switch l.Unit {
	case Px:
		return l.Value
	case Em:
		parent := ctx.ParentFontSizePx
		if parent == 0 {
			parent = 16
		}
		return l.Value * parent
	case Rem:
		root := ctx.RootFontSizePx
		if root == 0 {
			root = 16
		}
		return l.Value * root
	case Percent:
		return l.Value * ctx.ReferenceLength / 100
	case Vw:
		return l.Value * ctx.ViewportWidthPx / 100
	case Vh:
		return l.Value * ctx.ViewportHeightPx / 100
	default:
		return l.Value
	}
}

// Px0 wraps a plain pixel length, the common case for computed bundles.
func Px0(v float64) Length { return Length{Value: v, Unit: Px} }
