package stylist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylo/customprop"
	"stylo/stylist"
	"stylo/value"
)

func TestResolveAppliesInitialValuesWhenNothingWins(t *testing.T) {
	bundle, err := stylist.Resolve(map[value.PropertyID]value.Raw{}, nil, 16, 1024, 768, nil, customprop.NewStore())
	require.NoError(t, err)
	color, ok := bundle.Get(value.PropColor)
	require.True(t, ok)
	assert.Equal(t, value.KindColor, color.Kind)
	assert.Equal(t, value.Opaque(0, 0, 0), color.Color)

	fs, ok := bundle.Get(value.PropFontSize)
	require.True(t, ok)
	assert.Equal(t, 16.0, fs.Px)
}

func TestResolveInheritsFromParentWhenNotExplicit(t *testing.T) {
	parent, err := stylist.Resolve(map[value.PropertyID]value.Raw{
		value.PropColor: {Kind: value.KindColor, Color: value.Opaque(10, 20, 30)},
	}, nil, 16, 1024, 768, nil, customprop.NewStore())
	require.NoError(t, err)

	child, err := stylist.Resolve(map[value.PropertyID]value.Raw{}, parent, 16, 1024, 768, nil, customprop.NewStore())
	require.NoError(t, err)
	color, ok := child.Get(value.PropColor)
	require.True(t, ok)
	assert.Equal(t, value.Opaque(10, 20, 30), color.Color)
}

func TestResolveInheritKeywordForcesParentLookup(t *testing.T) {
	parent, err := stylist.Resolve(map[value.PropertyID]value.Raw{
		value.PropColor: {Kind: value.KindColor, Color: value.Opaque(1, 2, 3)},
	}, nil, 16, 1024, 768, nil, customprop.NewStore())
	require.NoError(t, err)

	child, err := stylist.Resolve(map[value.PropertyID]value.Raw{
		value.PropColor: {Kind: value.KindInherit},
	}, parent, 16, 1024, 768, nil, customprop.NewStore())
	require.NoError(t, err)
	color, _ := child.Get(value.PropColor)
	assert.Equal(t, value.Opaque(1, 2, 3), color.Color)
}

func TestResolveFontSizeFirstAllowsEmOnSameElement(t *testing.T) {
	winning := map[value.PropertyID]value.Raw{
		value.PropFontSize:   {Kind: value.KindLength, Length: value.Length{Value: 2, Unit: value.Em}},
		value.PropLineHeight: {Kind: value.KindLength, Length: value.Length{Value: 1, Unit: value.Em}},
	}
	bundle, err := stylist.Resolve(winning, nil, 16, 1024, 768, nil, customprop.NewStore())
	require.NoError(t, err)
	fs, _ := bundle.Get(value.PropFontSize)
	assert.Equal(t, 32.0, fs.Px)
	lh, _ := bundle.Get(value.PropLineHeight)
	assert.Equal(t, 32.0, lh.Px)
}

func TestResolvePercentUsesReferenceLength(t *testing.T) {
	winning := map[value.PropertyID]value.Raw{
		value.PropWidth: {Kind: value.KindLength, Length: value.Length{Value: 50, Unit: value.Percent}},
	}
	ref := map[value.PropertyID]float64{value.PropWidth: 800}
	bundle, err := stylist.Resolve(winning, nil, 16, 1024, 768, ref, customprop.NewStore())
	require.NoError(t, err)
	w, _ := bundle.Get(value.PropWidth)
	assert.Equal(t, 400.0, w.Px)
}

func TestResolveCircularVarFallsBackToInitial(t *testing.T) {
	store := customprop.NewStore()
	store.Set("--a", "var(--b)")
	store.Set("--b", "var(--a)")
	winning := map[value.PropertyID]value.Raw{
		value.PropColor: {Kind: value.KindVar, VarName: "--a"},
	}
	bundle, err := stylist.Resolve(winning, nil, 16, 1024, 768, nil, store)
	require.NoError(t, err)
	color, _ := bundle.Get(value.PropColor)
	assert.Equal(t, value.Opaque(0, 0, 0), color.Color)
}

func TestResolveCalcYieldsLengthInPx(t *testing.T) {
	raw := customprop.ParseValue("calc(10px + 2 * 5px)")
	winning := map[value.PropertyID]value.Raw{
		value.PropMarginTop: raw,
	}
	bundle, err := stylist.Resolve(winning, nil, 16, 1024, 768, nil, customprop.NewStore())
	require.NoError(t, err)
	m, _ := bundle.Get(value.PropMarginTop)
	assert.Equal(t, value.KindLength, m.Kind)
	assert.Equal(t, 20.0, m.Px)
}

func TestIsFullyResolvedTrueForNormalBundle(t *testing.T) {
	bundle, err := stylist.Resolve(map[value.PropertyID]value.Raw{}, nil, 16, 1024, 768, nil, customprop.NewStore())
	require.NoError(t, err)
	assert.True(t, bundle.IsFullyResolved())
}
