package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stylo/value"
)

func TestLengthPxResolution(t *testing.T) {
	ctx := value.ResolutionContext{
		ParentFontSizePx: 20, RootFontSizePx: 16,
		ViewportWidthPx: 1000, ViewportHeightPx: 500, ReferenceLength: 200,
	}
	assert.Equal(t, 10.0, value.Length{Value: 10, Unit: value.Px}.Px(ctx))
	assert.Equal(t, 40.0, value.Length{Value: 2, Unit: value.Em}.Px(ctx))
	assert.Equal(t, 32.0, value.Length{Value: 2, Unit: value.Rem}.Px(ctx))
	assert.Equal(t, 50.0, value.Length{Value: 25, Unit: value.Percent}.Px(ctx))
	assert.Equal(t, 500.0, value.Length{Value: 50, Unit: value.Vw}.Px(ctx))
	assert.Equal(t, 100.0, value.Length{Value: 20, Unit: value.Vh}.Px(ctx))
}

func TestLengthEmFallsBackTo16PxWithoutParentContext(t *testing.T) {
	l := value.Length{Value: 1.5, Unit: value.Em}
	assert.Equal(t, 24.0, l.Px(value.ResolutionContext{}))
}

func TestSpecificityOrdering(t *testing.T) {
	idWins := value.Specificity{ID: 1}
	manyClasses := value.Specificity{Class: 100}
	assert.True(t, manyClasses.Less(idWins))
	assert.Equal(t, 1, idWins.Compare(manyClasses))

	a := value.Specificity{Class: 2, Type: 1}
	b := value.Specificity{Class: 2, Type: 1}
	assert.Equal(t, 0, a.Compare(b))

	inline := value.InlineSpecificity
	assert.True(t, idWins.Less(inline))
}

func TestSpecificityAdd(t *testing.T) {
	sum := value.Specificity{ID: 1}.Add(value.Specificity{Class: 2}).Add(value.Specificity{Type: 3})
	assert.Equal(t, value.Specificity{ID: 1, Class: 2, Type: 3}, sum)
}

func TestColorString(t *testing.T) {
	assert.Equal(t, "rgb(255,0,0)", value.Opaque(255, 0, 0).String())
	assert.Equal(t, "rgba(0,0,0,0.5)", value.NewColor(0, 0, 0, 0.5).String())
}

func TestColorAlphaClamped(t *testing.T) {
	assert.Equal(t, 1.0, value.NewColor(1, 2, 3, 5).A)
	assert.Equal(t, 0.0, value.NewColor(1, 2, 3, -5).A)
}

func TestDeclarationIsCustomProperty(t *testing.T) {
	ordinary := value.Declaration{Property: value.PropColor}
	custom := value.Declaration{CustomName: "--brand-color"}
	assert.False(t, ordinary.IsCustomProperty())
	assert.True(t, custom.IsCustomProperty())
}

func TestLookupProperty(t *testing.T) {
	id, ok := value.LookupProperty("background-color")
	assert.True(t, ok)
	assert.Equal(t, value.PropBackgroundColor, id)

	_, ok = value.LookupProperty("not-a-real-property")
	assert.False(t, ok)
}
