package douceuradapter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylo/cascade"
	"stylo/cssom/douceuradapter"
	"stylo/value"
)

func orderCounter() func() uint32 {
	var n uint32
	return func() uint32 {
		n++
		return n
	}
}

func TestParseRulesBasic(t *testing.T) {
	src := `div.card { color: red; margin-top: 2px; }`
	rules, err := douceuradapter.ParseRules(src, cascade.Author, orderCounter())
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, cascade.Author, rules[0].Origin)
	assert.Equal(t, uint32(1), rules[0].SourceOrder)
	require.Len(t, rules[0].Declarations, 2)
	assert.Equal(t, value.PropColor, rules[0].Declarations[0].Property)
	assert.Equal(t, "red", rules[0].Declarations[0].Value.Keyword)
}

func TestParseRulesFlattensMediaQuery(t *testing.T) {
	src := `@media (min-width: 600px) { .box { display: block; } }`
	rules, err := douceuradapter.ParseRules(src, cascade.Author, orderCounter())
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Contains(t, rules[0].MediaQuery, "min-width")
}

func TestParseRulesSkipsImportAndKeyframes(t *testing.T) {
	src := `@import url(foo.css); @keyframes spin { from { opacity: 0; } to { opacity: 1; } } p { color: blue; }`
	rules, err := douceuradapter.ParseRules(src, cascade.Author, orderCounter())
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, value.PropColor, rules[0].Declarations[0].Property)
}

func TestParseRulesExtractsCustomProperties(t *testing.T) {
	src := `:root { --brand-color: teal; color: var(--brand-color); }`
	rules, err := douceuradapter.ParseRules(src, cascade.Author, orderCounter())
	require.NoError(t, err)
	require.Len(t, rules, 1)
	require.Len(t, rules[0].Declarations, 2)
	assert.Equal(t, "--brand-color", rules[0].Declarations[0].CustomName)
	assert.Equal(t, "teal", rules[0].Declarations[0].Value.Keyword)
	assert.Equal(t, value.KindVar, rules[0].Declarations[1].Value.Kind)
	assert.Equal(t, "--brand-color", rules[0].Declarations[1].Value.VarName)
}

func TestParseRulesSkipsInvalidSelectorButKeepsRest(t *testing.T) {
	src := `div[ { color: red; } span { color: green; }`
	rules, err := douceuradapter.ParseRules(src, cascade.Author, orderCounter())
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "green", rules[0].Declarations[0].Value.Keyword)
}

func TestParseRulesUnsupportedPropertyGetsSentinelID(t *testing.T) {
	src := `div { -webkit-nonsense: 1; }`
	rules, err := douceuradapter.ParseRules(src, cascade.Author, orderCounter())
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, value.PropertyID(0xFFFF), rules[0].Declarations[0].Property)
}

func TestParseRulesReturnsErrorForUnparseableSource(t *testing.T) {
	_, err := douceuradapter.ParseRules("{{{{", cascade.Author, orderCounter())
	if err != nil {
		var perr *douceuradapter.ParseError
		assert.ErrorAs(t, err, &perr)
	}
}

func TestParseInlineDeclarations(t *testing.T) {
	decls, err := douceuradapter.ParseInlineDeclarations("color: red; margin-top: 2px")
	require.NoError(t, err)
	require.Len(t, decls, 2)
	assert.Equal(t, value.PropColor, decls[0].Property)
	assert.Equal(t, "red", decls[0].Value.Keyword)
}

func TestParseInlineDeclarationsEmpty(t *testing.T) {
	decls, err := douceuradapter.ParseInlineDeclarations("")
	require.NoError(t, err)
	assert.Empty(t, decls)
}
