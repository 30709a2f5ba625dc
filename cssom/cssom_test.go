package cssom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylo/cascade"
	"stylo/cssom"
)

func TestParseStylesheetRegistersRulesAndReturnsID(t *testing.T) {
	st := cssom.NewStore()
	id, err := st.ParseStylesheet(`div.card { color: red; } p { color: blue; }`, cascade.Author, "test.css")
	require.NoError(t, err)

	sheet, ok := st.Get(id)
	require.True(t, ok)
	assert.Equal(t, cascade.Author, sheet.Origin)
	assert.Len(t, sheet.Rules, 2)
	assert.Equal(t, 1, st.Count())
}

func TestParseStylesheetCrossChecksSelectorsWithCascadia(t *testing.T) {
	st := cssom.NewStore()
	_, err := st.ParseStylesheet(`div.card { color: red; } #main p.lead { color: blue; }`, cascade.Author, "")
	require.NoError(t, err)
	assert.Equal(t, 2, st.CompiledSelectorCount(), "every accepted selector should also be compiled by the cascadia parity cache")
}

func TestParseStylesheetSelectorCascadiaCannotParseIsStillRegistered(t *testing.T) {
	st := cssom.NewStore()
	id, err := st.ParseStylesheet(`div:frobnicate { color: red; }`, cascade.Author, "")
	require.NoError(t, err, "a selector cascadia rejects must not fail ingestion; cascadia is a parity check, not the matcher of record")

	sheet, ok := st.Get(id)
	require.True(t, ok)
	assert.Len(t, sheet.Rules, 1)
}

func TestRemoveEvictsStylesheet(t *testing.T) {
	st := cssom.NewStore()
	id, err := st.ParseStylesheet(`div { color: red; }`, cascade.Author, "")
	require.NoError(t, err)
	st.Remove(id)
	_, ok := st.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 0, st.Count())
}
