package matcher_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"stylo/domiface/htmladapter"
	"stylo/matcher"
	"stylo/selector"
)

func parseFragment(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	require.NoError(t, err)
	var find func(n *html.Node) *html.Node
	find = func(n *html.Node) *html.Node {
		if n.Type == html.ElementNode && n.Data == "body" {
			return n.FirstChild
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := find(c); found != nil {
				return found
			}
		}
		return nil
	}
	return find(doc)
}

func TestMatchesDescendantAndChildCombinators(t *testing.T) {
	root := parseFragment(t, `<ul id="nav"><li class="item"><a href="/x">x</a></li></ul>`)
	anchor := htmladapter.Wrap(root, 0).Children()[0].Children()[0]

	list, err := selector.Parse("#nav li a")
	require.NoError(t, err)
	assert.True(t, matcher.Matches(list, anchor, matcher.Context{}))

	list, err = selector.Parse("#nav > a")
	require.NoError(t, err)
	assert.False(t, matcher.Matches(list, anchor, matcher.Context{}))
}

func TestMatchesAdjacentSibling(t *testing.T) {
	root := parseFragment(t, `<div><h2>Title</h2><p>body</p></div>`)
	div := htmladapter.Wrap(root, 0)
	p := div.Children()[1]

	list, err := selector.Parse("h2 + p")
	require.NoError(t, err)
	assert.True(t, matcher.Matches(list, p, matcher.Context{}))
}

func TestMatchesClassAndAttribute(t *testing.T) {
	root := parseFragment(t, `<div class="card highlighted" data-open></div>`)
	el := htmladapter.Wrap(root, 0)

	list, err := selector.Parse(".card.highlighted[data-open]")
	require.NoError(t, err)
	assert.True(t, matcher.Matches(list, el, matcher.Context{}))

	list, err = selector.Parse(".missing")
	require.NoError(t, err)
	assert.False(t, matcher.Matches(list, el, matcher.Context{}))
}

func TestMatchesNthChild(t *testing.T) {
	root := parseFragment(t, `<ul><li>a</li><li>b</li><li>c</li></ul>`)
	ul := htmladapter.Wrap(root, 0)
	second := ul.Children()[1]

	list, err := selector.Parse("li:nth-child(2)")
	require.NoError(t, err)
	assert.True(t, matcher.Matches(list, second, matcher.Context{}))

	list, err = selector.Parse("li:nth-child(odd)")
	require.NoError(t, err)
	assert.False(t, matcher.Matches(list, second, matcher.Context{}))
	assert.True(t, matcher.Matches(list, ul.Children()[0], matcher.Context{}))
}

func TestMatchesNthChildNegativeCoefficient(t *testing.T) {
	root := parseFragment(t, `<ul><li>1</li><li>2</li><li>3</li><li>4</li><li>5</li><li>6</li></ul>`)
	ul := htmladapter.Wrap(root, 0)

	list, err := selector.Parse("li:nth-child(-n+5)")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		assert.True(t, matcher.Matches(list, ul.Children()[i], matcher.Context{}), "expected child %d to match", i+1)
	}
	assert.False(t, matcher.Matches(list, ul.Children()[5], matcher.Context{}))
}

func TestMatchesEmptyListNeverMatches(t *testing.T) {
	root := parseFragment(t, `<div></div>`)
	el := htmladapter.Wrap(root, 0)
	assert.False(t, matcher.Matches(selector.SelectorList{}, el, matcher.Context{}))
}
