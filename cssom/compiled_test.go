package cssom_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"stylo/cssom"
)

func parseHTMLFragment(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	require.NoError(t, err)
	var find func(n *html.Node) *html.Node
	find = func(n *html.Node) *html.Node {
		if n.Type == html.ElementNode && n.Data == "body" {
			return n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := find(c); found != nil {
				return found
			}
		}
		return nil
	}
	body := find(doc)
	require.NotNil(t, body)
	return body.FirstChild
}

func TestCompiledSelectorCacheMatchesExpectedNodes(t *testing.T) {
	root := parseHTMLFragment(t, `<html><body><div id="main" class="card highlighted"><p>hi</p></div></body></html>`)
	require.Equal(t, "div", root.Data)

	cache := cssom.NewCompiledSelectorCache()

	ok, err := cache.MatchesHTML("div.card", root)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cache.MatchesHTML("#main.highlighted", root)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cache.MatchesHTML("span.card", root)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompiledSelectorCacheCachesCompiledSelectors(t *testing.T) {
	root := parseHTMLFragment(t, `<html><body><div class="card"></div></body></html>`)
	cache := cssom.NewCompiledSelectorCache()

	_, err := cache.MatchesHTML(".card", root)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Size())

	_, err = cache.MatchesHTML(".card", root)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Size(), "second lookup of the same selector text should hit the cache")
}

func TestCompiledSelectorCacheReportsCompileErrors(t *testing.T) {
	cache := cssom.NewCompiledSelectorCache()
	_, err := cache.Compile(":::not-a-selector")
	assert.Error(t, err)

	// The error is cached too; a second call should not panic or hang.
	_, err2 := cache.Compile(":::not-a-selector")
	assert.Error(t, err2)
}
