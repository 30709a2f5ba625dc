package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylo/cache"
	"stylo/domiface"
	"stylo/stylist"
	"stylo/value"
)

type fakeElement struct {
	id      string
	tag     string
	classes []string
}

func (f fakeElement) ElementID() string                       { return f.id + f.tag }
func (f fakeElement) TagName() string                          { return f.tag }
func (f fakeElement) ID() string                               { return f.id }
func (f fakeElement) Classes() []string                        { return f.classes }
func (f fakeElement) Attribute(string) (string, bool)           { return "", false }
func (f fakeElement) Parent() (domiface.Element, bool)          { return nil, false }
func (f fakeElement) PreviousSibling() (domiface.Element, bool) { return nil, false }
func (f fakeElement) Children() []domiface.Element              { return nil }
func (f fakeElement) SiblingPosition() int                      { return 1 }
func (f fakeElement) SiblingCount() int                         { return 1 }
func (f fakeElement) SiblingPositionOfType() int                { return 1 }
func (f fakeElement) SiblingCountOfType() int                   { return 1 }
func (f fakeElement) HasChildren() bool                         { return false }
func (f fakeElement) IsEnabled() bool                           { return true }
func (f fakeElement) IsChecked() bool                           { return false }
func (f fakeElement) LinkURL() (string, bool)                   { return "", false }
func (f fakeElement) StateFlags() domiface.StateFlags           { return 0 }

func TestFingerprintElementIgnoresClassOrder(t *testing.T) {
	a := fakeElement{tag: "div", classes: []string{"card", "highlighted"}}
	b := fakeElement{tag: "div", classes: []string{"highlighted", "card"}}
	assert.Equal(t, cache.FingerprintElement(a), cache.FingerprintElement(b))
}

func TestFingerprintElementDiffersByTag(t *testing.T) {
	a := fakeElement{tag: "div"}
	b := fakeElement{tag: "span"}
	assert.NotEqual(t, cache.FingerprintElement(a), cache.FingerprintElement(b))
}

func TestCacheInsertGetInvalidate(t *testing.T) {
	c := cache.New()
	key := cache.Key{MatchFingerprint: 1}
	bundle := stylist.NewComputedBundle()
	bundle.Properties[value.PropColor] = stylist.ResolvedValue{Kind: value.KindKeyword, Keyword: "red"}

	_, ok := c.Get(key)
	assert.False(t, ok)

	c.Insert(key, "elem-1", bundle)
	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Same(t, bundle, got)

	c.Invalidate("elem-1")
	_, ok = c.Get(key)
	assert.False(t, ok)
}

func TestCacheHitRate(t *testing.T) {
	c := cache.New()
	assert.Equal(t, 0.0, c.HitRate())
	key := cache.Key{MatchFingerprint: 1}
	c.Insert(key, "e", stylist.NewComputedBundle())
	c.Get(key)
	c.Get(cache.Key{MatchFingerprint: 2})
	assert.Equal(t, 0.5, c.HitRate())
}

func TestCachePeekDoesNotAffectStats(t *testing.T) {
	c := cache.New()
	key := cache.Key{MatchFingerprint: 1}
	c.Insert(key, "e", stylist.NewComputedBundle())
	c.Peek(key)
	c.Peek(cache.Key{MatchFingerprint: 99})
	assert.Equal(t, 0.0, c.HitRate())
}

func TestCacheClearResetsEverything(t *testing.T) {
	c := cache.New()
	key := cache.Key{MatchFingerprint: 1}
	c.Insert(key, "e", stylist.NewComputedBundle())
	c.Get(key)
	c.Clear()
	assert.Equal(t, 0, c.Size())
	assert.Equal(t, 0.0, c.HitRate())
}

func TestSharingDonorRequiresNoID(t *testing.T) {
	s := cache.NewSharing()
	withID := fakeElement{id: "main", tag: "div"}
	s.Register(withID, cache.Key{MatchFingerprint: 1})
	_, ok := s.Donor(withID)
	assert.False(t, ok)
}

func TestSharingDonorMatchesStructurallyEquivalentElement(t *testing.T) {
	s := cache.NewSharing()
	first := fakeElement{tag: "li", classes: []string{"item"}}
	second := fakeElement{tag: "li", classes: []string{"item"}}

	key := cache.Key{MatchFingerprint: 42}
	s.Register(first, key)

	got, ok := s.Donor(second)
	require.True(t, ok)
	assert.Equal(t, key, got)
}
