package invalidation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stylo/invalidation"
)

func TestTranslateIncludesElementDescendantsAndSiblings(t *testing.T) {
	tc := invalidation.TreeContext{
		DescendantsOf: func(id string) []string {
			if id == "a" {
				return []string{"a.1", "a.2"}
			}
			return nil
		},
		NextSiblingsOf: func(id string) []string {
			if id == "a" {
				return []string{"b", "c"}
			}
			return nil
		},
	}
	set := invalidation.Translate(invalidation.Invalidation{Kind: invalidation.AttributeChange, ElementID: "a"}, tc)
	assert.True(t, set["a"])
	assert.True(t, set["a.1"])
	assert.True(t, set["a.2"])
	assert.True(t, set["b"])
	assert.True(t, set["c"])
	assert.Len(t, set, 5)
}

func TestTranslateWithNilTreeContextFuncsOnlyIncludesSelf(t *testing.T) {
	set := invalidation.Translate(invalidation.Invalidation{Kind: invalidation.ClassChange, ElementID: "x"}, invalidation.TreeContext{})
	assert.Equal(t, invalidation.EvictionSet{"x": true}, set)
}

func TestTrackerRecordIsIdempotentForDuplicates(t *testing.T) {
	tr := invalidation.NewTracker()
	inv := invalidation.Invalidation{Kind: invalidation.AttributeChange, ElementID: "a"}
	tr.Record(inv)
	tr.Record(inv)
	assert.Len(t, tr.Drain(), 1)
}

func TestTrackerDrainClearsPending(t *testing.T) {
	tr := invalidation.NewTracker()
	tr.Record(invalidation.Invalidation{Kind: invalidation.ElementInserted, ElementID: "a"})
	first := tr.Drain()
	assert.Len(t, first, 1)
	second := tr.Drain()
	assert.Empty(t, second)
}

func TestTrackerDirtyElementsWithoutDraining(t *testing.T) {
	tr := invalidation.NewTracker()
	tr.Record(invalidation.Invalidation{Kind: invalidation.ElementRemoved, ElementID: "a"})
	tr.Record(invalidation.Invalidation{Kind: invalidation.ClassChange, ElementID: "b"})
	dirty := tr.DirtyElements()
	assert.True(t, dirty["a"])
	assert.True(t, dirty["b"])
	assert.Len(t, tr.Drain(), 2)
}
