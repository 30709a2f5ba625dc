package treewalk_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylo/treewalk"
)

func TestAddChildLinksParentAndPreservesOrder(t *testing.T) {
	root := treewalk.NewNode("root")
	a := treewalk.NewNode("a")
	b := treewalk.NewNode("b")
	root.AddChild(a)
	root.AddChild(b)

	children := root.Children(false)
	require.Len(t, children, 2)
	assert.Equal(t, "a", children[0].Payload)
	assert.Equal(t, "b", children[1].Payload)
	assert.Same(t, root, a.Parent())
	assert.Same(t, root, b.Parent())
}

func TestParentIsNilAtRoot(t *testing.T) {
	root := treewalk.NewNode("root")
	assert.Nil(t, root.Parent())
}

func TestAddChildIgnoresNil(t *testing.T) {
	root := treewalk.NewNode("root")
	root.AddChild(nil)
	assert.Empty(t, root.Children(false))
}

func TestConcurrentAddChildIsSafe(t *testing.T) {
	root := treewalk.NewNode("root")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			root.AddChild(treewalk.NewNode(i))
		}(i)
	}
	wg.Wait()
	assert.Len(t, root.Children(false), 50)
}
