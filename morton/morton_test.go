package morton_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oktal-sim/octree-go/morton"
)

func TestFromPath_EmptyYieldsRoot(t *testing.T) {
	key, err := morton.FromPath(nil)
	assert.NoError(t, err)
	assert.Equal(t, morton.Root, key)
	assert.True(t, key.IsRoot())
	assert.Equal(t, 0, key.Level())
}

func TestFromPath_PathRoundTrip(t *testing.T) {
	path := []int{3, 0, 7, 5}
	key, err := morton.FromPath(path)
	assert.NoError(t, err)
	assert.Equal(t, 4, key.Level())
	assert.Equal(t, path, key.Path())
}

func TestFromPath_RejectsOutOfRangeChoice(t *testing.T) {
	_, err := morton.FromPath([]int{0, 8})
	assert.Error(t, err)
}

func TestFromPath_RejectsTooDeep(t *testing.T) {
	path := make([]int, morton.MaxDepth+1)
	_, err := morton.FromPath(path)
	assert.Error(t, err)
}

func TestParentChild_RoundTrip(t *testing.T) {
	root := morton.Root
	child := root.Child(5)
	assert.Equal(t, 5, child.SiblingIndex())
	assert.Equal(t, 1, child.Level())

	parent, err := child.SafeParent()
	assert.NoError(t, err)
	assert.Equal(t, root, parent)
}

func TestSafeParent_RootFails(t *testing.T) {
	_, err := morton.Root.SafeParent()
	assert.Error(t, err)
}

func TestSafeChild_RejectsOverflow(t *testing.T) {
	path := make([]int, morton.MaxDepth)
	key, err := morton.FromPath(path)
	assert.NoError(t, err)

	_, err = key.SafeChild(0)
	assert.Error(t, err)
}

func TestSiblingBoundaries(t *testing.T) {
	first := morton.Root.Child(0)
	last := morton.Root.Child(7)
	mid := morton.Root.Child(3)

	assert.True(t, first.IsFirstSibling())
	assert.False(t, first.IsLastSibling())
	assert.True(t, last.IsLastSibling())
	assert.False(t, last.IsFirstSibling())
	assert.False(t, mid.IsFirstSibling())
	assert.False(t, mid.IsLastSibling())

	assert.True(t, morton.Root.IsLastSibling())
}

func TestAncestorOrder(t *testing.T) {
	root := morton.Root
	child := root.Child(2)
	grandchild := child.Child(6)
	sibling := root.Child(5)

	assert.True(t, root.Less(child))
	assert.True(t, root.Less(grandchild))
	assert.True(t, grandchild.Greater(child))
	assert.True(t, child.Greater(root))

	assert.False(t, child.Less(sibling))
	assert.False(t, sibling.Less(child))

	assert.True(t, root.LessOrEqual(root))
	assert.True(t, root.LessOrEqual(grandchild))
	assert.True(t, grandchild.GreaterOrEqual(root))
	assert.False(t, child.LessOrEqual(sibling))
}

func TestGridCoordinates_RoundTrip(t *testing.T) {
	for level := 0; level <= 3; level++ {
		extent := uint64(1) << uint(level)
		for x := uint64(0); x < extent; x++ {
			for y := uint64(0); y < extent; y++ {
				for z := uint64(0); z < extent; z++ {
					key := morton.FromGridCoordinates(level, x, y, z)
					assert.Equal(t, level, key.Level())

					gx, gy, gz := key.GridCoordinates()
					assert.Equal(t, x, gx)
					assert.Equal(t, y, gy)
					assert.Equal(t, z, gz)
				}
			}
		}
	}
}

func TestGridCoordinates_Root(t *testing.T) {
	x, y, z := morton.Root.GridCoordinates()
	assert.Equal(t, uint64(0), x)
	assert.Equal(t, uint64(0), y)
	assert.Equal(t, uint64(0), z)
}
