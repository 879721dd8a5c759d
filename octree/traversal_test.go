package octree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oktal-sim/octree-go/morton"
	"github.com/oktal-sim/octree-go/octree"
)

func keysOf(it *octree.CellIterator) []morton.Key {
	var keys []morton.Key
	for ; !it.Done(); it.Next() {
		keys = append(keys, it.Cell().MortonIndex())
	}
	return keys
}

func TestPreOrderDepthFirst_SkipsPhantoms(t *testing.T) {
	store, err := octree.FromDescriptor("X|X.....PP|....PP..")
	assert.NoError(t, err)

	want := []morton.Key{
		0b1000000, 0b1000001, 0b1000010, 0b1000011, 0b1000110, 0b1000111,
		0b1001, 0b1010, 0b1011, 0b1100, 0b1101,
	}
	assert.Equal(t, want, keysOf(store.PreOrderDepthFirst()))
}

func TestHorizontal_SkipsPhantomsAndReanchorsAcrossGroups(t *testing.T) {
	store, err := octree.FromDescriptor("X|X..PP..X|P.....PP.P.P.P.P")
	assert.NoError(t, err)

	want := []morton.Key{
		0b1000001, 0b1000010, 0b1000011, 0b1000100, 0b1000101,
		0b1111000, 0b1111010, 0b1111100, 0b1111110,
	}
	assert.Equal(t, want, keysOf(store.Horizontal(2)))
}

func TestHorizontal_OutOfRangeLevelIsEmpty(t *testing.T) {
	store, err := octree.FromDescriptor("R|........")
	assert.NoError(t, err)

	it := store.Horizontal(5)
	assert.True(t, it.Done())
}

func TestHorizontal_UniformGridVisitsEveryLeafInAscendingOrder(t *testing.T) {
	store := octree.NewUniformGrid(octree.DefaultGeometry(), 2)

	var prev int = -1
	for it := store.Horizontal(2); !it.Done(); it.Next() {
		idx := it.Cell().StreamIndex()
		assert.Greater(t, idx, prev)
		prev = idx
	}
}
