package export_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oktal-sim/octree-go/cellgrid"
	"github.com/oktal-sim/octree-go/export"
	"github.com/oktal-sim/octree-go/octree"
)

func TestDescriptor_CoversOnlyNonFinestLevels(t *testing.T) {
	store, err := octree.FromDescriptor("R|........")
	assert.NoError(t, err)

	descriptor := export.Descriptor(store)
	// One node (the root) on the non-finest level: bit 7 of byte 0 is set.
	assert.Equal(t, []byte{0x80}, descriptor)
}

func TestMask_FlagsWhollyPhantomSubtrees(t *testing.T) {
	store, err := octree.FromDescriptor("X|PPPPPPPP")
	assert.NoError(t, err)

	mask := export.Mask(store)
	// Root (phantom, refined, all children phantom) and all 8 children are
	// wholly-phantom: the first 9 bits are set.
	assert.Equal(t, byte(0xFF), mask[0])
	assert.Equal(t, byte(0x80), mask[1])
}

func TestMask_RefinedWithARealDescendantIsNotMasked(t *testing.T) {
	store, err := octree.FromDescriptor("X|PPPPPPP.")
	assert.NoError(t, err)

	mask := export.Mask(store)
	assert.Equal(t, byte(0), mask[0]&0x80, "root has a real descendant, must not be masked")
}

func TestAlignPayload_PrependsZeroPadding(t *testing.T) {
	payload := []float64{1, 2, 3}
	aligned := export.AlignPayload(payload, 5)

	assert.Equal(t, []float64{0, 0, 1, 2, 3}, aligned)
}

func TestAlignPayload_LeavesLongEnoughPayloadUnchanged(t *testing.T) {
	payload := []float64{1, 2, 3}
	aligned := export.AlignPayload(payload, 2)
	assert.Equal(t, payload, aligned)
}

func TestTraversalOrder_MatchesGridEnumeration(t *testing.T) {
	store, err := octree.FromDescriptor("R|........")
	assert.NoError(t, err)

	grid := cellgrid.New(store).Levels(1).Build()
	order := export.TraversalOrder(grid)

	assert.Len(t, order, grid.Len())
	for i, streamIndex := range order {
		cell, err := grid.CellView(i)
		assert.NoError(t, err)
		assert.Equal(t, uint64(cell.StreamIndex()), streamIndex)
	}
}

func TestSnapshot_RoundTripsThroughWriteAndRead(t *testing.T) {
	store, err := octree.FromDescriptor("X|..PP..RX|................")
	assert.NoError(t, err)

	payloads := map[string][]float64{
		"pressure": export.AlignPayload([]float64{1, 2, 3}, store.NumNodes()),
	}
	snap := export.NewSnapshot(store, payloads)
	assert.NotEmpty(t, snap.RunID)

	var buf bytes.Buffer
	assert.NoError(t, export.WriteSnapshot(&buf, snap))

	got, err := export.ReadSnapshot(&buf)
	assert.NoError(t, err)
	assert.Equal(t, snap.RunID, got.RunID)
	assert.Equal(t, snap.LevelCounts, got.LevelCounts)
	assert.Equal(t, snap.Descriptor, got.Descriptor)
	assert.Equal(t, snap.Payloads, got.Payloads)

	rebuilt := got.Store()
	assert.Equal(t, store.NumNodes(), rebuilt.NumNodes())
	assert.Equal(t, store.NumLevels(), rebuilt.NumLevels())
}
