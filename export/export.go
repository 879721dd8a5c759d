// Package export provides the data an external HDF5/VTK HyperTreeGrid
// exporter would consume: a descriptor/mask bit-packed payload aligned to
// the octree's level structure, and a traversal order so per-cell payload
// vectors line up with it. It does not write the HDF5/VTK file format; the
// only format it writes is the gob+gzip Snapshot stream (see WriteSnapshot).
package export

import (
	"math"

	"github.com/oktal-sim/octree-go/cellgrid"
	"github.com/oktal-sim/octree-go/octree"
)

// Descriptor returns one bit per non-finest-level node (refined?), packed
// big-endian within each byte: bit 7 is the first node of an 8-group.
func Descriptor(store *octree.Store) []byte {
	notFinestCount := store.NumNodes() - store.NumNodesAt(store.NumLevels()-1)
	out := make([]byte, ceilDiv8(notFinestCount))

	nodes := store.NodesStream()
	for i := 0; i < notFinestCount; i++ {
		if nodes[i].Refined {
			out[i>>3] |= 1 << uint(7-(i&7))
		}
	}
	return out
}

// Mask returns one bit per node (the node's entire subtree is phantom?),
// packed with the same bit ordering as Descriptor, covering every level.
func Mask(store *octree.Store) []byte {
	nodes := store.NodesStream()
	out := make([]byte, ceilDiv8(len(nodes)))

	for i, n := range nodes {
		if allPhantom(nodes, n) {
			out[i>>3] |= 1 << uint(7-(i&7))
		}
	}
	return out
}

// allPhantom reports whether n and its entire subtree (if any) are phantom.
func allPhantom(nodes []octree.PackedNode, n octree.PackedNode) bool {
	if !n.Phantom {
		return false
	}
	if n.Refined {
		for i := uint64(0); i < 8; i++ {
			child := nodes[n.ChildrenStartIndex+i]
			if !allPhantom(nodes, child) {
				return false
			}
		}
	}
	return true
}

func ceilDiv8(n int) int {
	return int(math.Ceil(float64(n) / 8))
}

// AlignPayload prepends zero-padding to payload so its length matches
// totalNodes, leaving it unchanged if it is already that long or longer.
func AlignPayload(payload []float64, totalNodes int) []float64 {
	if len(payload) >= totalNodes {
		return payload
	}
	diff := totalNodes - len(payload)
	out := make([]float64, totalNodes)
	copy(out[diff:], payload)
	return out
}

// TraversalOrder returns the ordinal-to-stream-index array a caller would
// use to align its own payload vectors with the grid's enumeration order.
func TraversalOrder(grid *cellgrid.Grid) []uint64 {
	out := make([]uint64, grid.Len())
	for i, key := range grid.MortonKeys() {
		cell, ok := grid.Store().GetCell(key)
		if !ok {
			continue
		}
		out[i] = uint64(cell.StreamIndex())
	}
	return out
}
