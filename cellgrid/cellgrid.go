package cellgrid

import (
	"math"

	"github.com/oktal-sim/octree-go/errs"
	"github.com/oktal-sim/octree-go/morton"
	"github.com/oktal-sim/octree-go/octree"
	"github.com/oktal-sim/octree-go/vec"
)

// NotEnumerated is the sentinel value for a stream index that has no
// enumeration ordinal (it is phantom, or outside the grid's selected
// levels).
const NotEnumerated uint64 = math.MaxUint64

// NoNeighbor is the sentinel value recorded in an adjacency table when a
// cell has no same-level neighbor at the given offset.
const NoNeighbor = NotEnumerated

// Offset is a neighborhood offset in grid coordinates.
type Offset struct {
	DX, DY, DZ int64
}

func (o Offset) vector() vec.Vector3i {
	return vec.Vector3i{X: o.DX, Y: o.DY, Z: o.DZ}
}

// Grid is a dense enumeration of the non-phantom cells at a chosen subset
// of an octree's levels, plus precomputed same-level adjacency tables for a
// user-supplied neighborhood. Grids are built once and are immutable.
type Grid struct {
	store        *octree.Store
	mortonKeys   []morton.Key
	streamToEnum []uint64
	offsets      []Offset
	adjacency    [][]uint64
}

// Store returns the octree backing this grid.
func (g *Grid) Store() *octree.Store {
	return g.store
}

// Len returns the number of enumerated cells.
func (g *Grid) Len() int {
	return len(g.mortonKeys)
}

// MortonKeys returns the Morton key of every enumerated cell, in
// enumeration order.
func (g *Grid) MortonKeys() []morton.Key {
	return g.mortonKeys
}

// EnumerationIndex returns the ordinal of the cell at streamIndex in the
// backing store, or NotEnumerated if it is phantom or outside the grid's
// selected levels.
func (g *Grid) EnumerationIndex(streamIndex int) uint64 {
	if streamIndex < 0 || streamIndex >= len(g.streamToEnum) {
		return NotEnumerated
	}
	return g.streamToEnum[streamIndex]
}

// EnumerationIndexOf returns the ordinal of the given cell view, or
// NotEnumerated for phantom cells.
func (g *Grid) EnumerationIndexOf(cell octree.CellView) uint64 {
	if cell.IsPhantom() {
		return NotEnumerated
	}
	return g.EnumerationIndex(cell.StreamIndex())
}

// CellView returns the cell view at the given ordinal.
func (g *Grid) CellView(ordinal int) (octree.CellView, error) {
	if ordinal < 0 || ordinal >= len(g.mortonKeys) {
		return octree.CellView{}, errs.OutOfBounds("Grid.CellView", "ordinal %d out of range [0, %d)", ordinal, len(g.mortonKeys))
	}
	cell, _ := g.store.GetCell(g.mortonKeys[ordinal])
	return cell, nil
}

// NeighborIndices returns the precomputed adjacency table for offset:
// NeighborIndices(offset)[i] is the ordinal of the same-level neighbor of
// enumerated cell i, or NoNeighbor. Fails with OutOfRange if offset was not
// part of the grid's configured neighborhood.
func (g *Grid) NeighborIndices(offset Offset) ([]uint64, error) {
	for i, o := range g.offsets {
		if o == offset {
			return g.adjacency[i], nil
		}
	}
	return nil, errs.OutOfBounds("Grid.NeighborIndices", "offset %+v is not part of this grid's neighborhood", offset)
}

type coordKey struct {
	x, y, z uint64
}

func gridCoordKey(k morton.Key) coordKey {
	x, y, z := k.GridCoordinates()
	return coordKey{x, y, z}
}

// build performs the enumeration and adjacency resolution: horizontal
// traversal per selected level, then per-offset same-level neighbor lookup
// via a coordinate multimap.
func build(store *octree.Store, levels []int, offsets []Offset, mapper PeriodicityMapper) *Grid {
	total := store.NumNonPhantomLevels(levels)

	mortonKeys := make([]morton.Key, 0, total)
	streamToEnum := make([]uint64, store.NumNodes())
	for i := range streamToEnum {
		streamToEnum[i] = NotEnumerated
	}

	for _, level := range levels {
		for it := store.Horizontal(level); !it.Done(); it.Next() {
			cell := it.Cell()
			streamToEnum[cell.StreamIndex()] = uint64(len(mortonKeys))
			mortonKeys = append(mortonKeys, cell.MortonIndex())
		}
	}

	adjacency := make([][]uint64, 0, len(offsets))
	if len(offsets) > 0 {
		coordToEnum := make(map[coordKey][]int, len(mortonKeys))
		for idx, key := range mortonKeys {
			ck := gridCoordKey(key)
			coordToEnum[ck] = append(coordToEnum[ck], idx)
		}

		for _, offset := range offsets {
			table := make([]uint64, len(mortonKeys))
			for i := range table {
				table[i] = NoNeighbor
			}

			for enumIdx, key := range mortonKeys {
				x, y, z := key.GridCoordinates()
				goal := vec.Vector3i{X: int64(x), Y: int64(y), Z: int64(z)}.Add(offset.vector())
				mapped := mapper.Map(goal, key.Level())
				if mapped.HasNegative() {
					continue
				}

				ck := coordKey{uint64(mapped.X), uint64(mapped.Y), uint64(mapped.Z)}
				for _, candidate := range coordToEnum[ck] {
					if mortonKeys[candidate].Level() == key.Level() {
						table[enumIdx] = uint64(candidate)
						break
					}
				}
			}

			adjacency = append(adjacency, table)
		}
	}

	return &Grid{
		store:        store,
		mortonKeys:   mortonKeys,
		streamToEnum: streamToEnum,
		offsets:      append([]Offset(nil), offsets...),
		adjacency:    adjacency,
	}
}
