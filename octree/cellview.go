package octree

import (
	"github.com/oktal-sim/octree-go/morton"
	"github.com/oktal-sim/octree-go/vec"
)

// CellView is a transient, non-owning snapshot of a node's flags, geometry,
// Morton key and stream index. Constructing one is cheap.
type CellView struct {
	node        node
	geometry    Geometry
	key         morton.Key
	streamIndex int
}

// MortonIndex returns the cell's Morton key.
func (c CellView) MortonIndex() morton.Key {
	return c.key
}

// IsRoot reports whether this view is the octree root.
func (c CellView) IsRoot() bool {
	return c.key.IsRoot()
}

// IsRefined reports whether this cell has children.
func (c CellView) IsRefined() bool {
	return c.node.isRefined()
}

// IsPhantom reports whether this cell is a structural placeholder.
func (c CellView) IsPhantom() bool {
	return c.node.isPhantom()
}

// Level returns the cell's depth.
func (c CellView) Level() int {
	return c.key.Level()
}

// StreamIndex returns the cell's position in the level-grouped node stream.
func (c CellView) StreamIndex() int {
	return c.streamIndex
}

// Center returns the Cartesian center of the cell.
func (c CellView) Center() vec.Vector3 {
	return c.geometry.CellCenter(c.key)
}

// BoundingBox returns the axis-aligned box of the cell.
func (c CellView) BoundingBox() vec.AABB {
	return c.geometry.CellBoundingBox(c.key)
}

// Node returns the exported, read-only view of the packed node flags.
func (c CellView) Node() PackedNode {
	return c.node.exported()
}
