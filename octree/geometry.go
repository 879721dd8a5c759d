package octree

import (
	"math"

	"github.com/oktal-sim/octree-go/morton"
	"github.com/oktal-sim/octree-go/vec"
)

// Geometry maps Morton keys to Cartesian corners, centers and extents within
// a cubic domain of the given origin and side length.
type Geometry struct {
	Origin vec.Vector3
	Side   float64
}

// DefaultGeometry is the unit cube at the origin.
func DefaultGeometry() Geometry {
	return Geometry{Origin: vec.Vector3{}, Side: 1}
}

// Dx returns the side length of a cell at the given level.
func (g Geometry) Dx(level int) float64 {
	return g.Side / math.Pow(2, float64(level))
}

// CellExtents returns the (dx, dx, dx) extents of a cell at the given level.
func (g Geometry) CellExtents(level int) vec.Vector3 {
	d := g.Dx(level)
	return vec.Vector3{X: d, Y: d, Z: d}
}

// CellMin returns the bottom-south-west corner of the cell at key k.
func (g Geometry) CellMin(k morton.Key) vec.Vector3 {
	x, y, z := k.GridCoordinates()
	d := g.Dx(k.Level())
	return vec.Vector3{
		X: g.Origin.X + d*float64(x),
		Y: g.Origin.Y + d*float64(y),
		Z: g.Origin.Z + d*float64(z),
	}
}

// CellMax returns the top-north-east corner of the cell at key k.
func (g Geometry) CellMax(k morton.Key) vec.Vector3 {
	return g.CellMin(k).Add(g.CellExtents(k.Level()))
}

// CellCenter returns the center of the cell at key k.
func (g Geometry) CellCenter(k morton.Key) vec.Vector3 {
	min, max := g.CellMin(k), g.CellMax(k)
	return min.Add(max).Scale(0.5)
}

// CellBoundingBox returns the axis-aligned box of the cell at key k.
func (g Geometry) CellBoundingBox(k morton.Key) vec.AABB {
	return vec.AABB{Min: g.CellMin(k), Max: g.CellMax(k)}
}
