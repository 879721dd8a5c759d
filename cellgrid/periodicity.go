// Package cellgrid enumerates a chosen subset of octree levels into a dense
// ordinal index space and precomputes, per user-supplied offset, neighbor
// lookup tables under a pluggable periodicity policy.
package cellgrid

import "github.com/oktal-sim/octree-go/vec"

// Invalid is the sentinel signed-coordinate value returned by a
// PeriodicityMapper when the mapped coordinates are not part of the grid.
var Invalid = vec.Vector3i{X: -1, Y: -1, Z: -1}

// PeriodicityMapper maps signed grid coordinates back into valid grid
// coordinates at a given level, or returns Invalid. The set of
// implementations is closed: Identity and Torus.
type PeriodicityMapper interface {
	Map(goalCoords vec.Vector3i, level int) vec.Vector3i
}

type identityMapper struct{}

// Identity returns a mapper that passes coordinates through unchanged if
// every component lies in [0, 2^level), and Invalid otherwise.
func Identity() PeriodicityMapper {
	return identityMapper{}
}

func (identityMapper) Map(goalCoords vec.Vector3i, level int) vec.Vector3i {
	extent := int64(1) << uint(level)
	if goalCoords.X < 0 || goalCoords.X >= extent ||
		goalCoords.Y < 0 || goalCoords.Y >= extent ||
		goalCoords.Z < 0 || goalCoords.Z >= extent {
		return Invalid
	}
	return goalCoords
}

type torusMapper struct {
	periodic [3]bool
}

// Torus returns a mapper that wraps periodic axes into [0, 2^level) and
// passes non-periodic axes through unchanged (which may then be out of
// range and treated as invalid by the caller).
func Torus(xPeriodic, yPeriodic, zPeriodic bool) PeriodicityMapper {
	return torusMapper{periodic: [3]bool{xPeriodic, yPeriodic, zPeriodic}}
}

func (t torusMapper) Map(goalCoords vec.Vector3i, level int) vec.Vector3i {
	size := int64(1) << uint(level)
	wrap := func(c int64, periodic bool) int64 {
		if !periodic {
			return c
		}
		return (c%size + size) % size
	}
	return vec.Vector3i{
		X: wrap(goalCoords.X, t.periodic[0]),
		Y: wrap(goalCoords.Y, t.periodic[1]),
		Z: wrap(goalCoords.Z, t.periodic[2]),
	}
}
