// Package morton implements the Morton (Z-order) path key that names an
// octree cell independently of its memory layout.
package morton

import (
	"math/bits"

	"github.com/oktal-sim/octree-go/errs"
)

// MaxDepth is the deepest level a Key can address: a 64-bit word holds a
// leading sentinel bit plus 21 three-bit child selectors.
const MaxDepth = 21

// Key is a path-encoded cell identity. bits == 1 denotes the root; a key at
// depth d has bit-width 3*d+1: a leading 1 followed by d three-bit child
// selectors from root to cell.
type Key uint64

// Root is the Morton key of the octree root.
const Root Key = 1

// FromPath builds a Key from a sequence of child selectors in 0..7, root to
// leaf. An empty path yields the root.
func FromPath(path []int) (Key, error) {
	if len(path) > MaxDepth {
		return 0, errs.Invalid("morton.FromPath", "path of length %d exceeds maximum depth %d", len(path), MaxDepth)
	}

	shift := len(path) * 3
	key := Key(1) << uint(shift)

	for i, choice := range path {
		if choice < 0 || choice > 7 {
			return 0, errs.Invalid("morton.FromPath", "choice %d at index %d is invalid", choice, i)
		}
		shift -= 3
		key |= Key(choice) << uint(shift)
	}

	return key, nil
}

// Path returns the child selectors from root to this key, in order.
func (k Key) Path() []int {
	shift := bits.Len64(uint64(k)) - 1
	choiceCount := shift / 3
	path := make([]int, choiceCount)

	for i := range path {
		shift -= 3
		path[i] = int(7 & (k >> uint(shift)))
	}

	return path
}

// Level returns the depth of the key; the root is level 0.
func (k Key) Level() int {
	return (bits.Len64(uint64(k)) - 1) / 3
}

// IsRoot reports whether k is the root key.
func (k Key) IsRoot() bool {
	return k == Root
}

// SiblingIndex returns bits&7 for non-root keys, 0 for the root.
func (k Key) SiblingIndex() int {
	if k.IsRoot() {
		return 0
	}
	return int(k & 7)
}

// IsFirstSibling reports whether k is the first (index 0) of its sibling group.
func (k Key) IsFirstSibling() bool {
	return k.SiblingIndex() == 0
}

// IsLastSibling reports whether k is the last (index 7) of its sibling group.
func (k Key) IsLastSibling() bool {
	if k.IsRoot() {
		return true
	}
	return k.SiblingIndex() == 7
}

// Parent returns the parent key, unchecked; calling it on the root yields a
// meaningless but well-defined result.
func (k Key) Parent() Key {
	return k >> 3
}

// SafeParent returns the parent key, failing with LogicError if k is the root.
func (k Key) SafeParent() (Key, error) {
	if k.IsRoot() {
		return 0, errs.Logic("morton.SafeParent", "index points to root")
	}
	return k.Parent(), nil
}

// Child returns the child key for branch b in 0..7, unchecked.
func (k Key) Child(b int) Key {
	return (k << 3) | Key(b&7)
}

// SafeChild returns the child key for branch b, failing with LogicError if
// the result would exceed the maximum depth.
func (k Key) SafeChild(b int) (Key, error) {
	if k.Level() >= MaxDepth {
		return 0, errs.Logic("morton.SafeChild", "child would exceed maximum depth")
	}
	return k.Child(b), nil
}

// Less reports whether k is a strict ancestor of other: a < b.
func (k Key) Less(other Key) bool {
	lw, rw := bits.Len64(uint64(k)), bits.Len64(uint64(other))
	if k == other || lw >= rw {
		return false
	}
	return other>>uint(rw-lw) == k
}

// Greater reports whether k is a strict descendant of other: a > b.
func (k Key) Greater(other Key) bool {
	return other.Less(k)
}

// LessOrEqual reports whether k equals or is a strict ancestor of other.
func (k Key) LessOrEqual(other Key) bool {
	lw, rw := bits.Len64(uint64(k)), bits.Len64(uint64(other))
	if lw > rw {
		return false
	}
	return other>>uint(rw-lw) == k
}

// GreaterOrEqual reports whether k equals or is a strict descendant of other.
func (k Key) GreaterOrEqual(other Key) bool {
	return other.LessOrEqual(k)
}

// GridCoordinates returns the integer grid cube (x,y,z) in [0, 2^level)^3
// occupied by the cell at this key.
func (k Key) GridCoordinates() (x, y, z uint64) {
	if k.IsRoot() {
		return 0, 0, 0
	}

	px, py, pz := k.Parent().GridCoordinates()
	local := uint64(k.SiblingIndex())

	x = (px << 1) | (local & 1)
	y = (py << 1) | ((local >> 1) & 1)
	z = (pz << 1) | ((local >> 2) & 1)
	return x, y, z
}

// FromGridCoordinates is the inverse of GridCoordinates: it builds the key
// at refinementLevel whose cube is (x,y,z), each in [0, 2^refinementLevel).
func FromGridCoordinates(refinementLevel int, x, y, z uint64) Key {
	if refinementLevel == 0 {
		return Root
	}

	parent := FromGridCoordinates(refinementLevel-1, x>>1, y>>1, z>>1)
	local := int(((z & 1) << 2) | ((y & 1) << 1) | (x & 1))
	return parent.Child(local)
}
