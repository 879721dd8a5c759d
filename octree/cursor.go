package octree

import (
	"github.com/oktal-sim/octree-go/errs"
	"github.com/oktal-sim/octree-go/morton"
)

// Cursor is an explicit, owning position in the tree: a path of stream
// indices from the root (index 0) down to the current node. An empty path
// denotes end.
type Cursor struct {
	store *Store
	path  []int
}

// NewCursor returns a cursor positioned at the root of store.
func NewCursor(store *Store) *Cursor {
	return &Cursor{store: store, path: []int{0}}
}

// newCursorAtLevel returns a cursor with a zeroed path of level+1 entries,
// ready for UpdatePath to fill in.
func newCursorAtLevel(store *Store, level int) *Cursor {
	return &Cursor{store: store, path: make([]int, level+1)}
}

// endCursor returns a cursor already positioned at end.
func endCursor(store *Store) *Cursor {
	return &Cursor{store: store}
}

// End reports whether the cursor has no current position.
func (c *Cursor) End() bool {
	return len(c.path) == 0
}

// Level returns the depth of the current node; valid only when !End().
func (c *Cursor) Level() int {
	return len(c.path) - 1
}

// StreamIndex returns the stream index of the current node; valid only
// when !End().
func (c *Cursor) StreamIndex() int {
	return c.path[len(c.path)-1]
}

// currentNode returns the packed node at the cursor's position.
func (c *Cursor) currentNode() node {
	return c.store.nodes[c.StreamIndex()]
}

// CurrentCell returns the cell view at the cursor's current position.
func (c *Cursor) CurrentCell() (CellView, error) {
	if c.End() {
		return CellView{}, errs.Logic("Cursor.CurrentCell", "cursor is at end")
	}
	idx := c.StreamIndex()
	return c.store.cellViewAt(idx, c.MortonIndex()), nil
}

// FirstSibling reports whether the current node is the first of its
// 8-group; the root is always both first and last.
func (c *Cursor) FirstSibling() bool {
	if len(c.path) > 1 {
		return c.StreamIndex()&7 == 1
	}
	return true
}

// LastSibling reports whether the current node is the last (8th) of its
// 8-group; the root is always both first and last.
func (c *Cursor) LastSibling() bool {
	if len(c.path) > 1 {
		return c.StreamIndex()&7 == 0
	}
	return true
}

// SiblingIndex returns the 0-based position of the current node within its
// 8-group, or 0 at the root.
func (c *Cursor) SiblingIndex() int {
	if len(c.path) > 1 {
		return (c.StreamIndex() - 1) & 7
	}
	return 0
}

// MortonIndex reconstructs the Morton key of the current position.
func (c *Cursor) MortonIndex() morton.Key {
	key := morton.Root
	for _, index := range c.path[1:] {
		key = key << 3
		key |= morton.Key((index - 1) & 7)
	}
	return key
}

// Ascend moves to the parent of the current node; a no-op at end.
func (c *Cursor) Ascend() {
	if !c.End() {
		c.path = c.path[:len(c.path)-1]
	}
}

// Descend moves to the first child of the current node, if it is refined;
// otherwise a no-op.
func (c *Cursor) Descend() {
	if c.End() {
		return
	}
	n := c.currentNode()
	if n.isRefined() {
		c.path = append(c.path, int(n.childrenStartIndex()))
	}
}

// DescendTo moves to child branch b (0..7) of the current node, if it is
// refined; otherwise a no-op. Fails with OutOfRange if b is not in 0..7.
func (c *Cursor) DescendTo(b int) error {
	if b < 0 || b > 7 {
		return errs.OutOfBounds("Cursor.DescendTo", "child index %d exceeds the range 0 to 7", b)
	}
	if c.End() {
		return nil
	}
	n := c.currentNode()
	if n.isRefined() {
		c.path = append(c.path, int(n.childIndex(b)))
	}
	return nil
}

// PreviousSibling moves to the previous sibling, unless already first.
func (c *Cursor) PreviousSibling() {
	if !c.FirstSibling() {
		c.path[len(c.path)-1]--
	}
}

// NextSibling moves to the next sibling, unless already last.
func (c *Cursor) NextSibling() {
	if !c.LastSibling() {
		c.path[len(c.path)-1]++
	}
}

// ToSibling moves the current node to sibling b (0..7) of its parent. At
// the root, only b == 0 is allowed.
func (c *Cursor) ToSibling(b int) error {
	if len(c.path) == 1 {
		if b != 0 {
			return errs.OutOfBounds("Cursor.ToSibling", "nonzero sibling index %d not allowed at root", b)
		}
		return nil
	}
	if b < 0 || b > 7 {
		return errs.OutOfBounds("Cursor.ToSibling", "sibling index %d exceeds the range 0 to 7", b)
	}

	parent := c.store.nodes[c.path[len(c.path)-2]]
	c.path[len(c.path)-1] = int(parent.childIndex(b))
	return nil
}

// AdvanceStreamIndex increments the current stream index; if this leaves
// the current level's range, the cursor moves to end.
func (c *Cursor) AdvanceStreamIndex() {
	if c.End() {
		return
	}
	c.path[len(c.path)-1]++
	lvl := c.store.levels[c.Level()]
	if c.StreamIndex()-lvl.start >= lvl.count {
		c.ToEnd()
	}
}

// UpdatePath rebuilds the path from the root given a target stream index at
// the cursor's current level, scanning each upper level linearly to find
// the refined parent whose children-group contains the working index.
func (c *Cursor) UpdatePath(streamIndex int) error {
	if c.End() {
		return errs.Logic("Cursor.UpdatePath", "cursor is at end")
	}

	myLevel := c.Level()
	if myLevel >= len(c.store.levels) {
		return errs.Logic("Cursor.UpdatePath", "current level %d exceeds maximum level %d", myLevel, len(c.store.levels)-1)
	}

	lvl := c.store.levels[myLevel]
	if streamIndex-lvl.start < 0 || streamIndex-lvl.start >= lvl.count {
		return errs.OutOfBounds("Cursor.UpdatePath", "stream index %d is not within level %d", streamIndex, myLevel)
	}

	current := streamIndex
	for l := myLevel; l >= 1; l-- {
		c.path[l] = current

		parentLevel := c.store.levels[l-1]
		parentIdx := -1
		for i := parentLevel.start; i < parentLevel.start+parentLevel.count; i++ {
			n := c.store.nodes[i]
			if !n.isRefined() {
				continue
			}
			start := n.childrenStartIndex()
			if uint64(current) >= start && uint64(current) < start+8 {
				parentIdx = i
				break
			}
		}

		if parentIdx < 0 {
			return errs.Logic("Cursor.UpdatePath", "no parent found for stream index %d at level %d", current, l-1)
		}
		current = parentIdx
	}

	return nil
}

// ToEnd moves the cursor to end.
func (c *Cursor) ToEnd() {
	c.path = nil
}
