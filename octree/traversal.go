package octree

// TraversalPolicy advances a cursor to its next position under some
// strategy. The set of strategies is closed: pre-order depth-first and
// horizontal (single level).
type TraversalPolicy interface {
	advance(c *Cursor)
}

type dfsPolicy struct{}

// advance implements pre-order depth-first traversal, skipping phantom
// subtrees.
func (dfsPolicy) advance(c *Cursor) {
	for {
		if c.End() {
			return
		}

		if c.currentNode().isRefined() {
			c.Descend()
		} else if !c.LastSibling() {
			c.NextSibling()
		} else {
			for !c.End() {
				c.Ascend()
				if c.End() {
					return
				}
				if !c.LastSibling() {
					c.NextSibling()
					break
				}
			}
		}

		if !c.currentNode().isPhantom() {
			return
		}
	}
}

type horizontalPolicy struct{}

// advance implements single-level traversal, skipping phantoms and
// re-anchoring the upper levels of the path whenever the stream index
// crosses into a new sibling group.
func (horizontalPolicy) advance(c *Cursor) {
	if c.End() {
		return
	}

	initialGroup := (c.StreamIndex() - 1) >> 3

	for {
		c.AdvanceStreamIndex()
		if c.End() {
			return
		}

		if !c.currentNode().isPhantom() {
			nextGroup := (c.StreamIndex() - 1) >> 3
			if nextGroup != initialGroup {
				// UpdatePath cannot fail here: StreamIndex() was just
				// validated to be within the current level's range by
				// AdvanceStreamIndex.
				_ = c.UpdatePath(c.StreamIndex())
			}
			return
		}
	}
}

// CellIterator is a forward iterator over non-phantom cells under a
// TraversalPolicy. Construction skips phantom nodes until a non-phantom one
// is found or the end is reached.
type CellIterator struct {
	store  *Store
	policy TraversalPolicy
	cursor *Cursor
	end    *Cursor
}

func newCellIterator(store *Store, start, end *Cursor, policy TraversalPolicy) *CellIterator {
	it := &CellIterator{store: store, policy: policy, cursor: start, end: end}
	for !it.cursor.End() && it.cursor.currentNode().isPhantom() {
		it.policy.advance(it.cursor)
	}
	return it
}

// Done reports whether the iterator has exhausted its range.
func (it *CellIterator) Done() bool {
	return it.cursor.End()
}

// Cell returns the cell view at the iterator's current position. Must not
// be called once Done() is true.
func (it *CellIterator) Cell() CellView {
	cell, _ := it.cursor.CurrentCell()
	return cell
}

// Next advances the iterator to the next non-phantom cell in range.
func (it *CellIterator) Next() {
	it.policy.advance(it.cursor)
}

// PreOrderDepthFirst returns an iterator over every non-phantom cell in the
// store, visited depth-first, pre-order.
func (s *Store) PreOrderDepthFirst() *CellIterator {
	return newCellIterator(s, NewCursor(s), endCursor(s), dfsPolicy{})
}

// Horizontal returns an iterator over every non-phantom cell at level,
// visited in ascending stream-index order. An out-of-range or empty level
// yields an empty iterator.
func (s *Store) Horizontal(level int) *CellIterator {
	if level < 0 || level >= len(s.levels) || s.levels[level].count == 0 {
		end := endCursor(s)
		return newCellIterator(s, end, end, horizontalPolicy{})
	}

	start := newCursorAtLevel(s, level)
	// UpdatePath cannot fail: the level is non-empty, so levels[level].start
	// is within the level's own range.
	_ = start.UpdatePath(s.levels[level].start)

	return newCellIterator(s, start, endCursor(s), horizontalPolicy{})
}
