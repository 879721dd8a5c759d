package octree

import (
	"strings"

	"github.com/oktal-sim/octree-go/errs"
	"github.com/oktal-sim/octree-go/morton"
)

// levelRange is the (start, count) pair describing where a depth's nodes
// live in the level-grouped node stream.
type levelRange struct {
	start, count int
}

// Store is a level-grouped sequence of packed nodes: an immutable,
// content-addressed octree. Stores are built once via FromDescriptor or
// NewUniformGrid and shared by reference across any number of cell grids.
type Store struct {
	nodes    []node
	levels   []levelRange
	geometry Geometry
}

// Geometry returns the store's origin and side length.
func (s *Store) Geometry() Geometry {
	return s.geometry
}

// NumLevels returns the number of depths present in the store.
func (s *Store) NumLevels() int {
	return len(s.levels)
}

// NumNodes returns the total number of nodes in the stream, phantom or not.
func (s *Store) NumNodes() int {
	return len(s.nodes)
}

// NumNodesAt returns the number of nodes (phantom or not) at level, or 0 if
// level does not exist.
func (s *Store) NumNodesAt(level int) int {
	if level < 0 || level >= len(s.levels) {
		return 0
	}
	return s.levels[level].count
}

// NumNonPhantom returns the count of non-phantom nodes at level, or 0 if
// level does not exist.
func (s *Store) NumNonPhantom(level int) int {
	if level < 0 || level >= len(s.levels) {
		return 0
	}
	lvl := s.levels[level]
	count := 0
	for _, n := range s.nodes[lvl.start : lvl.start+lvl.count] {
		if !n.isPhantom() {
			count++
		}
	}
	return count
}

// NumNonPhantomLevels sums NumNonPhantom over a set of levels.
func (s *Store) NumNonPhantomLevels(levels []int) int {
	sum := 0
	for _, l := range levels {
		sum += s.NumNonPhantom(l)
	}
	return sum
}

// NumNonPhantomTotal sums NumNonPhantom over every level in the store.
func (s *Store) NumNonPhantomTotal() int {
	sum := 0
	for l := range s.levels {
		sum += s.NumNonPhantom(l)
	}
	return sum
}

// NodesStream returns a read-only view of every node in the store, in
// level-grouped order.
func (s *Store) NodesStream() []PackedNode {
	out := make([]PackedNode, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = n.exported()
	}
	return out
}

// NodesStreamAt returns a read-only view of the nodes at level.
func (s *Store) NodesStreamAt(level int) []PackedNode {
	if level < 0 || level >= len(s.levels) {
		return nil
	}
	lvl := s.levels[level]
	return s.NodesStream()[lvl.start : lvl.start+lvl.count]
}

func (s *Store) cellViewAt(index int, key morton.Key) CellView {
	return CellView{node: s.nodes[index], geometry: s.geometry, key: key, streamIndex: index}
}

// RootCell returns the root's cell view, or false if the root is phantom.
func (s *Store) RootCell() (CellView, bool) {
	root := s.nodes[0]
	if root.isPhantom() {
		return CellView{}, false
	}
	return s.cellViewAt(0, morton.Root), true
}

// GetCell looks up the cell named by key, returning false if any ancestor
// on the path is not refined, the level exceeds the store's depth, or the
// final node is phantom.
func (s *Store) GetCell(key morton.Key) (CellView, bool) {
	if key.IsRoot() {
		return s.RootCell()
	}

	if key.Level() >= len(s.levels) {
		return CellView{}, false
	}

	currentIdx := 0
	current := s.nodes[0]

	for _, choice := range key.Path() {
		if !current.isRefined() {
			return CellView{}, false
		}
		currentIdx = int(current.childIndex(choice))
		current = s.nodes[currentIdx]
	}

	if current.isPhantom() {
		return CellView{}, false
	}
	return s.cellViewAt(currentIdx, key), true
}

// CellExists reports whether a real (non-phantom) cell exists at key.
func (s *Store) CellExists(key morton.Key) bool {
	_, ok := s.GetCell(key)
	return ok
}

// FromDescriptor builds a Store from a textual descriptor using the grammar
// '.' unrefined non-phantom, 'R' refined non-phantom, 'P' unrefined phantom,
// 'X' refined phantom, '|' level separator. Each '|' must be followed by
// exactly 8 times the number of refined nodes on the previous level before
// the next '|' or the end of the string.
func FromDescriptor(descriptor string) (*Store, error) {
	if descriptor == "" {
		return nil, errs.Invalid("octree.FromDescriptor", "descriptor is empty")
	}

	if _, _, err := validateDescriptor(descriptor); err != nil {
		return nil, err
	}

	s := &Store{geometry: DefaultGeometry()}
	s.levels = append(s.levels, levelRange{0, 0})

	var pending []int // indices of refined nodes on the current level

	for _, c := range descriptor {
		switch c {
		case '.', 'R', 'P', 'X':
			refined := c == 'R' || c == 'X'
			phantom := c == 'P' || c == 'X'
			s.nodes = append(s.nodes, newNode(refined, phantom, 0))
			s.levels[len(s.levels)-1].count++
			if refined {
				pending = append(pending, len(s.nodes)-1)
			}
		case '|':
			newStart := len(s.nodes)
			s.levels = append(s.levels, levelRange{newStart, 0})
			for i, idx := range pending {
				s.nodes[idx] = s.nodes[idx].withChildrenStartIndex(uint64(newStart + 8*i))
			}
			pending = nil
		default:
			return nil, errs.Invalid("octree.FromDescriptor", "invalid character %q in descriptor", c)
		}
	}

	return s, nil
}

// validateDescriptor enforces the global count identity N_total =
// 8*N_refined + 1 and the structural per-level rule: each '|' must be
// followed by exactly 8*refinedCountOfPreviousLevel nodes before the next
// '|' or the end of the descriptor.
func validateDescriptor(descriptor string) (levelNodeCounts, refinedCounts []int, err error) {
	const allowed = ".RPX"

	numRefined, numTotal := 0, 0
	levelNodeCounts = []int{0}
	refinedCounts = []int{0}

	for _, c := range descriptor {
		if c == '|' {
			levelNodeCounts = append(levelNodeCounts, 0)
			refinedCounts = append(refinedCounts, 0)
			continue
		}
		if !strings.ContainsRune(allowed, c) {
			return nil, nil, errs.Invalid("octree.FromDescriptor", "invalid character %q in descriptor", c)
		}
		if c == 'R' || c == 'X' {
			numRefined++
			refinedCounts[len(refinedCounts)-1]++
		}
		numTotal++
		levelNodeCounts[len(levelNodeCounts)-1]++
	}

	if numTotal != 8*numRefined+1 {
		return nil, nil, errs.Invalid("octree.FromDescriptor", "descriptor has %d nodes but needs 8*%d+1", numTotal, numRefined)
	}

	// The first level must have exactly one node (the root).
	if levelNodeCounts[0] != 1 {
		return nil, nil, errs.Invalid("octree.FromDescriptor", "root level must have exactly one node, got %d", levelNodeCounts[0])
	}

	for i := 1; i < len(levelNodeCounts); i++ {
		want := 8 * refinedCounts[i-1]
		if levelNodeCounts[i] != want {
			return nil, nil, errs.Invalid("octree.FromDescriptor",
				"level %d has %d nodes but its parent level refined %d node(s), expected %d children",
				i, levelNodeCounts[i], refinedCounts[i-1], want)
		}
	}

	return levelNodeCounts, refinedCounts, nil
}

// FromPackedNodes rebuilds a Store from an exported node stream and its
// level boundaries, as produced by NodesStream and NumNodesAt. It performs
// no validation beyond what levelCounts implies: callers are expected to
// round-trip data that was itself produced by a Store.
func FromPackedNodes(geometry Geometry, levelCounts []int, nodes []PackedNode) *Store {
	s := &Store{geometry: geometry, nodes: make([]node, len(nodes))}

	start := 0
	for _, count := range levelCounts {
		s.levels = append(s.levels, levelRange{start, count})
		start += count
	}

	for i, n := range nodes {
		s.nodes[i] = newNode(n.Refined, n.Phantom, n.ChildrenStartIndex)
	}

	return s
}

// NewUniformGrid builds a Store where levels 0..level-1 are refined phantoms
// and level is entirely unrefined, non-phantom cells: a grid where only the
// leaves are real.
func NewUniformGrid(geometry Geometry, level int) *Store {
	s := &Store{geometry: geometry}
	s.levels = append(s.levels, levelRange{0, 1})

	for len(s.levels) <= level {
		last := s.levels[len(s.levels)-1]
		s.levels = append(s.levels, levelRange{last.start + last.count, last.count << 3})
	}

	last := s.levels[len(s.levels)-1]
	total := last.start + last.count
	s.nodes = make([]node, total)

	// Levels 0..level-1 are refined phantoms pointing at their children's
	// start offset; level `level` itself is left at the zero value
	// (unrefined, non-phantom) so only the leaves are real.
	for l := 0; l < level; l++ {
		lvl := s.levels[l]
		childStart := s.levels[l+1].start
		for i := 0; i < lvl.count; i++ {
			s.nodes[lvl.start+i] = newNode(true, true, uint64(childStart+8*i))
		}
	}
	// Level `level` itself is left at the zero value: unrefined, non-phantom.

	return s
}
