package cellgrid

import "github.com/oktal-sim/octree-go/octree"

// Builder configures and constructs a Grid. Defaults: every level of the
// octree, an empty neighborhood, identity periodicity.
type Builder struct {
	store       *octree.Store
	levels      []int
	offsets     []Offset
	periodicity PeriodicityMapper
}

// New starts building a Grid over store.
func New(store *octree.Store) *Builder {
	return &Builder{store: store}
}

// Levels restricts the grid to the given levels, in the order given.
func (b *Builder) Levels(levels ...int) *Builder {
	b.levels = append([]int(nil), levels...)
	return b
}

// Neighborhood configures the set of same-level neighbor offsets the grid
// will precompute adjacency tables for.
func (b *Builder) Neighborhood(offsets ...Offset) *Builder {
	b.offsets = append([]Offset(nil), offsets...)
	return b
}

// Periodicity sets the mapper used to resolve neighbor coordinates at the
// grid's boundary.
func (b *Builder) Periodicity(mapper PeriodicityMapper) *Builder {
	b.periodicity = mapper
	return b
}

// Build constructs the Grid.
func (b *Builder) Build() *Grid {
	levels := b.levels
	if len(levels) == 0 {
		levels = make([]int, b.store.NumLevels())
		for i := range levels {
			levels[i] = i
		}
	}

	mapper := b.periodicity
	if mapper == nil {
		mapper = Identity()
	}

	return build(b.store, levels, b.offsets, mapper)
}
