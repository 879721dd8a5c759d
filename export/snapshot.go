package export

import (
	"compress/gzip"
	"encoding/gob"
	"io"

	"github.com/google/uuid"

	"github.com/oktal-sim/octree-go/octree"
)

// Snapshot bundles everything an external exporter needs to reproduce a
// store's structure and carry along caller-supplied field data: the packed
// node stream and level boundaries (sufficient to rebuild the Store via
// octree.FromPackedNodes), the precomputed descriptor and mask, and any
// number of named payload vectors aligned to the node stream.
type Snapshot struct {
	RunID       string
	Geometry    octree.Geometry
	LevelCounts []int
	Nodes       []octree.PackedNode
	Descriptor  []byte
	Mask        []byte
	Payloads    map[string][]float64
}

// NewSnapshot captures store's current structure, stamping the snapshot
// with a fresh run ID. payloads is stored by reference; callers should
// AlignPayload each vector against store.NumNodes() before passing it in.
func NewSnapshot(store *octree.Store, payloads map[string][]float64) Snapshot {
	levelCounts := make([]int, store.NumLevels())
	for l := range levelCounts {
		levelCounts[l] = store.NumNodesAt(l)
	}

	return Snapshot{
		RunID:       uuid.New().String(),
		Geometry:    store.Geometry(),
		LevelCounts: levelCounts,
		Nodes:       store.NodesStream(),
		Descriptor:  Descriptor(store),
		Mask:        Mask(store),
		Payloads:    payloads,
	}
}

// Store rebuilds the octree.Store this snapshot was captured from.
func (s Snapshot) Store() *octree.Store {
	return octree.FromPackedNodes(s.Geometry, s.LevelCounts, s.Nodes)
}

// WriteSnapshot gob-encodes snap and writes it to w through a gzip stream.
// This stands in for the HDF5/VTK HyperTreeGrid writer an external tool
// would otherwise use.
func WriteSnapshot(w io.Writer, snap Snapshot) error {
	gz := gzip.NewWriter(w)
	if err := gob.NewEncoder(gz).Encode(snap); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}

// ReadSnapshot reads and decodes a snapshot written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return Snapshot{}, err
	}
	defer gz.Close()

	var snap Snapshot
	if err := gob.NewDecoder(gz).Decode(&snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
