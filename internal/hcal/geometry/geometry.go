package geometry

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/hcal.cluster/internal/hcal"
)

// ErrUnknownCellID is returned when a cell id is not part of the detector map.
var ErrUnknownCellID = errors.New("unknown cell id")

// Geometry resolves a cell identifier to its absolute position (mm).
type Geometry interface {
	PositionOf(id hcal.HitID) (r3.Vec, error)
}

// Topology enumerates the cells adjacent to a cell.
type Topology interface {
	Neighbors(id hcal.HitID) ([]hcal.HitID, error)
}

func unknown(id hcal.HitID) error {
	return fmt.Errorf("%w: %s", ErrUnknownCellID, id)
}

// Table is a map-backed geometry with an explicit adjacency list.
// It is populated up front and must not be modified once shared.
type Table struct {
	positions map[hcal.HitID]r3.Vec
	adjacency map[hcal.HitID][]hcal.HitID
}

// NewTable creates an empty Table.
func NewTable() *Table {
	return &Table{
		positions: make(map[hcal.HitID]r3.Vec),
		adjacency: make(map[hcal.HitID][]hcal.HitID),
	}
}

// Add registers a cell at pos, replacing any previous position.
func (t *Table) Add(id hcal.HitID, pos r3.Vec) *Table {
	t.positions[id] = pos
	return t
}

// Connect marks a and b as neighbours of each other.
// Both cells must already be registered.
func (t *Table) Connect(a, b hcal.HitID) error {
	if _, ok := t.positions[a]; !ok {
		return unknown(a)
	}
	if _, ok := t.positions[b]; !ok {
		return unknown(b)
	}
	if a == b {
		return nil
	}
	t.adjacency[a] = appendUnique(t.adjacency[a], b)
	t.adjacency[b] = appendUnique(t.adjacency[b], a)
	return nil
}

func appendUnique(ids []hcal.HitID, id hcal.HitID) []hcal.HitID {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}

// Len returns the number of registered cells.
func (t *Table) Len() int { return len(t.positions) }

// PositionOf implements Geometry.
func (t *Table) PositionOf(id hcal.HitID) (r3.Vec, error) {
	pos, ok := t.positions[id]
	if !ok {
		return r3.Vec{}, unknown(id)
	}
	return pos, nil
}

// Neighbors implements Topology. Neighbours are returned in the order they
// were connected.
func (t *Table) Neighbors(id hcal.HitID) ([]hcal.HitID, error) {
	if _, ok := t.positions[id]; !ok {
		return nil, unknown(id)
	}
	adj := t.adjacency[id]
	out := make([]hcal.HitID, len(adj))
	copy(out, adj)
	return out, nil
}

// Verify at compile time that *Table implements both interfaces.
var (
	_ Geometry = (*Table)(nil)
	_ Topology = (*Table)(nil)
)
