package clustering

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/hcal.cluster/internal/hcal"
)

// WorkingCluster accumulates an energy-weighted centroid and the hits that
// contributed to it. The zero value is an empty accumulator ready for use.
//
// The centroid is updated incrementally on every absorption, so rounding
// depends on absorption order.
type WorkingCluster struct {
	centroid r3.Vec
	time     float64
	energy   float64
	members  []hcal.HitRef
	retired  bool
}

// Centroid returns the energy-weighted position.
func (w *WorkingCluster) Centroid() r3.Vec { return w.centroid }

// Energy returns the accumulated energy.
func (w *WorkingCluster) Energy() float64 { return w.energy }

// Time returns the energy-weighted hit time.
func (w *WorkingCluster) Time() float64 { return w.time }

// Len returns the number of member hits.
func (w *WorkingCluster) Len() int { return len(w.members) }

// Members returns a copy of the member refs in absorption order.
func (w *WorkingCluster) Members() []hcal.HitRef {
	out := make([]hcal.HitRef, len(w.members))
	copy(out, w.members)
	return out
}

// Empty reports whether the cluster carries nothing: it was retired by a
// merge or never absorbed a hit.
func (w *WorkingCluster) Empty() bool {
	return w.retired || len(w.members) == 0
}

// AbsorbHit adds hit, located at pos, to the cluster.
func (w *WorkingCluster) AbsorbHit(ref hcal.HitRef, hit hcal.Hit, pos r3.Vec) error {
	if !validEnergy(hit.Energy) {
		return fmt.Errorf("%w: %g", ErrInvalidHitEnergy, hit.Energy)
	}
	if w.retired {
		return fmt.Errorf("%w: cluster is retired", ErrInvalidMergeOperand)
	}
	newE := w.energy + hit.Energy
	if !(newE > 0) {
		return fmt.Errorf("%w: accumulated energy would be %g", ErrInvalidHitEnergy, newE)
	}
	w.accumulate(pos, hit.Time, hit.Energy, newE)
	w.members = append(w.members, ref)
	return nil
}

// Absorb folds other into w, treating other's centroid as a single point
// weighted by its energy, and appends other's members in their order.
// other is not modified; the caller retires it.
func (w *WorkingCluster) Absorb(other *WorkingCluster) error {
	if other == nil || other == w || other.Empty() || w.retired {
		return ErrInvalidMergeOperand
	}
	newE := w.energy + other.energy
	if !(newE > 0) {
		return fmt.Errorf("%w: combined energy %g", ErrDegenerateMerge, newE)
	}
	w.accumulate(other.centroid, other.time, other.energy, newE)
	w.members = append(w.members, other.members...)
	return nil
}

// Retire marks the cluster as merged away. It drops its energy and members
// so nothing is counted twice.
func (w *WorkingCluster) Retire() {
	w.retired = true
	w.energy = 0
	w.members = nil
}

func (w *WorkingCluster) accumulate(pos r3.Vec, t, e2, newE float64) {
	e1 := w.energy
	w.centroid = r3.Vec{
		X: (w.centroid.X*e1 + pos.X*e2) / newE,
		Y: (w.centroid.Y*e1 + pos.Y*e2) / newE,
		Z: (w.centroid.Z*e1 + pos.Z*e2) / newE,
	}
	w.time = (w.time*e1 + t*e2) / newE
	w.energy = newE
}

func validEnergy(e float64) bool {
	return e >= 0 && !math.IsInf(e, 1)
}
