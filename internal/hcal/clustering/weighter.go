package clustering

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// MergeWeighter scores how readily two non-empty clusters should merge.
// Lower is more mergeable. Implementations must be deterministic, free of
// side effects and defined for every pair of non-empty clusters.
type MergeWeighter interface {
	Weight(a, b *WorkingCluster) float64
}

// MergeWeighterFunc adapts a function to MergeWeighter.
type MergeWeighterFunc func(a, b *WorkingCluster) float64

// Weight implements MergeWeighter.
func (f MergeWeighterFunc) Weight(a, b *WorkingCluster) float64 { return f(a, b) }

// Weighter names accepted by WeighterByName.
const (
	WeighterDistance     = "distance"
	WeighterDistanceTime = "distance_time"
	WeighterEnergy       = "energy"
)

// DistanceWeighter scores a pair by the Euclidean distance between their
// centroids in units of Scale. With a cutoff of 1, clusters closer than
// Scale merge. It is symmetric and 0 for coincident centroids.
//
// This is the default policy.
type DistanceWeighter struct {
	Scale float64 // mm; values <= 0 mean 1
}

// Weight implements MergeWeighter.
func (d DistanceWeighter) Weight(a, b *WorkingCluster) float64 {
	return r3.Norm(r3.Sub(a.Centroid(), b.Centroid())) / scaleOrOne(d.Scale)
}

// DistanceTimeWeighter adds the time separation of the two clusters, in
// units of TimeScale, in quadrature to the normalised centroid distance.
type DistanceTimeWeighter struct {
	Scale     float64 // mm; values <= 0 mean 1
	TimeScale float64 // ns; values <= 0 mean 1
}

// Weight implements MergeWeighter.
func (d DistanceTimeWeighter) Weight(a, b *WorkingCluster) float64 {
	ds := r3.Norm(r3.Sub(a.Centroid(), b.Centroid())) / scaleOrOne(d.Scale)
	dt := math.Abs(a.Time()-b.Time()) / scaleOrOne(d.TimeScale)
	return math.Hypot(ds, dt)
}

// EnergyWeighter scores a pair by the energy of its first operand. It is
// asymmetric and ignores geometry entirely; with energy-sorted clusters it
// prefers merging into the least energetic seed first.
type EnergyWeighter struct{}

// Weight implements MergeWeighter.
func (EnergyWeighter) Weight(a, _ *WorkingCluster) float64 { return a.Energy() }

func scaleOrOne(s float64) float64 {
	if s <= 0 {
		return 1
	}
	return s
}

// WeighterByName returns the named weighter. scale and timeScale are
// ignored by weighters that do not use them.
func WeighterByName(name string, scale, timeScale float64) (MergeWeighter, error) {
	switch name {
	case "", WeighterDistance:
		return DistanceWeighter{Scale: scale}, nil
	case WeighterDistanceTime:
		return DistanceTimeWeighter{Scale: scale, TimeScale: timeScale}, nil
	case WeighterEnergy:
		return EnergyWeighter{}, nil
	default:
		return nil, fmt.Errorf("unknown merge weighter %q", name)
	}
}

var (
	_ MergeWeighter = DistanceWeighter{}
	_ MergeWeighter = DistanceTimeWeighter{}
	_ MergeWeighter = EnergyWeighter{}
	_ MergeWeighter = MergeWeighterFunc(nil)
)
