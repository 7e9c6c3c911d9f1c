package clustering

import (
	"errors"
	"fmt"

	"github.com/banshee-data/hcal.cluster/internal/hcal"
)

var (
	// ErrInvalidHitEnergy is returned for hits with negative or non-finite
	// energy, or when absorbing a hit would leave the accumulator with no
	// energy to weight by.
	ErrInvalidHitEnergy = errors.New("invalid hit energy")

	// ErrDegenerateMerge is returned when combining two clusters would
	// produce a non-positive energy. It indicates a broken invariant and is
	// fatal for the event.
	ErrDegenerateMerge = errors.New("degenerate merge")

	// ErrInvalidMergeOperand is returned by Absorb when the operand is nil,
	// the receiver itself, or an empty cluster, and when the receiver has
	// been retired.
	ErrInvalidMergeOperand = errors.New("invalid merge operand")

	// ErrHitNotAvailable is returned by AddHit and Grow for hits that are out
	// of range, were not admitted, or already belong to a cluster.
	ErrHitNotAvailable = errors.New("hit not available")
)

// HitError reports a hit excluded from clustering. Per-hit errors never
// abort the event.
type HitError struct {
	Ref    hcal.HitRef
	ID     hcal.HitID
	Energy float64
	Err    error
}

func (e HitError) Error() string {
	return fmt.Sprintf("hit %d (%s, %g MeV): %v", e.Ref, e.ID, e.Energy, e.Err)
}

func (e HitError) Unwrap() error { return e.Err }
