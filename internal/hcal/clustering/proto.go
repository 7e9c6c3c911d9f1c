package clustering

import (
	"fmt"
	"math"

	"github.com/banshee-data/hcal.cluster/internal/hcal"
)

// =============================================================================
// Proto-cluster formation
// =============================================================================

// BuildProtoClusters forms proto-clusters from the registered hits with the
// configured strategy, visiting hits in descending energy order.
//
// With StrategyRegionGrowing, hits at or above the seed threshold grow a
// cluster each; admitted hits left unclaimed afterwards become single-hit
// clusters so no admitted energy is lost.
func (e *Engine) BuildProtoClusters() error {
	order := hcal.SortByEnergy(e.hits)

	if e.cfg.Strategy == StrategyRegionGrowing {
		for _, ref := range order {
			if !e.available(ref) || e.hits[ref].Energy < e.cfg.SeedThreshold {
				continue
			}
			if _, err := e.Grow(ref); err != nil {
				return err
			}
		}
	}

	for _, ref := range order {
		if !e.available(ref) {
			continue
		}
		if err := e.AddHit(ref); err != nil {
			return err
		}
	}

	diagf("formed %d proto-clusters (%s) from %d hits, %d rejected, %d below noise floor",
		len(e.clusters), e.cfg.Strategy, len(e.hits), len(e.rejected), e.filtered)
	return nil
}

func (e *Engine) available(ref hcal.HitRef) bool {
	i := int(ref)
	return i >= 0 && i < len(e.hits) && e.admitted[i] && !e.claimed[i]
}

func (e *Engine) checkAvailable(ref hcal.HitRef) error {
	if !e.available(ref) {
		return fmt.Errorf("%w: ref %d", ErrHitNotAvailable, ref)
	}
	return nil
}

// AddHit creates a single-hit proto-cluster from a registered hit.
func (e *Engine) AddHit(ref hcal.HitRef) error {
	if err := e.checkAvailable(ref); err != nil {
		return err
	}
	wc := &WorkingCluster{}
	if err := e.absorb(wc, ref); err != nil {
		return err
	}
	e.appendCluster(wc)
	return nil
}

// Grow flood-fills outward from seed over the cell topology. A hit in a
// neighbouring cell joins the cluster when it lies within the time window of
// the seed and exceeds the expansion cutoff; its cell is then expanded in
// turn. Claimed hits are not considered by later clusters.
func (e *Engine) Grow(seed hcal.HitRef) (*WorkingCluster, error) {
	if err := e.checkAvailable(seed); err != nil {
		return nil, err
	}
	seedHit := e.hits[seed]
	wc := &WorkingCluster{}
	if err := e.absorb(wc, seed); err != nil {
		return nil, err
	}

	visited := map[hcal.HitID]bool{seedHit.ID: true}
	queue := []hcal.HitID{seedHit.ID}

	for len(queue) > 0 {
		cell := queue[0]
		queue = queue[1:]

		neighbors, err := e.topo.Neighbors(cell)
		if err != nil {
			opsf("skipping expansion of cell %s: %v", cell, err)
			continue
		}
		for _, n := range neighbors {
			if visited[n] {
				continue
			}
			visited[n] = true

			expand := false
			for _, ref := range e.byCell[n] {
				if e.claimed[ref] {
					continue
				}
				h := e.hits[ref]
				if math.Abs(h.Time-seedHit.Time) >= e.cfg.DeltaTimeWindow || h.Energy <= e.cfg.ExpansionCutoff {
					continue
				}
				if err := e.absorb(wc, ref); err != nil {
					return nil, err
				}
				expand = true
			}
			if expand {
				queue = append(queue, n)
			}
		}
	}

	tracef("grew cluster from seed %d (%s): %d hits, %g MeV", seed, seedHit.ID, wc.Len(), wc.Energy())
	e.appendCluster(wc)
	return wc, nil
}

func (e *Engine) absorb(wc *WorkingCluster, ref hcal.HitRef) error {
	if err := wc.AbsorbHit(ref, e.hits[ref], e.positions[ref]); err != nil {
		return err
	}
	e.claimed[ref] = true
	return nil
}

func (e *Engine) appendCluster(wc *WorkingCluster) {
	e.clusters = append(e.clusters, wc)
	e.live++
}
