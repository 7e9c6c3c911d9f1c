package clustering

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/hcal.cluster/internal/hcal"
	"github.com/banshee-data/hcal.cluster/internal/hcal/geometry"
)

// Engine clusters the hits of one event. Create one per event, or call
// Reset between events.
type Engine struct {
	cfg      Config
	geom     geometry.Geometry
	topo     geometry.Topology
	weighter MergeWeighter

	// Event arena, indexed by hcal.HitRef.
	hits      []hcal.Hit
	positions []r3.Vec
	admitted  []bool
	claimed   []bool
	byCell    map[hcal.HitID][]hcal.HitRef

	clusters []*WorkingCluster
	live     int
	rejected []HitError
	filtered int

	// Merge diagnostics.
	transitions map[int]float64
	nseeds      int
	finalWeight float64
	iterations  int
	merges      int
}

// Option configures an Engine.
type Option func(*Engine)

// WithWeighter sets the merge weighter. The default is DistanceWeighter
// with unit scale.
func WithWeighter(w MergeWeighter) Option {
	return func(e *Engine) {
		if w != nil {
			e.weighter = w
		}
	}
}

// WithTopology sets the cell adjacency used by region growing. If unset and
// the geometry also implements geometry.Topology, the geometry is used.
func WithTopology(t geometry.Topology) Option {
	return func(e *Engine) { e.topo = t }
}

// NewEngine creates an engine for cfg.
func NewEngine(cfg Config, geom geometry.Geometry, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if geom == nil {
		return nil, errors.New("clustering: geometry is required")
	}
	e := &Engine{
		cfg:      cfg,
		geom:     geom,
		weighter: DistanceWeighter{Scale: 1},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.topo == nil {
		if t, ok := geom.(geometry.Topology); ok {
			e.topo = t
		}
	}
	if cfg.Strategy == StrategyRegionGrowing && e.topo == nil {
		return nil, errors.New("clustering: region growing requires a topology")
	}
	e.Reset()
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Reset discards all per-event state.
func (e *Engine) Reset() {
	e.hits = nil
	e.positions = nil
	e.admitted = nil
	e.claimed = nil
	e.byCell = make(map[hcal.HitID][]hcal.HitRef)
	e.clusters = nil
	e.live = 0
	e.rejected = nil
	e.filtered = 0
	e.transitions = make(map[int]float64)
	e.nseeds = 0
	e.finalWeight = 0
	e.iterations = 0
	e.merges = 0
}

// SetHits resets the engine and registers the event's hits. Each hit is
// checked once: hits with invalid energy or an unknown cell are rejected and
// returned, hits below the noise floor (or without energy) are dropped
// silently. No
// proto-clusters are formed; use AddHit, Grow or BuildProtoClusters.
func (e *Engine) SetHits(hits []hcal.Hit) []HitError {
	e.Reset()
	e.hits = hits
	e.positions = make([]r3.Vec, len(hits))
	e.admitted = make([]bool, len(hits))
	e.claimed = make([]bool, len(hits))

	for i, h := range hits {
		ref := hcal.HitRef(i)
		if !validEnergy(h.Energy) {
			e.reject(ref, h, fmt.Errorf("%w: %g", ErrInvalidHitEnergy, h.Energy))
			continue
		}
		if h.Energy < e.cfg.NoiseFloor || h.Energy == 0 {
			e.filtered++
			continue
		}
		pos, err := e.geom.PositionOf(h.ID)
		if err != nil {
			e.reject(ref, h, err)
			continue
		}
		e.positions[i] = pos
		e.admitted[i] = true
		e.byCell[h.ID] = append(e.byCell[h.ID], ref)
	}
	return e.Rejected()
}

func (e *Engine) reject(ref hcal.HitRef, h hcal.Hit, err error) {
	he := HitError{Ref: ref, ID: h.ID, Energy: h.Energy, Err: err}
	e.rejected = append(e.rejected, he)
	opsf("excluding %v", he)
}

// Load registers hits and forms proto-clusters with the configured
// strategy. Per-hit rejections are returned and do not stop processing.
func (e *Engine) Load(hits []hcal.Hit) ([]HitError, error) {
	rejected := e.SetHits(hits)
	if err := e.BuildProtoClusters(); err != nil {
		return rejected, err
	}
	return rejected, nil
}

// Rejected returns the hits excluded from clustering.
func (e *Engine) Rejected() []HitError {
	out := make([]HitError, len(e.rejected))
	copy(out, e.rejected)
	return out
}

// Filtered returns the number of hits dropped below the noise floor.
func (e *Engine) Filtered() int { return e.filtered }

// Clusters returns the working set, including retired clusters.
func (e *Engine) Clusters() []*WorkingCluster {
	out := make([]*WorkingCluster, len(e.clusters))
	copy(out, e.clusters)
	return out
}

// LiveCount returns the number of non-empty clusters.
func (e *Engine) LiveCount() int { return e.live }

// ClusteredEnergy returns the energy of all hits placed in a cluster.
func (e *Engine) ClusteredEnergy() float64 {
	var sum float64
	for i, c := range e.claimed {
		if c {
			sum += e.hits[i].Energy
		}
	}
	return sum
}

// Transitions maps the live cluster count at each merge iteration to the
// best weight found in that iteration.
func (e *Engine) Transitions() map[int]float64 {
	out := make(map[int]float64, len(e.transitions))
	for k, v := range e.transitions {
		out[k] = v
	}
	return out
}

// Seeds returns the number of clusters that passed the seed threshold in
// the last merge iteration.
func (e *Engine) Seeds() int { return e.nseeds }

// FinalWeight returns the best weight of the last merge iteration.
func (e *Engine) FinalWeight() float64 { return e.finalWeight }

// Iterations returns the number of merge iterations run.
func (e *Engine) Iterations() int { return e.iterations }

// Merges returns the number of committed merges.
func (e *Engine) Merges() int { return e.merges }

// Merge runs the agglomerative loop: each iteration sorts clusters by
// descending energy and commits the lowest-weight pair if it scores below
// the merge cutoff. Only clusters at or above the seed threshold may start
// a pair. The more energetic cluster of a pair survives.
//
// An error means a merge invariant was violated; the event must be failed.
func (e *Engine) Merge() error {
	cutoff := e.cfg.MergeCutoff
	seed := e.cfg.SeedThreshold

	for {
		e.sortClusters()

		best := cutoff
		found := false
		bi, bj := 0, 0
		nseeds := 0

		for i, ci := range e.clusters {
			if ci.Empty() {
				continue
			}
			passes := ci.Energy() >= seed
			if !passes {
				break
			}
			nseeds++

			for j := i + 1; j < len(e.clusters); j++ {
				cj := e.clusters[j]
				if cj.Empty() || (!passes && cj.Energy() < seed) {
					continue
				}
				w := e.weighter.Weight(ci, cj)
				if !found || w < best {
					found = true
					best = w
					bi, bj = i, j
				}
			}
		}

		e.nseeds = nseeds
		e.transitions[e.live] = best
		e.iterations++
		tracef("iteration %d: live=%d seeds=%d best=%g found=%v", e.iterations, e.live, nseeds, best, found)

		if found && best < cutoff {
			if e.clusters[bi].Energy() < e.clusters[bj].Energy() {
				bi, bj = bj, bi
			}
			if err := e.clusters[bi].Absorb(e.clusters[bj]); err != nil {
				opsf("merge of clusters %d and %d failed: %v", bi, bj, err)
				return fmt.Errorf("clustering: merge clusters %d and %d: %w", bi, bj, err)
			}
			e.clusters[bj].Retire()
			e.live--
			e.merges++
		}

		e.finalWeight = best
		if !(best < cutoff && e.live > 1) {
			break
		}
	}

	diagf("merged %d clusters into %d over %d iterations (final weight %g)",
		e.merges+e.live, e.live, e.iterations, e.finalWeight)
	return nil
}

// sortClusters orders the working set by descending energy. Retired
// clusters carry no energy and sink to the end.
func (e *Engine) sortClusters() {
	sort.SliceStable(e.clusters, func(i, j int) bool {
		return e.clusters[i].Energy() > e.clusters[j].Energy()
	})
}

// FinalClusters returns snapshots of the non-empty clusters in working-set
// order.
func (e *Engine) FinalClusters() []Cluster {
	out := make([]Cluster, 0, e.live)
	for _, c := range e.clusters {
		if c.Empty() {
			continue
		}
		out = append(out, e.snapshot(len(out), c))
	}
	return out
}
