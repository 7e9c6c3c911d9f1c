package clustering

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/hcal.cluster/internal/hcal"
	"github.com/banshee-data/hcal.cluster/internal/hcal/geometry"
)

// lineGeometry places cell i at x = xs[i], ids starting at 1.
func lineGeometry(xs ...float64) *geometry.Table {
	tbl := geometry.NewTable()
	for i, x := range xs {
		tbl.Add(hcal.HitID(i+1), r3.Vec{X: x})
	}
	return tbl
}

// positionOnly implements geometry.Geometry without a topology.
type positionOnly struct{ tbl *geometry.Table }

func (p positionOnly) PositionOf(id hcal.HitID) (r3.Vec, error) { return p.tbl.PositionOf(id) }

func testConfig() Config {
	return Config{
		SeedThreshold:   0,
		NoiseFloor:      0,
		ExpansionCutoff: 0,
		DeltaTimeWindow: 10,
		MergeCutoff:     1.0,
		Strategy:        StrategyIncremental,
	}
}

func newTestEngine(t *testing.T, cfg Config, geom geometry.Geometry, opts ...Option) *Engine {
	t.Helper()
	eng, err := NewEngine(cfg, geom, opts...)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return eng
}

func clusterEnergies(clusters []Cluster) []float64 {
	out := make([]float64, len(clusters))
	for i, c := range clusters {
		out[i] = c.Energy
	}
	return out
}
