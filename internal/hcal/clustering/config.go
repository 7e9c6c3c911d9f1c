package clustering

import (
	"fmt"
	"math"

	"github.com/banshee-data/hcal.cluster/internal/config"
)

// Config holds the engine thresholds. Energies are in MeV, times in ns.
type Config struct {
	// SeedThreshold is the minimum energy for a hit to seed region growth
	// and for a cluster to initiate a merge search.
	SeedThreshold float64
	// NoiseFloor is the minimum hit energy to be considered at all.
	NoiseFloor float64
	// ExpansionCutoff is the energy a neighbour hit must exceed to be
	// absorbed during region growth.
	ExpansionCutoff float64
	// DeltaTimeWindow is the maximum |t - t_seed| for region growth.
	DeltaTimeWindow float64
	// MergeCutoff is the weight below which a merge is committed.
	MergeCutoff float64
	// Strategy selects proto-cluster formation.
	Strategy ProtoStrategy
}

// DefaultConfig returns the engine defaults, matching the fallbacks of an
// empty tuning file.
func DefaultConfig() Config {
	cfg, err := ConfigFromTuning(config.EmptyTuningConfig())
	if err != nil {
		panic(err) // fallbacks are constants
	}
	return cfg
}

// ConfigFromTuning builds a Config from a loaded TuningConfig.
func ConfigFromTuning(t *config.TuningConfig) (Config, error) {
	strategy, err := ParseProtoStrategy(t.GetProtoStrategy())
	if err != nil {
		return Config{}, err
	}
	return Config{
		SeedThreshold:   t.GetSeedThreshold(),
		NoiseFloor:      t.GetNoiseFloor(),
		ExpansionCutoff: t.GetExpansionCutoff(),
		DeltaTimeWindow: t.GetDeltaTimeWindow(),
		MergeCutoff:     t.GetMergeCutoff(),
		Strategy:        strategy,
	}, nil
}

// WeighterFromTuning returns the merge weighter named in t.
func WeighterFromTuning(t *config.TuningConfig) (MergeWeighter, error) {
	return WeighterByName(t.GetMergeWeighter(), t.GetMergeDistanceScale(), t.GetMergeTimeScale())
}

// Validate checks the thresholds.
func (c Config) Validate() error {
	nonNegative := []struct {
		name string
		v    float64
	}{
		{"seed threshold", c.SeedThreshold},
		{"noise floor", c.NoiseFloor},
		{"expansion cutoff", c.ExpansionCutoff},
		{"delta time window", c.DeltaTimeWindow},
	}
	for _, f := range nonNegative {
		if math.IsNaN(f.v) || f.v < 0 {
			return fmt.Errorf("clustering: %s must be non-negative, got %f", f.name, f.v)
		}
	}
	if math.IsNaN(c.MergeCutoff) {
		return fmt.Errorf("clustering: merge cutoff must be a number")
	}
	switch c.Strategy {
	case StrategyIncremental:
	case StrategyRegionGrowing:
		if c.DeltaTimeWindow == 0 {
			return fmt.Errorf("clustering: region growing needs a positive delta time window")
		}
	default:
		return fmt.Errorf("clustering: invalid strategy %s", c.Strategy)
	}
	return nil
}
