package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig is the root configuration for clustering tuning parameters.
// Every field is optional; the Get* methods supply the default for fields
// left out of the JSON.
type TuningConfig struct {
	// Thresholds (energies in MeV, times in ns)
	SeedThreshold   *float64 `json:"seed_threshold,omitempty"`
	NoiseFloor      *float64 `json:"noise_floor,omitempty"`
	ExpansionCutoff *float64 `json:"expansion_cutoff,omitempty"`
	DeltaTimeWindow *float64 `json:"delta_time_window,omitempty"`
	MergeCutoff     *float64 `json:"merge_cutoff,omitempty"`

	// Strategy selection
	ProtoStrategy *string `json:"proto_strategy,omitempty"` // "incremental" or "region_growing"
	MergeWeighter *string `json:"merge_weighter,omitempty"` // "distance", "distance_time" or "energy"

	// Weighter scales
	MergeDistanceScale *float64 `json:"merge_distance_scale,omitempty"` // mm
	MergeTimeScale     *float64 `json:"merge_time_scale,omitempty"`     // ns

	// Event pipeline
	EventWorkers *int `json:"event_workers,omitempty"`
}

// Default values used when a field is absent.
const (
	defaultSeedThreshold      = 1.0
	defaultNoiseFloor         = 0.1
	defaultExpansionCutoff    = 0.1
	defaultDeltaTimeWindow    = 10.0
	defaultMergeCutoff        = 1.0
	defaultProtoStrategy      = "incremental"
	defaultMergeWeighter      = "distance"
	defaultMergeDistanceScale = 100.0
	defaultMergeTimeScale     = 5.0
	defaultEventWorkers       = 1
)

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file must have a .json extension and be at most 1MB. Fields omitted
// from the file keep their defaults, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from
// DefaultConfigPath, searching the current directory and its parents.
// Panics if the file cannot be loaded; intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // from internal/hcal/clustering/
		"../../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	nonNegative := []struct {
		name string
		v    *float64
	}{
		{"seed_threshold", c.SeedThreshold},
		{"noise_floor", c.NoiseFloor},
		{"expansion_cutoff", c.ExpansionCutoff},
		{"delta_time_window", c.DeltaTimeWindow},
	}
	for _, f := range nonNegative {
		if f.v != nil && (math.IsNaN(*f.v) || *f.v < 0) {
			return fmt.Errorf("%s must be non-negative, got %f", f.name, *f.v)
		}
	}

	if c.MergeDistanceScale != nil && *c.MergeDistanceScale <= 0 {
		return fmt.Errorf("merge_distance_scale must be positive, got %f", *c.MergeDistanceScale)
	}
	if c.MergeTimeScale != nil && *c.MergeTimeScale <= 0 {
		return fmt.Errorf("merge_time_scale must be positive, got %f", *c.MergeTimeScale)
	}

	if c.ProtoStrategy != nil {
		switch *c.ProtoStrategy {
		case "", "incremental", "region_growing":
		default:
			return fmt.Errorf("invalid proto_strategy '%s'", *c.ProtoStrategy)
		}
	}
	if c.MergeWeighter != nil {
		switch *c.MergeWeighter {
		case "", "distance", "distance_time", "energy":
		default:
			return fmt.Errorf("invalid merge_weighter '%s'", *c.MergeWeighter)
		}
	}

	if c.EventWorkers != nil && *c.EventWorkers < 1 {
		return fmt.Errorf("event_workers must be at least 1, got %d", *c.EventWorkers)
	}

	return nil
}

// GetSeedThreshold returns the seed_threshold value or the default.
func (c *TuningConfig) GetSeedThreshold() float64 {
	if c.SeedThreshold == nil {
		return defaultSeedThreshold
	}
	return *c.SeedThreshold
}

// GetNoiseFloor returns the noise_floor value or the default.
func (c *TuningConfig) GetNoiseFloor() float64 {
	if c.NoiseFloor == nil {
		return defaultNoiseFloor
	}
	return *c.NoiseFloor
}

// GetExpansionCutoff returns the expansion_cutoff value or the default.
func (c *TuningConfig) GetExpansionCutoff() float64 {
	if c.ExpansionCutoff == nil {
		return defaultExpansionCutoff
	}
	return *c.ExpansionCutoff
}

// GetDeltaTimeWindow returns the delta_time_window value or the default.
func (c *TuningConfig) GetDeltaTimeWindow() float64 {
	if c.DeltaTimeWindow == nil {
		return defaultDeltaTimeWindow
	}
	return *c.DeltaTimeWindow
}

// GetMergeCutoff returns the merge_cutoff value or the default.
func (c *TuningConfig) GetMergeCutoff() float64 {
	if c.MergeCutoff == nil {
		return defaultMergeCutoff
	}
	return *c.MergeCutoff
}

// GetProtoStrategy returns the proto_strategy value or the default.
func (c *TuningConfig) GetProtoStrategy() string {
	if c.ProtoStrategy == nil || *c.ProtoStrategy == "" {
		return defaultProtoStrategy
	}
	return *c.ProtoStrategy
}

// GetMergeWeighter returns the merge_weighter value or the default.
func (c *TuningConfig) GetMergeWeighter() string {
	if c.MergeWeighter == nil || *c.MergeWeighter == "" {
		return defaultMergeWeighter
	}
	return *c.MergeWeighter
}

// GetMergeDistanceScale returns the merge_distance_scale value or the default.
func (c *TuningConfig) GetMergeDistanceScale() float64 {
	if c.MergeDistanceScale == nil {
		return defaultMergeDistanceScale
	}
	return *c.MergeDistanceScale
}

// GetMergeTimeScale returns the merge_time_scale value or the default.
func (c *TuningConfig) GetMergeTimeScale() float64 {
	if c.MergeTimeScale == nil {
		return defaultMergeTimeScale
	}
	return *c.MergeTimeScale
}

// GetEventWorkers returns the event_workers value or the default.
func (c *TuningConfig) GetEventWorkers() int {
	if c.EventWorkers == nil {
		return defaultEventWorkers
	}
	return *c.EventWorkers
}
