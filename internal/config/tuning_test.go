package config

import (
	"os"
	"path/filepath"
	"testing"
)

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestLoadTuningConfig(t *testing.T) {
	configPath := writeConfig(t, "test_config.json", `{
  "seed_threshold": 2.5,
  "noise_floor": 0.3,
  "expansion_cutoff": 0.4,
  "delta_time_window": 7.5,
  "merge_cutoff": 0.8,
  "proto_strategy": "region_growing",
  "merge_weighter": "distance_time",
  "merge_distance_scale": 150,
  "merge_time_scale": 2,
  "event_workers": 4
}`)

	cfg, err := LoadTuningConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if got := cfg.GetSeedThreshold(); got != 2.5 {
		t.Errorf("GetSeedThreshold() = %v, want 2.5", got)
	}
	if got := cfg.GetNoiseFloor(); got != 0.3 {
		t.Errorf("GetNoiseFloor() = %v, want 0.3", got)
	}
	if got := cfg.GetExpansionCutoff(); got != 0.4 {
		t.Errorf("GetExpansionCutoff() = %v, want 0.4", got)
	}
	if got := cfg.GetDeltaTimeWindow(); got != 7.5 {
		t.Errorf("GetDeltaTimeWindow() = %v, want 7.5", got)
	}
	if got := cfg.GetMergeCutoff(); got != 0.8 {
		t.Errorf("GetMergeCutoff() = %v, want 0.8", got)
	}
	if got := cfg.GetProtoStrategy(); got != "region_growing" {
		t.Errorf("GetProtoStrategy() = %q, want region_growing", got)
	}
	if got := cfg.GetMergeWeighter(); got != "distance_time" {
		t.Errorf("GetMergeWeighter() = %q, want distance_time", got)
	}
	if got := cfg.GetMergeDistanceScale(); got != 150 {
		t.Errorf("GetMergeDistanceScale() = %v, want 150", got)
	}
	if got := cfg.GetMergeTimeScale(); got != 2 {
		t.Errorf("GetMergeTimeScale() = %v, want 2", got)
	}
	if got := cfg.GetEventWorkers(); got != 4 {
		t.Errorf("GetEventWorkers() = %d, want 4", got)
	}
}

func TestLoadTuningConfigMissing(t *testing.T) {
	_, err := LoadTuningConfig("/nonexistent/path/to/config.json")
	if err == nil {
		t.Error("Expected error when loading missing file, got nil")
	}
}

func TestLoadTuningConfigInvalid(t *testing.T) {
	configPath := writeConfig(t, "invalid_config.json", `{
  "seed_threshold": "invalid"
`)
	if _, err := LoadTuningConfig(configPath); err == nil {
		t.Error("Expected error when loading invalid JSON, got nil")
	}
}

func TestLoadTuningConfigRejectsInvalidValues(t *testing.T) {
	configPath := writeConfig(t, "bad_values.json", `{"noise_floor": -1}`)
	if _, err := LoadTuningConfig(configPath); err == nil {
		t.Error("Expected validation error, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *TuningConfig
		wantErr bool
	}{
		{name: "empty config is valid", cfg: &TuningConfig{}, wantErr: false},
		{
			name: "all fields valid",
			cfg: &TuningConfig{
				SeedThreshold:      ptrFloat64(0),
				NoiseFloor:         ptrFloat64(0.05),
				ExpansionCutoff:    ptrFloat64(0.05),
				DeltaTimeWindow:    ptrFloat64(5),
				MergeCutoff:        ptrFloat64(-1),
				ProtoStrategy:      ptrString("incremental"),
				MergeWeighter:      ptrString("energy"),
				MergeDistanceScale: ptrFloat64(10),
				MergeTimeScale:     ptrFloat64(1),
				EventWorkers:       ptrInt(8),
			},
			wantErr: false,
		},
		{name: "negative seed threshold", cfg: &TuningConfig{SeedThreshold: ptrFloat64(-0.1)}, wantErr: true},
		{name: "negative noise floor", cfg: &TuningConfig{NoiseFloor: ptrFloat64(-1)}, wantErr: true},
		{name: "negative expansion cutoff", cfg: &TuningConfig{ExpansionCutoff: ptrFloat64(-1)}, wantErr: true},
		{name: "negative time window", cfg: &TuningConfig{DeltaTimeWindow: ptrFloat64(-1)}, wantErr: true},
		{name: "zero distance scale", cfg: &TuningConfig{MergeDistanceScale: ptrFloat64(0)}, wantErr: true},
		{name: "negative time scale", cfg: &TuningConfig{MergeTimeScale: ptrFloat64(-2)}, wantErr: true},
		{name: "unknown strategy", cfg: &TuningConfig{ProtoStrategy: ptrString("bfs")}, wantErr: true},
		{name: "unknown weighter", cfg: &TuningConfig{MergeWeighter: ptrString("cosine")}, wantErr: true},
		{name: "zero workers", cfg: &TuningConfig{EventWorkers: ptrInt(0)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDefaultConfigFile(t *testing.T) {
	cfg, err := LoadTuningConfig("../../config/tuning.defaults.json")
	if err != nil {
		t.Fatalf("Failed to load defaults: %v", err)
	}
	empty := EmptyTuningConfig()

	// The defaults file and the getter fallbacks must agree.
	if cfg.GetSeedThreshold() != empty.GetSeedThreshold() {
		t.Errorf("seed_threshold: file %v, fallback %v", cfg.GetSeedThreshold(), empty.GetSeedThreshold())
	}
	if cfg.GetNoiseFloor() != empty.GetNoiseFloor() {
		t.Errorf("noise_floor: file %v, fallback %v", cfg.GetNoiseFloor(), empty.GetNoiseFloor())
	}
	if cfg.GetExpansionCutoff() != empty.GetExpansionCutoff() {
		t.Errorf("expansion_cutoff: file %v, fallback %v", cfg.GetExpansionCutoff(), empty.GetExpansionCutoff())
	}
	if cfg.GetDeltaTimeWindow() != empty.GetDeltaTimeWindow() {
		t.Errorf("delta_time_window: file %v, fallback %v", cfg.GetDeltaTimeWindow(), empty.GetDeltaTimeWindow())
	}
	if cfg.GetMergeCutoff() != empty.GetMergeCutoff() {
		t.Errorf("merge_cutoff: file %v, fallback %v", cfg.GetMergeCutoff(), empty.GetMergeCutoff())
	}
	if cfg.GetProtoStrategy() != empty.GetProtoStrategy() {
		t.Errorf("proto_strategy: file %q, fallback %q", cfg.GetProtoStrategy(), empty.GetProtoStrategy())
	}
	if cfg.GetMergeWeighter() != empty.GetMergeWeighter() {
		t.Errorf("merge_weighter: file %q, fallback %q", cfg.GetMergeWeighter(), empty.GetMergeWeighter())
	}
	if cfg.GetMergeDistanceScale() != empty.GetMergeDistanceScale() {
		t.Errorf("merge_distance_scale: file %v, fallback %v", cfg.GetMergeDistanceScale(), empty.GetMergeDistanceScale())
	}
	if cfg.GetMergeTimeScale() != empty.GetMergeTimeScale() {
		t.Errorf("merge_time_scale: file %v, fallback %v", cfg.GetMergeTimeScale(), empty.GetMergeTimeScale())
	}
	if cfg.GetEventWorkers() != empty.GetEventWorkers() {
		t.Errorf("event_workers: file %d, fallback %d", cfg.GetEventWorkers(), empty.GetEventWorkers())
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	if cfg.SeedThreshold == nil {
		t.Error("Expected seed_threshold to be set by the defaults file")
	}
}

func TestLoadTuningConfigPartial(t *testing.T) {
	configPath := writeConfig(t, "partial.json", `{
  "merge_cutoff": 0.25
}`)

	cfg, err := LoadTuningConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load partial config: %v", err)
	}

	if cfg.GetMergeCutoff() != 0.25 {
		t.Errorf("Expected overridden MergeCutoff 0.25, got %f", cfg.GetMergeCutoff())
	}
	if cfg.GetSeedThreshold() != defaultSeedThreshold {
		t.Errorf("Expected default SeedThreshold %v, got %v", defaultSeedThreshold, cfg.GetSeedThreshold())
	}
	if cfg.GetProtoStrategy() != defaultProtoStrategy {
		t.Errorf("Expected default ProtoStrategy %q, got %q", defaultProtoStrategy, cfg.GetProtoStrategy())
	}
}

func TestLoadTuningConfigRejectsNonJSON(t *testing.T) {
	_, err := LoadTuningConfig("/some/path/config.yaml")
	if err == nil {
		t.Error("Expected error for non-.json extension, got nil")
	}
}

func TestLoadTuningConfigRejectsLargeFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "large.json")

	largeData := make([]byte, 2*1024*1024) // 2MB
	if err := os.WriteFile(configPath, largeData, 0644); err != nil {
		t.Fatalf("Failed to write large file: %v", err)
	}

	if _, err := LoadTuningConfig(configPath); err == nil {
		t.Error("Expected error for file size > 1MB, got nil")
	}
}

func TestGetterDefaults(t *testing.T) {
	cfg := EmptyTuningConfig()

	if cfg.GetSeedThreshold() != 1.0 {
		t.Errorf("GetSeedThreshold() = %v, want 1.0", cfg.GetSeedThreshold())
	}
	if cfg.GetNoiseFloor() != 0.1 {
		t.Errorf("GetNoiseFloor() = %v, want 0.1", cfg.GetNoiseFloor())
	}
	if cfg.GetMergeCutoff() != 1.0 {
		t.Errorf("GetMergeCutoff() = %v, want 1.0", cfg.GetMergeCutoff())
	}
	if cfg.GetProtoStrategy() != "incremental" {
		t.Errorf("GetProtoStrategy() = %q, want incremental", cfg.GetProtoStrategy())
	}
	if cfg.GetMergeWeighter() != "distance" {
		t.Errorf("GetMergeWeighter() = %q, want distance", cfg.GetMergeWeighter())
	}
	if cfg.GetEventWorkers() != 1 {
		t.Errorf("GetEventWorkers() = %d, want 1", cfg.GetEventWorkers())
	}

	// Empty strings fall back like nil.
	cfg.ProtoStrategy = ptrString("")
	cfg.MergeWeighter = ptrString("")
	if cfg.GetProtoStrategy() != "incremental" {
		t.Errorf("GetProtoStrategy() with empty string = %q, want incremental", cfg.GetProtoStrategy())
	}
	if cfg.GetMergeWeighter() != "distance" {
		t.Errorf("GetMergeWeighter() with empty string = %q, want distance", cfg.GetMergeWeighter())
	}
}
