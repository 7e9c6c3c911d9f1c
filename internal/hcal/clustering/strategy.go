package clustering

import "fmt"

// ProtoStrategy selects how proto-clusters are formed from admitted hits.
// Exactly one strategy is active per engine.
type ProtoStrategy uint8

const (
	// StrategyIncremental creates one proto-cluster per admitted hit and
	// leaves all consolidation to the merge loop.
	StrategyIncremental ProtoStrategy = iota
	// StrategyRegionGrowing flood-fills neighbouring cells around each seed
	// hit before merging.
	StrategyRegionGrowing
)

const (
	strategyIncrementalName   = "incremental"
	strategyRegionGrowingName = "region_growing"
)

func (s ProtoStrategy) String() string {
	switch s {
	case StrategyIncremental:
		return strategyIncrementalName
	case StrategyRegionGrowing:
		return strategyRegionGrowingName
	default:
		return fmt.Sprintf("ProtoStrategy(%d)", uint8(s))
	}
}

// ParseProtoStrategy parses the string form used in tuning files.
// The empty string selects StrategyIncremental.
func ParseProtoStrategy(s string) (ProtoStrategy, error) {
	switch s {
	case "", strategyIncrementalName:
		return StrategyIncremental, nil
	case strategyRegionGrowingName:
		return StrategyRegionGrowing, nil
	default:
		return 0, fmt.Errorf("unknown proto-cluster strategy %q", s)
	}
}
