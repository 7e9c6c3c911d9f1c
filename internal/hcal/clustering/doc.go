// Package clustering groups calorimeter hits into energy-weighted clusters.
//
// Processing an event has two phases. Proto-cluster formation turns the
// admitted hits into WorkingClusters, either one cluster per hit
// (StrategyIncremental) or by flood-filling neighbouring cells around
// energetic seeds (StrategyRegionGrowing). The agglomerative merge loop then
// repeatedly combines the pair of clusters with the lowest MergeWeighter
// score until no pair scores below the cutoff.
//
// An Engine owns all of its mutable state for the duration of one event and
// is not safe for concurrent use. Hits are never owned by the engine; they
// are addressed by their index in the event's hit slice.
//
// Basic usage:
//
//	eng, err := clustering.NewEngine(clustering.DefaultConfig(), geom)
//	rejected, err := eng.Load(hits)
//	err = eng.Merge()
//	clusters := eng.FinalClusters()
package clustering
