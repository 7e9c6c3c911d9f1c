package clustering

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/hcal.cluster/internal/hcal"
)

// Cluster is the immutable result for one surviving cluster.
type Cluster struct {
	Index    int // position in the event's output
	Energy   float64
	Centroid r3.Vec
	Time     float64
	NHits    int
	Hits     []hcal.HitRef
	HitIDs   []hcal.HitID
}

func (e *Engine) snapshot(index int, w *WorkingCluster) Cluster {
	refs := w.Members()
	ids := make([]hcal.HitID, len(refs))
	for i, ref := range refs {
		ids[i] = e.hits[ref].ID
	}
	return Cluster{
		Index:    index,
		Energy:   w.Energy(),
		Centroid: w.Centroid(),
		Time:     w.Time(),
		NHits:    len(refs),
		Hits:     refs,
		HitIDs:   ids,
	}
}
