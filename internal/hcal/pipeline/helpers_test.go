package pipeline

import (
	"testing"

	"github.com/google/uuid"

	"github.com/banshee-data/hcal.cluster/internal/hcal"
	"github.com/banshee-data/hcal.cluster/internal/hcal/clustering"
	"github.com/banshee-data/hcal.cluster/internal/hcal/geometry"
	"github.com/banshee-data/hcal.cluster/internal/testutil"
)

func showerConfig() clustering.Config {
	return clustering.Config{
		SeedThreshold:   1,
		NoiseFloor:      0.1,
		ExpansionCutoff: 0.1,
		DeltaTimeWindow: 10,
		MergeCutoff:     1,
		Strategy:        clustering.StrategyRegionGrowing,
	}
}

func newShowerProducer(t *testing.T) *Producer {
	t.Helper()
	p, err := NewProducer(showerConfig(), testutil.SmallStrips(),
		clustering.WithWeighter(clustering.DistanceWeighter{Scale: 100}))
	testutil.AssertNoError(t, err)
	return p
}

// twoShowerEvent holds two separated showers, a hit outside the detector
// and a hit with negative energy.
func twoShowerEvent(number int) Event {
	g := testutil.SmallStrips()
	hits := testutil.Shower(g, 2, 3, 8, 0)
	hits = append(hits, testutil.Shower(g, 2, 9, 8, 1)...)
	hits = append(hits,
		hcal.Hit{ID: geometry.CellID(3, 0, 0), Energy: 5},
		hcal.Hit{ID: geometry.CellID(0, 4, 4), Energy: -2},
	)
	return Event{
		ID:     uuid.NewSHA1(uuid.NameSpaceOID, []byte{byte(number)}),
		Run:    7,
		Number: number,
		Hits:   hits,
	}
}
