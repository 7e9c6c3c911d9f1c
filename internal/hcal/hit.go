package hcal

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// HitID identifies a single readout channel (detector cell).
type HitID uint32

// String renders the id in the hex form used by readout maps.
func (id HitID) String() string {
	return fmt.Sprintf("0x%08x", uint32(id))
}

// HitRef indexes a hit within its event's hit slice.
type HitRef int

// Hit is one reconstructed energy deposit.
type Hit struct {
	ID     HitID   `json:"id"`
	Energy float64 `json:"energy"` // deposited energy estimate (MeV)
	Time   float64 `json:"time"`   // measurement time (ns)
}

// TotalEnergy returns the summed energy of hits.
func TotalEnergy(hits []Hit) float64 {
	if len(hits) == 0 {
		return 0
	}
	e := make([]float64, len(hits))
	for i, h := range hits {
		e[i] = h.Energy
	}
	return floats.Sum(e)
}

// SortByEnergy returns hit refs ordered by descending energy.
// Equal energies keep their input order.
func SortByEnergy(hits []Hit) []HitRef {
	refs := make([]HitRef, len(hits))
	for i := range hits {
		refs[i] = HitRef(i)
	}
	sort.SliceStable(refs, func(i, j int) bool {
		return hits[refs[i]].Energy > hits[refs[j]].Energy
	})
	return refs
}
