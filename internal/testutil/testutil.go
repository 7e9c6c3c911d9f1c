// Package testutil provides shared test utilities and hit fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"math/rand"
	"testing"

	"github.com/banshee-data/hcal.cluster/internal/hcal"
	"github.com/banshee-data/hcal.cluster/internal/hcal/geometry"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// SmallStrips returns a compact single-section layout for fixtures.
func SmallStrips() *geometry.StripGeometry {
	return &geometry.StripGeometry{
		Sections:   1,
		Layers:     6,
		Strips:     12,
		LayerPitch: 40,
		StripWidth: 50,
	}
}

// Shower returns a cross-shaped deposit centred on (layer, strip) of
// section 0: the peak cell, a quarter of the peak in the neighbouring strips
// and an eighth in the neighbouring layers. Cells outside g are skipped.
// All hits share time t.
func Shower(g *geometry.StripGeometry, layer, strip int, peak, t float64) []hcal.Hit {
	deposits := []struct {
		dl, ds int
		frac   float64
	}{
		{0, 0, 1},
		{0, -1, 0.25},
		{0, 1, 0.25},
		{-1, 0, 0.125},
		{1, 0, 0.125},
	}
	var hits []hcal.Hit
	for _, d := range deposits {
		l, s := layer+d.dl, strip+d.ds
		if l < 0 || l >= g.Layers || s < 0 || s >= g.Strips {
			continue
		}
		hits = append(hits, hcal.Hit{
			ID:     geometry.CellID(0, l, s),
			Energy: peak * d.frac,
			Time:   t,
		})
	}
	return hits
}

// RandomHits scatters n hits over section 0 of g with exponential energies
// and Gaussian times. Roughly one hit in twenty carries an id outside g.
func RandomHits(rng *rand.Rand, g *geometry.StripGeometry, n int) []hcal.Hit {
	hits := make([]hcal.Hit, n)
	for i := range hits {
		id := geometry.CellID(0, rng.Intn(g.Layers), rng.Intn(g.Strips))
		if rng.Intn(20) == 0 {
			id = geometry.CellID(0, g.Layers+1, 0)
		}
		hits[i] = hcal.Hit{
			ID:     id,
			Energy: rng.ExpFloat64() * 3,
			Time:   rng.NormFloat64() * 8,
		}
	}
	return hits
}
