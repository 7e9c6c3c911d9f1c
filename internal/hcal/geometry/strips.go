package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/hcal.cluster/internal/hcal"
)

// Cell id bit layout: strip in bits 0-9, layer in bits 10-17, section in
// bits 18-20.
const (
	stripBits   = 10
	layerBits   = 8
	sectionBits = 3

	stripMask   = 1<<stripBits - 1
	layerMask   = 1<<layerBits - 1
	sectionMask = 1<<sectionBits - 1

	// MaxStrips is the largest strip count a cell id can encode.
	MaxStrips = 1 << stripBits
	// MaxLayers is the largest layer count a cell id can encode.
	MaxLayers = 1 << layerBits
	// MaxSections is the largest section count a cell id can encode.
	MaxSections = 1 << sectionBits
)

// CellID packs a (section, layer, strip) triple into a HitID.
func CellID(section, layer, strip int) hcal.HitID {
	return hcal.HitID(uint32(section&sectionMask)<<(stripBits+layerBits) |
		uint32(layer&layerMask)<<stripBits |
		uint32(strip&stripMask))
}

// DecodeCellID unpacks a HitID built by CellID.
func DecodeCellID(id hcal.HitID) (section, layer, strip int) {
	v := uint32(id)
	strip = int(v & stripMask)
	layer = int((v >> stripBits) & layerMask)
	section = int((v >> (stripBits + layerBits)) & sectionMask)
	return section, layer, strip
}

// StripGeometry is a regular sampling calorimeter: sections stacked along z,
// each made of Layers scintillator planes spaced LayerPitch apart. Every
// plane holds Strips bars of StripWidth centred on the beam axis. Even
// layers measure x, odd layers measure y.
type StripGeometry struct {
	Sections   int
	Layers     int
	Strips     int
	LayerPitch float64 // mm between consecutive planes
	StripWidth float64 // mm
	FrontZ     float64 // z of the front face of section 0 (mm)
}

// DefaultStripGeometry returns a back-HCal-like layout.
func DefaultStripGeometry() *StripGeometry {
	return &StripGeometry{
		Sections:   1,
		Layers:     100,
		Strips:     62,
		LayerPitch: 44.0,
		StripWidth: 50.0,
		FrontZ:     840.0,
	}
}

// Validate checks that the layout fits the cell id encoding.
func (g *StripGeometry) Validate() error {
	if g.Sections < 1 || g.Sections > MaxSections {
		return fmt.Errorf("sections must be in [1, %d], got %d", MaxSections, g.Sections)
	}
	if g.Layers < 1 || g.Layers > MaxLayers {
		return fmt.Errorf("layers must be in [1, %d], got %d", MaxLayers, g.Layers)
	}
	if g.Strips < 1 || g.Strips > MaxStrips {
		return fmt.Errorf("strips must be in [1, %d], got %d", MaxStrips, g.Strips)
	}
	if g.LayerPitch <= 0 {
		return fmt.Errorf("layer pitch must be positive, got %f", g.LayerPitch)
	}
	if g.StripWidth <= 0 {
		return fmt.Errorf("strip width must be positive, got %f", g.StripWidth)
	}
	return nil
}

func (g *StripGeometry) contains(section, layer, strip int) bool {
	return section >= 0 && section < g.Sections &&
		layer >= 0 && layer < g.Layers &&
		strip >= 0 && strip < g.Strips
}

func (g *StripGeometry) decode(id hcal.HitID) (section, layer, strip int, err error) {
	section, layer, strip = DecodeCellID(id)
	if !g.contains(section, layer, strip) || CellID(section, layer, strip) != id {
		return 0, 0, 0, unknown(id)
	}
	return section, layer, strip, nil
}

// PositionOf implements Geometry. The measured coordinate is the strip
// centre; the unmeasured transverse coordinate is reported as 0.
func (g *StripGeometry) PositionOf(id hcal.HitID) (r3.Vec, error) {
	section, layer, strip, err := g.decode(id)
	if err != nil {
		return r3.Vec{}, err
	}
	plane := section*g.Layers + layer
	z := g.FrontZ + (float64(plane)+0.5)*g.LayerPitch
	t := (float64(strip) - float64(g.Strips-1)/2) * g.StripWidth
	if layer%2 == 0 {
		return r3.Vec{X: t, Z: z}, nil
	}
	return r3.Vec{Y: t, Z: z}, nil
}

// Neighbors implements Topology: the adjacent strips in the same plane and
// the same strip index in the adjacent planes of the same section.
func (g *StripGeometry) Neighbors(id hcal.HitID) ([]hcal.HitID, error) {
	section, layer, strip, err := g.decode(id)
	if err != nil {
		return nil, err
	}
	out := make([]hcal.HitID, 0, 4)
	steps := [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
	for _, s := range steps {
		l, st := layer+s[0], strip+s[1]
		if g.contains(section, l, st) {
			out = append(out, CellID(section, l, st))
		}
	}
	return out, nil
}

var (
	_ Geometry = (*StripGeometry)(nil)
	_ Topology = (*StripGeometry)(nil)
)
