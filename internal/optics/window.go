// Package optics models the optical path from the sky to the detector chip:
// telescope mirrors, warm optics, the cryostat window and the cold stages,
// each treated as a lossy medium mixing the propagated signal with its own
// thermal emission.
package optics

import (
	"math"

	"github.com/submm-lab/specsens/internal/physics"
)

// Window describes the dielectric cryostat window. The defaults correspond
// to an 8 mm HDPE slab with measured loss tangents.
type Window struct {
	Thickness       float64 `yaml:"thickness"`       // m
	LossTangent     float64 `yaml:"lossTangent"`     // first-order tan delta
	LossTangent2    float64 `yaml:"lossTangent2"`    // second-order term
	RefractiveIndex float64 `yaml:"refractiveIndex"` // effective index
	AntiReflective  bool    `yaml:"antiReflective"`  // AR coating removes reflections
}

// DefaultWindow returns the HDPE window parameters of the reference
// instrument.
func DefaultWindow() Window {
	return Window{
		Thickness:       8e-3,
		LossTangent:     4.805e-4,
		LossTangent2:    1e-8,
		RefractiveIndex: 1.52,
	}
}

// Transmission returns the net power transmission of the window at the given
// frequency, together with the single-surface power reflectance and the bulk
// absorption efficiency. An anti-reflective window is fully transparent.
func (w Window) Transmission(freq float64) (eta, reflectance, bulk float64) {
	if w.AntiReflective {
		return 1, 0, 1
	}

	n := w.RefractiveIndex
	reflectance = ((1 - n) / (1 + n)) * ((1 - n) / (1 + n))

	fc := freq / physics.SpeedOfLight
	bulk = math.Exp(-2 * math.Pi * n * w.Thickness * (w.LossTangent*fc + w.LossTangent2*fc*fc))

	eta = (1 - reflectance) * (1 - reflectance) * bulk
	return eta, reflectance, bulk
}

// Propagate carries a PSD through the window. The first surface reflection
// sees the cold-optics emission, the bulk loss sees the cabin, and the
// second reflection again sees the cold optics; each interface is one
// radiative transfer application. For an anti-reflective window the input
// passes unchanged.
func (w Window) Propagate(freq, psdIn, psdCabin, psdCold float64) (psdOut, eta, reflectance float64) {
	if w.AntiReflective {
		return psdIn, 1, 0
	}

	eta, reflectance, bulk := w.Transmission(freq)

	afterFirst := physics.Transfer(psdIn, psdCold, 1-reflectance)
	beforeSecond := physics.Transfer(afterFirst, psdCabin, bulk)
	psdOut = physics.Transfer(beforeSecond, psdCold, 1-reflectance)

	return psdOut, eta, reflectance
}
