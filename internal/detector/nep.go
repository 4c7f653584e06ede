// Package detector models the photon-noise-limited sensitivity of a kinetic
// inductance detector under a given optical loading.
package detector

import (
	"math"

	"github.com/submm-lab/specsens/internal/physics"
)

// GapAluminium is the superconducting gap energy of aluminium in joules.
var GapAluminium = 188e-6 * physics.ElectronCharge

// PairBreakingEfficiency is the fraction of absorbed power that breaks
// Cooper pairs.
const PairBreakingEfficiency = 0.4

// PhotonNEP returns the noise equivalent power of the detector with respect
// to the power it absorbs, in W/sqrt(Hz). Three mechanisms add in
// quadrature: Poisson shot noise, wave bunching, and quasiparticle
// recombination.
//
// freq is the frequency of the radiation responsible for the loading,
// power the absorbed power and bandwidth the detection bandwidth that sets
// the loading.
func PhotonNEP(freq, power, bandwidth float64) float64 {
	poisson := 2 * power * physics.Planck * freq
	bunching := 2 * power * power / bandwidth
	recombination := 4 * GapAluminium * power / PairBreakingEfficiency

	return math.Sqrt(poisson + bunching + recombination)
}

// InstrumentNEP refers a detector NEP back to the cryostat window by
// dividing out the cumulative instrument optical efficiency.
func InstrumentNEP(nep, etaInstrument float64) float64 {
	return nep / etaInstrument
}
