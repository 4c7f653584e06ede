package optics

import (
	"math"

	"github.com/submm-lab/specsens/internal/physics"
)

// AluminiumOhmicReflection is the ohmic reflection efficiency of an Al
// mirror surface, applied to both the primary and secondary.
const AluminiumOhmicReflection = 0.9975

// Chain holds the per-stage efficiencies of the optical path, in physical
// order from the telescope to the detector.
type Chain struct {
	EtaM1Spill     float64 // primary mirror spillover
	EtaM2Spill     float64 // secondary mirror spillover, sees the sky
	EtaWarmOptics  float64 // product of all cabin losses
	EtaColdOptics  float64 // cold spillover, ohmic and filter losses
	EtaLensAntenna float64 // lens-antenna radiation efficiency on the chip
	EtaCircuit     float64 // feedpoint-to-detector circuit efficiency
	Window         Window
}

// Environment carries the Johnson-Nyquist emission PSD of each thermal stage
// surrounding the chain, all evaluated at the same frequency.
type Environment struct {
	CMB        float64 // cosmic microwave background
	Ambient    float64 // atmosphere and telescope surroundings
	Cabin      float64 // telescope cabin
	ColdOptics float64 // cryostat cold stage
	Chip       float64 // detector chip
}

// Cascade holds the PSD after every stage of the chain, plus the window
// quantities and the reference loading decomposition of the detector power.
type Cascade struct {
	Sky        float64 // looking into the atmosphere
	M1         float64 // after the primary
	M2Spill    float64 // after secondary spillover (to sky)
	M2         float64 // after secondary ohmic loss
	WarmOptics float64 // after the cabin optics
	Window     float64 // looking into the window from the cold side
	ColdOptics float64 // after the cold optics
	Detector   float64 // absorbed by the detector

	EtaWindow         float64
	WindowReflectance float64

	// Partial cascades, for diagnostic reporting: detector PSD due to the
	// sky alone, the warm stages alone and the cold stages alone.
	DetectorSky  float64
	DetectorWarm float64
	DetectorCold float64
}

// EtaM1 returns the total primary-mirror efficiency, spillover and ohmic.
func (c Chain) EtaM1() float64 {
	return AluminiumOhmicReflection * c.EtaM1Spill
}

// EtaChip returns the total on-chip efficiency.
func (c Chain) EtaChip() float64 {
	return c.EtaLensAntenna * c.EtaCircuit
}

// ForwardEfficiency returns the fraction of the beam, as seen from the
// cryostat window, that points at the sky rather than the warm environment.
// The second term is the secondary spillover path, which still reaches the
// sky after reflecting off the warm surroundings.
func (c Chain) ForwardEfficiency() float64 {
	direct := c.EtaM1() * AluminiumOhmicReflection * c.EtaM2Spill * c.EtaWarmOptics
	spill := (1 - c.EtaM2Spill) * c.EtaWarmOptics
	return direct + spill
}

// InstrumentEfficiency returns the instrument optical efficiency from the
// window to the detector. These stages are pure multiplicative losses after
// the last distinct thermal input, so the product form is exact.
func (c Chain) InstrumentEfficiency(etaWindow float64) float64 {
	return c.EtaChip() * c.EtaColdOptics * etaWindow
}

// Propagate carries the sky signal through the full chain at one frequency.
// etaAtm is the line-of-sight atmospheric transmission. Stage order is
// fixed: atmosphere, primary, secondary spillover (which sees the sky, not
// the ambient), secondary ohmic, warm optics, window, cold optics, chip.
func (c Chain) Propagate(freq, etaAtm float64, env Environment) Cascade {
	var cas Cascade

	cas.Sky = physics.Transfer(env.CMB, env.Ambient, etaAtm)
	cas.M1 = physics.Transfer(cas.Sky, env.Ambient, c.EtaM1())
	cas.M2Spill = physics.Transfer(cas.M1, cas.Sky, c.EtaM2Spill)
	cas.M2 = physics.Transfer(cas.M2Spill, env.Ambient, AluminiumOhmicReflection)
	cas.WarmOptics = physics.Transfer(cas.M2, env.Cabin, c.EtaWarmOptics)

	cas.Window, cas.EtaWindow, cas.WindowReflectance =
		c.Window.Propagate(freq, cas.WarmOptics, env.Cabin, env.ColdOptics)

	cas.ColdOptics = physics.Transfer(cas.Window, env.ColdOptics, c.EtaColdOptics)
	cas.Detector = physics.Transfer(cas.ColdOptics, env.Chip, c.EtaChip())

	c.referenceLoadings(freq, &cas, env)
	return cas
}

// referenceLoadings fills in the sky-only, warm-only and cold-only partial
// cascades. Each zeroes out the other thermal inputs and carries the
// remaining emission through the same stage algebra.
func (c Chain) referenceLoadings(freq float64, cas *Cascade, env Environment) {
	etaInst := c.InstrumentEfficiency(cas.EtaWindow)

	// Sky loading: direct path plus the secondary spillover path, which
	// couples the sky emission back in at the secondary.
	direct := cas.Sky * c.EtaM1() * c.EtaM2Spill * AluminiumOhmicReflection * c.EtaWarmOptics * etaInst
	spill := physics.Transfer(0, cas.Sky, c.EtaM2Spill) * AluminiumOhmicReflection * c.EtaWarmOptics * etaInst
	cas.DetectorSky = direct + spill

	// Warm loading: ambient and cabin emission only. The secondary
	// spillover term sees no sky here.
	warm := physics.Transfer(0, env.Ambient, c.EtaM1())
	warm = physics.Transfer(warm, 0, c.EtaM2Spill)
	warm = physics.Transfer(warm, env.Ambient, AluminiumOhmicReflection)
	warm = physics.Transfer(warm, env.Cabin, c.EtaWarmOptics)
	warm, _, _ = c.Window.Propagate(freq, warm, env.Cabin, env.ColdOptics)
	cas.DetectorWarm = warm * c.EtaColdOptics * c.EtaChip()

	// Cold loading: cold optics and chip emission only.
	cold := physics.Transfer(0, env.ColdOptics, c.EtaColdOptics)
	cas.DetectorCold = physics.Transfer(cold, env.Chip, c.EtaChip())
}

// ApertureEfficiency returns the ratio of effective to physical collecting
// area for a Gaussian main beam with the given half-power beam widths
// (radians) and main-beam efficiency.
func ApertureEfficiency(freq, thetaMaj, thetaMin, etaMainBeam, telescopeDiameter float64) float64 {
	omegaMB := math.Pi * thetaMaj * thetaMin / (4 * math.Ln2)
	omegaA := omegaMB / etaMainBeam

	lambda := physics.SpeedOfLight / freq
	effective := lambda * lambda / omegaA
	geometric := math.Pi * (telescopeDiameter / 2) * (telescopeDiameter / 2)

	return effective / geometric
}
