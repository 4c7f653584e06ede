// Package sensitivity orchestrates the full calculation: atmosphere, optical
// chain, detector noise and the flux figures of merit, producing one tabular
// result row per sweep element.
package sensitivity

import (
	"math"

	"github.com/submm-lab/specsens/internal/optics"
	"github.com/submm-lab/specsens/internal/sweep"
)

// arcsec22 is the default half-power beam width, 22 arcseconds in radians.
const arcsec22 = 22 * math.Pi / 180 / 3600

// Params are the inputs of one synthesis call. Every numeric parameter is a
// sweep.Values: a scalar, or the single sweep of the call. At most one
// parameter may vary; all others apply uniformly across the sweep.
type Params struct {
	Frequency      sweep.Values `yaml:"frequency"`      // Hz
	PWV            sweep.Values `yaml:"pwv"`            // precipitable water vapour, mm
	Elevation      sweep.Values `yaml:"elevation"`      // degrees
	ResolvingPower sweep.Values `yaml:"resolvingPower"` // R = F / W_F

	EtaM1Spill     sweep.Values `yaml:"etaM1Spill"`     // primary spillover
	EtaM2Spill     sweep.Values `yaml:"etaM2Spill"`     // secondary spillover
	EtaWarmOptics  sweep.Values `yaml:"etaWarmOptics"`  // cabin losses
	EtaColdOptics  sweep.Values `yaml:"etaColdOptics"`  // cold optics losses
	EtaLensAntenna sweep.Values `yaml:"etaLensAntenna"` // lens-antenna radiation efficiency
	EtaCircuit     sweep.Values `yaml:"etaCircuit"`     // feedpoint-to-detector
	EtaIBF         sweep.Values `yaml:"etaIBF"`         // in-band fraction

	ThetaMaj          sweep.Values `yaml:"thetaMaj"`          // HPBW major axis, rad
	ThetaMin          sweep.Values `yaml:"thetaMin"`          // HPBW minor axis, rad
	EtaMainBeam       sweep.Values `yaml:"etaMainBeam"`       // main beam efficiency
	TelescopeDiameter sweep.Values `yaml:"telescopeDiameter"` // m

	TempCMB        sweep.Values `yaml:"tempCMB"`        // K
	TempAmbient    sweep.Values `yaml:"tempAmbient"`    // K
	TempCabin      sweep.Values `yaml:"tempCabin"`      // K
	TempColdOptics sweep.Values `yaml:"tempColdOptics"` // K
	TempChip       sweep.Values `yaml:"tempChip"`       // K

	SNR              sweep.Values `yaml:"snr"`              // target signal to noise
	ObsHours         sweep.Values `yaml:"obsHours"`         // total observing time
	OnSourceFraction sweep.Values `yaml:"onSourceFraction"` // fraction of time on source

	// OnOff degrades the result by sqrt(2) for chopped on-off observing:
	// the signal difference carries the noise twice.
	OnOff bool `yaml:"onOff"`

	Window optics.Window `yaml:"window"`
}

// DefaultParams returns the documented reference configuration: a 350 GHz
// channel at R=500 under 0.5 mm pwv at 60 degrees elevation, with the
// per-stage efficiencies and temperatures of the reference instrument and an
// anti-reflection-coated window.
func DefaultParams() Params {
	window := optics.DefaultWindow()
	window.AntiReflective = true

	return Params{
		Frequency:      sweep.Scalar(350e9),
		PWV:            sweep.Scalar(0.5),
		Elevation:      sweep.Scalar(60),
		ResolvingPower: sweep.Scalar(500),

		EtaM1Spill:     sweep.Scalar(0.99),
		EtaM2Spill:     sweep.Scalar(0.90),
		EtaWarmOptics:  sweep.Scalar(0.99),
		EtaColdOptics:  sweep.Scalar(0.65),
		EtaLensAntenna: sweep.Scalar(0.81),
		EtaCircuit:     sweep.Scalar(0.32),
		EtaIBF:         sweep.Scalar(0.6),

		ThetaMaj:          sweep.Scalar(arcsec22),
		ThetaMin:          sweep.Scalar(arcsec22),
		EtaMainBeam:       sweep.Scalar(0.6),
		TelescopeDiameter: sweep.Scalar(10),

		TempCMB:        sweep.Scalar(2.725),
		TempAmbient:    sweep.Scalar(273),
		TempCabin:      sweep.Scalar(290),
		TempColdOptics: sweep.Scalar(4),
		TempChip:       sweep.Scalar(0.12),

		SNR:              sweep.Scalar(5),
		ObsHours:         sweep.Scalar(10),
		OnSourceFraction: sweep.Scalar(0.4),

		OnOff:  true,
		Window: window,
	}
}

// values lists every sweep-capable parameter, used for broadcasting.
func (p *Params) values() []sweep.Values {
	return []sweep.Values{
		p.Frequency, p.PWV, p.Elevation, p.ResolvingPower,
		p.EtaM1Spill, p.EtaM2Spill, p.EtaWarmOptics, p.EtaColdOptics,
		p.EtaLensAntenna, p.EtaCircuit, p.EtaIBF,
		p.ThetaMaj, p.ThetaMin, p.EtaMainBeam, p.TelescopeDiameter,
		p.TempCMB, p.TempAmbient, p.TempCabin, p.TempColdOptics, p.TempChip,
		p.SNR, p.ObsHours, p.OnSourceFraction,
	}
}

// fillDefaults replaces unset (empty) parameters with their defaults, so a
// configuration file only needs to name what it changes.
func (p *Params) fillDefaults() {
	defaults := DefaultParams()

	fill := func(dst *sweep.Values, def sweep.Values) {
		if dst.Len() == 0 {
			*dst = def
		}
	}

	fill(&p.Frequency, defaults.Frequency)
	fill(&p.PWV, defaults.PWV)
	fill(&p.Elevation, defaults.Elevation)
	fill(&p.ResolvingPower, defaults.ResolvingPower)
	fill(&p.EtaM1Spill, defaults.EtaM1Spill)
	fill(&p.EtaM2Spill, defaults.EtaM2Spill)
	fill(&p.EtaWarmOptics, defaults.EtaWarmOptics)
	fill(&p.EtaColdOptics, defaults.EtaColdOptics)
	fill(&p.EtaLensAntenna, defaults.EtaLensAntenna)
	fill(&p.EtaCircuit, defaults.EtaCircuit)
	fill(&p.EtaIBF, defaults.EtaIBF)
	fill(&p.ThetaMaj, defaults.ThetaMaj)
	fill(&p.ThetaMin, defaults.ThetaMin)
	fill(&p.EtaMainBeam, defaults.EtaMainBeam)
	fill(&p.TelescopeDiameter, defaults.TelescopeDiameter)
	fill(&p.TempCMB, defaults.TempCMB)
	fill(&p.TempAmbient, defaults.TempAmbient)
	fill(&p.TempCabin, defaults.TempCabin)
	fill(&p.TempColdOptics, defaults.TempColdOptics)
	fill(&p.TempChip, defaults.TempChip)
	fill(&p.SNR, defaults.SNR)
	fill(&p.ObsHours, defaults.ObsHours)
	fill(&p.OnSourceFraction, defaults.OnSourceFraction)

	if p.Window == (optics.Window{}) {
		p.Window = defaults.Window
	}
}
