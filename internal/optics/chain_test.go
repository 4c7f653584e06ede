package optics

import (
	"math"
	"testing"

	"github.com/submm-lab/specsens/internal/physics"
)

func testChain() Chain {
	w := DefaultWindow()
	w.AntiReflective = true
	return Chain{
		EtaM1Spill:     0.99,
		EtaM2Spill:     0.90,
		EtaWarmOptics:  0.99,
		EtaColdOptics:  0.65,
		EtaLensAntenna: 0.81,
		EtaCircuit:     0.32,
		Window:         w,
	}
}

func TestForwardEfficiency(t *testing.T) {
	c := testChain()

	direct := AluminiumOhmicReflection * c.EtaM1Spill * AluminiumOhmicReflection * c.EtaM2Spill * c.EtaWarmOptics
	spill := (1 - c.EtaM2Spill) * c.EtaWarmOptics
	want := direct + spill

	if got := c.ForwardEfficiency(); math.Abs(got-want) > 1e-12 {
		t.Errorf("ForwardEfficiency = %g, want %g", got, want)
	}
	if got := c.ForwardEfficiency(); got <= 0 || got >= 1 {
		t.Errorf("ForwardEfficiency = %g, want in (0, 1)", got)
	}
}

func TestInstrumentEfficiency(t *testing.T) {
	c := testChain()
	want := 0.81 * 0.32 * 0.65 * 0.95
	if got := c.InstrumentEfficiency(0.95); math.Abs(got-want) > 1e-12 {
		t.Errorf("InstrumentEfficiency = %g, want %g", got, want)
	}
}

func TestPropagate_Equilibrium(t *testing.T) {
	// If the sky and every stage radiate at the same PSD, every loss mixes
	// identical terms and the detector sees that same PSD.
	c := testChain()

	const psd = 2.8e-21
	env := Environment{CMB: psd, Ambient: psd, Cabin: psd, ColdOptics: psd, Chip: psd}

	cas := c.Propagate(350e9, 0.7, env)
	for name, got := range map[string]float64{
		"Sky":        cas.Sky,
		"M1":         cas.M1,
		"WarmOptics": cas.WarmOptics,
		"ColdOptics": cas.ColdOptics,
		"Detector":   cas.Detector,
	} {
		if math.Abs(got-psd)/psd > 1e-12 {
			t.Errorf("%s = %g, want %g", name, got, psd)
		}
	}
}

func TestPropagate_ColdStagesReduceLoading(t *testing.T) {
	c := testChain()

	cmb, _ := physics.JohnsonNyquistPSD(350e9, 2.725)
	ambient, _ := physics.JohnsonNyquistPSD(350e9, 273)
	cabin, _ := physics.JohnsonNyquistPSD(350e9, 290)
	cold, _ := physics.JohnsonNyquistPSD(350e9, 4)
	chip, _ := physics.JohnsonNyquistPSD(350e9, 0.12)

	env := Environment{CMB: cmb, Ambient: ambient, Cabin: cabin, ColdOptics: cold, Chip: chip}
	cas := c.Propagate(350e9, 0.8, env)

	if cas.Detector <= 0 {
		t.Fatalf("detector PSD = %g, want positive", cas.Detector)
	}
	// The cold stages attenuate warm emission far more than they add.
	if cas.Detector >= cas.Window {
		t.Errorf("detector PSD %g not below window PSD %g", cas.Detector, cas.Window)
	}
	// The partial loadings must stay below the full cascade.
	for name, got := range map[string]float64{
		"DetectorSky":  cas.DetectorSky,
		"DetectorWarm": cas.DetectorWarm,
		"DetectorCold": cas.DetectorCold,
	} {
		if got < 0 || got > cas.Detector {
			t.Errorf("%s = %g outside [0, %g]", name, got, cas.Detector)
		}
	}
}

func TestApertureEfficiency(t *testing.T) {
	// 22 arcsec beams at 350 GHz on a 10 m dish.
	theta := 22 * math.Pi / 180 / 3600

	got := ApertureEfficiency(350e9, theta, theta, 0.6, 10)
	if math.Abs(got-0.4348)/0.4348 > 1e-3 {
		t.Errorf("ApertureEfficiency = %g, want ~0.4348", got)
	}

	// A larger dish with the same beam wastes collecting area.
	if larger := ApertureEfficiency(350e9, theta, theta, 0.6, 12); larger >= got {
		t.Errorf("12 m aperture efficiency %g not below 10 m value %g", larger, got)
	}
}
