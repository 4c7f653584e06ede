package optics

import (
	"math"
	"testing"
)

func TestWindowTransmission_AntiReflective(t *testing.T) {
	w := DefaultWindow()
	w.AntiReflective = true

	eta, reflectance, bulk := w.Transmission(350e9)
	if eta != 1 || reflectance != 0 || bulk != 1 {
		t.Errorf("AR window: got (%g, %g, %g), want (1, 0, 1)", eta, reflectance, bulk)
	}
}

func TestWindowTransmission_IndexMatched(t *testing.T) {
	// With n = 1 there is no impedance step, so the only loss is bulk
	// absorption.
	w := DefaultWindow()
	w.RefractiveIndex = 1

	eta, reflectance, bulk := w.Transmission(350e9)
	if reflectance != 0 {
		t.Errorf("index-matched reflectance = %g, want 0", reflectance)
	}
	if eta != bulk {
		t.Errorf("index-matched eta = %g, want bulk value %g", eta, bulk)
	}
}

func TestWindowTransmission_Default(t *testing.T) {
	w := DefaultWindow()

	eta, reflectance, bulk := w.Transmission(350e9)
	if eta <= 0 || eta >= 1 {
		t.Errorf("eta = %g, want in (0, 1)", eta)
	}
	if bulk <= 0 || bulk >= 1 {
		t.Errorf("bulk = %g, want in (0, 1)", bulk)
	}

	// n = 1.52 gives a per-surface power reflectance of about 4.3%.
	want := math.Pow((1-1.52)/(1+1.52), 2)
	if math.Abs(reflectance-want) > 1e-12 {
		t.Errorf("reflectance = %g, want %g", reflectance, want)
	}

	// Bulk loss grows with frequency.
	etaHigh, _, _ := w.Transmission(800e9)
	if etaHigh >= eta {
		t.Errorf("eta at 800 GHz (%g) not below eta at 350 GHz (%g)", etaHigh, eta)
	}
}

func TestWindowPropagate_AntiReflective(t *testing.T) {
	w := DefaultWindow()
	w.AntiReflective = true

	psdOut, eta, reflectance := w.Propagate(350e9, 2.5e-21, 4e-21, 1e-23)
	if psdOut != 2.5e-21 || eta != 1 || reflectance != 0 {
		t.Errorf("AR propagation altered the signal: (%g, %g, %g)", psdOut, eta, reflectance)
	}
}

func TestWindowPropagate_Equilibrium(t *testing.T) {
	// A window in equilibrium with its surroundings is invisible.
	w := DefaultWindow()

	const psd = 3.2e-21
	psdOut, _, _ := w.Propagate(350e9, psd, psd, psd)
	if math.Abs(psdOut-psd)/psd > 1e-12 {
		t.Errorf("equilibrium propagation: got %g, want %g", psdOut, psd)
	}
}
