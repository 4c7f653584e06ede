package detector

import (
	"math"
	"testing"
)

func TestPhotonNEP_MonotonicInPower(t *testing.T) {
	const (
		freq      = 350e9
		bandwidth = 1.17e9
	)

	var prev float64
	for i, power := range []float64{1e-14, 1e-13, 1e-12, 1e-11} {
		nep := PhotonNEP(freq, power, bandwidth)
		if nep <= 0 || math.IsNaN(nep) {
			t.Fatalf("PhotonNEP(%g W) = %g", power, nep)
		}
		if i > 0 && nep <= prev {
			t.Errorf("PhotonNEP(%g W) = %g not above %g at lower loading", power, nep, prev)
		}
		prev = nep
	}
}

func TestPhotonNEP_Scale(t *testing.T) {
	// Sub-mm loading of order 100 fW puts a photon-limited detector in the
	// few 1e-17 W/sqrt(Hz) range.
	nep := PhotonNEP(350e9, 1e-13, 1.17e9)
	if nep < 1e-18 || nep > 1e-15 {
		t.Errorf("PhotonNEP = %g W/sqrt(Hz), want within [1e-18, 1e-15]", nep)
	}
}

func TestPhotonNEP_Quadrature(t *testing.T) {
	const (
		freq      = 350e9
		power     = 5e-13
		bandwidth = 7e8
	)

	nep := PhotonNEP(freq, power, bandwidth)
	want := math.Sqrt(2*power*6.62607004e-34*freq + 2*power*power/bandwidth + 4*GapAluminium*power/PairBreakingEfficiency)
	if math.Abs(nep-want)/want > 1e-12 {
		t.Errorf("PhotonNEP = %g, want %g", nep, want)
	}
}

func TestInstrumentNEP(t *testing.T) {
	// Referring the NEP to the window divides out the instrument efficiency,
	// so a lossier instrument reports a larger equivalent NEP.
	nep := PhotonNEP(350e9, 1e-13, 1.17e9)

	atWindow := InstrumentNEP(nep, 0.1)
	if atWindow != nep/0.1 {
		t.Errorf("InstrumentNEP = %g, want %g", atWindow, nep/0.1)
	}
	if atWindow <= nep {
		t.Errorf("window-referred NEP %g not above detector NEP %g", atWindow, nep)
	}
}
