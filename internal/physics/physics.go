// Package physics implements the thermal radiator and radiative transfer
// primitives of the sensitivity pipeline: Bose-Einstein photon occupation,
// Johnson-Nyquist power spectral density, the inverse Callen-Welton
// temperature conversion and the lossy-stage transfer operator.
package physics

import (
	"errors"
	"fmt"
	"math"
)

// Physical constants (SI units).
const (
	Planck         = 6.62607004e-34 // Planck constant, J s
	Boltzmann      = 1.38064852e-23 // Boltzmann constant, J/K
	ElectronCharge = 1.60217662e-19 // elementary charge, C
	SpeedOfLight   = 299792458.0    // velocity of light, m/s
)

var (
	// ErrNonPositiveTemperature is returned when an occupation number or PSD
	// is requested for a physical temperature at or below absolute zero,
	// where the Bose-Einstein factor has a pole.
	ErrNonPositiveTemperature = errors.New("non-positive physical temperature")

	// ErrUnknownConversion is returned for a conversion method outside the
	// closed ConversionMethod enumeration.
	ErrUnknownConversion = errors.New("unknown temperature conversion method")

	// ErrInvalidPSD is returned when a PSD cannot be inverted to a
	// temperature (zero or negative spectral density).
	ErrInvalidPSD = errors.New("invalid power spectral density")
)

// ConversionMethod selects how a PSD is converted back to a brightness
// temperature.
type ConversionMethod int

const (
	// CallenWelton is the exact conversion including quantum corrections.
	CallenWelton ConversionMethod = iota

	// RayleighJeans is the classical high-occupation approximation T = psd/k.
	RayleighJeans
)

// String implements fmt.Stringer.
func (m ConversionMethod) String() string {
	switch m {
	case CallenWelton:
		return "callen-welton"
	case RayleighJeans:
		return "rayleigh-jeans"
	default:
		return fmt.Sprintf("ConversionMethod(%d)", int(m))
	}
}

// Occupation returns the Bose-Einstein photon occupation number at frequency
// freq (Hz) for a stage at physical temperature temp (K).
func Occupation(freq, temp float64) (float64, error) {
	if temp <= 0 {
		return 0, fmt.Errorf("%w: %g K", ErrNonPositiveTemperature, temp)
	}
	return 1 / (math.Exp(Planck*freq/(Boltzmann*temp)) - 1), nil
}

// JohnsonNyquistPSD returns the single-mode power spectral density (W/Hz)
// emitted by a black body at temperature temp, seen at frequency freq.
// Multiply by a bandwidth to obtain a power.
func JohnsonNyquistPSD(freq, temp float64) (float64, error) {
	n, err := Occupation(freq, temp)
	if err != nil {
		return 0, err
	}
	return Planck * freq * n, nil
}

// TemperatureFromPSD inverts JohnsonNyquistPSD. The Callen-Welton branch is
// exact; the Rayleigh-Jeans branch is the classical psd/k approximation.
// Used for reporting only: the pipeline itself propagates PSD values.
func TemperatureFromPSD(freq, psd float64, method ConversionMethod) (float64, error) {
	if psd <= 0 {
		return 0, fmt.Errorf("%w: %g W/Hz", ErrInvalidPSD, psd)
	}

	switch method {
	case CallenWelton:
		return Planck * freq / (Boltzmann * math.Log(Planck*freq/psd+1)), nil
	case RayleighJeans:
		return psd / Boltzmann, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownConversion, int(method))
	}
}

// Transfer propagates a background through a lossy medium with transmission
// eta: the output is the affine mix eta·background + (1−eta)·medium.
// It applies identically to brightness temperatures and to PSD values; the
// pipeline uses the PSD form, which is physically exact. Stage order matters:
// the operator is not associative across changes of the medium term.
func Transfer(background, medium, eta float64) float64 {
	return eta*background + (1-eta)*medium
}
