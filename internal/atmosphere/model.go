package atmosphere

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidElevation is returned for elevation angles where the
// plane-parallel airmass approximation breaks down.
var ErrInvalidElevation = errors.New("elevation must be in (0, 90] degrees")

// Model evaluates line-of-sight atmospheric transmission against a loaded
// grid. It holds no mutable state and is safe for concurrent use.
type Model struct {
	grid *Grid
}

// NewModel wraps a grid in a transmission model.
func NewModel(grid *Grid) *Model {
	return &Model{grid: grid}
}

// Grid returns the underlying transmission grid.
func (m *Model) Grid() *Grid {
	return m.grid
}

// Transmission returns the line-of-sight atmospheric transmission for each
// requested frequency (Hz), at the given precipitable water vapour (mm) and
// telescope elevation (degrees).
//
// Zenith transmission is interpolated from the grid, then raised to the
// power 1/sin(EL), the plane-parallel airmass along the slant path.
//
// If resolvingPower R > 0, the transmission is additionally averaged over
// the channel sub-band [F(1−0.5/R), F(1+0.5/R)] sampled at the grid's native
// resolution. Airmass scaling is applied to each native sample before
// averaging, so the channel average is taken over line-of-sight values.
// A channel narrower than the native grid spacing degrades to point
// evaluation at the channel centre.
//
// The output always has the same length as freqHz.
func (m *Model) Transmission(freqHz []float64, pwv, elevationDeg, resolvingPower float64) ([]float64, error) {
	if elevationDeg <= 0 || elevationDeg > 90 {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidElevation, elevationDeg)
	}
	airmass := 1 / math.Sin(elevationDeg*math.Pi/180)

	zenith, err := m.grid.ZenithColumn(pwv)
	if err != nil {
		return nil, err
	}

	axis := m.grid.FrequencyAxis()
	out := make([]float64, len(freqHz))

	fMin, fMax := m.grid.FrequencyRange()
	for i, f := range freqHz {
		fGHz := f / 1e9
		if fGHz < fMin || fGHz > fMax {
			return nil, fmt.Errorf("%w: frequency %g GHz not in [%g, %g]", ErrOutOfRange, fGHz, fMin, fMax)
		}

		if resolvingPower > 0 {
			v, ok := m.channelAverage(axis, zenith, fGHz, resolvingPower, airmass)
			if ok {
				out[i] = v
				continue
			}
		}

		z, err := interpCubic(axis, zenith, fGHz)
		if err != nil {
			return nil, fmt.Errorf("transmission at %g GHz: %w", fGHz, err)
		}
		// Cubic overshoot may produce a slightly negative value near an
		// opaque line; fold it back before the fractional power.
		out[i] = math.Pow(math.Abs(z), airmass)
	}
	return out, nil
}

// channelAverage averages line-of-sight transmission over the channel
// centred on fGHz using native grid samples. Returns ok=false when the
// sub-band contains no native samples.
func (m *Model) channelAverage(axis, zenith []float64, fGHz, resolvingPower, airmass float64) (float64, bool) {
	lo := fGHz * (1 - 0.5/resolvingPower)
	hi := fGHz * (1 + 0.5/resolvingPower)

	var sum float64
	var count int
	for i, f := range axis {
		if f <= lo || f >= hi {
			continue
		}
		sum += math.Pow(math.Abs(zenith[i]), airmass)
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}
