package atmosphere

import (
	"errors"
	"math"
	"testing"
)

func testModel(t *testing.T) *Model {
	t.Helper()
	g, err := Shared("testdata/atm.csv")
	if err != nil {
		t.Fatalf("loading test grid: %v", err)
	}
	return NewModel(g)
}

func TestTransmission_InvalidElevation(t *testing.T) {
	m := testModel(t)
	for _, el := range []float64{0, -10, 90.5} {
		if _, err := m.Transmission([]float64{350e9}, 0.5, el, 0); !errors.Is(err, ErrInvalidElevation) {
			t.Errorf("EL %g: want ErrInvalidElevation, got %v", el, err)
		}
	}
}

func TestTransmission_ZenithMatchesGrid(t *testing.T) {
	m := testModel(t)

	got, err := m.Transmission([]float64{350e9}, 0.5, 90, 0)
	if err != nil {
		t.Fatalf("Transmission: %v", err)
	}

	want, err := m.Grid().Zenith(0.5, 350)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got[0]-want) > 1e-12 {
		t.Errorf("zenith transmission = %g, want grid value %g", got[0], want)
	}
}

func TestTransmission_ElevationMonotonic(t *testing.T) {
	m := testModel(t)

	// Lower elevation means a longer slant path through the atmosphere.
	var prev float64
	for i, el := range []float64{20, 45, 60, 90} {
		out, err := m.Transmission([]float64{350e9}, 2, el, 0)
		if err != nil {
			t.Fatalf("EL %g: %v", el, err)
		}
		if out[0] <= 0 || out[0] >= 1 {
			t.Fatalf("EL %g: transmission %g not in (0, 1)", el, out[0])
		}
		if i > 0 && out[0] <= prev {
			t.Errorf("EL %g: transmission %g not above %g at lower elevation", el, out[0], prev)
		}
		prev = out[0]
	}
}

func TestTransmission_ChannelAverage(t *testing.T) {
	m := testModel(t)

	point, err := m.Transmission([]float64{380e9}, 0.5, 60, 0)
	if err != nil {
		t.Fatal(err)
	}
	averaged, err := m.Transmission([]float64{380e9}, 0.5, 60, 500)
	if err != nil {
		t.Fatal(err)
	}

	// 380 GHz sits in a smooth part of the profile, so averaging over the
	// 0.76 GHz channel must stay close to the centre value.
	if math.Abs(point[0]-averaged[0]) > 1e-3 {
		t.Errorf("channel average %g deviates from point value %g", averaged[0], point[0])
	}
}

func TestTransmission_NarrowChannelFallsBack(t *testing.T) {
	m := testModel(t)

	// At R = 1e7 the channel is far narrower than the 0.1 GHz grid spacing,
	// so evaluation degrades to the channel centre.
	point, err := m.Transmission([]float64{350.05e9}, 0.5, 60, 0)
	if err != nil {
		t.Fatal(err)
	}
	narrow, err := m.Transmission([]float64{350.05e9}, 0.5, 60, 1e7)
	if err != nil {
		t.Fatal(err)
	}
	if point[0] != narrow[0] {
		t.Errorf("narrow channel = %g, want point value %g", narrow[0], point[0])
	}
}

func TestTransmission_ShapePreserved(t *testing.T) {
	m := testModel(t)

	freqs := []float64{320e9, 340e9, 360e9, 380e9}
	out, err := m.Transmission(freqs, 1, 60, 500)
	if err != nil {
		t.Fatalf("Transmission: %v", err)
	}
	if len(out) != len(freqs) {
		t.Fatalf("output length = %d, want %d", len(out), len(freqs))
	}
	for i, v := range out {
		if v <= 0 || v >= 1 {
			t.Errorf("transmission[%d] = %g not in (0, 1)", i, v)
		}
	}
}

func TestTransmission_FrequencyOutOfRange(t *testing.T) {
	m := testModel(t)
	if _, err := m.Transmission([]float64{500e9}, 0.5, 60, 500); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("want ErrOutOfRange, got %v", err)
	}
}
