package atmosphere

import (
	"errors"
	"math"
	"strings"
	"testing"
)

const tinyGrid = `# source: test
# species: H2O
# resolution: coarse
# units: GHz, mm
F 0.5 1.0 2.0 4.0
300.0 0.90 0.80 0.70 0.50
310.0 0.85 0.72 0.60 0.40
320.0 0.80 0.65 0.52 0.32
330.0 0.88 0.78 0.66 0.45
`

func TestParse(t *testing.T) {
	g, err := Parse(strings.NewReader(tinyGrid))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got := len(g.Comments()); got != metadataLines {
		t.Errorf("comments = %d, want %d", got, metadataLines)
	}
	if min, max := g.FrequencyRange(); min != 300 || max != 330 {
		t.Errorf("frequency range = [%g, %g], want [300, 330]", min, max)
	}
	if min, max := g.PWVRange(); min != 0.5 || max != 4 {
		t.Errorf("pwv range = [%g, %g], want [0.5, 4]", min, max)
	}
	if got := len(g.FrequencyAxis()); got != 4 {
		t.Errorf("frequency axis length = %d, want 4", got)
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"truncated metadata", "# one\n# two\n"},
		{"missing header", "# a\n# b\n# c\n# d\n"},
		{"bad header prefix", "# a\n# b\n# c\n# d\nX 0.5 1.0\n300.0 0.9 0.8\n310.0 0.8 0.7\n"},
		{"bad pwv column", "# a\n# b\n# c\n# d\nF 0.5 cloudy\n300.0 0.9 0.8\n310.0 0.8 0.7\n"},
		{"short row", "# a\n# b\n# c\n# d\nF 0.5 1.0\n300.0 0.9\n310.0 0.8 0.7\n"},
		{"bad transmission", "# a\n# b\n# c\n# d\nF 0.5 1.0\n300.0 0.9 n/a\n310.0 0.8 0.7\n"},
		{"single row", "# a\n# b\n# c\n# d\nF 0.5 1.0\n300.0 0.9 0.8\n"},
		{"frequency not increasing", "# a\n# b\n# c\n# d\nF 0.5 1.0\n310.0 0.9 0.8\n300.0 0.8 0.7\n"},
		{"pwv not increasing", "# a\n# b\n# c\n# d\nF 1.0 0.5\n300.0 0.9 0.8\n310.0 0.8 0.7\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.input)); !errors.Is(err, ErrMalformedGrid) {
				t.Errorf("want ErrMalformedGrid, got %v", err)
			}
		})
	}
}

func TestZenith_GridPoint(t *testing.T) {
	g, err := Load("testdata/atm.csv")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// 350.0 GHz at 0.5 mm is a grid knot; interpolation must reproduce the
	// tabulated value, here exp(-0.02625) from the generating profile.
	got, err := g.Zenith(0.5, 350.0)
	if err != nil {
		t.Fatalf("Zenith: %v", err)
	}
	want := math.Exp(-0.02625)
	if math.Abs(got-want) > 1e-4 {
		t.Errorf("Zenith(0.5, 350) = %g, want %g", got, want)
	}
}

func TestZenith_BetweenKnots(t *testing.T) {
	g, err := Load("testdata/atm.csv")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	left, err := g.Zenith(0.5, 350.0)
	if err != nil {
		t.Fatal(err)
	}
	right, err := g.Zenith(0.5, 350.1)
	if err != nil {
		t.Fatal(err)
	}
	mid, err := g.Zenith(0.5, 350.05)
	if err != nil {
		t.Fatal(err)
	}

	lo, hi := math.Min(left, right), math.Max(left, right)
	if mid < lo-1e-6 || mid > hi+1e-6 {
		t.Errorf("Zenith(0.5, 350.05) = %g outside neighbouring knots [%g, %g]", mid, lo, hi)
	}
}

func TestZenith_OutOfRange(t *testing.T) {
	g, err := Parse(strings.NewReader(tinyGrid))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if _, err := g.Zenith(5, 310); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("pwv above range: want ErrOutOfRange, got %v", err)
	}
	if _, err := g.Zenith(1, 290); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("frequency below range: want ErrOutOfRange, got %v", err)
	}
}

func TestShared_Caches(t *testing.T) {
	a, err := Shared("testdata/atm.csv")
	if err != nil {
		t.Fatalf("Shared: %v", err)
	}
	b, err := Shared("testdata/atm.csv")
	if err != nil {
		t.Fatalf("Shared: %v", err)
	}
	if a != b {
		t.Error("Shared returned distinct grids for the same path")
	}
}
