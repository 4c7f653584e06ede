package sensitivity

import (
	"errors"
	"math"
	"testing"

	"github.com/submm-lab/specsens/internal/atmosphere"
	"github.com/submm-lab/specsens/internal/optics"
	"github.com/submm-lab/specsens/internal/sweep"
)

func testSynthesizer(t *testing.T) *Synthesizer {
	t.Helper()
	grid, err := atmosphere.Shared("../atmosphere/testdata/atm.csv")
	if err != nil {
		t.Fatalf("loading test grid: %v", err)
	}
	return New(atmosphere.NewModel(grid))
}

func TestSynthesize_Defaults(t *testing.T) {
	s := testSynthesizer(t)

	table, err := s.Synthesize(DefaultParams())
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(table) != 1 {
		t.Fatalf("rows = %d, want 1", len(table))
	}
	row := table[0]

	if row.EtaAtm <= 0 || row.EtaAtm >= 1 {
		t.Errorf("eta_atm = %g, want in (0, 1)", row.EtaAtm)
	}
	if want := 350e9 / 500; row.WFSpec != want {
		t.Errorf("W_F_spec = %g, want %g", row.WFSpec, want)
	}
	if want := row.WFSpec / 0.6; math.Abs(row.WFCont-want)/want > 1e-12 {
		t.Errorf("W_F_cont = %g, want %g", row.WFCont, want)
	}
	if row.EtaWindow != 1 {
		t.Errorf("eta_window = %g, want 1 for the AR-coated default", row.EtaWindow)
	}
	if row.NEPInst < 1e-18 || row.NEPInst > 1e-15 {
		t.Errorf("NEPinst = %g W/sqrt(Hz), outside the photon-limited range", row.NEPInst)
	}
	if row.NEPInst <= row.NEPKID {
		t.Errorf("NEPinst %g not above NEPkid %g", row.NEPInst, row.NEPKID)
	}
	if row.NEFDContinuum >= row.NEFDLine {
		t.Errorf("NEFD_continuum %g not below NEFD_line %g", row.NEFDContinuum, row.NEFDLine)
	}
	if row.MDLF <= 0 || math.IsInf(row.MDLF, 0) {
		t.Errorf("MDLF = %g, want positive and finite", row.MDLF)
	}
	if want := 4.0; row.OnSourceHours != want {
		t.Errorf("on_source_hours = %g, want %g", row.OnSourceHours, want)
	}
	if row.TbSky <= 0 || row.TbSky >= 273 {
		t.Errorf("Tb_sky = %g K, want between the CMB and the ambient", row.TbSky)
	}
	if row.NPh <= 0 {
		t.Errorf("n_ph = %g, want positive", row.NPh)
	}
}

func TestSynthesize_FrequencySweep(t *testing.T) {
	s := testSynthesizer(t)

	p := DefaultParams()
	p.Frequency = sweep.Linspace(320e9, 380e9, 13)

	table, err := s.Synthesize(p)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(table) != 13 {
		t.Fatalf("rows = %d, want 13", len(table))
	}

	for i, row := range table {
		if row.F != p.Frequency[i] {
			t.Errorf("row %d: F = %g, want %g", i, row.F, p.Frequency[i])
		}
		// Scalar parameters broadcast unchanged into every row.
		if row.PWV != 0.5 || row.EL != 60 || row.SNR != 5 {
			t.Errorf("row %d: scalar columns drifted: pwv %g, EL %g, snr %g", i, row.PWV, row.EL, row.SNR)
		}
	}
}

func TestSynthesize_ElevationSweep(t *testing.T) {
	s := testSynthesizer(t)

	p := DefaultParams()
	p.PWV = sweep.Scalar(2)
	p.Elevation = sweep.Values{30, 45, 60, 75, 89}

	table, err := s.Synthesize(p)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(table) != 5 {
		t.Fatalf("rows = %d, want 5", len(table))
	}

	for i := 1; i < len(table); i++ {
		if table[i].EtaAtm <= table[i-1].EtaAtm {
			t.Errorf("eta_atm not increasing with elevation: %g at EL %g, %g at EL %g",
				table[i-1].EtaAtm, table[i-1].EL, table[i].EtaAtm, table[i].EL)
		}
	}
}

func TestSynthesize_ConflictingSweeps(t *testing.T) {
	s := testSynthesizer(t)

	p := DefaultParams()
	p.Frequency = sweep.Values{340e9, 350e9, 360e9}
	p.SNR = sweep.Values{3, 5, 10, 20}

	if _, err := s.Synthesize(p); !errors.Is(err, sweep.ErrConflictingSweeps) {
		t.Errorf("want ErrConflictingSweeps, got %v", err)
	}
}

func TestSynthesize_WindowLoss(t *testing.T) {
	s := testSynthesizer(t)

	ar, err := s.Synthesize(DefaultParams())
	if err != nil {
		t.Fatalf("AR window: %v", err)
	}

	p := DefaultParams()
	p.Window = optics.DefaultWindow() // uncoated
	lossy, err := s.Synthesize(p)
	if err != nil {
		t.Fatalf("uncoated window: %v", err)
	}

	if eta := lossy[0].EtaWindow; eta <= 0 || eta >= 1 {
		t.Errorf("uncoated eta_window = %g, want in (0, 1)", eta)
	}
	if lossy[0].TbWindow <= 0 {
		t.Errorf("Tb_window = %g K, want positive", lossy[0].TbWindow)
	}
	// The uncoated window both loads the detector and eats signal, so the
	// window-referred NEP must come out worse.
	if lossy[0].NEPInst <= ar[0].NEPInst {
		t.Errorf("uncoated NEPinst %g not above AR value %g", lossy[0].NEPInst, ar[0].NEPInst)
	}
}

func TestSynthesize_OnOffPenalty(t *testing.T) {
	s := testSynthesizer(t)

	on := DefaultParams()
	off := DefaultParams()
	off.OnOff = false

	tableOn, err := s.Synthesize(on)
	if err != nil {
		t.Fatal(err)
	}
	tableOff, err := s.Synthesize(off)
	if err != nil {
		t.Fatal(err)
	}

	want := tableOff[0].NEFDLine * math.Sqrt2
	if got := tableOn[0].NEFDLine; math.Abs(got-want)/want > 1e-12 {
		t.Errorf("on-off NEFD_line = %g, want sqrt(2) penalty %g", got, want)
	}
}

func TestSynthesize_FrequencyOutsideGrid(t *testing.T) {
	s := testSynthesizer(t)

	p := DefaultParams()
	p.Frequency = sweep.Scalar(500e9)

	if _, err := s.Synthesize(p); !errors.Is(err, atmosphere.ErrOutOfRange) {
		t.Errorf("want ErrOutOfRange, got %v", err)
	}
}
