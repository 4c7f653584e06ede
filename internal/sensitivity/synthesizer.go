package sensitivity

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/submm-lab/specsens/internal/atmosphere"
	"github.com/submm-lab/specsens/internal/detector"
	"github.com/submm-lab/specsens/internal/optics"
	"github.com/submm-lab/specsens/internal/physics"
	"github.com/submm-lab/specsens/internal/sweep"
)

// ErrNotFinite is returned when a derived quantity that feeds the flux
// figures of merit comes out NaN or infinite, instead of letting it
// propagate silently into the result table.
var ErrNotFinite = errors.New("non-finite result")

// etaPolarization is the single-polarization coupling loss, always applied
// in the point-source-to-window efficiency.
const etaPolarization = 0.5

// WithLogger sets the logger for the synthesizer.
func WithLogger(logger *slog.Logger) func(*Synthesizer) {
	return func(s *Synthesizer) {
		s.logger = logger
	}
}

// Synthesizer computes end-to-end sensitivity tables against a fixed
// atmospheric model. It holds no mutable state between calls.
type Synthesizer struct {
	atm    *atmosphere.Model
	logger *slog.Logger
}

// New creates a Synthesizer over the given atmospheric model.
func New(atm *atmosphere.Model, options ...func(*Synthesizer)) *Synthesizer {
	s := Synthesizer{
		atm:    atm,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&s)
	}

	return &s
}

// Synthesize runs the full pipeline for one parameter set and returns one
// result row per sweep element. Unset parameters take their defaults; all
// parameters broadcast to the common sweep length.
func (s *Synthesizer) Synthesize(p Params) (Table, error) {
	p.fillDefaults()

	n, err := sweep.CommonLength(p.values()...)
	if err != nil {
		return nil, err
	}

	b, err := broadcast(&p, n)
	if err != nil {
		return nil, err
	}

	etaAtm, err := s.transmission(b, n)
	if err != nil {
		return nil, fmt.Errorf("atmosphere model: %w", err)
	}

	s.logger.Debug("synthesizing sensitivity table",
		slog.Int("rows", n),
		slog.Bool("onOff", p.OnOff),
		slog.Bool("windowAR", p.Window.AntiReflective),
	)

	table := make(Table, n)
	for i := 0; i < n; i++ {
		row, err := s.row(&p, b, i, etaAtm[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		table[i] = row
	}
	return table, nil
}

// broadcastParams holds every parameter materialised to the common sweep
// length, so row computation is a plain index.
type broadcastParams struct {
	freq, pwv, el, r                     sweep.Values
	etaM1Spill, etaM2Spill, etaWO, etaCO sweep.Values
	etaLens, etaCircuit, etaIBF          sweep.Values
	thetaMaj, thetaMin, etaMB, diameter  sweep.Values
	tCMB, tAmb, tCabin, tCO, tChip       sweep.Values
	snr, obsHours, onSourceFraction      sweep.Values
}

func broadcast(p *Params, n int) (*broadcastParams, error) {
	var b broadcastParams
	var err error

	for _, bind := range []struct {
		dst *sweep.Values
		src sweep.Values
	}{
		{&b.freq, p.Frequency}, {&b.pwv, p.PWV}, {&b.el, p.Elevation}, {&b.r, p.ResolvingPower},
		{&b.etaM1Spill, p.EtaM1Spill}, {&b.etaM2Spill, p.EtaM2Spill},
		{&b.etaWO, p.EtaWarmOptics}, {&b.etaCO, p.EtaColdOptics},
		{&b.etaLens, p.EtaLensAntenna}, {&b.etaCircuit, p.EtaCircuit}, {&b.etaIBF, p.EtaIBF},
		{&b.thetaMaj, p.ThetaMaj}, {&b.thetaMin, p.ThetaMin},
		{&b.etaMB, p.EtaMainBeam}, {&b.diameter, p.TelescopeDiameter},
		{&b.tCMB, p.TempCMB}, {&b.tAmb, p.TempAmbient}, {&b.tCabin, p.TempCabin},
		{&b.tCO, p.TempColdOptics}, {&b.tChip, p.TempChip},
		{&b.snr, p.SNR}, {&b.obsHours, p.ObsHours}, {&b.onSourceFraction, p.OnSourceFraction},
	} {
		if *bind.dst, err = bind.src.Broadcast(n); err != nil {
			return nil, err
		}
	}
	return &b, nil
}

// transmission queries the atmosphere model once for the whole sweep when
// the atmospheric inputs are constant, falling back to per-row queries when
// pwv, elevation or resolving power is itself the sweep.
func (s *Synthesizer) transmission(b *broadcastParams, n int) ([]float64, error) {
	constantAtmosphere := b.pwv.IsScalar() || allEqual(b.pwv)
	constantAtmosphere = constantAtmosphere && (b.el.IsScalar() || allEqual(b.el))
	constantAtmosphere = constantAtmosphere && (b.r.IsScalar() || allEqual(b.r))

	if constantAtmosphere {
		return s.atm.Transmission(b.freq, b.pwv.At(0), b.el.At(0), b.r.At(0))
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := s.atm.Transmission([]float64{b.freq.At(i)}, b.pwv.At(i), b.el.At(i), b.r.At(i))
		if err != nil {
			return nil, err
		}
		out[i] = v[0]
	}
	return out, nil
}

func allEqual(vs sweep.Values) bool {
	for i := 1; i < len(vs); i++ {
		if vs[i] != vs[0] {
			return false
		}
	}
	return true
}

// row computes one sweep element. The noise and flux chain operates on PSD
// values throughout; brightness temperatures are derived at the end for
// reporting only.
func (s *Synthesizer) row(p *Params, b *broadcastParams, i int, etaAtm float64) (Result, error) {
	freq := b.freq.At(i)

	chain := optics.Chain{
		EtaM1Spill:     b.etaM1Spill.At(i),
		EtaM2Spill:     b.etaM2Spill.At(i),
		EtaWarmOptics:  b.etaWO.At(i),
		EtaColdOptics:  b.etaCO.At(i),
		EtaLensAntenna: b.etaLens.At(i),
		EtaCircuit:     b.etaCircuit.At(i),
		Window:         p.Window,
	}

	env, err := environment(freq, b, i)
	if err != nil {
		return Result{}, err
	}

	cascade := chain.Propagate(freq, etaAtm, env)

	resolvingPower := b.r.At(i)
	etaIBF := b.etaIBF.At(i)

	wSpec := freq / resolvingPower
	wCont := wSpec / etaIBF

	pKID := cascade.Detector * wCont
	nepKID := detector.PhotonNEP(freq, pKID, wCont)

	etaInst := chain.InstrumentEfficiency(cascade.EtaWindow)
	nepInst := detector.InstrumentNEP(nepKID, etaInst)

	etaA := optics.ApertureEfficiency(freq, b.thetaMaj.At(i), b.thetaMin.At(i), b.etaMB.At(i), b.diameter.At(i))
	etaForward := chain.ForwardEfficiency()
	etaSW := etaPolarization * etaAtm * etaA * etaForward

	// Flux chain. The sqrt(2) converts the half-second NEP definition to a
	// per-sqrt(Hz) noise equivalent flux.
	radius := b.diameter.At(i) / 2
	area := math.Pi * radius * radius
	nefdLine := nepInst / etaSW / area / math.Sqrt2 / wSpec
	if p.OnOff {
		nefdLine *= math.Sqrt2
	}
	nefdContinuum := nefdLine * etaIBF

	nef := nefdLine * wSpec

	snr := b.snr.At(i)
	obsHours := b.obsHours.At(i)
	onSourceFraction := b.onSourceFraction.At(i)
	mdlf := nef * snr / math.Sqrt(obsHours*onSourceFraction*3600)

	// The receiver temperature assumes Rayleigh-Jeans in its first term, as
	// in the reference instrument analysis; the subtracted warm-optics
	// temperature stays on the exact conversion.
	tbWO, err := physics.TemperatureFromPSD(freq, cascade.WarmOptics, physics.CallenWelton)
	if err != nil {
		return Result{}, err
	}
	trx := nepInst/(physics.Boltzmann*math.Sqrt(2*wCont)) - tbWO

	row := Result{
		F:        freq,
		PWV:      b.pwv.At(i),
		EL:       b.el.At(i),
		EtaAtm:   etaAtm,
		R:        resolvingPower,
		WFSpec:   wSpec,
		WFCont:   wCont,
		ThetaMaj: b.thetaMaj.At(i),
		ThetaMin: b.thetaMin.At(i),

		EtaA:       etaA,
		EtaMB:      b.etaMB.At(i),
		EtaForward: etaForward,
		EtaSW:      etaSW,
		EtaWindow:  cascade.EtaWindow,
		EtaInst:    etaInst,
		EtaCircuit: b.etaCircuit.At(i),

		TbWO: tbWO,

		PKID:     pKID,
		PKIDSky:  cascade.DetectorSky * wCont,
		PKIDWarm: cascade.DetectorWarm * wCont,
		PKIDCold: cascade.DetectorCold * wCont,
		NPh:      pKID / (wCont * physics.Planck * freq),

		NEPKID:        nepKID,
		NEPInst:       nepInst,
		NEFDLine:      nefdLine,
		NEFDContinuum: nefdContinuum,
		NEF:           nef,
		MDLF:          mdlf,

		SNR:              snr,
		ObsHours:         obsHours,
		OnSourceFraction: onSourceFraction,
		OnSourceHours:    obsHours * onSourceFraction,
		EquivalentTrx:    trx,
	}

	if err := stageTemperatures(freq, cascade, &row); err != nil {
		return Result{}, err
	}

	if err := checkFinite(row); err != nil {
		return Result{}, err
	}
	return row, nil
}

func environment(freq float64, b *broadcastParams, i int) (optics.Environment, error) {
	var env optics.Environment
	var err error

	for _, bind := range []struct {
		dst  *float64
		temp float64
		name string
	}{
		{&env.CMB, b.tCMB.At(i), "CMB"},
		{&env.Ambient, b.tAmb.At(i), "ambient"},
		{&env.Cabin, b.tCabin.At(i), "cabin"},
		{&env.ColdOptics, b.tCO.At(i), "cold optics"},
		{&env.Chip, b.tChip.At(i), "chip"},
	} {
		if *bind.dst, err = physics.JohnsonNyquistPSD(freq, bind.temp); err != nil {
			return env, fmt.Errorf("%s stage: %w", bind.name, err)
		}
	}
	return env, nil
}

// stageTemperatures derives the diagnostic brightness temperatures from the
// stage PSDs via the exact inverse conversion.
func stageTemperatures(freq float64, cascade optics.Cascade, row *Result) error {
	var err error

	for _, bind := range []struct {
		dst  *float64
		psd  float64
		name string
	}{
		{&row.TbSky, cascade.Sky, "sky"},
		{&row.TbM1, cascade.M1, "M1"},
		{&row.TbM2, cascade.M2, "M2"},
		{&row.TbWindow, cascade.Window, "window"},
		{&row.TbCO, cascade.ColdOptics, "cold optics"},
		{&row.TbKID, cascade.Detector, "detector"},
	} {
		if *bind.dst, err = physics.TemperatureFromPSD(freq, bind.psd, physics.CallenWelton); err != nil {
			return fmt.Errorf("brightness temperature of %s: %w", bind.name, err)
		}
	}
	return nil
}

// checkFinite guards every quantity that feeds the SNR/MDLF chain.
func checkFinite(row Result) error {
	for _, check := range []struct {
		name  string
		value float64
	}{
		{"eta_atm", row.EtaAtm},
		{"Pkid", row.PKID},
		{"NEPkid", row.NEPKID},
		{"NEPinst", row.NEPInst},
		{"NEFD_line", row.NEFDLine},
		{"NEF", row.NEF},
		{"MDLF", row.MDLF},
	} {
		if math.IsNaN(check.value) || math.IsInf(check.value, 0) {
			return fmt.Errorf("%w: %s = %g", ErrNotFinite, check.name, check.value)
		}
	}
	return nil
}
