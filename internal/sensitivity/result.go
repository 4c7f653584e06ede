package sensitivity

// Result is one row of a synthesis: every input echoed back plus every
// derived quantity. Powers are in W, PSD-derived temperatures in K, NEP in
// W/sqrt(Hz), flux densities in W/m^2/Hz*sqrt(s), fluxes in W/m^2.
type Result struct {
	F        float64 // Hz
	PWV      float64 // mm
	EL       float64 // degrees
	EtaAtm   float64 // line-of-sight atmospheric transmission
	R        float64 // resolving power
	WFSpec   float64 // spectral-line equivalent bandwidth, Hz
	WFCont   float64 // continuum-coupling bandwidth, Hz
	ThetaMaj float64
	ThetaMin float64

	EtaA       float64 // aperture efficiency
	EtaMB      float64 // main beam efficiency
	EtaForward float64 // forward efficiency
	EtaSW      float64 // point source to window coupling
	EtaWindow  float64 // window transmission
	EtaInst    float64 // instrument optical efficiency
	EtaCircuit float64

	TbSky    float64 // Callen-Welton brightness temperatures per stage
	TbM1     float64
	TbM2     float64
	TbWO     float64
	TbWindow float64
	TbCO     float64
	TbKID    float64

	PKID     float64 // power absorbed by the detector
	PKIDSky  float64 // sky contribution
	PKIDWarm float64 // warm-stage contribution
	PKIDCold float64 // cold-stage contribution
	NPh      float64 // photon occupation number at the detector

	NEPKID        float64 // detector NEP w.r.t. absorbed power
	NEPInst       float64 // NEP referred to the cryostat window
	NEFDLine      float64 // line-coupling noise equivalent flux density
	NEFDContinuum float64 // continuum-coupling NEFD
	NEF           float64 // noise equivalent flux
	MDLF          float64 // minimum detectable line flux

	SNR              float64
	ObsHours         float64
	OnSourceFraction float64
	OnSourceHours    float64
	EquivalentTrx    float64 // Rayleigh-Jeans receiver temperature, K
}

// Columns lists the result fields in canonical order, matching the column
// layout of the stored and printed tables.
var Columns = []string{
	"F", "PWV", "EL", "eta_atm", "R", "W_F_spec", "W_F_cont",
	"theta_maj", "theta_min", "eta_a", "eta_mb", "eta_forward", "eta_sw",
	"eta_window", "eta_inst", "eta_circuit",
	"Tb_sky", "Tb_M1", "Tb_M2", "Tb_wo", "Tb_window", "Tb_co", "Tb_KID",
	"Pkid", "Pkid_sky", "Pkid_warm", "Pkid_cold", "n_ph",
	"NEPkid", "NEPinst", "NEFD_line", "NEFD_continuum", "NEF", "MDLF",
	"snr", "obs_hours", "on_source_fraction", "on_source_hours",
	"equivalent_Trx",
}

// Values returns the row in canonical column order.
func (r Result) Values() []float64 {
	return []float64{
		r.F, r.PWV, r.EL, r.EtaAtm, r.R, r.WFSpec, r.WFCont,
		r.ThetaMaj, r.ThetaMin, r.EtaA, r.EtaMB, r.EtaForward, r.EtaSW,
		r.EtaWindow, r.EtaInst, r.EtaCircuit,
		r.TbSky, r.TbM1, r.TbM2, r.TbWO, r.TbWindow, r.TbCO, r.TbKID,
		r.PKID, r.PKIDSky, r.PKIDWarm, r.PKIDCold, r.NPh,
		r.NEPKID, r.NEPInst, r.NEFDLine, r.NEFDContinuum, r.NEF, r.MDLF,
		r.SNR, r.ObsHours, r.OnSourceFraction, r.OnSourceHours,
		r.EquivalentTrx,
	}
}

// FromValues rebuilds a row from canonical column order. It is the inverse
// of Values and is used when reading rows back from storage.
func FromValues(vs []float64) Result {
	var r Result
	fields := []*float64{
		&r.F, &r.PWV, &r.EL, &r.EtaAtm, &r.R, &r.WFSpec, &r.WFCont,
		&r.ThetaMaj, &r.ThetaMin, &r.EtaA, &r.EtaMB, &r.EtaForward, &r.EtaSW,
		&r.EtaWindow, &r.EtaInst, &r.EtaCircuit,
		&r.TbSky, &r.TbM1, &r.TbM2, &r.TbWO, &r.TbWindow, &r.TbCO, &r.TbKID,
		&r.PKID, &r.PKIDSky, &r.PKIDWarm, &r.PKIDCold, &r.NPh,
		&r.NEPKID, &r.NEPInst, &r.NEFDLine, &r.NEFDContinuum, &r.NEF, &r.MDLF,
		&r.SNR, &r.ObsHours, &r.OnSourceFraction, &r.OnSourceHours,
		&r.EquivalentTrx,
	}
	for i, f := range fields {
		if i < len(vs) {
			*f = vs[i]
		}
	}
	return r
}

// Table is an ordered set of result rows sharing the sweep index.
type Table []Result
