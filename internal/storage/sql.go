package storage

import (
	_ "embed"
	"strings"
)

const (
	insertSessionSQL = `
INSERT INTO sessions (
                      start_time,
                      instrument,
                      config)
VALUES (CURRENT_TIMESTAMP, ?, ?)`

	selectSessionSQL = `
SELECT
    id,
    start_time,
    instrument,
    config
FROM sessions
WHERE
    id = ?`

	selectSessionsSQL = `
SELECT
    id,
    start_time,
    instrument,
    config
FROM sessions
ORDER BY start_time`
)

//go:embed schema.sql
var schemaSQL string

// resultColumns lists the results table columns in the exact order of
// sensitivity.Result.Values.
var resultColumns = []string{
	"f", "pwv", "el", "eta_atm", "r", "w_f_spec", "w_f_cont",
	"theta_maj", "theta_min", "eta_a", "eta_mb", "eta_forward", "eta_sw",
	"eta_window", "eta_inst", "eta_circuit",
	"tb_sky", "tb_m1", "tb_m2", "tb_wo", "tb_window", "tb_co", "tb_kid",
	"pkid", "pkid_sky", "pkid_warm", "pkid_cold", "n_ph",
	"nep_kid", "nep_inst", "nefd_line", "nefd_continuum", "nef", "mdlf",
	"snr", "obs_hours", "on_source_fraction", "on_source_hours",
	"equivalent_trx",
}

// insertResultsSQL returns the head of a batch insert statement covering
// every result column plus the session reference.
func insertResultsSQL() string {
	var sb strings.Builder
	sb.WriteString("INSERT INTO results (session_id, ")
	sb.WriteString(strings.Join(resultColumns, ", "))
	sb.WriteString(") VALUES ")
	return sb.String()
}

// resultPlaceholder returns one "(?, ?, ...)" group for a batch insert.
func resultPlaceholder() string {
	var sb strings.Builder
	sb.WriteString("(?")
	for range resultColumns {
		sb.WriteString(", ?")
	}
	sb.WriteString(")")
	return sb.String()
}

// selectResultsSQL returns the read-back query with an optional frequency
// range filter.
func selectResultsSQL(minFreq, maxFreq *float64) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(resultColumns, ", "))
	sb.WriteString(" FROM results WHERE session_id = ?")

	args := []any{}
	if minFreq != nil {
		sb.WriteString(" AND f >= ?")
		args = append(args, *minFreq)
	}
	if maxFreq != nil {
		sb.WriteString(" AND f <= ?")
		args = append(args, *maxFreq)
	}
	sb.WriteString(" ORDER BY f, id")
	return sb.String(), args
}
