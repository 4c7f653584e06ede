// Package atmosphere models the zenith transmission of the atmosphere above
// the telescope as a measured (pwv, frequency) grid, with airmass scaling for
// elevation and optional averaging over a spectrometer channel.
package atmosphere

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

// metadataLines is the number of free-form metadata lines preceding the
// header in a transmission table. The value is fixed by the existing dataset
// format and must not change.
const metadataLines = 4

var (
	// ErrOutOfRange is returned when an interpolation request falls outside
	// the frequency or pwv domain covered by the grid.
	ErrOutOfRange = errors.New("requested point outside atmospheric grid")

	// ErrMalformedGrid is returned when a transmission table does not follow
	// the expected file format.
	ErrMalformedGrid = errors.New("malformed atmospheric grid")
)

// Grid is an immutable table of zenith atmospheric transmission indexed by
// precipitable water vapour (columns) and frequency in GHz (rows). It is
// loaded once and never mutated; a single Grid may be shared by any number of
// concurrent readers.
type Grid struct {
	comments []string    // metadata lines, preserved verbatim
	pwv      []float64   // mm, strictly increasing
	freq     []float64   // GHz, strictly increasing
	trans    [][]float64 // trans[i][j] = transmission at freq[i], pwv[j]
}

var (
	sharedMu    sync.Mutex
	sharedGrids = map[string]*Grid{}
)

// Shared returns the process-wide grid loaded from path, parsing the file at
// most once. Subsequent calls with the same path return the cached handle.
func Shared(path string) (*Grid, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if g, ok := sharedGrids[path]; ok {
		return g, nil
	}

	g, err := Load(path)
	if err != nil {
		return nil, err
	}

	sharedGrids[path] = g
	return g, nil
}

// Load reads and parses a transmission table from disk.
func Load(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening atmospheric grid: %w", err)
	}
	defer f.Close()

	g, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing atmospheric grid '%s': %w", path, err)
	}
	return g, nil
}

// Parse reads a transmission table in the fixed dataset format: four metadata
// lines, then a whitespace-delimited header ("F" followed by one pwv value
// per column), then one row per frequency sample.
func Parse(r io.Reader) (*Grid, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var g Grid
	for i := 0; i < metadataLines; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("%w: missing metadata line %d", ErrMalformedGrid, i+1)
		}
		g.comments = append(g.comments, scanner.Text())
	}

	if !scanner.Scan() {
		return nil, fmt.Errorf("%w: missing header line", ErrMalformedGrid)
	}
	header := strings.Fields(scanner.Text())
	if len(header) < 2 || header[0] != "F" {
		return nil, fmt.Errorf("%w: header must start with 'F' followed by pwv columns", ErrMalformedGrid)
	}
	for _, field := range header[1:] {
		pwv, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid pwv column '%s'", ErrMalformedGrid, field)
		}
		g.pwv = append(g.pwv, pwv)
	}

	line := metadataLines + 1
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != len(g.pwv)+1 {
			return nil, fmt.Errorf("%w: line %d has %d columns, want %d", ErrMalformedGrid, line, len(fields), len(g.pwv)+1)
		}

		freq, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid frequency '%s'", ErrMalformedGrid, line, fields[0])
		}

		row := make([]float64, len(g.pwv))
		for j, field := range fields[1:] {
			if row[j], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, fmt.Errorf("%w: line %d: invalid transmission '%s'", ErrMalformedGrid, line, field)
			}
		}

		g.freq = append(g.freq, freq)
		g.trans = append(g.trans, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading atmospheric grid: %w", err)
	}

	if err := g.validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

func (g *Grid) validate() error {
	if len(g.freq) < 2 || len(g.pwv) < 2 {
		return fmt.Errorf("%w: need at least 2 frequency rows and 2 pwv columns, got %dx%d",
			ErrMalformedGrid, len(g.freq), len(g.pwv))
	}
	for i := 1; i < len(g.freq); i++ {
		if g.freq[i] <= g.freq[i-1] {
			return fmt.Errorf("%w: frequency axis not strictly increasing at row %d (%g after %g)",
				ErrMalformedGrid, i, g.freq[i], g.freq[i-1])
		}
	}
	for j := 1; j < len(g.pwv); j++ {
		if g.pwv[j] <= g.pwv[j-1] {
			return fmt.Errorf("%w: pwv axis not strictly increasing at column %d (%g after %g)",
				ErrMalformedGrid, j, g.pwv[j], g.pwv[j-1])
		}
	}
	return nil
}

// Comments returns the metadata lines preceding the header, verbatim.
func (g *Grid) Comments() []string {
	return g.comments
}

// FrequencyAxis returns the native frequency samples in GHz. The returned
// slice is the grid's own storage and must not be modified.
func (g *Grid) FrequencyAxis() []float64 {
	return g.freq
}

// PWVRange returns the covered precipitable water vapour domain in mm.
func (g *Grid) PWVRange() (min, max float64) {
	return g.pwv[0], g.pwv[len(g.pwv)-1]
}

// FrequencyRange returns the covered frequency domain in GHz.
func (g *Grid) FrequencyRange() (min, max float64) {
	return g.freq[0], g.freq[len(g.freq)-1]
}

// ZenithColumn evaluates the zenith transmission at the given pwv for every
// native frequency sample, interpolating along the pwv axis.
func (g *Grid) ZenithColumn(pwv float64) ([]float64, error) {
	if pwv < g.pwv[0] || pwv > g.pwv[len(g.pwv)-1] {
		return nil, fmt.Errorf("%w: pwv %g mm not in [%g, %g]", ErrOutOfRange, pwv, g.pwv[0], g.pwv[len(g.pwv)-1])
	}

	col := make([]float64, len(g.freq))
	for i, row := range g.trans {
		v, err := interpCubic(g.pwv, row, pwv)
		if err != nil {
			return nil, err
		}
		col[i] = v
	}
	return col, nil
}

// Zenith evaluates the zenith transmission at a single (pwv, frequency)
// point by bicubic interpolation: cubic along pwv per frequency row, then
// cubic along frequency.
func (g *Grid) Zenith(pwv, freqGHz float64) (float64, error) {
	col, err := g.ZenithColumn(pwv)
	if err != nil {
		return 0, err
	}
	return interpCubic(g.freq, col, freqGHz)
}
