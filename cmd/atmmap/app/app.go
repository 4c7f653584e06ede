package app

import (
	"context"
	"fmt"
	"image/jpeg"
	"image/png"
	"log/slog"
	"math"
	"os"

	"github.com/submm-lab/specsens/internal/atmosphere"
)

// Run renders the transmission map for the configured grid and elevation.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	if _, err := os.Stat(config.AtmFile); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("atmospheric grid '%s' does not exist: %w", config.AtmFile, err)
	}

	grid, err := atmosphere.Shared(config.AtmFile)
	if err != nil {
		return err
	}

	tm, err := buildMap(grid, config)
	if err != nil {
		return err
	}

	logger.Info("rendering transmission map",
		slog.Group("image",
			slog.String("destination", config.OutputFile),
			slog.String("format", string(config.Format)),
			slog.Int("width", tm.Width),
			slog.Int("height", tm.Height),
		),
		slog.Group("band",
			slog.Float64("minFreqGHz", tm.FreqMin),
			slog.Float64("maxFreqGHz", tm.FreqMax),
			slog.Float64("elevation", config.Elevation),
		),
	)

	renderer, err := NewRenderer(RenderConfig{
		FontFile:      config.FontFile,
		NoAnnotations: config.NoAnnotations,
	})
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	defer renderer.Close()

	img, err := renderer.Render(tm)
	if err != nil {
		return fmt.Errorf("rendering transmission map: %w", err)
	}

	out, err := os.Create(config.OutputFile)
	if err != nil {
		return err
	}
	defer out.Close()

	switch config.Format {
	case ImagePNG:
		err = png.Encode(out, img)

	case ImageJPEG:
		err = jpeg.Encode(out, img, &jpeg.Options{
			Quality: 98,
		})
	}
	return err
}

// TransmissionMap is the rendered data: one row per pwv value (driest on
// top), one column per frequency sample, values in [0, 1].
type TransmissionMap struct {
	Width  int
	Height int

	FreqMin, FreqMax float64 // GHz
	PWVMin, PWVMax   float64 // mm
	Elevation        float64 // degrees

	Values [][]float64 // Values[row][col]
}

// buildMap samples line-of-sight transmission over the grid's native
// frequency axis and a linear ramp of pwv values, downsampling columns to
// the configured width cap.
func buildMap(grid *atmosphere.Grid, config *Config) (*TransmissionMap, error) {
	axis := grid.FrequencyAxis()
	fMin, fMax := grid.FrequencyRange()
	if config.MinFreq != nil {
		fMin = math.Max(fMin, *config.MinFreq)
	}
	if config.MaxFreq != nil {
		fMax = math.Min(fMax, *config.MaxFreq)
	}
	if fMin >= fMax {
		return nil, fmt.Errorf("empty frequency band [%g, %g] GHz", fMin, fMax)
	}

	lo := 0
	for lo < len(axis) && axis[lo] < fMin {
		lo++
	}
	hi := len(axis)
	for hi > lo && axis[hi-1] > fMax {
		hi--
	}
	if hi-lo < 2 {
		return nil, fmt.Errorf("band [%g, %g] GHz covers fewer than two grid samples", fMin, fMax)
	}

	stride := 1
	if n := hi - lo; n > config.MaxWidth {
		stride = (n + config.MaxWidth - 1) / config.MaxWidth
	}

	var cols []int
	for i := lo; i < hi; i += stride {
		cols = append(cols, i)
	}

	pwvMin, pwvMax := grid.PWVRange()
	airmass := 1 / math.Sin(config.Elevation*math.Pi/180)

	tm := TransmissionMap{
		Width:     len(cols),
		Height:    config.PWVSteps,
		FreqMin:   axis[cols[0]],
		FreqMax:   axis[cols[len(cols)-1]],
		PWVMin:    pwvMin,
		PWVMax:    pwvMax,
		Elevation: config.Elevation,
		Values:    make([][]float64, config.PWVSteps),
	}

	for row := 0; row < config.PWVSteps; row++ {
		pwv := pwvMin + (pwvMax-pwvMin)*float64(row)/float64(config.PWVSteps-1)

		zenith, err := grid.ZenithColumn(pwv)
		if err != nil {
			return nil, err
		}

		line := make([]float64, len(cols))
		for x, i := range cols {
			line[x] = math.Pow(math.Abs(zenith[i]), airmass)
		}
		tm.Values[row] = line
	}

	return &tm, nil
}
