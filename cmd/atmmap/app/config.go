package app

import (
	"errors"
	"flag"
	"fmt"
	"strings"
)

const (
	ImagePNG  = "png"
	ImageJPEG = "jpeg"
)

type ImageFormat string

// Config holds the transmission map rendering options.
type Config struct {
	AtmFile    string
	OutputFile string
	Format     ImageFormat
	FontFile   string

	MinFreq   *float64 // GHz
	MaxFreq   *float64 // GHz
	Elevation float64  // degrees; 90 renders the zenith curve

	PWVSteps int // number of pwv rows to render
	MaxWidth int // cap on rendered frequency columns

	NoAnnotations bool
}

var validImageFormats = map[ImageFormat]struct{}{
	ImagePNG:  {},
	ImageJPEG: {},
}

func NewConfig() *Config {
	return &Config{
		Format:    ImagePNG,
		Elevation: 90,
		PWVSteps:  240,
		MaxWidth:  1400,
	}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	var imageFormat string
	var minFreq, maxFreq float64
	flag.StringVar(&c.AtmFile, "atm", "", "Path to the atmospheric transmission grid")
	flag.StringVar(&c.OutputFile, "o", "", "Path to the output file")
	flag.StringVar(&imageFormat, "f", string(ImagePNG), "Output image format. [png, jpeg]")
	flag.StringVar(&c.FontFile, "font", "", "Path to a TTF font for annotations")
	flag.Float64Var(&minFreq, "min-freq", 0, "Lower edge of the rendered band in GHz")
	flag.Float64Var(&maxFreq, "max-freq", 0, "Upper edge of the rendered band in GHz")
	flag.Float64Var(&c.Elevation, "el", 90, "Telescope elevation in degrees")
	flag.IntVar(&c.PWVSteps, "pwv-steps", 240, "Number of pwv rows to render")
	flag.BoolVar(&c.NoAnnotations, "no-annotations", false, "Disable frequency/pwv scales and the info bar")
	flag.Parse()

	imageFormat = strings.ToLower(imageFormat)

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "min-freq" {
			c.MinFreq = &minFreq
		}
		if f.Name == "max-freq" {
			c.MaxFreq = &maxFreq
		}
	})

	var err error
	if c.AtmFile == "" {
		err = errors.New("atmospheric grid path is required")
	} else if c.OutputFile == "" {
		err = errors.New("output file is required")
	} else if _, ok := validImageFormats[ImageFormat(imageFormat)]; !ok {
		err = fmt.Errorf("invalid image format: %s", imageFormat)
	} else if c.Elevation <= 0 || c.Elevation > 90 {
		err = fmt.Errorf("invalid elevation: %g", c.Elevation)
	} else if c.PWVSteps < 2 {
		err = fmt.Errorf("invalid pwv step count: %d", c.PWVSteps)
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}

	// Scales and labels need a typeface; without one, render bare.
	if c.FontFile == "" {
		c.NoAnnotations = true
	}

	c.Format = ImageFormat(imageFormat)
	c.OutputFile = fmt.Sprintf("%s.%s", c.OutputFile, c.Format)
	return c, nil
}
