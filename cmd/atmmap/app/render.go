package app

import (
	"fmt"
	"image"
	"image/draw"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

const (
	dpi            = 120.0
	fontSize       = 12.0
	tickMarkHeight = 5
	pixelsPerLabel = 150

	// Border sizes in pixels around the map area.
	defaultTopBorder    = 40
	defaultLeftBorder   = 80
	defaultBottomBorder = 40
	defaultRightBorder  = 40
)

// RenderConfig holds the rendering options of a transmission map.
type RenderConfig struct {
	FontFile      string
	NoAnnotations bool
}

// Renderer draws a TransmissionMap as an annotated image.
type Renderer struct {
	config   RenderConfig
	context  *freetype.Context
	fontFace font.Face
}

// NewRenderer creates a renderer, loading the annotation typeface from the
// configured TTF file when annotations are enabled.
func NewRenderer(config RenderConfig) (*Renderer, error) {
	r := Renderer{config: config}
	if config.NoAnnotations {
		return &r, nil
	}

	fontBytes, err := os.ReadFile(config.FontFile)
	if err != nil {
		return nil, fmt.Errorf("reading font: %w", err)
	}

	parsedFont, err := freetype.ParseFont(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(fontSize)
	ctx.SetHinting(font.HintingNone)
	ctx.SetSrc(image.Black)

	r.context = ctx
	r.fontFace = truetype.NewFace(parsedFont, &truetype.Options{
		Size:    fontSize,
		DPI:     dpi,
		Hinting: font.HintingNone,
	})

	return &r, nil
}

func (r *Renderer) Close() error {
	if r.fontFace != nil {
		return r.fontFace.Close()
	}
	return nil
}

// Render draws the map with optional frequency/pwv scales and an info bar.
func (r *Renderer) Render(tm *TransmissionMap) (*image.RGBA, error) {
	borders := image.Point{}
	if !r.config.NoAnnotations {
		borders = image.Point{X: defaultLeftBorder + defaultRightBorder, Y: defaultTopBorder + defaultBottomBorder}
	}

	img := image.NewRGBA(image.Rect(0, 0, tm.Width+borders.X, tm.Height+borders.Y))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	area := img.Bounds()
	if !r.config.NoAnnotations {
		area = image.Rect(
			defaultLeftBorder,
			defaultTopBorder,
			defaultLeftBorder+tm.Width,
			defaultTopBorder+tm.Height,
		)

		r.context.SetClip(img.Bounds())
		r.context.SetDst(img)

		if err := r.drawFrequencyScale(img, area, tm); err != nil {
			return nil, fmt.Errorf("drawing frequency scale: %w", err)
		}
		if err := r.drawPWVScale(area, tm); err != nil {
			return nil, fmt.Errorf("drawing pwv scale: %w", err)
		}
		if err := r.drawInfoBar(area, tm); err != nil {
			return nil, fmt.Errorf("drawing info bar: %w", err)
		}
	}

	for y, line := range tm.Values {
		for x, t := range line {
			img.Set(area.Min.X+x, area.Min.Y+y, transmissionColor(t))
		}
	}

	return img, nil
}

func (r *Renderer) drawFrequencyScale(img *image.RGBA, area image.Rectangle, tm *TransmissionMap) error {
	count := tm.Width / pixelsPerLabel
	if count < 2 {
		count = 2
	}

	ghzPerLabel := (tm.FreqMax - tm.FreqMin) / float64(count)
	pxPerLabel := tm.Width / count

	for i := 0; i <= count; i++ {
		ghz := tm.FreqMin + float64(i)*ghzPerLabel
		x := area.Min.X + i*pxPerLabel

		label := humanize.SIWithDigits(ghz*1e9, 1, "Hz")
		width := font.MeasureString(r.fontFace, label)

		pt := freetype.Pt(x-width.Round()/2, area.Min.Y-tickMarkHeight-4)
		if _, err := r.context.DrawString(label, pt); err != nil {
			return err
		}

		for dy := 0; dy < tickMarkHeight; dy++ {
			img.Set(x, area.Min.Y-1-dy, image.Black)
		}
	}

	return nil
}

func (r *Renderer) drawPWVScale(area image.Rectangle, tm *TransmissionMap) error {
	count := tm.Height / (pixelsPerLabel / 2)
	if count < 2 {
		count = 2
	}

	mmPerLabel := (tm.PWVMax - tm.PWVMin) / float64(count)
	pxPerLabel := tm.Height / count

	for i := 0; i <= count; i++ {
		mm := tm.PWVMin + float64(i)*mmPerLabel
		y := area.Min.Y + i*pxPerLabel

		label := fmt.Sprintf("%.1f mm", mm)
		pt := freetype.Pt(10, y+int(fontSize/2))
		if _, err := r.context.DrawString(label, pt); err != nil {
			return err
		}
	}

	return nil
}

func (r *Renderer) drawInfoBar(area image.Rectangle, tm *TransmissionMap) error {
	kind := "line-of-sight"
	if tm.Elevation >= 90 {
		kind = "zenith"
	}
	info := fmt.Sprintf("%s transmission, EL %.0f deg, %s - %s",
		kind,
		tm.Elevation,
		humanize.SIWithDigits(tm.FreqMin*1e9, 2, "Hz"),
		humanize.SIWithDigits(tm.FreqMax*1e9, 2, "Hz"),
	)

	pt := freetype.Pt(area.Min.X, area.Max.Y+tickMarkHeight+int(fontSize)+4)
	_, err := r.context.DrawString(info, pt)
	return err
}
