package app

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	hueStart = 236.0 // opaque sky
	hueEnd   = 0.0   // fully transparent
)

// transmissionColor maps a transmission value in [0, 1] onto a blue-to-red
// hue ramp: deep blue for an opaque atmosphere, red for a clear one.
func transmissionColor(t float64) color.Color {
	t = math.Min(math.Max(t, 0), 1)

	hue := hueStart - t*(hueStart-hueEnd)
	return colorful.Hsv(hue, 1, 0.90)
}
