// Package termimage draws images as terminal text. Each cell holds two vertical
// pixels using the upper half block glyph, foreground for the top pixel and
// background for the bottom one.
package termimage

import (
	"image"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
	"golang.org/x/image/draw"
)

const (
	halfBlock = "▀"
	// asciiRamp is ordered from dark to light.
	asciiRamp = " .:-=+*#%@"
)

// Size returns the cell dimensions an image of bounds b occupies when fitted
// into a box of width x height cells, preserving aspect ratio.
func Size(b image.Rectangle, width, height int) (int, int) {
	if width <= 0 || height <= 0 || b.Dx() <= 0 || b.Dy() <= 0 {
		return 0, 0
	}

	// Two pixel rows per cell.
	pw, ph := width, height*2
	iw, ih := b.Dx(), b.Dy()

	w, h := pw, ih*pw/iw
	if h > ph {
		w, h = iw*ph/ih, ph
	}
	w = max(w, 1)
	h = max(h, 2)
	return w, (h + 1) / 2
}

// Render fits img into width x height cells. Colors are degraded to profile;
// the ASCII profile renders a luminance ramp instead of colored blocks.
func Render(img image.Image, width, height int, profile termenv.Profile) string {
	if img == nil {
		return ""
	}

	b := img.Bounds()
	cols, rows := Size(b, width, height)
	if cols == 0 || rows == 0 {
		return ""
	}

	scaled := scale(img, cols, rows*2)

	var sb strings.Builder
	for row := range rows {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := range cols {
			top := scaled.At(col, row*2)
			bottom := scaled.At(col, row*2+1)

			if profile == termenv.Ascii {
				sb.WriteByte(rampChar(top, bottom))
				continue
			}

			sb.WriteString(profile.String(halfBlock).
				Foreground(profile.Color(hex(top))).
				Background(profile.Color(hex(bottom))).
				String())
		}
	}
	return sb.String()
}

// scale resamples img to exactly w x h pixels.
func scale(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// hex drops alpha; fully transparent pixels render black.
func hex(c color.Color) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "#000000"
	}
	return cf.Hex()
}

func rampChar(top, bottom color.Color) byte {
	l := (luminance(top) + luminance(bottom)) / 2
	idx := int(l*float64(len(asciiRamp)-1) + 0.5)
	idx = min(max(idx, 0), len(asciiRamp)-1)
	return asciiRamp[idx]
}

// luminance returns relative luminance in [0, 1].
func luminance(c color.Color) float64 {
	r, g, b, _ := c.RGBA()
	return (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 0xffff
}
