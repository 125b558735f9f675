package kittyimg

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/makeworld-the-better-one/dither/v2"
	"github.com/mattn/go-sixel"
	"github.com/soniakeys/quant/median"
)

// DefaultSixelColors is the palette size used when none is requested
const DefaultSixelColors = 256

// RenderSixel encodes img as a Sixel DCS sequence after reducing it to at
// most colors entries with a median cut palette
func RenderSixel(img image.Image, colors int) (string, error) {
	if img == nil {
		return "", fmt.Errorf("image cannot be nil")
	}
	if colors < 2 || colors > 256 {
		colors = DefaultSixelColors
	}

	paletted := quantize(img, colors)

	var buf bytes.Buffer
	enc := sixel.NewEncoder(&buf)
	enc.Dither = false // the palette already matches the image
	if err := enc.Encode(paletted); err != nil {
		return "", fmt.Errorf("failed to encode sixel: %w", err)
	}
	if buf.Len() == 0 {
		return "", fmt.Errorf("sixel encoding produced empty output")
	}
	return buf.String(), nil
}

// quantize maps img onto a median cut palette of at most colors entries,
// spreading the error with Floyd-Steinberg diffusion
func quantize(img image.Image, colors int) *image.Paletted {
	pal := median.Quantizer(colors).Palette(img).ColorPalette()
	// The ditherer needs at least two colors
	for _, c := range []color.Color{color.Black, color.White} {
		if len(pal) >= 2 {
			break
		}
		pal = append(pal, c)
	}

	d := dither.NewDitherer(pal)
	d.Matrix = dither.FloydSteinberg
	return d.DitherPaletted(img)
}
