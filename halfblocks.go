package kittyimg

import (
	"image"

	"github.com/charmbracelet/x/mosaic"
)

// RenderHalfblocks draws img with Unicode half blocks and 24-bit colors. It
// is the fallback for terminals without a graphics protocol. cols and rows
// bound the output in character cells; zero leaves that axis to mosaic.
func RenderHalfblocks(img image.Image, cols, rows int) string {
	m := mosaic.New()
	if cols > 0 {
		m = m.Width(cols)
	}
	if rows > 0 {
		m = m.Height(rows)
	}
	return m.Render(img)
}
