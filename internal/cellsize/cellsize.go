// Package cellsize reports terminal cell geometry and converts pixel sizes to cell grids.
package cellsize

import "github.com/blacktop/go-kittyimg/pkg/csi"

// Fallback cell size used when the terminal cannot be asked
const (
	DefaultWidth  = 8
	DefaultHeight = 16
)

// Get returns the size of one terminal cell in pixels. It asks the kernel
// first, then the terminal (CSI 16t), then falls back to 8x16.
func Get() (width, height int) {
	if w, h, ok := fromWinsize(); ok {
		return w, h
	}
	if csi.QuerySupported() {
		if w, h, ok := csi.QueryCharacterCellSizeInPixels(); ok {
			return w, h
		}
	}
	return DefaultWidth, DefaultHeight
}

// Cells returns how many cells are needed to show pxWidth x pxHeight pixels
// at the given cell size, rounding up. Non-positive cell sizes use the defaults.
func Cells(pxWidth, pxHeight, cellWidth, cellHeight int) (cols, rows int) {
	if cellWidth <= 0 {
		cellWidth = DefaultWidth
	}
	if cellHeight <= 0 {
		cellHeight = DefaultHeight
	}
	cols = max((pxWidth+cellWidth-1)/cellWidth, 1)
	rows = max((pxHeight+cellHeight-1)/cellHeight, 1)
	return cols, rows
}
