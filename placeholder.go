package kittyimg

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// PLACEHOLDER_CHAR is the code point the terminal replaces with image pixels
const PLACEHOLDER_CHAR = "\U0010EEEE"

// Placeholder is PLACEHOLDER_CHAR as a rune
const Placeholder = '\U0010EEEE'

// MaxImageID is the largest id that survives the 24-bit foreground color encoding
const MaxImageID = 1<<24 - 1

// RowDiacritics are the combining marks that encode rows 0 through 7 of a
// placement. They are the first entries of the protocol's diacritic table.
var RowDiacritics = [...]rune{
	'\u0305',
	'\u030D',
	'\u030E',
	'\u0310',
	'\u0312',
	'\u033D',
	'\u033E',
	'\u033F',
}

// MaxRows is the number of rows addressable through RowDiacritics
const MaxRows = len(RowDiacritics)

const resetForeground = "\x1b[39m"

// Grid maps a transmitted image onto Columns x Rows terminal cells
type Grid struct {
	ImageID uint32
	Columns int
	Rows    int
}

// Validate checks the id range and that the grid is non-empty
func (g Grid) Validate() error {
	if err := checkImageID(g.ImageID); err != nil {
		return err
	}
	if g.Columns <= 0 || g.Rows <= 0 {
		return fmt.Errorf("%w: grid %dx%d", ErrInvalidDimension, g.Columns, g.Rows)
	}
	return nil
}

// IDColor splits a 24-bit image id into the foreground color that names it
func IDColor(id uint32) (r, g, b uint8) {
	return uint8(id >> 16), uint8(id >> 8), uint8(id)
}

// IDFromColor reassembles an image id from a placeholder's foreground color
func IDFromColor(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// RowDiacritic returns the combining mark for row
func RowDiacritic(row int) (rune, error) {
	if row < 0 || row >= len(RowDiacritics) {
		return 0, fmt.Errorf("%w: %d (max %d)", ErrUnsupportedRowIndex, row, len(RowDiacritics)-1)
	}
	return RowDiacritics[row], nil
}

// RenderCell returns one placeholder cell colored with the image id. Only
// column 0 carries the row diacritic; the terminal infers later columns from
// cursor advancement.
func RenderCell(id uint32, row, col int) (string, error) {
	if err := checkImageID(id); err != nil {
		return "", err
	}
	if col < 0 {
		return "", fmt.Errorf("%w: column %d", ErrInvalidDimension, col)
	}
	diacritic, err := RowDiacritic(row)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	writeForeground(&sb, id)
	sb.WriteRune(Placeholder)
	if col == 0 {
		sb.WriteRune(diacritic)
	}
	sb.WriteString(resetForeground)
	return sb.String(), nil
}

// RenderGrid returns one line per grid row, cells concatenated left to right.
// Lines carry no trailing newline so callers can interleave their own text.
func RenderGrid(g Grid) ([]string, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if g.Rows > MaxRows {
		return nil, fmt.Errorf("%w: grid has %d rows (max %d)", ErrUnsupportedRowIndex, g.Rows, MaxRows)
	}

	lines := make([]string, 0, g.Rows)
	var sb strings.Builder
	for row := range g.Rows {
		sb.Reset()
		for col := range g.Columns {
			cell, err := RenderCell(g.ImageID, row, col)
			if err != nil {
				return nil, err
			}
			sb.WriteString(cell)
		}
		lines = append(lines, sb.String())
	}
	return lines, nil
}

// WriteTo writes the rendered grid to w, one newline-terminated line per row
func (g Grid) WriteTo(w io.Writer) (int64, error) {
	lines, err := RenderGrid(g)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, line := range lines {
		n, err := io.WriteString(w, line+"\n")
		total += int64(n)
		if err != nil {
			return total, fmt.Errorf("%w: %w", ErrOutputWrite, err)
		}
	}
	return total, nil
}

func writeForeground(sb *strings.Builder, id uint32) {
	r, g, b := IDColor(id)
	sb.WriteString("\x1b[38;2;")
	sb.WriteString(strconv.Itoa(int(r)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(g)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(b)))
	sb.WriteByte('m')
}
