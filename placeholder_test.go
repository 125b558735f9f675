package kittyimg

import (
	"bytes"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var foregroundSGR = regexp.MustCompile(`^\x1b\[38;2;(\d+);(\d+);(\d+)m`)

// cellID recovers the image id from the SGR parameters of a rendered cell
func cellID(t *testing.T, cell string) uint32 {
	t.Helper()
	m := foregroundSGR.FindStringSubmatch(cell)
	require.Len(t, m, 4, "cell %q has no truecolor foreground", cell)
	var rgb [3]uint8
	for i := range rgb {
		v, err := strconv.Atoi(m[i+1])
		require.NoError(t, err)
		require.LessOrEqual(t, v, 255)
		rgb[i] = uint8(v)
	}
	return IDFromColor(rgb[0], rgb[1], rgb[2])
}

func TestRenderCellExact(t *testing.T) {
	cell, err := RenderCell(999, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "\x1b[38;2;0;3;231m\U0010EEEE\u0305\x1b[39m", cell)

	cell, err = RenderCell(999, 4, 3)
	require.NoError(t, err)
	assert.Equal(t, "\x1b[38;2;0;3;231m\U0010EEEE\x1b[39m", cell)

	cell, err = RenderCell(0x123456, 7, 0)
	require.NoError(t, err)
	assert.Equal(t, "\x1b[38;2;18;52;86m\U0010EEEE\u033F\x1b[39m", cell)
}

func TestRenderCellDiacritics(t *testing.T) {
	seen := make(map[rune]int)
	for row := range MaxRows {
		first, err := RenderCell(1, row, 0)
		require.NoError(t, err)
		rest, err := RenderCell(1, row, 1)
		require.NoError(t, err)

		d, err := RowDiacritic(row)
		require.NoError(t, err)
		assert.Equal(t, RowDiacritics[row], d)

		assert.Equal(t, 1, strings.Count(first, string(d)), "row %d column 0 carries its diacritic", row)
		for _, mark := range RowDiacritics {
			assert.NotContains(t, rest, string(mark), "row %d column 1 carries no diacritic", row)
		}

		if prev, ok := seen[d]; ok {
			t.Fatalf("rows %d and %d share diacritic %U", prev, row, d)
		}
		seen[d] = row
	}
	assert.Len(t, seen, 8)
}

func TestRenderCellIDRoundTrip(t *testing.T) {
	for _, id := range []uint32{1, 255, 256, 999, 0x00ff00, 0xabcdef, MaxImageID} {
		cell, err := RenderCell(id, 2, 0)
		require.NoError(t, err)
		assert.Equal(t, id, cellID(t, cell), "id %d", id)

		r, g, b := IDColor(id)
		assert.Equal(t, id, IDFromColor(r, g, b))
	}
}

func TestRenderCellErrors(t *testing.T) {
	tests := []struct {
		name    string
		id      uint32
		row     int
		col     int
		wantErr error
	}{
		{name: "row 8", id: 1, row: 8, wantErr: ErrUnsupportedRowIndex},
		{name: "negative row", id: 1, row: -1, wantErr: ErrUnsupportedRowIndex},
		{name: "negative column", id: 1, row: 0, col: -1, wantErr: ErrInvalidDimension},
		{name: "id past 24 bits", id: MaxImageID + 1, wantErr: ErrImageIDRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell, err := RenderCell(tt.id, tt.row, tt.col)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, cell)
		})
	}
}

func TestRenderGrid(t *testing.T) {
	grid := Grid{ImageID: 999, Columns: 10, Rows: 5}
	lines, err := RenderGrid(grid)
	require.NoError(t, err)
	require.Len(t, lines, 5)

	for row, line := range lines {
		assert.NotContains(t, line, "\n")

		// Only placeholder code points remain once the SGR sequences are gone
		plain := ansi.Strip(line)
		assert.Equal(t, 10, strings.Count(plain, PLACEHOLDER_CHAR), "row %d", row)
		assert.Equal(t, string(RowDiacritics[row]), strings.ReplaceAll(plain, PLACEHOLDER_CHAR, ""))

		// The diacritic combines with the first placeholder, so each cell is one grapheme
		assert.Equal(t, 10, uniseg.GraphemeClusterCount(plain), "row %d", row)

		first, err := RenderCell(999, row, 0)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(line, first))
	}
}

func TestRenderGridErrors(t *testing.T) {
	tests := []struct {
		name    string
		grid    Grid
		wantErr error
	}{
		{name: "nine rows", grid: Grid{ImageID: 1, Columns: 2, Rows: 9}, wantErr: ErrUnsupportedRowIndex},
		{name: "zero columns", grid: Grid{ImageID: 1, Columns: 0, Rows: 1}, wantErr: ErrInvalidDimension},
		{name: "zero rows", grid: Grid{ImageID: 1, Columns: 1, Rows: 0}, wantErr: ErrInvalidDimension},
		{name: "large id", grid: Grid{ImageID: 1 << 25, Columns: 1, Rows: 1}, wantErr: ErrImageIDRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := RenderGrid(tt.grid)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, lines)
		})
	}

	lines, err := RenderGrid(Grid{ImageID: 1, Columns: 1, Rows: MaxRows})
	require.NoError(t, err)
	assert.Len(t, lines, MaxRows)
}

func TestGridWriteTo(t *testing.T) {
	grid := Grid{ImageID: 42, Columns: 3, Rows: 2}

	var buf bytes.Buffer
	n, err := grid.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	lines, err := RenderGrid(grid)
	require.NoError(t, err)
	assert.Equal(t, lines[0]+"\n"+lines[1]+"\n", buf.String())

	cause := errors.New("closed")
	_, err = grid.WriteTo(&failingWriter{err: cause})
	assert.ErrorIs(t, err, ErrOutputWrite)
	assert.ErrorIs(t, err, cause)
}
