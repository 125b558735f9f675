package kittyimg

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pngChunk struct {
	typ  string
	data []byte
	crc  uint32
}

// splitPNG walks the block structure after the signature
func splitPNG(t *testing.T, data []byte) []pngChunk {
	t.Helper()
	require.True(t, bytes.HasPrefix(data, []byte(pngSignature)), "missing PNG signature")
	data = data[len(pngSignature):]

	var chunks []pngChunk
	for len(data) > 0 {
		require.GreaterOrEqual(t, len(data), 12, "truncated chunk")
		n := binary.BigEndian.Uint32(data[:4])
		require.GreaterOrEqual(t, len(data), int(12+n), "truncated chunk payload")
		chunks = append(chunks, pngChunk{
			typ:  string(data[4:8]),
			data: data[8 : 8+n],
			crc:  binary.BigEndian.Uint32(data[8+n : 12+n]),
		})
		data = data[12+n:]
	}
	return chunks
}

func inflate(t *testing.T, data []byte) []byte {
	t.Helper()
	r, err := zlib.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer r.Close()
	raw, err := io.ReadAll(r)
	require.NoError(t, err)
	return raw
}

func TestEncodeSolidDecodes(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		r, g, b       int
	}{
		{name: "red square", width: 50, height: 50, r: 255, g: 0, b: 0},
		{name: "single pixel", width: 1, height: 1, r: 0, g: 0, b: 0},
		{name: "wide strip", width: 300, height: 2, r: 12, g: 34, b: 56},
		{name: "tall strip", width: 3, height: 200, r: 255, g: 255, b: 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeSolid(tt.width, tt.height, tt.r, tt.g, tt.b)
			require.NoError(t, err)

			img, err := png.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, tt.width, tt.height), img.Bounds())

			want := color.RGBA{R: uint8(tt.r), G: uint8(tt.g), B: uint8(tt.b), A: 0xff}
			for y := range tt.height {
				for x := range tt.width {
					got := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
					if got != want {
						t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
					}
				}
			}
		})
	}
}

func TestEncodeBlockLayout(t *testing.T) {
	data, err := EncodeSolid(7, 3, 1, 2, 3)
	require.NoError(t, err)

	chunks := splitPNG(t, data)
	require.Len(t, chunks, 3)
	assert.Equal(t, "IHDR", chunks[0].typ)
	assert.Equal(t, "IDAT", chunks[1].typ)
	assert.Equal(t, "IEND", chunks[2].typ)
	assert.Empty(t, chunks[2].data)

	ihdr := chunks[0].data
	require.Len(t, ihdr, 13)
	assert.Equal(t, uint32(7), binary.BigEndian.Uint32(ihdr[0:4]))
	assert.Equal(t, uint32(3), binary.BigEndian.Uint32(ihdr[4:8]))
	assert.Equal(t, []byte{8, 2, 0, 0, 0}, ihdr[8:13], "depth, color type, compression, filter, interlace")

	for _, c := range chunks {
		want := crc32.ChecksumIEEE(append([]byte(c.typ), c.data...))
		assert.Equal(t, want, c.crc, "CRC of %s", c.typ)
	}
}

func TestEncodeScanlinesUnfiltered(t *testing.T) {
	raster, err := NewRaster(2, 2, []uint8{
		1, 2, 3, 4, 5, 6,
		7, 8, 9, 10, 11, 12,
	})
	require.NoError(t, err)

	data, err := raster.Encode()
	require.NoError(t, err)

	chunks := splitPNG(t, data)
	raw := inflate(t, chunks[1].data)
	assert.Equal(t, []byte{
		0, 1, 2, 3, 4, 5, 6,
		0, 7, 8, 9, 10, 11, 12,
	}, raw)
}

func TestEncodeSolidInvalidInput(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		r, g, b       int
		wantErr       error
	}{
		{name: "zero width", width: 0, height: 5, wantErr: ErrInvalidDimension},
		{name: "negative height", width: 5, height: -1, wantErr: ErrInvalidDimension},
		{name: "red too large", width: 1, height: 1, r: 256, wantErr: ErrInvalidColorComponent},
		{name: "green negative", width: 1, height: 1, g: -1, wantErr: ErrInvalidColorComponent},
		{name: "blue too large", width: 1, height: 1, b: 1000, wantErr: ErrInvalidColorComponent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeSolid(tt.width, tt.height, tt.r, tt.g, tt.b)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, data)
		})
	}
}

func TestNewRasterBufferLength(t *testing.T) {
	_, err := NewRaster(2, 2, make([]uint8, 11))
	assert.ErrorIs(t, err, ErrInvalidDimension)

	r, err := NewRaster(2, 2, make([]uint8, 12))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), r.Bounds())
}

func TestRasterImplementsImage(t *testing.T) {
	r, err := NewSolid(4, 2, 10, 20, 30)
	require.NoError(t, err)

	var img image.Image = r
	assert.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 0xff}, img.At(3, 1))
	assert.Equal(t, color.RGBA{}, img.At(4, 0), "outside bounds")
	assert.True(t, r.Opaque())
}

func TestFromImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i] = 0
		src.Pix[i+1] = 200
		src.Pix[i+2] = 100
		src.Pix[i+3] = 0xff
	}

	t.Run("keeps size", func(t *testing.T) {
		r, err := FromImage(src, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 8, r.Width)
		assert.Equal(t, 8, r.Height)
		assert.Len(t, r.Pix, 3*8*8)
		assert.Equal(t, []uint8{0, 200, 100}, r.Pix[:3])
	})

	t.Run("resamples", func(t *testing.T) {
		r, err := FromImage(src, 4, 2)
		require.NoError(t, err)
		assert.Equal(t, 4, r.Width)
		assert.Equal(t, 2, r.Height)
		assert.Len(t, r.Pix, 3*4*2)

		data, err := r.Encode()
		require.NoError(t, err)
		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())
	})

	t.Run("nil image", func(t *testing.T) {
		_, err := FromImage(nil, 1, 1)
		assert.Error(t, err)
	})
}
