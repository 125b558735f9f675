package kittyimg

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// PNG constants for the only layout we emit: 8-bit truecolor, no alpha
const (
	pngSignature     = "\x89PNG\r\n\x1a\n"
	pngBitDepth      = 8
	pngColorTypeRGB  = 2
	pngFilterNone    = 0
	pngBytesPerPixel = 3
)

// EncodedImage is a complete PNG file. It is never modified after Encode returns.
type EncodedImage []byte

// Base64 returns the standard base64 encoding of the PNG bytes
func (e EncodedImage) Base64() string {
	return Base64Encode(e)
}

// EncodeSolid builds a PNG of width x height pixels all set to (r, g, b)
func EncodeSolid(width, height, r, g, b int) (EncodedImage, error) {
	raster, err := NewSolid(width, height, r, g, b)
	if err != nil {
		return nil, err
	}
	return raster.Encode()
}

// Encode serializes the raster as a PNG: signature, IHDR, a single IDAT
// holding unfiltered scanlines, and IEND.
func (r *Raster) Encode() (EncodedImage, error) {
	if err := checkDimensions(r.Width, r.Height); err != nil {
		return nil, err
	}
	stride := pngBytesPerPixel * r.Width
	if len(r.Pix) != stride*r.Height {
		return nil, fmt.Errorf("%w: buffer holds %d bytes, want %d", ErrInvalidDimension, len(r.Pix), stride*r.Height)
	}

	var idat bytes.Buffer
	zw := zlib.NewWriter(&idat)
	for y := range r.Height {
		if _, err := zw.Write([]byte{pngFilterNone}); err != nil {
			return nil, fmt.Errorf("failed to compress scanline: %w", err)
		}
		if _, err := zw.Write(r.Pix[y*stride : (y+1)*stride]); err != nil {
			return nil, fmt.Errorf("failed to compress scanline: %w", err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress image data: %w", err)
	}

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(r.Width))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(r.Height))
	ihdr[8] = pngBitDepth
	ihdr[9] = pngColorTypeRGB
	// compression, filter and interlace methods stay 0

	var out bytes.Buffer
	out.Grow(len(pngSignature) + 3*12 + len(ihdr) + idat.Len())
	out.WriteString(pngSignature)
	writePNGChunk(&out, "IHDR", ihdr)
	writePNGChunk(&out, "IDAT", idat.Bytes())
	writePNGChunk(&out, "IEND", nil)

	return EncodedImage(out.Bytes()), nil
}

// writePNGChunk appends length, type, payload and the CRC-32 of type+payload
func writePNGChunk(buf *bytes.Buffer, typ string, data []byte) {
	var header [8]byte
	binary.BigEndian.PutUint32(header[:4], uint32(len(data)))
	copy(header[4:], typ)
	buf.Write(header[:])
	buf.Write(data)

	crc := crc32.NewIEEE()
	crc.Write(header[4:])
	crc.Write(data)
	var sum [4]byte
	binary.BigEndian.PutUint32(sum[:], crc.Sum32())
	buf.Write(sum[:])
}
