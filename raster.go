package kittyimg

import (
	"fmt"
	"image"
	"image/color"

	"github.com/nfnt/resize"
)

// Raster is an opaque 8-bit RGB image stored as row-major RGB triples
type Raster struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewSolid creates a width x height raster filled with a single color
func NewSolid(width, height, r, g, b int) (*Raster, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	for _, c := range [3]int{r, g, b} {
		if c < 0 || c > 255 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidColorComponent, c)
		}
	}

	pix := make([]uint8, 3*width*height)
	for i := 0; i < len(pix); i += 3 {
		pix[i] = uint8(r)
		pix[i+1] = uint8(g)
		pix[i+2] = uint8(b)
	}
	return &Raster{Width: width, Height: height, Pix: pix}, nil
}

// NewRaster wraps an existing RGB buffer. The buffer is not copied.
func NewRaster(width, height int, pix []uint8) (*Raster, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	if len(pix) != 3*width*height {
		return nil, fmt.Errorf("%w: buffer holds %d bytes, want %d", ErrInvalidDimension, len(pix), 3*width*height)
	}
	return &Raster{Width: width, Height: height, Pix: pix}, nil
}

// FromImage resamples img into a width x height raster. A zero width or
// height keeps the source size along that axis. Transparent pixels end up
// composited over black.
func FromImage(img image.Image, width, height int) (*Raster, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	bounds := img.Bounds()
	if width == 0 {
		width = bounds.Dx()
	}
	if height == 0 {
		height = bounds.Dy()
	}
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}

	if width != bounds.Dx() || height != bounds.Dy() {
		img = resample(img, width, height)
		bounds = img.Bounds()
	}

	pix := make([]uint8, 0, 3*width*height)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			pix = append(pix, c.R, c.G, c.B)
		}
	}
	return &Raster{Width: width, Height: height, Pix: pix}, nil
}

// resample picks bilinear filtering for large downscales and nearest
// neighbor otherwise
func resample(img image.Image, width, height int) image.Image {
	interp := resize.NearestNeighbor
	if img.Bounds().Dx()*img.Bounds().Dy() > width*height*4 {
		interp = resize.Bilinear
	}
	return resize.Resize(uint(width), uint(height), img, interp)
}

func checkDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}
	return nil
}

// ColorModel implements image.Image
func (r *Raster) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements image.Image
func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Width, r.Height)
}

// At implements image.Image
func (r *Raster) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(r.Bounds()) {
		return color.RGBA{}
	}
	i := 3 * (y*r.Width + x)
	return color.RGBA{R: r.Pix[i], G: r.Pix[i+1], B: r.Pix[i+2], A: 0xff}
}

// Opaque reports that every pixel is fully opaque
func (r *Raster) Opaque() bool {
	return true
}
