package kittyimg

import "fmt"

var (
	// ErrInvalidDimension is returned for non-positive widths, heights,
	// column or row counts, and for pixel buffers of the wrong length
	ErrInvalidDimension = fmt.Errorf("invalid dimension")
	// ErrInvalidColorComponent is returned when a color component is outside [0,255]
	ErrInvalidColorComponent = fmt.Errorf("invalid color component")
	// ErrUnsupportedRowIndex is returned when a placeholder row has no diacritic
	ErrUnsupportedRowIndex = fmt.Errorf("unsupported row index")
	// ErrImageIDRange is returned when an image id does not fit in 24 bits
	ErrImageIDRange = fmt.Errorf("image id out of 24-bit range")
	// ErrOutputWrite wraps any failure of the underlying output stream
	ErrOutputWrite = fmt.Errorf("output write failure")
)

func checkImageID(id uint32) error {
	if id > MaxImageID {
		return fmt.Errorf("%w: %d", ErrImageIDRange, id)
	}
	return nil
}
