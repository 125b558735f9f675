package kittyimg

import (
	"fmt"
	"io"
	"strings"
)

// Defaults used when an Image is not configured further
const (
	DefaultImageID = 999
	DefaultColumns = 10
	DefaultRows    = 5
)

// Image ties a raster to an id, a cell grid and an output protocol with a
// fluent API. The PNG encoding is computed once and cached.
type Image struct {
	raster   *Raster
	id       uint32
	cols     int
	rows     int
	protocol Protocol
	resolved Protocol
	tmux     bool
	quiet    Quietness

	encoded EncodedImage
}

// New creates an Image for raster with the default id and automatic protocol selection
func New(raster *Raster) *Image {
	if raster == nil {
		return nil
	}
	return &Image{
		raster:   raster,
		id:       DefaultImageID,
		cols:     DefaultColumns,
		rows:     DefaultRows,
		protocol: Auto,
	}
}

// ID sets the image id used for transmission and placeholder colors
func (i *Image) ID(id uint32) *Image {
	i.id = id
	return i
}

// Size sets the placement size in character cells
func (i *Image) Size(cols, rows int) *Image {
	i.cols = cols
	i.rows = rows
	return i
}

// Protocol sets the output protocol
func (i *Image) Protocol(p Protocol) *Image {
	i.protocol = p
	i.resolved = Unsupported
	return i
}

// Tmux wraps graphics commands for tmux passthrough
func (i *Image) Tmux(t bool) *Image {
	i.tmux = t
	return i
}

// Quiet sets which terminal responses are suppressed
func (i *Image) Quiet(q Quietness) *Image {
	i.quiet = q
	return i
}

// Grid returns the placement grid for the configured id and size
func (i *Image) Grid() Grid {
	return Grid{ImageID: i.id, Columns: i.cols, Rows: i.rows}
}

// Encoded returns the PNG encoding of the raster
func (i *Image) Encoded() (EncodedImage, error) {
	if i.encoded == nil {
		data, err := i.raster.Encode()
		if err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}
		i.encoded = data
	}
	return i.encoded, nil
}

// ResolvedProtocol returns the protocol in use, running detection once for Auto
func (i *Image) ResolvedProtocol() Protocol {
	if i.resolved == Unsupported {
		i.resolved = i.protocol.Resolve()
	}
	return i.resolved
}

func (i *Image) framer(w io.Writer) *Framer {
	return NewFramer(w, &FramerOptions{Quiet: i.quiet, Tmux: i.tmux})
}

// Transmit uploads the image and declares its virtual placement. Only the
// Kitty protocol needs this step; for the others it writes nothing.
func (i *Image) Transmit(w io.Writer) error {
	if i.ResolvedProtocol() != Kitty {
		return nil
	}
	data, err := i.Encoded()
	if err != nil {
		return err
	}
	return i.framer(w).Show(data, i.Grid())
}

// Lines returns the text that makes the image visible: placeholder rows for
// Kitty, half block rows or a single Sixel sequence otherwise
func (i *Image) Lines() ([]string, error) {
	switch p := i.ResolvedProtocol(); p {
	case Kitty:
		return RenderGrid(i.Grid())
	case Sixel:
		out, err := RenderSixel(i.raster, DefaultSixelColors)
		if err != nil {
			return nil, err
		}
		if i.tmux {
			out = wrapTmuxPassthrough(out)
		}
		return []string{out}, nil
	case Halfblocks:
		out := strings.TrimRight(RenderHalfblocks(i.raster, i.cols, i.rows), "\n")
		return strings.Split(out, "\n"), nil
	default:
		return nil, fmt.Errorf("unsupported protocol: %s", p)
	}
}

// Print transmits the image and writes its lines, each followed by a newline
func (i *Image) Print(w io.Writer) error {
	if err := i.Transmit(w); err != nil {
		return err
	}
	lines, err := i.Lines()
	if err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return fmt.Errorf("%w: %w", ErrOutputWrite, err)
		}
	}
	return nil
}

// Clear deletes the transmitted image. Only Kitty keeps images in terminal memory.
func (i *Image) Clear(w io.Writer) error {
	if i.ResolvedProtocol() != Kitty {
		return nil
	}
	return i.framer(w).Delete(i.id)
}
