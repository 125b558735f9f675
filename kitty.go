package kittyimg

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Kitty graphics protocol APC delimiters
const (
	escStart = "\x1b_G"
	escEnd   = "\x1b\\"
)

// Quietness controls which terminal responses are suppressed (the q= key)
type Quietness int

const (
	// QuietAll suppresses OK and error responses (q=2)
	QuietAll Quietness = iota
	// QuietErrorsOnly suppresses OK responses but still reports errors (q=1)
	QuietErrorsOnly
	// QuietNone lets the terminal answer every command (q=0)
	QuietNone
)

func (q Quietness) value() int {
	switch q {
	case QuietErrorsOnly:
		return 1
	case QuietNone:
		return 0
	default:
		return 2
	}
}

// FramerOptions configures a Framer
type FramerOptions struct {
	// ChunkSize is the number of base64 characters per escape sequence.
	// Zero means CHUNK_SIZE; larger values are clamped to CHUNK_SIZE.
	ChunkSize int
	Quiet     Quietness
	// Tmux wraps every graphics command in a tmux passthrough sequence
	Tmux bool
}

// Framer writes Kitty graphics commands to an output stream, one write per
// escape sequence, in call order. A Framer is not safe for concurrent use.
type Framer struct {
	w         io.Writer
	chunkSize int
	quiet     int
	tmux      bool
}

// NewFramer returns a Framer writing to w. opts may be nil.
func NewFramer(w io.Writer, opts *FramerOptions) *Framer {
	if opts == nil {
		opts = &FramerOptions{}
	}
	size := opts.ChunkSize
	if size <= 0 || size > CHUNK_SIZE {
		size = CHUNK_SIZE
	}
	return &Framer{
		w:         w,
		chunkSize: size,
		quiet:     opts.Quiet.value(),
		tmux:      opts.Tmux,
	}
}

// Chunk is one slice of a base64 payload
type Chunk struct {
	Index int
	Data  string
	First bool
	Last  bool
}

// More returns the m= flag: 1 when more chunks follow, else 0
func (c Chunk) More() int {
	if c.Last {
		return 0
	}
	return 1
}

// Chunks splits payload into pieces of size characters; only the last may be
// shorter. size <= 0 or above CHUNK_SIZE means CHUNK_SIZE. An empty payload
// yields one empty chunk so that a transmission is always terminated.
func Chunks(payload string, size int) []Chunk {
	if size <= 0 || size > CHUNK_SIZE {
		size = CHUNK_SIZE
	}
	if payload == "" {
		return []Chunk{{Index: 0, First: true, Last: true}}
	}

	chunks := make([]Chunk, 0, (len(payload)+size-1)/size)
	for i := 0; i < len(payload); i += size {
		end := min(i+size, len(payload))
		chunks = append(chunks, Chunk{
			Index: len(chunks),
			Data:  payload[i:end],
			First: i == 0,
			Last:  end == len(payload),
		})
	}
	return chunks
}

// Transmit sends a base64 payload as image id using direct transmission of
// PNG data (f=100,t=d,a=t). Nothing is displayed until a placement exists.
func (f *Framer) Transmit(id uint32, payload string) error {
	for _, c := range Chunks(payload, f.chunkSize) {
		if err := f.writeChunk(id, c); err != nil {
			return err
		}
	}
	return nil
}

// TransmitImage base64-encodes img and transmits it as image id
func (f *Framer) TransmitImage(id uint32, img EncodedImage) error {
	if len(img) == 0 || f.chunkSize%4 != 0 {
		return f.Transmit(id, img.Base64())
	}

	// chunkSize/4*3 raw bytes encode to exactly chunkSize characters without padding
	pieces := ChunkedBase64Encode(img, f.chunkSize/4*3)
	for i, data := range pieces {
		c := Chunk{Index: i, Data: data, First: i == 0, Last: i == len(pieces)-1}
		if err := f.writeChunk(id, c); err != nil {
			return err
		}
	}
	return nil
}

func (f *Framer) writeChunk(id uint32, c Chunk) error {
	var sb strings.Builder
	sb.Grow(len(escStart) + 48 + len(c.Data) + len(escEnd))
	sb.WriteString(escStart)
	if c.First {
		fmt.Fprintf(&sb, "f=100,t=d,a=t,i=%d,q=%d,m=%d;", id, f.quiet, c.More())
	} else {
		fmt.Fprintf(&sb, "m=%d;", c.More())
	}
	sb.WriteString(c.Data)
	sb.WriteString(escEnd)

	if err := f.write(sb.String()); err != nil {
		return fmt.Errorf("chunk %d: %w", c.Index, err)
	}
	return nil
}

// Place declares a virtual placement of image g.ImageID over g.Columns x
// g.Rows cells (a=p,U=1). The image appears wherever placeholder cells for
// that id are printed.
func (f *Framer) Place(g Grid) error {
	if err := g.Validate(); err != nil {
		return err
	}
	return f.write(fmt.Sprintf("%sa=p,U=1,i=%d,c=%d,r=%d,q=%d;%s",
		escStart, g.ImageID, g.Columns, g.Rows, f.quiet, escEnd))
}

// Show transmits img as g.ImageID and then declares its virtual placement
func (f *Framer) Show(img EncodedImage, g Grid) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if err := f.TransmitImage(g.ImageID, img); err != nil {
		return fmt.Errorf("failed to transmit image %d: %w", g.ImageID, err)
	}
	if err := f.Place(g); err != nil {
		return fmt.Errorf("failed to place image %d: %w", g.ImageID, err)
	}
	return nil
}

// Delete frees image id and all of its placements (a=d,d=I)
func (f *Framer) Delete(id uint32) error {
	return f.write(fmt.Sprintf("%sa=d,d=I,i=%d,q=%d;%s", escStart, id, f.quiet, escEnd))
}

func (f *Framer) write(seq string) error {
	if f.tmux {
		seq = wrapTmuxPassthrough(seq)
	}
	if _, err := io.WriteString(f.w, seq); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	return nil
}

// KittyResponse is a terminal reply to a graphics command
type KittyResponse struct {
	ID      string
	Message string
}

// ErrEmptyResponse is returned when the terminal sent nothing back
var ErrEmptyResponse = fmt.Errorf("empty response")

// parseResponse parses replies of the form ESC _G i=<id> ; <message> ESC \
func parseResponse(in []byte) (*KittyResponse, error) {
	in = bytes.TrimSpace(in)
	if len(in) == 0 {
		return nil, ErrEmptyResponse
	}
	var resp KittyResponse
	if start := bytes.Index(in, []byte(escStart)); start >= 0 {
		in = in[start+len(escStart):]
	}
	if end := bytes.Index(in, []byte(escEnd)); end >= 0 {
		in = in[:end]
	}
	fields := bytes.Split(in, []byte(";"))
	for _, field := range fields {
		kv := bytes.Split(field, []byte("="))
		if len(kv) != 2 {
			resp.Message = string(field)
			continue
		}
		switch string(kv[0]) {
		case "i":
			resp.ID = string(kv[1])
		default:
			return nil, fmt.Errorf("unknown field: %s", string(kv[0]))
		}
	}
	return &resp, nil
}
