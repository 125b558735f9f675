package kittyimg

import (
	"fmt"
	"strings"
)

// Protocol is the output method used to put a raster on screen
type Protocol int

const (
	Unsupported Protocol = iota
	Auto
	Kitty
	Sixel
	Halfblocks
)

func (p Protocol) String() string {
	switch p {
	case Auto:
		return "auto"
	case Kitty:
		return "kitty"
	case Sixel:
		return "sixel"
	case Halfblocks:
		return "halfblocks"
	default:
		return "unsupported"
	}
}

// ParseProtocol maps a protocol name (case-insensitive) to a Protocol
func ParseProtocol(name string) (Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return Auto, nil
	case "kitty":
		return Kitty, nil
	case "sixel":
		return Sixel, nil
	case "halfblocks", "blocks":
		return Halfblocks, nil
	default:
		return Unsupported, fmt.Errorf("unsupported protocol: %q", name)
	}
}

// DetectProtocol returns the best protocol the terminal supports. Halfblocks
// always works, so the result is never Unsupported.
func DetectProtocol() Protocol {
	if KittySupported() {
		return Kitty
	}
	if SixelSupported() {
		return Sixel
	}
	return Halfblocks
}

// Resolve turns Auto into a concrete protocol and passes others through
func (p Protocol) Resolve() Protocol {
	if p == Auto {
		return DetectProtocol()
	}
	return p
}
