package kittyimg

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// queryTimeout bounds how long we wait for a terminal to answer a query
const queryTimeout = 100 * time.Millisecond

// kittyQueryID is the image id used by the support query; nothing is stored under it
const kittyQueryID = "31"

// KittySupported checks if the current terminal supports the Kitty graphics protocol
func KittySupported() bool {
	if kittySupportedFromEnv() {
		return true
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}
	return queryKittySupport()
}

// kittySupportedFromEnv is the fast path: well known terminals advertise themselves
func kittySupportedFromEnv() bool {
	// Contour sets CONTOUR_PROFILE but doesn't speak the graphics protocol,
	// while variables of the parent terminal can leak into it
	if os.Getenv("CONTOUR_PROFILE") != "" {
		return false
	}
	switch {
	case os.Getenv("KITTY_WINDOW_ID") != "":
		return true
	case strings.Contains(strings.ToLower(os.Getenv("TERM")), "kitty"):
		return true
	case os.Getenv("TERM_PROGRAM") == "ghostty":
		return true
	case os.Getenv("GHOSTTY_RESOURCES_DIR") != "":
		return true
	case strings.Contains(os.Getenv("TERMINFO"), "Ghostty"): // tmux
		return true
	case os.Getenv("TERM_PROGRAM") == "WezTerm":
		return true
	default:
		return false
	}
}

// queryKittySupport sends a graphics query followed by a primary device
// attributes request. Terminals without the protocol only answer the latter.
func queryKittySupport() bool {
	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return false
	}
	defer term.Restore(int(os.Stdin.Fd()), oldState)

	query := fmt.Sprintf("%si=%s,s=1,v=1,a=q,t=d,f=24;AAAA%s", escStart, kittyQueryID, escEnd)
	if InTmux() {
		query = wrapTmuxPassthrough(query)
	}
	if _, err := os.Stdout.WriteString(query + "\x1b[c"); err != nil {
		return false
	}

	responseChan := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 256)
		n, err := os.Stdin.Read(buf)
		if err != nil {
			responseChan <- nil
			return
		}
		responseChan <- buf[:n]
	}()

	select {
	case in := <-responseChan:
		resp, err := parseResponse(in)
		if err != nil {
			return false
		}
		return resp.ID == kittyQueryID
	case <-time.After(queryTimeout):
		return false
	}
}

// SixelSupported checks environment variables for a Sixel capable terminal
func SixelSupported() bool {
	termEnv := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")

	switch {
	case strings.Contains(termEnv, "sixel"):
		return true
	case strings.Contains(termEnv, "mlterm"):
		return true
	case strings.Contains(termEnv, "foot"):
		return true
	case strings.Contains(termEnv, "xterm") && os.Getenv("XTERM_VERSION") != "":
		// xterm needs to be started with -ti 340
		return true
	case strings.Contains(termEnv, "yaft"):
		return true
	}

	switch {
	case termProgram == "iTerm.app":
		return true
	case termProgram == "mintty":
		return true
	case termProgram == "contour" || os.Getenv("CONTOUR_PROFILE") != "":
		return true
	}
	return false
}
