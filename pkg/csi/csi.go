/*
Package csi provides CSI (Control Sequence Introducer) queries for terminal cell geometry
*/
package csi

import (
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"
)

// QueryTimeout is the default timeout for CSI queries
const QueryTimeout = 100 * time.Millisecond

// QueryCharacterCellSizeInPixels queries character cell size in pixels using CSI 16t
// returns: width and height in pixels per character, or 0,0,false if query fails
func QueryCharacterCellSizeInPixels() (width, height int, ok bool) {
	query := "\x1b[16t"
	if inTmux() {
		query = wrapTmuxPassthrough(query)
	}

	// Open controlling terminal
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return 0, 0, false
	}
	defer tty.Close()

	oldState, err := term.MakeRaw(int(tty.Fd()))
	if err != nil {
		return 0, 0, false
	}
	defer term.Restore(int(tty.Fd()), oldState)

	if _, err := tty.WriteString(query); err != nil {
		return 0, 0, false
	}

	responseChan := make(chan [2]int, 1)
	go func() {
		buf := make([]byte, 64)
		n, err := tty.Read(buf)
		if err != nil || n == 0 {
			responseChan <- [2]int{0, 0}
			return
		}
		w, h := ParseCellSizeResponse(string(buf[:n]))
		responseChan <- [2]int{w, h}
	}()

	select {
	case result := <-responseChan:
		return result[0], result[1], result[0] > 0 && result[1] > 0
	case <-time.After(QueryTimeout):
		return 0, 0, false
	}
}

// ParseCellSizeResponse parses the reply to CSI 16t: ESC [ 6 ; height ; width t
func ParseCellSizeResponse(response string) (width, height int) {
	start := strings.Index(response, "[6;")
	if start == -1 {
		return 0, 0
	}
	remaining := response[start+3:]

	end := strings.IndexByte(remaining, 't')
	if end == -1 {
		return 0, 0
	}

	parts := strings.Split(remaining[:end], ";")
	if len(parts) < 2 {
		return 0, 0
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h <= 0 {
		return 0, 0
	}
	w, err := strconv.Atoi(parts[1])
	if err != nil || w <= 0 {
		return 0, 0
	}
	return w, h
}

// QuerySupported checks if a terminal likely supports CSI queries
// This is a heuristic based on terminal type and environment
func QuerySupported() bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}
	switch os.Getenv("TERM_PROGRAM") {
	case "Apple_Terminal":
		// Apple Terminal often has CSI queries disabled for security
		return false
	case "vscode":
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

func inTmux() bool {
	return os.Getenv("TMUX") != "" || os.Getenv("TERM_PROGRAM") == "tmux"
}

// wrapTmuxPassthrough doubles every ESC and wraps the sequence in \ePtmux; ... \e\\
func wrapTmuxPassthrough(output string) string {
	if !strings.HasPrefix(output, "\x1b") {
		return output
	}
	return "\x1bPtmux;" + strings.ReplaceAll(output, "\x1b", "\x1b\x1b") + "\x1b\\"
}
