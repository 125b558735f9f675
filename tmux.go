package kittyimg

import (
	"os"
	"os/exec"
	"strings"
	"sync"
)

// Global cache for tmux passthrough enablement
var (
	tmuxPassthroughEnabled bool
	tmuxPassthroughOnce    sync.Once
)

// Global variable to force tmux mode
var (
	forceTmux      bool
	forceTmuxMutex sync.RWMutex
)

// ForceTmux sets the global flag to force tmux passthrough mode
func ForceTmux(force bool) {
	forceTmuxMutex.Lock()
	defer forceTmuxMutex.Unlock()
	forceTmux = force
}

// IsTmuxForced returns whether tmux mode is being forced
func IsTmuxForced() bool {
	forceTmuxMutex.RLock()
	defer forceTmuxMutex.RUnlock()
	return forceTmux
}

// InTmux reports whether we are running inside tmux or tmux mode is forced
func InTmux() bool {
	if IsTmuxForced() {
		return true
	}
	return os.Getenv("TMUX") != "" || os.Getenv("TERM_PROGRAM") == "tmux"
}

// EnableTmuxPassthrough turns on allow-passthrough for the current pane.
// Graphics escapes are dropped by tmux without it. Only the first call runs tmux.
func EnableTmuxPassthrough() bool {
	tmuxPassthroughOnce.Do(func() {
		// -p flag sets the option for the current pane only
		cmd := exec.Command("tmux", "set", "-p", "allow-passthrough", "on")
		cmd.Stdin = nil
		cmd.Stdout = nil
		cmd.Stderr = nil

		if err := cmd.Run(); err == nil {
			tmuxPassthroughEnabled = true
		}
	})
	return tmuxPassthroughEnabled
}

// wrapTmuxPassthrough wraps a single escape sequence for tmux passthrough:
// \ePtmux;{sequence with every \e doubled}\e\\
func wrapTmuxPassthrough(seq string) string {
	if !strings.HasPrefix(seq, "\x1b") {
		return seq
	}
	return "\x1bPtmux;" + strings.ReplaceAll(seq, "\x1b", "\x1b\x1b") + "\x1b\\"
}
