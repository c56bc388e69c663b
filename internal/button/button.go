// Package button exposes the push-to-talk control as a leveled, polled
// read. No debounce: the capture engine's minimum-duration check discards
// sub-threshold sessions, which covers single-cycle bounces.
package button

import (
	"bytes"
	"os"
	"sync"

	"talkie/internal/ipc"
)

// Input is a read-only level view of the control.
type Input interface {
	Pressed() bool
}

// Latch is an Input driven by press/release control messages. Zero value is
// released.
type Latch struct {
	mu      sync.Mutex
	pressed bool
}

func (l *Latch) Pressed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pressed
}

func (l *Latch) Set(pressed bool) {
	l.mu.Lock()
	l.pressed = pressed
	l.mu.Unlock()
}

// Handle routes an ipc control message into the latch.
func (l *Latch) Handle(msg ipc.ControlMessage) {
	switch msg.Cmd {
	case ipc.CmdPress:
		l.Set(true)
	case ipc.CmdRelease:
		l.Set(false)
	}
}

// GPIO reads a sysfs value file (e.g. /sys/class/gpio/gpio17/value) on every
// poll. activeLow inverts the reading for pull-up wiring.
type GPIO struct {
	Path      string
	ActiveLow bool
}

func (g *GPIO) Pressed() bool {
	raw, err := os.ReadFile(g.Path)
	if err != nil {
		return false
	}
	trimmed := bytes.TrimSpace(raw)
	high := len(trimmed) > 0 && trimmed[0] == '1'
	if g.ActiveLow {
		return !high
	}
	return high
}
