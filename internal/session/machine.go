// Package session sequences the capture, transcription, dialogue and
// display phases behind the push-to-talk control. One cycle is in flight at
// a time; every phase runs to completion before the next starts.
package session

import (
	"context"
	log "log/slog"
	"os"
	"time"

	"talkie/internal/button"
	"talkie/internal/display"
)

// Transcriber turns a finished container into text. Empty means no
// transcript was produced.
type Transcriber interface {
	Transcribe(path string) string
}

// Responder exchanges a transcript for a reply. Empty means the exchange
// failed.
type Responder interface {
	Converse(ctx context.Context, text string) string
}

// Config carries the pacing knobs of the loop. All values must be positive;
// config.Load guarantees that for the daemon.
type Config struct {
	PollInterval time.Duration
	FailurePause time.Duration
	DisplayHold  time.Duration
	Cooldown     time.Duration
}

// Machine is the control state machine. It owns the screen and the spool
// for the lifetime of the process and mutates its state from a single
// goroutine only.
type Machine struct {
	input  button.Input
	rec    Recorder
	stt    Transcriber
	dlg    Responder
	screen display.Screen
	events Events
	cfg    Config

	state State

	// per-cycle carry, reset on return to Idle
	container  string
	transcript string
	reply      string
}

func NewMachine(
	input button.Input,
	rec Recorder,
	stt Transcriber,
	dlg Responder,
	screen display.Screen,
	events Events,
	cfg Config,
) *Machine {
	if events == nil {
		events = Nop{}
	}
	return &Machine{
		input:  input,
		rec:    rec,
		stt:    stt,
		dlg:    dlg,
		screen: screen,
		events: events,
		cfg:    cfg,
		state:  StateIdle,
	}
}

// State reports the current state; useful for tests and diagnostics.
func (m *Machine) State() State { return m.state }

// Run loops forever, restarting at Idle after every cycle including failed
// ones, until ctx is cancelled.
func (m *Machine) Run(ctx context.Context) {
	m.screen.Show("Ready", "Hold the button and speak")
	for ctx.Err() == nil {
		m.Step(ctx)
	}
}

// Step executes the current state once and performs at most one transition.
func (m *Machine) Step(ctx context.Context) {
	switch m.state {
	case StateIdle:
		if m.input.Pressed() {
			m.to(StateRecording)
			return
		}
		m.pause(ctx, m.cfg.PollInterval)

	case StateRecording:
		m.screen.Show("Listening...", "")
		path, ok := m.rec.Record(m.input.Pressed)
		m.container = path
		if !ok {
			// No path at all means the spool rejected us before a single
			// sample was taken.
			if path == "" {
				m.fail(ctx, "Recording failed", "could not write to the spool")
				return
			}
			m.fail(ctx, "Too short", "hold the button while speaking")
			return
		}
		m.to(StateTranscribing)

	case StateTranscribing:
		m.screen.Show("Thinking...", "")
		m.transcript = m.stt.Transcribe(m.container)
		if m.transcript == "" {
			m.fail(ctx, "No speech caught", "try again")
			return
		}
		log.Info("transcribed", "text", m.transcript)
		m.events.Event(EventTranscript, m.transcript)
		m.to(StateResponding)

	case StateResponding:
		m.reply = m.dlg.Converse(ctx, m.transcript)
		if m.reply != "" {
			m.events.Event(EventReply, m.reply)
		}
		m.to(StateDisplaying)

	case StateDisplaying:
		if m.reply == "" {
			m.screen.Show("No reply", "the assistant did not answer")
		} else {
			m.screen.Show("Talkie", display.Format(m.reply))
			m.cleanup()
		}
		m.pause(ctx, m.cfg.DisplayHold)
		m.to(StateCooldown)

	case StateCooldown:
		m.pause(ctx, m.cfg.Cooldown)
		m.waitReleased(ctx)
		m.reset()
		m.screen.Show("Ready", "")
		m.to(StateIdle)
	}
}

func (m *Machine) to(next State) {
	m.state = next
	log.Debug("state", "now", next)
	m.events.Event(EventState, string(next))
}

// fail shows a brief notice and takes the fast path back to Idle. The
// container, if any, is left in the spool for diagnostics.
func (m *Machine) fail(ctx context.Context, status, detail string) {
	log.Warn("cycle failed", "state", m.state, "status", status)
	m.events.Event(EventError, status)
	m.screen.Show(status, detail)
	m.pause(ctx, m.cfg.FailurePause)
	m.waitReleased(ctx)
	m.reset()
	m.screen.Show("Ready", "")
	m.to(StateIdle)
}

// cleanup removes the container once a cycle has fully succeeded.
func (m *Machine) cleanup() {
	if m.container == "" {
		return
	}
	if err := os.Remove(m.container); err != nil {
		log.Warn("remove container", "path", m.container, "err", err)
	}
	m.container = ""
}

func (m *Machine) reset() {
	m.container = ""
	m.transcript = ""
	m.reply = ""
}

// waitReleased blocks until the control reads not-pressed, so a still-held
// button cannot re-trigger a fresh cycle.
func (m *Machine) waitReleased(ctx context.Context) {
	for ctx.Err() == nil && m.input.Pressed() {
		m.pause(ctx, m.cfg.PollInterval)
	}
}

func (m *Machine) pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
