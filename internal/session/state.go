package session

// State models one capture-to-display cycle. Idle is both the initial state
// and the return point of every cycle, failed or not.
type State string

const (
	StateIdle         State = "idle"
	StateRecording    State = "recording"
	StateTranscribing State = "transcribing"
	StateResponding   State = "responding"
	StateDisplaying   State = "displaying"
	StateCooldown     State = "cooldown"
)

// Events receives session observations (state changes, transcripts, replies,
// failures). The bus satisfies this; Nop drops everything.
type Events interface {
	Event(kind, content string)
}

// Event kinds published by the machine.
const (
	EventState      = "state"
	EventTranscript = "transcript"
	EventReply      = "reply"
	EventError      = "error"
)

type Nop struct{}

func (Nop) Event(string, string) {}
