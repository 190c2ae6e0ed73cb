package replay

// Mode selects the presentation style of a playback pass.
//
// Stylized renders a desaturated, tinted overlay with no gameplay-effect
// replay and no progressive floor artifacts. FullFidelity renders normal
// colors with discrete-event-driven effect replay, progressive floor
// artifacts and motion trails.
//
// Switching modes while playing forces a restart from time zero: the
// progressive-artifact and effect state is mode-specific and must be
// rebuilt from a clean baseline, otherwise artifacts double-spawn or the
// earlier ones are missing.
type Mode uint8

const (
	ModeStylized Mode = iota
	ModeFullFidelity
)

// String returns a stable mode name.
func (m Mode) String() string {
	switch m {
	case ModeStylized:
		return "stylized"
	case ModeFullFidelity:
		return "full"
	default:
		return "unknown"
	}
}

// ParseMode maps a mode name back to a Mode. Unknown names report ok=false.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "stylized":
		return ModeStylized, true
	case "full", "full_fidelity":
		return ModeFullFidelity, true
	default:
		return ModeStylized, false
	}
}

// Phase is the playback state machine.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseRecording
	PhasePlaying
	PhaseEndingGrace
	PhaseStopped
)

// String returns a stable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRecording:
		return "recording"
	case PhasePlaying:
		return "playing"
	case PhaseEndingGrace:
		return "ending_grace"
	case PhaseStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
