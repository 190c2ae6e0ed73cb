package replay

import (
	"log"
	"sync"
)

// SessionConfig tunes one replay session.
type SessionConfig struct {
	MaxRecordSeconds float64 // recording duration cap
	MinSpeed         float64 // playback speed clamp, lower bound
	MaxSpeed         float64 // playback speed clamp, upper bound
	DefaultSpeed     float64 // speed applied when playback starts
	GraceSeconds     float64 // EndingGrace delay before auto-stop
	NearDeathHP      float64 // near-death band for event synthesis
	FrameCapHint     int     // store pre-allocation hint in steps
}

// DefaultSessionConfig returns the tuning used when nothing is configured.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		MaxRecordSeconds: 120,
		MinSpeed:         0.25,
		MaxSpeed:         4.0,
		DefaultSpeed:     1.0,
		GraceSeconds:     1.5,
		NearDeathHP:      1.0,
		FrameCapHint:     120 * 60, // cap duration at 60 steps/s
	}
}

// Session owns one recording and its playback. It is the single owner of
// the frame store: starting a new recording discards any prior content.
//
// The core is step-driven; all store and playback mutation happens inside
// one Step call per fixed simulation tick. The mutex only serializes the
// control surface (HTTP handlers issuing seek/speed/mode) against that
// loop. There is never more than one in-flight session.
type Session struct {
	mu  sync.Mutex
	cfg SessionConfig

	store  *FrameStore
	rec    *Recorder
	ghosts Reconstructor
	notify Notifier

	phase Phase
	mode  Mode
	speed float64

	playTime      float64
	index         int
	lastProcessed int // last snapshot whose events have been replayed
	graceLeft     float64

	pausable Pausable
}

// NewSession creates a session. ghosts must not be nil; notify may be nil
// to discard notifications.
func NewSession(cfg SessionConfig, ghosts Reconstructor, notify Notifier) *Session {
	if cfg.MaxRecordSeconds <= 0 {
		cfg = DefaultSessionConfig()
	}
	if notify == nil {
		notify = NopNotifier{}
	}
	store := NewFrameStore(cfg.FrameCapHint)
	return &Session{
		cfg:    cfg,
		store:  store,
		rec:    NewRecorder(store, RecorderConfig{MaxSeconds: cfg.MaxRecordSeconds, NearDeathHP: cfg.NearDeathHP}),
		ghosts: ghosts,
		notify: notify,
		phase:  PhaseIdle,
		mode:   ModeFullFidelity,
		speed:  cfg.DefaultSpeed,
	}
}

// SetJournal attaches an optional recording journal.
func (s *Session) SetJournal(j *Journal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.SetJournal(j)
}

// StartRecording discards any prior recording and begins sampling the
// given level and entities. Stops playback first if one is running.
func (s *Session) StartRecording(level Level, player Trackable, enemies []Trackable) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.playing() {
		s.stopPlaybackLocked()
	}
	if p, ok := level.(Pausable); ok {
		s.pausable = p
	} else {
		s.pausable = nil
	}
	s.rec.Start(level, player, enemies)
	s.phase = PhaseRecording
}

// StopRecording halts sampling. No-op with a diagnostic if not recording.
func (s *Session) StopRecording() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseRecording {
		log.Printf("💡 StopRecording ignored: not recording (phase=%s)", s.phase)
		return
	}
	s.rec.Stop()
	s.afterRecordingLocked()
}

// Clear drops the recorded session. Stops recording and playback first.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseRecording {
		s.rec.Stop()
	}
	if s.playing() {
		s.stopPlaybackLocked()
	}
	s.store.Reset()
	s.phase = PhaseIdle
	log.Println("🗑️ Replay cleared")
}

// Step advances the session by one fixed simulation step. This is the
// single record-or-play entry point the external scheduler drives.
func (s *Session) Step(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseRecording:
		s.rec.RecordStep(dt)
		if !s.rec.Recording() {
			// Recorder hit the duration cap and stopped itself.
			s.afterRecordingLocked()
		}
	case PhasePlaying:
		s.tickPlayingLocked(dt)
	case PhaseEndingGrace:
		s.graceLeft -= dt
		if s.graceLeft <= 0 {
			s.stopPlaybackLocked()
		}
	}
}

// StartPlayback begins a playback pass from time zero. Requires a
// non-empty store and no active recording; otherwise a diagnostic no-op.
// The live scene is frozen for the duration of playback.
func (s *Session) StartPlayback() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseRecording {
		log.Println("💡 StartPlayback ignored: still recording")
		return
	}
	if s.store.Len() == 0 {
		log.Println("💡 StartPlayback ignored: no recorded frames")
		return
	}
	if s.playing() {
		log.Println("💡 StartPlayback ignored: already playing")
		return
	}

	s.speed = s.cfg.DefaultSpeed
	s.setPaused(true)
	s.beginPassLocked()
	s.notify.PlaybackStarted(s.store.Duration())
	log.Printf("▶️ Playback started: %d frames, %.2fs, mode=%s", s.store.Len(), s.store.Duration(), s.mode)
}

// StopPlayback tears the ghosts down and unfreezes the live scene.
// Idempotent if already stopped.
func (s *Session) StopPlayback() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.playing() {
		log.Printf("💡 StopPlayback ignored: not playing (phase=%s)", s.phase)
		return
	}
	s.stopPlaybackLocked()
}

// Seek jumps the playhead to t (clamped to [0, duration]). The
// event-replay cursor is reset so the region newly entered replays its
// events even when seeking backward past previously-played ones.
func (s *Session) Seek(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.playing() {
		log.Printf("💡 Seek ignored: not playing (phase=%s)", s.phase)
		return
	}

	duration := s.store.Duration()
	if t < 0 {
		t = 0
	}
	if t > duration {
		t = duration
	}

	s.playTime = t
	s.index = s.store.SeekIndex(t) // full scan, seek can move backward
	s.lastProcessed = s.index - 1
	s.applyThroughLocked(s.index, 0)
	s.phase = PhasePlaying
	s.notify.Progress(s.playTime, duration)
}

// SetSpeed sets the playback speed multiplier, clamped to the configured
// range. Affects only virtual-time advance, never the recorded sampling.
func (s *Session) SetSpeed(speed float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clamped := speed
	if clamped < s.cfg.MinSpeed {
		clamped = s.cfg.MinSpeed
	}
	if clamped > s.cfg.MaxSpeed {
		clamped = s.cfg.MaxSpeed
	}
	if clamped != speed {
		log.Printf("💡 Playback speed %.2f clamped to %.2f", speed, clamped)
	}
	s.speed = clamped
}

// SetMode switches the presentation mode. While playing this forces a
// full restart of the pass from time zero, so progressive artifacts and
// effect state rebuild from a clean baseline.
func (s *Session) SetMode(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m == s.mode {
		return
	}
	s.mode = m
	s.ghosts.SetMode(m)
	log.Printf("🎨 Presentation mode: %s", m)

	if s.playing() {
		s.ghosts.Teardown()
		s.beginPassLocked()
		log.Println("🔁 Playback restarted for mode switch")
	}
}

// HasReplay reports whether a recorded session exists.
func (s *Session) HasReplay() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Len() > 0
}

// Duration returns the recorded duration in seconds.
func (s *Session) Duration() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Duration()
}

// IsRecording reports whether the session is sampling the live scene.
func (s *Session) IsRecording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase == PhaseRecording
}

// IsPlaying reports whether a playback pass is active (including the
// ending-grace window).
func (s *Session) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing()
}

// Phase returns the current state-machine phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Mode returns the current presentation mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Speed returns the current playback speed multiplier.
func (s *Session) Speed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speed
}

// Progress returns the playhead position and the total duration.
func (s *Session) Progress() (current, total float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total = s.store.Duration()
	current = s.playTime
	if current > total {
		current = total
	}
	return current, total
}

// Frames returns the number of recorded snapshots.
func (s *Session) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Len()
}

// EventsSynthesized returns the running total of discrete events the
// recorder has derived, across all recording passes.
func (s *Session) EventsSynthesized() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.EventsSynthesized()
}

// playing reports an active pass. Callers hold the mutex.
func (s *Session) playing() bool {
	return s.phase == PhasePlaying || s.phase == PhaseEndingGrace
}

func (s *Session) afterRecordingLocked() {
	if s.store.Len() > 0 {
		s.phase = PhaseStopped
	} else {
		s.phase = PhaseIdle
	}
}

// beginPassLocked starts a playback pass at time zero: fresh ghosts, the
// first snapshot as progressive-spawn baseline, cursors reset.
func (s *Session) beginPassLocked() {
	s.playTime = 0
	s.index = 0
	s.lastProcessed = -1
	s.ghosts.SetMode(s.mode)
	s.ghosts.Rebuild(s.rec.Meta(), s.store.At(0))
	s.applyThroughLocked(0, 0)
	s.phase = PhasePlaying
}

func (s *Session) tickPlayingLocked(dt float64) {
	s.playTime += dt * s.speed
	duration := s.store.Duration()

	target := s.store.IndexAt(s.playTime, s.index)
	s.applyThroughLocked(target, dt)
	s.index = target
	s.notify.Progress(min(s.playTime, duration), duration)

	if s.playTime >= duration {
		// Final snapshot is applied above; linger briefly before
		// auto-stop so the last pose is readable.
		s.phase = PhaseEndingGrace
		s.graceLeft = s.cfg.GraceSeconds
	}
}

// applyThroughLocked replays the events of every snapshot between the
// event cursor and target, in index order, then applies target's
// continuous state. Skipping indices at high speed still plays every
// skipped snapshot's events exactly once: no shot or explosion is
// silently dropped.
func (s *Session) applyThroughLocked(target int, dt float64) {
	if target < 0 {
		return
	}
	for i := s.lastProcessed + 1; i <= target; i++ {
		if snap := s.store.At(i); snap != nil && len(snap.Events) > 0 {
			s.ghosts.PlayEvents(snap.Events)
		}
	}
	if snap := s.store.At(target); snap != nil {
		s.ghosts.Apply(snap, dt)
	}
	s.lastProcessed = target
}

func (s *Session) stopPlaybackLocked() {
	s.ghosts.Teardown()
	s.setPaused(false)
	s.phase = PhaseStopped
	s.notify.PlaybackEnded()
	log.Println("⏹️ Playback stopped")
}

func (s *Session) setPaused(paused bool) {
	if s.pausable != nil {
		s.pausable.SetPaused(paused)
	}
}
