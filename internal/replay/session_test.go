package replay

import (
	"testing"
)

// fakeCast records the Reconstructor calls the session makes.
type fakeCast struct {
	rebuilds  int
	teardowns int
	applied   []float64 // snapshot times passed to Apply
	events    []Event   // every event received, in arrival order
	mode      Mode
}

func (f *fakeCast) Rebuild(meta SessionMeta, first *Snapshot) { f.rebuilds++ }
func (f *fakeCast) Apply(snap *Snapshot, dt float64) {
	if snap != nil {
		f.applied = append(f.applied, snap.Time)
	}
}
func (f *fakeCast) PlayEvents(events []Event) { f.events = append(f.events, events...) }
func (f *fakeCast) SetMode(m Mode)            { f.mode = m }
func (f *fakeCast) Teardown()                 { f.teardowns++ }

// fakeNotify records lifecycle notifications.
type fakeNotify struct {
	started  int
	ended    int
	lastCur  float64
	lastTot  float64
}

func (f *fakeNotify) PlaybackStarted(duration float64) { f.started++ }
func (f *fakeNotify) PlaybackEnded()                   { f.ended++ }
func (f *fakeNotify) Progress(current, total float64)  { f.lastCur, f.lastTot = current, total }

func testSessionConfig() SessionConfig {
	cfg := DefaultSessionConfig()
	cfg.GraceSeconds = 0.1
	return cfg
}

// recordFrames drives a short recording: enemy takes a hit on step 3 and
// dies on step 5, a projectile appears on step 2.
func recordFrames(s *Session, level *fakeLevel, player, enemy *fakeActor, steps int) {
	s.StartRecording(level, player, []Trackable{enemy})
	for i := 1; i <= steps; i++ {
		switch i {
		case 2:
			level.projectiles = []LiveProjectile{{X: 5, Owner: OwnerPlayer}}
		case 3:
			enemy.health = 6
			level.projectiles = nil
		case 5:
			enemy.health = 0
			enemy.alive = false
		}
		s.Step(0.1)
	}
	s.StopRecording()
}

func newPlaybackSession(t *testing.T, steps int) (*Session, *fakeCast, *fakeNotify, *fakeLevel) {
	t.Helper()
	cast := &fakeCast{}
	notify := &fakeNotify{}
	s := NewSession(testSessionConfig(), cast, notify)

	level := &fakeLevel{}
	player := &fakeActor{alive: true, health: 10}
	enemy := &fakeActor{alive: true, health: 10}
	recordFrames(s, level, player, enemy, steps)
	return s, cast, notify, level
}

func TestSessionRecordThenStop(t *testing.T) {
	s, _, _, _ := newPlaybackSession(t, 6)

	if !s.HasReplay() {
		t.Fatal("recording should produce a replay")
	}
	if s.Frames() != 6 {
		t.Errorf("frames = %d, want 6", s.Frames())
	}
	if s.Phase() != PhaseStopped {
		t.Errorf("phase = %s, want stopped", s.Phase())
	}
}

func TestSessionPlaybackNoopsWithoutRecording(t *testing.T) {
	cast := &fakeCast{}
	s := NewSession(testSessionConfig(), cast, nil)

	s.StartPlayback()
	if s.IsPlaying() || cast.rebuilds != 0 {
		t.Error("playback with an empty store should be a no-op")
	}

	s.Seek(1.0)
	s.StopPlayback()
	if s.Phase() != PhaseIdle {
		t.Errorf("phase = %s, want idle", s.Phase())
	}
}

func TestSessionPlaybackLifecycle(t *testing.T) {
	s, cast, notify, level := newPlaybackSession(t, 6)

	s.StartPlayback()
	if !s.IsPlaying() || s.Phase() != PhasePlaying {
		t.Fatalf("phase = %s, want playing", s.Phase())
	}
	if cast.rebuilds != 1 {
		t.Errorf("rebuilds = %d, want 1", cast.rebuilds)
	}
	if notify.started != 1 {
		t.Errorf("started notifications = %d, want 1", notify.started)
	}
	if !level.paused {
		t.Error("live scene should be frozen during playback")
	}

	// Run well past the end plus the grace window.
	for i := 0; i < 12; i++ {
		s.Step(0.1)
	}

	if s.IsPlaying() {
		t.Error("playback should have auto-stopped after the grace window")
	}
	if cast.teardowns == 0 {
		t.Error("teardown should have run")
	}
	if notify.ended != 1 {
		t.Errorf("ended notifications = %d, want 1", notify.ended)
	}
	if level.paused {
		t.Error("live scene should unfreeze after playback")
	}
}

func TestSessionPlaybackReplaysAllEvents(t *testing.T) {
	s, cast, _, _ := newPlaybackSession(t, 6)

	s.StartPlayback()
	for i := 0; i < 10; i++ {
		s.Step(0.1)
	}

	if countEvents(cast.events, EventShot) != 1 {
		t.Errorf("shot events = %d, want 1", countEvents(cast.events, EventShot))
	}
	if countEvents(cast.events, EventEnemyHit) != 1 {
		t.Errorf("hit events = %d, want 1", countEvents(cast.events, EventEnemyHit))
	}
	if countEvents(cast.events, EventEnemyDeath) != 1 {
		t.Errorf("death events = %d, want 1", countEvents(cast.events, EventEnemyDeath))
	}
}

func TestSessionFastPlaybackSkipsNoEvents(t *testing.T) {
	s, cast, _, _ := newPlaybackSession(t, 6)

	s.StartPlayback()
	s.SetSpeed(4.0)
	// 0.2s of real time at 4x covers the whole 0.6s recording; frames are
	// skipped but every skipped frame's events must still arrive, once.
	s.Step(0.1)
	s.Step(0.1)

	if countEvents(cast.events, EventShot) != 1 ||
		countEvents(cast.events, EventEnemyHit) != 1 ||
		countEvents(cast.events, EventEnemyDeath) != 1 {
		t.Errorf("fast playback dropped or duplicated events: %v", cast.events)
	}

	// Order preserved: shot (t=0.2) before hit (t=0.3) before death (t=0.5).
	var order []EventType
	for _, ev := range cast.events {
		order = append(order, ev.Type)
	}
	wantOrder := []EventType{EventShot, EventEnemyHit, EventEnemyDeath}
	if len(order) != len(wantOrder) {
		t.Fatalf("events = %v", order)
	}
	for i := range wantOrder {
		if order[i] != wantOrder[i] {
			t.Errorf("event[%d] = %s, want %s", i, order[i], wantOrder[i])
		}
	}
}

func TestSessionSpeedClamp(t *testing.T) {
	s, _, _, _ := newPlaybackSession(t, 6)
	s.StartPlayback()

	tests := []struct {
		set  float64
		want float64
	}{
		{10.0, 4.0},
		{0.01, 0.25},
		{1.5, 1.5},
	}
	for _, tt := range tests {
		s.SetSpeed(tt.set)
		if got := s.Speed(); got != tt.want {
			t.Errorf("SetSpeed(%f): speed = %f, want %f", tt.set, got, tt.want)
		}
	}
}

func TestSessionSpeedResetsOnPlay(t *testing.T) {
	s, _, _, _ := newPlaybackSession(t, 6)

	s.StartPlayback()
	s.SetSpeed(4.0)
	s.StopPlayback()

	s.StartPlayback()
	if s.Speed() != 1.0 {
		t.Errorf("speed after restart = %f, want default 1.0", s.Speed())
	}
}

func TestSessionSeekReplaysRegionEvents(t *testing.T) {
	s, cast, _, _ := newPlaybackSession(t, 6)

	s.StartPlayback()
	for i := 0; i < 6; i++ {
		s.Step(0.1)
	}
	before := len(cast.events)

	// Now in the ending grace window; seek back before the shot.
	s.Seek(0.05)
	if s.Phase() != PhasePlaying {
		t.Fatalf("seek should resume playing, phase = %s", s.Phase())
	}
	for i := 0; i < 8; i++ {
		s.Step(0.1)
	}

	// The shot/hit/death events all replayed a second time.
	if got := len(cast.events); got != before+3 {
		t.Errorf("events after backward seek = %d, want %d", got, before+3)
	}
}

func TestSessionSeekClamps(t *testing.T) {
	s, _, notify, _ := newPlaybackSession(t, 6)
	s.StartPlayback()

	s.Seek(-5)
	if cur, _ := s.Progress(); cur != 0 {
		t.Errorf("seek(-5) playhead = %f, want 0", cur)
	}

	s.Seek(99)
	cur, total := s.Progress()
	if cur != total {
		t.Errorf("seek past end playhead = %f, want %f", cur, total)
	}
	if notify.lastTot != total {
		t.Errorf("progress notification total = %f, want %f", notify.lastTot, total)
	}
}

func TestSessionModeSwitchRestartsPass(t *testing.T) {
	s, cast, _, _ := newPlaybackSession(t, 6)

	s.StartPlayback()
	s.Step(0.1)
	s.Step(0.1)

	s.SetMode(ModeStylized)
	if cast.mode != ModeStylized {
		t.Errorf("cast mode = %s, want stylized", cast.mode)
	}
	if cast.rebuilds != 2 {
		t.Errorf("rebuilds = %d, want 2 (restart on mode switch)", cast.rebuilds)
	}
	if cur, _ := s.Progress(); cur != 0 {
		t.Errorf("playhead after mode switch = %f, want 0", cur)
	}

	// Same mode again: no restart.
	s.SetMode(ModeStylized)
	if cast.rebuilds != 2 {
		t.Errorf("redundant mode switch should not restart, rebuilds = %d", cast.rebuilds)
	}
}

func TestSessionModeSwitchWhileStoppedDoesNotRestart(t *testing.T) {
	s, cast, _, _ := newPlaybackSession(t, 6)

	s.SetMode(ModeStylized)
	if cast.rebuilds != 0 {
		t.Errorf("mode switch while stopped should not rebuild, got %d", cast.rebuilds)
	}
}

func TestSessionStartRecordingStopsPlayback(t *testing.T) {
	s, cast, _, level := newPlaybackSession(t, 6)

	s.StartPlayback()
	s.Step(0.1)

	player := &fakeActor{alive: true, health: 10}
	s.StartRecording(level, player, nil)

	if s.Phase() != PhaseRecording {
		t.Fatalf("phase = %s, want recording", s.Phase())
	}
	if cast.teardowns == 0 {
		t.Error("starting a recording mid-playback should tear ghosts down")
	}
	if level.paused {
		t.Error("recording must run against an unfrozen scene")
	}
	if s.Frames() != 0 {
		t.Errorf("new recording should discard prior frames, got %d", s.Frames())
	}
}

func TestSessionClear(t *testing.T) {
	s, _, _, _ := newPlaybackSession(t, 6)

	s.Clear()
	if s.HasReplay() || s.Phase() != PhaseIdle {
		t.Errorf("clear failed: hasReplay=%v phase=%s", s.HasReplay(), s.Phase())
	}
}

func TestSessionRecorderCapTransitionsPhase(t *testing.T) {
	cfg := testSessionConfig()
	cfg.MaxRecordSeconds = 0.25
	cast := &fakeCast{}
	s := NewSession(cfg, cast, nil)

	s.StartRecording(&fakeLevel{}, &fakeActor{alive: true, health: 10}, nil)
	for i := 0; i < 10; i++ {
		s.Step(0.1)
	}

	if s.IsRecording() {
		t.Error("session should notice the recorder's self-stop at the cap")
	}
	if s.Phase() != PhaseStopped {
		t.Errorf("phase = %s, want stopped", s.Phase())
	}
	if !s.HasReplay() {
		t.Error("capped recording should still hold its frames")
	}
}
