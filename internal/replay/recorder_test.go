package replay

import "testing"

// fakeActor is a scriptable Trackable for recorder tests.
type fakeActor struct {
	x, y     float64
	vx, vy   float64
	facing   float64
	health   float64
	alive    bool
	aim      AimTransform
	hitX     float64
	hitY     float64
	skin     string
}

func (f *fakeActor) Position() (float64, float64)     { return f.x, f.y }
func (f *fakeActor) Facing() float64                  { return f.facing }
func (f *fakeActor) Velocity() (float64, float64)     { return f.vx, f.vy }
func (f *fakeActor) Health() float64                  { return f.health }
func (f *fakeActor) Alive() bool                      { return f.alive }
func (f *fakeActor) Aim() AimTransform                { return f.aim }
func (f *fakeActor) HitDirection() (float64, float64) { return f.hitX, f.hitY }
func (f *fakeActor) WeaponSkin() string               { return f.skin }

// fakeLevel is a scriptable Level for recorder tests.
type fakeLevel struct {
	projectiles []LiveProjectile
	grenades    []GrenadeState
	floor       FloorArtifacts
	paused      bool
}

func (f *fakeLevel) Projectiles() []LiveProjectile { return f.projectiles }
func (f *fakeLevel) Grenades() []GrenadeState      { return f.grenades }
func (f *fakeLevel) Floor() FloorArtifacts         { return f.floor }
func (f *fakeLevel) SetPaused(p bool)              { f.paused = p }

func newTestRecorder(maxSeconds float64) (*Recorder, *FrameStore) {
	store := NewFrameStore(16)
	return NewRecorder(store, RecorderConfig{MaxSeconds: maxSeconds, NearDeathHP: 1.0}), store
}

func TestRecorderCapturesFixedEnemySlots(t *testing.T) {
	rec, store := newTestRecorder(10)
	level := &fakeLevel{}
	player := &fakeActor{alive: true, health: 10, skin: "revolver"}
	enemies := []Trackable{
		&fakeActor{alive: true, health: 10, skin: "makarov"},
		&fakeActor{alive: true, health: 10, skin: "pump"},
	}

	rec.Start(level, player, enemies)
	rec.RecordStep(0.016)
	rec.RecordStep(0.016)

	if store.Len() != 2 {
		t.Fatalf("frames = %d, want 2", store.Len())
	}
	for i := 0; i < store.Len(); i++ {
		if got := len(store.At(i).Enemies); got != 2 {
			t.Errorf("frame %d enemy slots = %d, want 2", i, got)
		}
	}

	meta := rec.Meta()
	if meta.PlayerSkin != "revolver" || meta.EnemyCount() != 2 || meta.EnemySkins[1] != "pump" {
		t.Errorf("meta = %+v", meta)
	}
}

func TestRecorderNilEntityPlaceholder(t *testing.T) {
	rec, store := newTestRecorder(10)
	rec.Start(&fakeLevel{}, nil, []Trackable{nil, &fakeActor{alive: true, health: 5}})
	rec.RecordStep(0.016)

	snap := store.At(0)
	if snap.Player.Alive {
		t.Error("nil player should record a dead placeholder")
	}
	if snap.Enemies[0].Alive || !snap.Enemies[1].Alive {
		t.Errorf("enemy placeholders wrong: %+v", snap.Enemies)
	}
}

func TestRecorderDurationCap(t *testing.T) {
	rec, store := newTestRecorder(0.05)
	rec.Start(&fakeLevel{}, &fakeActor{alive: true}, nil)

	for i := 0; i < 10; i++ {
		rec.RecordStep(0.016)
	}

	if rec.Recording() {
		t.Error("recorder should have stopped itself at the cap")
	}
	// Steps at 0.016: three fit under 0.05, the fourth crosses and stops.
	if store.Len() != 3 {
		t.Errorf("frames = %d, want 3", store.Len())
	}
}

func TestRecorderShootingFlagsFromOwnerCounts(t *testing.T) {
	rec, store := newTestRecorder(10)
	level := &fakeLevel{}
	player := &fakeActor{alive: true, health: 10}
	enemy := &fakeActor{alive: true, health: 10}
	rec.Start(level, player, []Trackable{enemy})

	// Step 1: no projectiles.
	rec.RecordStep(0.016)
	// Step 2: player fires one.
	level.projectiles = []LiveProjectile{{X: 1, Owner: OwnerPlayer}}
	rec.RecordStep(0.016)
	// Step 3: same projectile still alive, enemy fires too.
	level.projectiles = []LiveProjectile{{X: 2, Owner: OwnerPlayer}, {X: 3, Owner: 0}}
	rec.RecordStep(0.016)
	// Step 4: everything despawned.
	level.projectiles = nil
	rec.RecordStep(0.016)

	type flags struct{ player, enemy bool }
	want := []flags{
		{false, false},
		{true, false},
		{false, true}, // player count flat, enemy count rose
		{false, false},
	}
	for i, w := range want {
		snap := store.At(i)
		if snap.Player.Shooting != w.player || snap.Enemies[0].Shooting != w.enemy {
			t.Errorf("frame %d shooting = player:%v enemy:%v, want %+v",
				i, snap.Player.Shooting, snap.Enemies[0].Shooting, w)
		}
	}

	// Owner tags must never reach the stored snapshot shape: positions only.
	if s := store.At(2); len(s.Projectiles) != 2 || s.Projectiles[1].X != 3 {
		t.Errorf("projectile states = %+v", s.Projectiles)
	}
}

func TestRecorderEventsStoredPerFrame(t *testing.T) {
	rec, store := newTestRecorder(10)
	level := &fakeLevel{}
	enemy := &fakeActor{alive: true, health: 10}
	rec.Start(level, &fakeActor{alive: true, health: 10}, []Trackable{enemy})

	rec.RecordStep(0.016)
	enemy.health = 6
	rec.RecordStep(0.016)

	if got := countEvents(store.At(1).Events, EventEnemyHit); got != 1 {
		t.Errorf("frame 1 enemy hits = %d, want 1", got)
	}
	if len(store.At(0).Events) != 0 {
		t.Errorf("first frame should carry no events, got %v", store.At(0).Events)
	}
}

func TestRecorderClonesFloor(t *testing.T) {
	rec, store := newTestRecorder(10)
	level := &fakeLevel{floor: FloorArtifacts{Blood: []BloodDecal{{X: 1}}}}
	rec.Start(level, &fakeActor{alive: true}, nil)
	rec.RecordStep(0.016)

	level.floor.Blood[0].X = 42
	if store.At(0).Floor.Blood[0].X != 1 {
		t.Error("snapshot floor must not alias the live slices")
	}
}

func TestRecorderRestartDiscardsPriorSession(t *testing.T) {
	rec, store := newTestRecorder(10)
	rec.Start(&fakeLevel{}, &fakeActor{alive: true}, nil)
	rec.RecordStep(0.016)
	rec.RecordStep(0.016)
	rec.Stop()

	rec.Start(&fakeLevel{}, &fakeActor{alive: true}, nil)
	if store.Len() != 0 {
		t.Errorf("restart should reset the store, got %d frames", store.Len())
	}
	rec.RecordStep(0.016)
	if store.At(0).Time != 0.016 {
		t.Errorf("restarted clock = %f, want 0.016", store.At(0).Time)
	}
}
