package replay

import "log"

// RecorderConfig tunes one recording pass.
type RecorderConfig struct {
	// MaxSeconds caps the recording duration. Exceeding it stops the
	// recording gracefully (a resource bound, not an error).
	MaxSeconds float64
	// NearDeathHP is the inclusive upper bound of the near-death band for
	// event synthesis. A balancing knob, not a structural constant.
	NearDeathHP float64
}

// DefaultRecorderConfig returns the tuning used when nothing is configured.
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		MaxSeconds:  120,
		NearDeathHP: 1.0,
	}
}

// Recorder samples the live scene once per fixed simulation step, builds a
// snapshot, synthesizes discrete events by diffing against the previous
// snapshot, and appends to the frame store.
//
// Every failure degrades: a nil entity records a placeholder, calls while
// inactive are no-ops. Recording never raises.
type Recorder struct {
	store *FrameStore
	cfg   RecorderConfig

	level   Level
	player  Trackable
	enemies []Trackable

	meta  SessionMeta
	clock float64
	on    bool

	// Previous per-owner live projectile counts, for the shooting flags.
	// A rising count means the owner fired this step.
	prevPlayerShots int
	prevEnemyShots  []int

	eventsTotal int

	journal *Journal // optional, may be nil
}

// NewRecorder creates a recorder writing into store.
func NewRecorder(store *FrameStore, cfg RecorderConfig) *Recorder {
	if cfg.MaxSeconds <= 0 {
		cfg.MaxSeconds = DefaultRecorderConfig().MaxSeconds
	}
	return &Recorder{store: store, cfg: cfg}
}

// SetJournal attaches an optional event journal. Pass nil to detach.
func (r *Recorder) SetJournal(j *Journal) {
	r.journal = j
}

// Start resets the store and begins sampling. The enemy slot count is
// fixed here for the session's lifetime: a slot whose entity later dies or
// disappears records a placeholder rather than shrinking the sequence.
// Weapon metadata is captured now, once, for ghost reconstruction.
func (r *Recorder) Start(level Level, player Trackable, enemies []Trackable) {
	r.store.Reset()
	r.level = level
	r.player = player
	r.enemies = make([]Trackable, len(enemies))
	copy(r.enemies, enemies)

	r.meta = SessionMeta{EnemySkins: make([]string, len(enemies))}
	if player != nil {
		r.meta.PlayerSkin = player.WeaponSkin()
	}
	for i, e := range enemies {
		if e != nil {
			r.meta.EnemySkins[i] = e.WeaponSkin()
		}
	}

	r.clock = 0
	r.prevPlayerShots = 0
	r.prevEnemyShots = make([]int, len(enemies))
	r.on = true

	log.Printf("⏺️ Recording started: %d enemy slots, cap %.0fs", len(enemies), r.cfg.MaxSeconds)
}

// Stop halts sampling. Idempotent if not recording.
func (r *Recorder) Stop() {
	if !r.on {
		return
	}
	r.on = false
	log.Printf("⏹️ Recording stopped: %d frames, %.2fs", r.store.Len(), r.store.Duration())
}

// Recording reports whether the recorder is actively sampling.
func (r *Recorder) Recording() bool {
	return r.on
}

// Meta returns the session metadata captured at Start.
func (r *Recorder) Meta() SessionMeta {
	return r.meta
}

// RecordStep samples one fixed simulation step of duration dt. Silently
// no-ops while inactive.
func (r *Recorder) RecordStep(dt float64) {
	if !r.on || dt <= 0 {
		return
	}

	r.clock += dt
	if r.clock > r.cfg.MaxSeconds {
		log.Printf("⏹️ Max recording duration reached (%.0fs)", r.cfg.MaxSeconds)
		r.Stop()
		return
	}

	snap := Snapshot{
		Time:    r.clock,
		Player:  captureActor(r.player),
		Enemies: make([]EnemyState, len(r.enemies)),
	}
	for i, e := range r.enemies {
		snap.Enemies[i] = captureEnemy(e)
	}

	// Scan the scene for live projectile and grenade instances. The
	// owner tags never reach the snapshot; they only feed the per-actor
	// shooting flags below.
	var live []LiveProjectile
	if r.level != nil {
		live = r.level.Projectiles()
		snap.Grenades = r.level.Grenades()
		snap.Floor = r.level.Floor().Clone()
	}

	playerShots := 0
	enemyShots := make([]int, len(r.enemies))
	snap.Projectiles = make([]ProjectileState, len(live))
	for i, p := range live {
		snap.Projectiles[i] = ProjectileState{X: p.X, Y: p.Y, Rotation: p.Rotation}
		switch {
		case p.Owner == OwnerPlayer:
			playerShots++
		case p.Owner >= 0 && p.Owner < len(enemyShots):
			enemyShots[p.Owner]++
		}
	}
	snap.Player.Shooting = playerShots > r.prevPlayerShots
	for i := range snap.Enemies {
		snap.Enemies[i].Shooting = enemyShots[i] > r.prevEnemyShots[i]
	}
	r.prevPlayerShots = playerShots
	copy(r.prevEnemyShots, enemyShots)

	prev := r.store.At(r.store.Len() - 1)
	snap.Events = SynthesizeEvents(prev, &snap, r.cfg.NearDeathHP)

	if !r.store.Append(snap) {
		// Only possible with a non-advancing clock; drop and keep going.
		log.Printf("⚠️ Dropped non-monotonic snapshot at t=%.4f", snap.Time)
		return
	}

	r.eventsTotal += len(snap.Events)

	if r.journal != nil {
		for _, ev := range snap.Events {
			r.journal.Emit(snap.Time, ev)
		}
	}
}

// EventsSynthesized returns the total discrete events produced across all
// recording passes. Feeds the observability counters.
func (r *Recorder) EventsSynthesized() int {
	return r.eventsTotal
}

// captureActor reads one Trackable into a value state. A nil or dead
// reference degrades to a "not alive" placeholder.
func captureActor(t Trackable) ActorState {
	if t == nil {
		return ActorState{}
	}
	x, y := t.Position()
	vx, vy := t.Velocity()
	return ActorState{
		X:      x,
		Y:      y,
		Facing: t.Facing(),
		VX:     vx,
		VY:     vy,
		Aim:    t.Aim(),
		Alive:  t.Alive(),
		Health: t.Health(),
	}
}

func captureEnemy(t Trackable) EnemyState {
	if t == nil {
		return EnemyState{}
	}
	hx, hy := t.HitDirection()
	return EnemyState{
		ActorState: captureActor(t),
		HitDirX:    hx,
		HitDirY:    hy,
	}
}
