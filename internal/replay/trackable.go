package replay

// Trackable is the capability surface every recordable entity exposes.
// The external layer hands the recorder direct references; the recorder
// never searches a scene tree. A Trackable that becomes invalid between
// steps is represented by a nil entry and degrades to a placeholder state.
type Trackable interface {
	// Position returns the world-space position.
	Position() (x, y float64)
	// Facing returns the movement-facing rotation in radians.
	Facing() float64
	// Velocity returns the current velocity vector.
	Velocity() (vx, vy float64)
	// Health returns the current health value.
	Health() float64
	// Alive reports whether the entity is alive this step.
	Alive() bool
	// Aim returns the weapon-aim sub-transform (independent of Facing).
	Aim() AimTransform
	// HitDirection returns the direction of the last hit taken, used to
	// reconstruct the death fall. Zero vector when never hit.
	HitDirection() (x, y float64)
	// WeaponSkin identifies the weapon model the entity holds. Captured
	// once at recording start for ghost reconstruction.
	WeaponSkin() string
}

// OwnerPlayer tags a live projectile fired by the player rather than an
// indexed enemy slot.
const OwnerPlayer = -1

// LiveProjectile is a live projectile transform tagged with its owner so
// the recorder can derive per-actor shooting flags from rising counts.
// Only position and rotation are stored in the snapshot.
type LiveProjectile struct {
	X, Y     float64
	Rotation float64
	Owner    int // OwnerPlayer or enemy slot index
}

// Level is the read surface of the live scene the recorder samples each
// step. Implementations return copies; the recorder never holds references
// into live simulation state.
type Level interface {
	// Projectiles enumerates all live projectile instances.
	Projectiles() []LiveProjectile
	// Grenades enumerates all live grenade instances.
	Grenades() []GrenadeState
	// Floor enumerates everything currently on the floor, cumulatively.
	// The recorder stores the full list each step, not a delta.
	Floor() FloorArtifacts
}

// Pausable is implemented by levels whose live simulation can be frozen
// while playback drives only the replay visuals.
type Pausable interface {
	SetPaused(paused bool)
}

// SoundKind identifies an abstract sound request emitted during playback.
type SoundKind uint8

const (
	SoundShot SoundKind = iota
	SoundHit
	SoundDeath
	SoundNearDeath
	SoundExplosion
)

// String returns a stable sound name usable as an asset key.
func (k SoundKind) String() string {
	switch k {
	case SoundShot:
		return "shot"
	case SoundHit:
		return "hit"
	case SoundDeath:
		return "death"
	case SoundNearDeath:
		return "near_death"
	case SoundExplosion:
		return "explosion"
	default:
		return "unknown"
	}
}

// EffectKind identifies an abstract visual-effect request emitted during
// playback, consumed by particle/lighting subsystems outside this core.
type EffectKind uint8

const (
	EffectMuzzleFlash EffectKind = iota
	EffectHitFlash
	EffectExplosion
	EffectNearDeath
)

// String returns a stable effect name.
func (k EffectKind) String() string {
	switch k {
	case EffectMuzzleFlash:
		return "muzzle_flash"
	case EffectHitFlash:
		return "hit_flash"
	case EffectExplosion:
		return "explosion"
	case EffectNearDeath:
		return "near_death"
	default:
		return "unknown"
	}
}

// EffectSink consumes the abstract sound and effect requests the replay
// emits. Audio devices and particle systems live behind this boundary.
type EffectSink interface {
	PlaySound(kind SoundKind, x, y float64)
	SpawnEffect(kind EffectKind, x, y, rotation float64)
}

// Notifier receives playback lifecycle notifications, consumed by a
// progress bar / time label in the UI layer.
type Notifier interface {
	PlaybackStarted(duration float64)
	PlaybackEnded()
	Progress(current, total float64)
}

// SessionMeta is the per-session metadata captured at recording start and
// needed later for visual reconstruction.
type SessionMeta struct {
	PlayerSkin string
	EnemySkins []string
}

// EnemyCount returns the fixed enemy slot count for the session.
func (m SessionMeta) EnemyCount() int {
	return len(m.EnemySkins)
}

// Reconstructor re-renders recorded state as ghost visuals. It owns the
// ghost entities and destroys them all on Teardown. Implemented by the
// ghost package; the interface keeps the playback clock free of any
// rendering dependency.
type Reconstructor interface {
	// Rebuild instantiates fresh ghosts for a playback pass. first is the
	// baseline snapshot (progressive floor spawn counts start from it).
	Rebuild(meta SessionMeta, first *Snapshot)
	// Apply poses every ghost from one snapshot's continuous state.
	Apply(snap *Snapshot, dt float64)
	// PlayEvents replays one snapshot's discrete events (sounds, flashes).
	PlayEvents(events []Event)
	// SetMode switches the presentation mode.
	SetMode(m Mode)
	// Teardown releases all ghost entities. Idempotent.
	Teardown()
}

// NopNotifier discards all notifications. Useful for tests and headless
// sessions.
type NopNotifier struct{}

func (NopNotifier) PlaybackStarted(float64)  {}
func (NopNotifier) PlaybackEnded()           {}
func (NopNotifier) Progress(float64, float64) {}

// NopSink discards all sound and effect requests.
type NopSink struct{}

func (NopSink) PlaySound(SoundKind, float64, float64)             {}
func (NopSink) SpawnEffect(EffectKind, float64, float64, float64) {}
