package replay

import "math"

// AimTransform captures the weapon-aim pose of an actor, independent from
// the facing rotation that drives movement. Flip mirrors the aim model
// left/right (+1 or -1 on the horizontal axis).
type AimTransform struct {
	Angle float64 `json:"angle"`
	Flip  float64 `json:"flip"`
}

// ActorState is an immutable per-step sample of one tracked character.
// Uses value types (not pointers) so a stored snapshot can never be
// mutated by later simulation steps.
type ActorState struct {
	X        float64      `json:"x"`
	Y        float64      `json:"y"`
	Facing   float64      `json:"facing"`
	VX       float64      `json:"vx"`
	VY       float64      `json:"vy"`
	Aim      AimTransform `json:"aim"`
	Alive    bool         `json:"alive"`
	Shooting bool         `json:"shooting"`
	Health   float64      `json:"health"`
}

// Speed returns the velocity magnitude. The walk-cycle reconstruction is
// derived from this, since pose is never recorded.
func (a ActorState) Speed() float64 {
	return math.Hypot(a.VX, a.VY)
}

// EnemyState is an ActorState plus the direction of the last hit taken,
// used to reconstruct the death fall.
type EnemyState struct {
	ActorState
	HitDirX float64 `json:"hitDirX"`
	HitDirY float64 `json:"hitDirY"`
}

// ProjectileState is a live projectile transform. Projectiles carry no
// stable identity; ghosts are matched by array index within one snapshot.
type ProjectileState struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
}

// GrenadeState is a live grenade transform plus the visual asset it uses.
type GrenadeState struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	Skin     string  `json:"skin"`
}

// BloodDecal is one splatter on the floor.
type BloodDecal struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	Scale    float64 `json:"scale"`
	Color    string  `json:"color"`
}

// ShellCasing is one ejected casing on the floor.
type ShellCasing struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
}

// Footprint is one footprint decal. Left distinguishes the stepping foot.
type Footprint struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	Left     bool    `json:"left"`
}

// FloorCategory identifies one cumulative floor-artifact collection.
type FloorCategory int

const (
	FloorBlood FloorCategory = iota
	FloorCasings
	FloorFootprints

	// FloorCategoryCount is the number of tracked categories.
	FloorCategoryCount
)

// String returns a human-readable category name.
func (c FloorCategory) String() string {
	switch c {
	case FloorBlood:
		return "blood"
	case FloorCasings:
		return "casings"
	case FloorFootprints:
		return "footprints"
	default:
		return "unknown"
	}
}

// FloorArtifacts holds the cumulative floor collections as of one step.
// Each slice is strictly non-shrinking across a session: the recorder
// stores the full list every step, and playback detects new entries purely
// by length growth between two snapshots.
type FloorArtifacts struct {
	Blood      []BloodDecal  `json:"blood"`
	Casings    []ShellCasing `json:"casings"`
	Footprints []Footprint   `json:"footprints"`
}

// Count returns the number of artifacts recorded in one category.
func (f FloorArtifacts) Count(c FloorCategory) int {
	switch c {
	case FloorBlood:
		return len(f.Blood)
	case FloorCasings:
		return len(f.Casings)
	case FloorFootprints:
		return len(f.Footprints)
	default:
		return 0
	}
}

// Clone deep-copies the collections so a stored snapshot does not alias
// the live scene's slices.
func (f FloorArtifacts) Clone() FloorArtifacts {
	out := FloorArtifacts{}
	if len(f.Blood) > 0 {
		out.Blood = make([]BloodDecal, len(f.Blood))
		copy(out.Blood, f.Blood)
	}
	if len(f.Casings) > 0 {
		out.Casings = make([]ShellCasing, len(f.Casings))
		copy(out.Casings, f.Casings)
	}
	if len(f.Footprints) > 0 {
		out.Footprints = make([]Footprint, len(f.Footprints))
		copy(out.Footprints, f.Footprints)
	}
	return out
}

// Snapshot is one fixed-step sample of everything the replay needs:
// continuous kinematic state for every tracked entity, the cumulative
// floor collections, and the discrete events synthesized by diffing
// against the previous snapshot.
type Snapshot struct {
	Time        float64           `json:"time"`
	Player      ActorState        `json:"player"`
	Enemies     []EnemyState      `json:"enemies"`
	Projectiles []ProjectileState `json:"projectiles"`
	Grenades    []GrenadeState    `json:"grenades"`
	Events      []Event           `json:"events"`
	Floor       FloorArtifacts    `json:"floor"`
}

// FrameStore is the append-only, time-ordered sequence of snapshots for
// one recorded session. It is written only by the Recorder and read only
// by playback; all access happens on the single step-driven goroutine, so
// no locking is needed.
type FrameStore struct {
	frames []Snapshot
}

// NewFrameStore creates a store with capacity for roughly capHint steps.
func NewFrameStore(capHint int) *FrameStore {
	if capHint < 0 {
		capHint = 0
	}
	return &FrameStore{frames: make([]Snapshot, 0, capHint)}
}

// Append adds a snapshot. Returns false (and drops the snapshot) if its
// time does not strictly increase over the last stored one; the store
// invariant is strict monotonicity.
func (s *FrameStore) Append(snap Snapshot) bool {
	if n := len(s.frames); n > 0 && snap.Time <= s.frames[n-1].Time {
		return false
	}
	s.frames = append(s.frames, snap)
	return true
}

// Len returns the number of stored snapshots.
func (s *FrameStore) Len() int {
	return len(s.frames)
}

// At returns the snapshot at index i, or nil if out of range.
func (s *FrameStore) At(i int) *Snapshot {
	if i < 0 || i >= len(s.frames) {
		return nil
	}
	return &s.frames[i]
}

// Duration returns the time of the last snapshot, or 0 when empty.
// Snapshot times start at the first recorded step's dt.
func (s *FrameStore) Duration() float64 {
	if len(s.frames) == 0 {
		return 0
	}
	return s.frames[len(s.frames)-1].Time
}

// Reset discards all stored snapshots but keeps the backing array.
// Starting a new recording discards any prior session (single in-flight
// session invariant).
func (s *FrameStore) Reset() {
	s.frames = s.frames[:0]
}

// IndexAt returns the largest index i >= from with frames[i].Time <= t.
// The scan is forward-only from `from`; during normal playback time only
// increases, so this is O(1) amortized per tick.
func (s *FrameStore) IndexAt(t float64, from int) int {
	n := len(s.frames)
	if n == 0 {
		return -1
	}
	i := from
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	for i+1 < n && s.frames[i+1].Time <= t {
		i++
	}
	return i
}

// SeekIndex recomputes the index for time t with a full scan from zero.
// Used on seek, which may move backward.
func (s *FrameStore) SeekIndex(t float64) int {
	return s.IndexAt(t, 0)
}
