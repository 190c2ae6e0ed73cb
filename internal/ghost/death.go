package ghost

import "math"

// DeathConfig tunes the reconstructed death fall.
type DeathConfig struct {
	Seconds       float64 // fixed animation duration
	SlideDistance float64 // maximum displacement along the hit direction
	MaxRotation   float64 // body rotation at full progress, radians
}

// DefaultDeathConfig returns the tuning used when nothing is configured.
func DefaultDeathConfig() DeathConfig {
	return DeathConfig{
		Seconds:       0.9,
		SlideDistance: 26.0,
		MaxRotation:   1.15,
	}
}

// Hit-flash tint at the start of the fall, fading to a dim, fully
// transparent end state.
var (
	deathStartTint = Tint{R: 1.0, G: 0.35, B: 0.35, A: 1.0}
	deathEndTint   = Tint{R: 0.4, G: 0.4, B: 0.4, A: 0.0}
)

// DeathAnim plays a fixed-duration, ease-out (power 2) fall along the
// recorded hit direction. Triggered exactly once per alive-to-dead
// transition observed while applying snapshots in order.
type DeathAnim struct {
	cfg    DeathConfig
	active bool
	done   bool
	t      float64
	dirX   float64
	dirY   float64
}

// NewDeathAnim creates an idle death animation.
func NewDeathAnim(cfg DeathConfig) DeathAnim {
	return DeathAnim{cfg: cfg}
}

// Trigger starts the fall along the given hit direction. A zero vector
// falls back to straight down in world space.
func (d *DeathAnim) Trigger(hitX, hitY float64) {
	if d.active || d.done {
		return
	}
	n := math.Hypot(hitX, hitY)
	if n == 0 {
		hitX, hitY = 0, 1
		n = 1
	}
	d.dirX = hitX / n
	d.dirY = hitY / n
	d.active = true
	d.t = 0
}

// Reset clears the animation so the ghost can reappear alive. Enemy
// alive-state is sticky once false in a session, but the path must
// tolerate a later alive snapshot (backward seek, defensive revive).
func (d *DeathAnim) Reset() {
	d.active = false
	d.done = false
	d.t = 0
}

// Active reports whether the fall is in progress.
func (d *DeathAnim) Active() bool {
	return d.active
}

// Done reports whether the fall has finished; the ghost is hidden then.
func (d *DeathAnim) Done() bool {
	return d.done
}

// Update advances the fall and returns the pose modifiers for this step:
// positional offset, body rotation, and tint.
func (d *DeathAnim) Update(dt float64) (offX, offY, rot float64, tint Tint) {
	if !d.active {
		return 0, 0, 0, deathEndTint
	}

	d.t += dt
	p := d.t / d.cfg.Seconds
	if p >= 1 {
		p = 1
		d.active = false
		d.done = true
	}

	// Ease-out, power 2.
	e := 1 - (1-p)*(1-p)

	offX = d.dirX * d.cfg.SlideDistance * e
	offY = d.dirY * d.cfg.SlideDistance * e
	rot = d.cfg.MaxRotation * e
	tint = lerpTint(deathStartTint, deathEndTint, e)
	return offX, offY, rot, tint
}

func lerpTint(a, b Tint, t float64) Tint {
	return Tint{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}
