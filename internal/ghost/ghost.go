package ghost

import "ghost-reel/internal/replay"

// Tint is a multiplicative color applied to a ghost body.
type Tint struct {
	R, G, B, A float64
}

// tintNeutral leaves the skin colors untouched.
var tintNeutral = Tint{R: 1, G: 1, B: 1, A: 1}

// Config bundles the reconstruction tuning shared by all ghosts.
type Config struct {
	Walk  WalkConfig
	Death DeathConfig
	Trail TrailConfig
}

// DefaultConfig returns the tuning used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Walk:  DefaultWalkConfig(),
		Death: DefaultDeathConfig(),
		Trail: DefaultTrailConfig(),
	}
}

// Ghost is a stateless re-renderer for one recorded character: given a
// snapshot state it positions, orients and animates a stand-in visual with
// no gameplay logic attached. The only state it carries is the small
// interpolation state the reconstruction needs (walk phase, death timer,
// trail history).
type Ghost struct {
	Skin string

	// Reconstructed pose, consumed by the renderer.
	X, Y      float64
	Facing    float64
	BodyRot   float64 // extra rotation from the death fall
	Aim       replay.AimTransform
	Visible   bool
	Tint      Tint
	Bob       float64
	Swing     float64
	Shooting  bool

	walk  Walk
	death DeathAnim
	trail Trail

	primed   bool
	wasAlive bool
}

// newGhost creates a hidden ghost for one slot.
func newGhost(skin string, cfg Config) *Ghost {
	return &Ghost{
		Skin:  skin,
		Tint:  tintNeutral,
		walk:  NewWalk(cfg.Walk),
		death: NewDeathAnim(cfg.Death),
		trail: NewTrail(cfg.Trail),
	}
}

// Apply poses the ghost from one snapshot state. hitX/hitY is the recorded
// hit direction used if a death fall starts this step. trails enables
// motion-trail sampling (full-fidelity mode only).
func (g *Ghost) Apply(st replay.ActorState, hitX, hitY, dt float64, trails bool) {
	if !g.primed {
		// First application of a pass: adopt the alive flag without
		// treating it as a transition.
		g.primed = true
		g.wasAlive = st.Alive
	}

	if st.Alive {
		if !g.wasAlive {
			// Reappeared alive (backward seek). Enemy alive-state is
			// sticky during recording, so this path exists defensively.
			g.revive()
		}
		g.wasAlive = true

		g.X = st.X
		g.Y = st.Y
		g.Facing = st.Facing
		g.BodyRot = 0
		g.Aim = st.Aim
		g.Shooting = st.Shooting
		g.Visible = true
		g.Tint = tintNeutral

		g.walk.Advance(st.Speed(), dt)
		g.Bob = g.walk.Bob
		g.Swing = g.walk.Swing

		if trails {
			g.trail.Sample(st.X, st.Y, st.Speed(), dt)
		} else {
			g.trail.Clear()
		}
		return
	}

	// Dead this snapshot.
	if g.wasAlive {
		g.death.Trigger(hitX, hitY)
	}
	g.wasAlive = false
	g.Shooting = false
	g.trail.Clear()
	g.walk.Reset()
	g.Bob = 0
	g.Swing = 0

	if g.death.Active() {
		offX, offY, rot, tint := g.death.Update(dt)
		g.X = st.X + offX
		g.Y = st.Y + offY
		g.Facing = st.Facing
		g.BodyRot = rot
		g.Tint = tint
		g.Visible = !g.death.Done()
		return
	}

	// Fall finished, or the slot was a dead placeholder from the start:
	// hidden until it (if ever) comes back alive.
	g.Visible = false
}

// revive resets all interpolation state so the pose matches a fresh ghost.
func (g *Ghost) revive() {
	g.death.Reset()
	g.walk.Reset()
	g.trail.Clear()
	g.Bob = 0
	g.Swing = 0
}

// TrailPoints returns the current motion-trail history, oldest first.
func (g *Ghost) TrailPoints() []TrailPoint {
	return g.trail.Points()
}

// SpriteGhost is a minimal stand-in for projectiles and grenades: pure
// transform plus a visual asset key, matched to snapshots by array index.
type SpriteGhost struct {
	X, Y     float64
	Rotation float64
	Skin     string
}
