// Package sim is the demo live simulation: a small arena of autonomous
// shooter bots. It exists so the recorder has a real scene to observe.
// It implements the replay boundary interfaces (Trackable, Level,
// Pausable) and nothing else leaks across.
package sim

import (
	"math"
	"math/rand"

	"ghost-reel/internal/replay"
)

// WorldConfig tunes the demo arena.
type WorldConfig struct {
	Width, Height float64
	EnemyCount    int
	MaxHP         float64
	Seed          int64
}

// DefaultWorldConfig returns a 720p arena with four enemies.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Width:      1280,
		Height:     720,
		EnemyCount: 4,
		MaxHP:      10,
		Seed:       1,
	}
}

// World owns the live entities and the cumulative floor artifacts.
type World struct {
	cfg WorldConfig
	rng *rand.Rand

	Player  *Actor
	Enemies []*Actor

	projectiles []*Projectile
	grenades    []*Grenade
	floor       replay.FloorArtifacts

	paused    bool
	grenadeIn float64
}

var enemySkins = []string{"makarov", "mini_uzi", "revolver", "pump"}

// NewWorld builds the arena with a deterministic RNG so tests and demo
// runs are reproducible for a given seed.
func NewWorld(cfg WorldConfig) *World {
	if cfg.Width <= 0 {
		cfg = DefaultWorldConfig()
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	w := &World{
		cfg:       cfg,
		rng:       rng,
		grenadeIn: 4 + rng.Float64()*4,
	}
	w.Player = NewActor(replay.OwnerPlayer, cfg.Width*0.5, cfg.Height*0.5, "revolver", cfg.MaxHP)
	w.Enemies = make([]*Actor, cfg.EnemyCount)
	for i := range w.Enemies {
		x := cfg.Width*0.1 + rng.Float64()*cfg.Width*0.8
		y := cfg.Height*0.1 + rng.Float64()*cfg.Height*0.8
		skin := enemySkins[i%len(enemySkins)]
		w.Enemies[i] = NewActor(i, x, y, skin, cfg.MaxHP)
	}
	return w
}

// SetPaused freezes the simulation while playback owns the screen.
func (w *World) SetPaused(paused bool) {
	w.paused = paused
}

// Paused reports the frozen state.
func (w *World) Paused() bool {
	return w.paused
}

// Trackables returns the recorder handles: the player and the fixed
// enemy list captured at session start.
func (w *World) Trackables() (replay.Trackable, []replay.Trackable) {
	enemies := make([]replay.Trackable, len(w.Enemies))
	for i, e := range w.Enemies {
		enemies[i] = e
	}
	return w.Player, enemies
}

// Step advances the live simulation by one fixed step. No-op while paused.
func (w *World) Step(dt float64) {
	if w.paused || dt <= 0 {
		return
	}

	w.stepActor(w.Player, dt)
	for _, e := range w.Enemies {
		w.stepActor(e, dt)
	}

	w.stepProjectiles(dt)
	w.stepGrenades(dt)

	w.grenadeIn -= dt
	if w.grenadeIn <= 0 {
		w.throwGrenade()
		w.grenadeIn = 5 + w.rng.Float64()*5
	}
}

const (
	walkSpeed       = 70.0
	fireRange       = 420.0
	fireInterval    = 1.1
	shotDamage      = 2.0
	strideLength    = 26.0
	projectileSpeed = 520.0
)

func (w *World) stepActor(a *Actor, dt float64) {
	if !a.alive {
		return
	}

	// Wander: walk toward the current target point, re-picking when
	// reached or when the timer runs out.
	a.repickIn -= dt
	dx := a.targetX - a.X
	dy := a.targetY - a.Y
	dist := math.Hypot(dx, dy)
	if dist < 12 || a.repickIn <= 0 {
		a.targetX = w.cfg.Width*0.08 + w.rng.Float64()*w.cfg.Width*0.84
		a.targetY = w.cfg.Height*0.08 + w.rng.Float64()*w.cfg.Height*0.84
		a.repickIn = 2 + w.rng.Float64()*3
		dx = a.targetX - a.X
		dy = a.targetY - a.Y
		dist = math.Hypot(dx, dy)
	}
	if dist > 0 {
		a.VX = dx / dist * walkSpeed
		a.VY = dy / dist * walkSpeed
		a.facing = math.Atan2(dy, dx)
	}
	a.X += a.VX * dt
	a.Y += a.VY * dt

	// Footprints: one per stride, alternating feet.
	a.strideAcc += math.Hypot(a.VX, a.VY) * dt
	if a.strideAcc >= strideLength {
		a.strideAcc = 0
		a.leftFoot = !a.leftFoot
		w.floor.Footprints = append(w.floor.Footprints, replay.Footprint{
			X: a.X, Y: a.Y, Rotation: a.facing, Left: a.leftFoot,
		})
	}

	// Combat: aim at the nearest living foe, shoot when in range.
	foe := w.nearestFoe(a)
	if foe == nil {
		return
	}
	a.aimAt(foe.X, foe.Y)

	a.fireCooldown -= dt
	if a.fireCooldown <= 0 && math.Hypot(foe.X-a.X, foe.Y-a.Y) <= fireRange {
		a.fireCooldown = fireInterval * (0.7 + w.rng.Float64()*0.6)
		w.fire(a)
	}
}

func (w *World) nearestFoe(a *Actor) *Actor {
	var best *Actor
	bestDist := math.MaxFloat64
	consider := func(o *Actor) {
		if o == nil || !o.alive {
			return
		}
		d := math.Hypot(o.X-a.X, o.Y-a.Y)
		if d < bestDist {
			bestDist = d
			best = o
		}
	}
	if a.Slot == replay.OwnerPlayer {
		for _, e := range w.Enemies {
			consider(e)
		}
	} else {
		consider(w.Player)
	}
	return best
}

func (w *World) fire(a *Actor) {
	vx := math.Cos(a.aim.Angle) * projectileSpeed
	vy := math.Sin(a.aim.Angle) * projectileSpeed
	w.projectiles = append(w.projectiles, &Projectile{
		Owner:    a.Slot,
		X:        a.X + math.Cos(a.aim.Angle)*18,
		Y:        a.Y + math.Sin(a.aim.Angle)*18,
		VX:       vx,
		VY:       vy,
		Rotation: a.aim.Angle,
		TTL:      1.2,
	})

	// Eject a casing where the shooter stands.
	w.floor.Casings = append(w.floor.Casings, replay.ShellCasing{
		X:        a.X + math.Cos(a.aim.Angle+math.Pi/2)*8,
		Y:        a.Y + math.Sin(a.aim.Angle+math.Pi/2)*8,
		Rotation: w.rng.Float64() * 2 * math.Pi,
	})
}

func (w *World) stepProjectiles(dt float64) {
	n := 0
	for _, p := range w.projectiles {
		p.X += p.VX * dt
		p.Y += p.VY * dt
		p.TTL -= dt

		if hit := w.projectileHit(p); hit != nil {
			hit.TakeDamage(shotDamage, p.VX, p.VY)
			w.bleed(hit.X, hit.Y)
			continue
		}
		if p.TTL <= 0 || p.X < -50 || p.X > w.cfg.Width+50 || p.Y < -50 || p.Y > w.cfg.Height+50 {
			continue
		}
		w.projectiles[n] = p
		n++
	}
	w.projectiles = w.projectiles[:n]
}

func (w *World) projectileHit(p *Projectile) *Actor {
	const hitRadius = 16.0
	check := func(a *Actor) *Actor {
		if a == nil || !a.alive {
			return nil
		}
		if math.Hypot(a.X-p.X, a.Y-p.Y) <= hitRadius {
			return a
		}
		return nil
	}
	if p.Owner == replay.OwnerPlayer {
		for _, e := range w.Enemies {
			if hit := check(e); hit != nil {
				return hit
			}
		}
		return nil
	}
	return check(w.Player)
}

func (w *World) throwGrenade() {
	thrower := w.Player
	if !thrower.alive || len(w.Enemies) == 0 {
		return
	}
	target := w.Enemies[w.rng.Intn(len(w.Enemies))]
	w.grenades = append(w.grenades, &Grenade{
		X:    thrower.X,
		Y:    thrower.Y,
		VX:   (target.X - thrower.X) / 1.4,
		VY:   (target.Y - thrower.Y) / 1.4,
		Fuse: 1.6,
		Skin: "frag",
	})
}

func (w *World) stepGrenades(dt float64) {
	n := 0
	for _, g := range w.grenades {
		g.X += g.VX * dt
		g.Y += g.VY * dt
		g.VX *= 1 - 0.8*dt // friction while rolling
		g.VY *= 1 - 0.8*dt
		g.Rotation += 6 * dt
		g.Fuse -= dt

		if g.Fuse <= 0 {
			w.explode(g)
			continue // removed: the shrinking list is the detonation signal
		}
		w.grenades[n] = g
		n++
	}
	w.grenades = w.grenades[:n]
}

func (w *World) explode(g *Grenade) {
	const blastRadius = 90.0
	damage := func(a *Actor) {
		if a == nil || !a.alive {
			return
		}
		d := math.Hypot(a.X-g.X, a.Y-g.Y)
		if d > blastRadius {
			return
		}
		a.TakeDamage(6*(1-d/blastRadius)+1, a.X-g.X, a.Y-g.Y)
		w.bleed(a.X, a.Y)
	}
	damage(w.Player)
	for _, e := range w.Enemies {
		damage(e)
	}

	// Scorch splatter at the blast point.
	w.floor.Blood = append(w.floor.Blood, replay.BloodDecal{
		X: g.X, Y: g.Y,
		Rotation: w.rng.Float64() * 2 * math.Pi,
		Scale:    2.2,
		Color:    "#3a2c28",
	})
}

func (w *World) bleed(x, y float64) {
	w.floor.Blood = append(w.floor.Blood, replay.BloodDecal{
		X:        x + (w.rng.Float64()-0.5)*14,
		Y:        y + (w.rng.Float64()-0.5)*14,
		Rotation: w.rng.Float64() * 2 * math.Pi,
		Scale:    0.7 + w.rng.Float64()*0.9,
		Color:    "#8b0000",
	})
}

// Level surface for the recorder.

// Projectiles enumerates live projectiles, owner-tagged.
func (w *World) Projectiles() []replay.LiveProjectile {
	out := make([]replay.LiveProjectile, len(w.projectiles))
	for i, p := range w.projectiles {
		out[i] = replay.LiveProjectile{X: p.X, Y: p.Y, Rotation: p.Rotation, Owner: p.Owner}
	}
	return out
}

// Grenades enumerates live grenades.
func (w *World) Grenades() []replay.GrenadeState {
	out := make([]replay.GrenadeState, len(w.grenades))
	for i, g := range w.grenades {
		out[i] = replay.GrenadeState{X: g.X, Y: g.Y, Rotation: g.Rotation, Skin: g.Skin}
	}
	return out
}

// Floor returns the cumulative floor collections. The recorder clones.
func (w *World) Floor() replay.FloorArtifacts {
	return w.floor
}
