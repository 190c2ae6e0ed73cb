package ghost

import (
	"log"
	"sync"

	"ghost-reel/internal/replay"
)

// Cast owns every ghost visual for one playback pass and implements the
// replay.Reconstructor contract. Enemy slot i always corresponds to index
// i in every snapshot's enemy sequence; projectile and grenade ghosts are
// matched by array index within one snapshot.
//
// The mutex only guards the renderer's View extraction against the
// step-driven apply loop; all reconstruction is synchronous.
type Cast struct {
	mu   sync.Mutex
	cfg  Config
	sink replay.EffectSink
	mode replay.Mode

	active bool
	meta   replay.SessionMeta

	player      *Ghost
	enemies     []*Ghost
	projectiles []SpriteGhost
	grenades    []SpriteGhost
	flashes     []*Flash
	floor       *FloorSpawner
}

// NewCast creates an empty cast emitting sounds and effect requests into
// sink. A nil sink discards them.
func NewCast(cfg Config, sink replay.EffectSink) *Cast {
	if sink == nil {
		sink = replay.NopSink{}
	}
	return &Cast{
		cfg:   cfg,
		sink:  sink,
		mode:  replay.ModeFullFidelity,
		floor: NewFloorSpawner(),
	}
}

// Rebuild instantiates fresh ghosts for a playback pass and takes the
// progressive-spawn baseline from the first snapshot.
func (c *Cast) Rebuild(meta replay.SessionMeta, first *replay.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.teardownLocked()
	c.meta = meta
	c.player = newGhost(meta.PlayerSkin, c.cfg)
	c.enemies = make([]*Ghost, meta.EnemyCount())
	for i := range c.enemies {
		c.enemies[i] = newGhost(meta.EnemySkins[i], c.cfg)
	}

	if first != nil && c.mode == replay.ModeFullFidelity {
		c.floor.SetBaseline(first.Floor)
	}
	c.active = true
	log.Printf("👻 Ghost cast rebuilt: 1 player + %d enemy slots", len(c.enemies))
}

// Apply poses every ghost from one snapshot's continuous state.
func (c *Cast) Apply(snap *replay.Snapshot, dt float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active || snap == nil {
		return
	}

	full := c.mode == replay.ModeFullFidelity

	c.player.Apply(snap.Player, 0, 0, dt, full)
	if full && snap.Player.Shooting && snap.Player.Alive {
		c.spawnMuzzleLocked(c.player)
	}

	for i, g := range c.enemies {
		if i >= len(snap.Enemies) {
			break
		}
		e := snap.Enemies[i]
		g.Apply(e.ActorState, e.HitDirX, e.HitDirY, dt, full)
		if full && e.Shooting && e.Alive {
			c.spawnMuzzleLocked(g)
		}
	}

	// Projectile and grenade ghosts have no identity: rebuild the pose
	// list by index every snapshot.
	c.projectiles = c.projectiles[:0]
	for _, p := range snap.Projectiles {
		c.projectiles = append(c.projectiles, SpriteGhost{X: p.X, Y: p.Y, Rotation: p.Rotation})
	}
	c.grenades = c.grenades[:0]
	for _, g := range snap.Grenades {
		c.grenades = append(c.grenades, SpriteGhost{X: g.X, Y: g.Y, Rotation: g.Rotation, Skin: g.Skin})
	}

	// Age flashes, in-place filtering.
	n := 0
	for _, f := range c.flashes {
		if f.Update(dt) {
			c.flashes[n] = f
			n++
		}
	}
	c.flashes = c.flashes[:n]

	if full {
		c.floor.Advance(snap.Floor)
	}
}

// PlayEvents replays one snapshot's discrete events. Sounds play in both
// presentation modes; visual effect replay is full-fidelity only.
func (c *Cast) PlayEvents(events []replay.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return
	}
	full := c.mode == replay.ModeFullFidelity

	for _, ev := range events {
		switch ev.Type {
		case replay.EventShot:
			c.sink.PlaySound(replay.SoundShot, ev.X, ev.Y)

		case replay.EventEnemyDeath, replay.EventPlayerDeath:
			c.sink.PlaySound(replay.SoundDeath, ev.X, ev.Y)

		case replay.EventEnemyHit, replay.EventPlayerHit:
			c.sink.PlaySound(replay.SoundHit, ev.X, ev.Y)
			if full {
				c.sink.SpawnEffect(replay.EffectHitFlash, ev.X, ev.Y, 0)
			}

		case replay.EventNearDeath:
			c.sink.PlaySound(replay.SoundNearDeath, ev.X, ev.Y)
			if full {
				c.sink.SpawnEffect(replay.EffectNearDeath, ev.X, ev.Y, 0)
			}

		case replay.EventGrenadeExplosion:
			c.sink.PlaySound(replay.SoundExplosion, ev.X, ev.Y)
			if full {
				c.flashes = append(c.flashes, NewExplosionFlash(ev.X, ev.Y, 42))
				c.sink.SpawnEffect(replay.EffectExplosion, ev.X, ev.Y, 0)
			}
		}
	}
}

// SetMode switches the presentation mode. The session restarts the pass
// afterwards, which rebuilds the cast from a clean baseline.
func (c *Cast) SetMode(m replay.Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = m
}

// Teardown releases every ghost entity. Idempotent.
func (c *Cast) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardownLocked()
}

func (c *Cast) teardownLocked() {
	if !c.active && c.player == nil {
		return
	}
	c.active = false
	c.player = nil
	c.enemies = nil
	c.projectiles = nil
	c.grenades = nil
	c.flashes = nil
	c.floor.Reset()
}

func (c *Cast) spawnMuzzleLocked(g *Ghost) {
	style := GetSkinStyle(g.Skin)
	c.flashes = append(c.flashes, NewMuzzleFlash(g.X, g.Y, g.Aim.Angle, style.FlashRadius))
	c.sink.SpawnEffect(replay.EffectMuzzleFlash, g.X, g.Y, g.Aim.Angle)
}

// Active reports whether a pass is live.
func (c *Cast) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// EnemyCount returns the fixed enemy slot count of the current pass.
func (c *Cast) EnemyCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.enemies)
}

// PlayerGhost returns the player ghost for inspection, or nil when torn
// down. Test and debug use; the renderer goes through View.
func (c *Cast) PlayerGhost() *Ghost {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.player
}

// EnemyGhost returns the enemy ghost in slot i, or nil.
func (c *Cast) EnemyGhost(i int) *Ghost {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.enemies) {
		return nil
	}
	return c.enemies[i]
}

// FloorSpawned returns the progressive-spawn count for one category.
func (c *Cast) FloorSpawned(cat replay.FloorCategory) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.floor.Spawned(cat)
}
