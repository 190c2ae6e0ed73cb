package sim

import (
	"math"

	"ghost-reel/internal/replay"
)

// Actor is one autonomous combatant in the demo arena. It implements
// replay.Trackable so the recorder can sample it without knowing anything
// about the simulation.
type Actor struct {
	Slot int // replay.OwnerPlayer or enemy slot index

	X, Y    float64
	VX, VY  float64
	facing  float64
	aim     replay.AimTransform
	hp      float64
	maxHP   float64
	alive   bool
	hitDirX float64
	hitDirY float64
	skin    string

	// Wander AI, in the same spirit as an arena bot: pick a point, walk
	// there, re-pick when reached or bored.
	targetX, targetY float64
	repickIn         float64
	fireCooldown     float64

	// Footprint stride tracking.
	strideAcc float64
	leftFoot  bool
}

// NewActor creates an alive actor at a position.
func NewActor(slot int, x, y float64, skin string, maxHP float64) *Actor {
	return &Actor{
		Slot:    slot,
		X:       x,
		Y:       y,
		targetX: x,
		targetY: y,
		skin:    skin,
		hp:      maxHP,
		maxHP:   maxHP,
		alive:   true,
		aim:     replay.AimTransform{Flip: 1},
	}
}

// Trackable surface.

func (a *Actor) Position() (float64, float64) { return a.X, a.Y }
func (a *Actor) Facing() float64              { return a.facing }
func (a *Actor) Velocity() (float64, float64) { return a.VX, a.VY }
func (a *Actor) Health() float64              { return a.hp }
func (a *Actor) Alive() bool                  { return a.alive }
func (a *Actor) Aim() replay.AimTransform     { return a.aim }
func (a *Actor) WeaponSkin() string           { return a.skin }

func (a *Actor) HitDirection() (float64, float64) {
	return a.hitDirX, a.hitDirY
}

// TakeDamage applies a hit arriving from direction (dx, dy).
func (a *Actor) TakeDamage(amount, dx, dy float64) {
	if !a.alive {
		return
	}
	n := math.Hypot(dx, dy)
	if n > 0 {
		a.hitDirX = dx / n
		a.hitDirY = dy / n
	}
	a.hp -= amount
	if a.hp <= 0 {
		a.hp = 0
		a.alive = false
		a.VX = 0
		a.VY = 0
	}
}

// aimAt points the weapon at a target, mirroring the aim model when the
// target is to the left.
func (a *Actor) aimAt(x, y float64) {
	a.aim.Angle = math.Atan2(y-a.Y, x-a.X)
	if math.Cos(a.aim.Angle) < 0 {
		a.aim.Flip = -1
	} else {
		a.aim.Flip = 1
	}
}
