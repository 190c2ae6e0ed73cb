package replay

// EventType classifies a discrete occurrence synthesized by diffing two
// consecutive snapshots.
type EventType uint8

const (
	EventUnknown          EventType = iota
	EventShot                       // new projectile appeared
	EventEnemyDeath                 // enemy alive flag flipped true -> false
	EventEnemyHit                   // enemy still alive, health strictly decreased
	EventPlayerDeath                // player alive flag flipped true -> false
	EventPlayerHit                  // player alive, health strictly decreased
	EventNearDeath                  // player health crossed into (0, threshold]
	EventGrenadeExplosion           // grenade present before, absent now
)

// String returns a human-readable event type.
func (t EventType) String() string {
	switch t {
	case EventShot:
		return "shot"
	case EventEnemyDeath:
		return "enemy_death"
	case EventEnemyHit:
		return "enemy_hit"
	case EventPlayerDeath:
		return "player_death"
	case EventPlayerHit:
		return "player_hit"
	case EventNearDeath:
		return "near_death"
	case EventGrenadeExplosion:
		return "grenade_explosion"
	default:
		return "unknown"
	}
}

// Event is a tagged, position-carrying occurrence. Actor is the enemy slot
// index for enemy events, the projectile/grenade index for shot and
// explosion events, and -1 for player events.
type Event struct {
	Type  EventType `json:"type"`
	X     float64   `json:"x"`
	Y     float64   `json:"y"`
	Actor int       `json:"actor"`
}

// PlayerActor marks an event that belongs to the player rather than an
// indexed enemy slot.
const PlayerActor = -1

// SynthesizeEvents diffs snapshot cur against prev and returns the
// discrete events for cur, in the fixed contract order:
//
//	shots, enemy deaths, enemy hits, player death, player hit,
//	near-death crossing, grenade explosions.
//
// prev may be nil (first snapshot of a session), which yields no events.
// nearDeathHP is the inclusive upper bound of the near-death band; the
// crossing fires exactly once per transition from above the band into it.
func SynthesizeEvents(prev, cur *Snapshot, nearDeathHP float64) []Event {
	if prev == nil || cur == nil {
		return nil
	}

	var events []Event

	// Shots: one per projectile index beyond the previous count.
	for i := len(prev.Projectiles); i < len(cur.Projectiles); i++ {
		p := cur.Projectiles[i]
		events = append(events, Event{Type: EventShot, X: p.X, Y: p.Y, Actor: i})
	}

	// Enemy deaths before enemy hits, both in slot order.
	for i := range cur.Enemies {
		if i >= len(prev.Enemies) {
			break
		}
		if prev.Enemies[i].Alive && !cur.Enemies[i].Alive {
			e := cur.Enemies[i]
			events = append(events, Event{Type: EventEnemyDeath, X: e.X, Y: e.Y, Actor: i})
		}
	}
	for i := range cur.Enemies {
		if i >= len(prev.Enemies) {
			break
		}
		e := cur.Enemies[i]
		if e.Alive && e.Health < prev.Enemies[i].Health {
			events = append(events, Event{Type: EventEnemyHit, X: e.X, Y: e.Y, Actor: i})
		}
	}

	// Player death / hit / near-death threshold crossing.
	pp, cp := prev.Player, cur.Player
	if pp.Alive && !cp.Alive {
		events = append(events, Event{Type: EventPlayerDeath, X: cp.X, Y: cp.Y, Actor: PlayerActor})
	}
	if cp.Alive && cp.Health < pp.Health {
		events = append(events, Event{Type: EventPlayerHit, X: cp.X, Y: cp.Y, Actor: PlayerActor})
	}
	if pp.Health > nearDeathHP && cp.Health > 0 && cp.Health <= nearDeathHP {
		events = append(events, Event{Type: EventNearDeath, X: cp.X, Y: cp.Y, Actor: PlayerActor})
	}

	// Grenade explosions: a shrinking grenade sequence signals detonation.
	// The event is positioned at the grenade's last known location.
	for i := len(cur.Grenades); i < len(prev.Grenades); i++ {
		g := prev.Grenades[i]
		events = append(events, Event{Type: EventGrenadeExplosion, X: g.X, Y: g.Y, Actor: i})
	}

	return events
}
