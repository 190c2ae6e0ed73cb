package ghost

import "ghost-reel/internal/replay"

// GhostView is an immutable copy of one ghost's pose for rendering.
// Value types only, like the rest of the view.
type GhostView struct {
	Skin    string
	X, Y    float64
	Facing  float64
	BodyRot float64
	Aim     replay.AimTransform
	Visible bool
	Tint    Tint
	Bob     float64
	Swing   float64
	Trail   []TrailPoint
}

// FlashView is an immutable copy of one flash overlay.
type FlashView struct {
	Kind   FlashKind
	X, Y   float64
	Radius float64
	Alpha  float64
}

// View is a complete immutable picture of the cast for one rendered
// frame. Extracting it under the cast lock keeps the renderer free of any
// shared mutable state.
type View struct {
	Active      bool
	Mode        replay.Mode
	Player      GhostView
	Enemies     []GhostView
	Projectiles []SpriteGhost
	Grenades    []SpriteGhost
	Flashes     []FlashView
	Floor       []FloorVisual
}

// View extracts the current render view.
func (c *Cast) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{Active: c.active, Mode: c.mode}
	if !c.active {
		return v
	}

	v.Player = ghostView(c.player)
	v.Enemies = make([]GhostView, len(c.enemies))
	for i, g := range c.enemies {
		v.Enemies[i] = ghostView(g)
	}

	v.Projectiles = make([]SpriteGhost, len(c.projectiles))
	copy(v.Projectiles, c.projectiles)
	v.Grenades = make([]SpriteGhost, len(c.grenades))
	copy(v.Grenades, c.grenades)

	v.Flashes = make([]FlashView, len(c.flashes))
	for i, f := range c.flashes {
		v.Flashes[i] = FlashView{Kind: f.Kind, X: f.X, Y: f.Y, Radius: f.Radius, Alpha: f.Alpha()}
	}

	visuals := c.floor.Visuals()
	v.Floor = make([]FloorVisual, len(visuals))
	copy(v.Floor, visuals)

	return v
}

func ghostView(g *Ghost) GhostView {
	if g == nil {
		return GhostView{}
	}
	return GhostView{
		Skin:    g.Skin,
		X:       g.X,
		Y:       g.Y,
		Facing:  g.Facing,
		BodyRot: g.BodyRot,
		Aim:     g.Aim,
		Visible: g.Visible,
		Tint:    g.Tint,
		Bob:     g.Bob,
		Swing:   g.Swing,
		Trail:   g.TrailPoints(),
	}
}
