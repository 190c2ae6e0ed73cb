// Package render draws replay frames. It consumes immutable ghost views
// only, so it can run from any goroutine (the HTTP preview handler) while
// the step loop keeps reconstructing.
package render

import (
	"bytes"
	"image"
	"math"
	"strconv"

	"github.com/fogleman/gg"

	"ghost-reel/internal/ghost"
	"ghost-reel/internal/replay"
)

// Config sizes the canvas.
type Config struct {
	Width  int
	Height int
}

// DefaultConfig returns the 720p canvas the arena simulates in.
func DefaultConfig() Config {
	return Config{Width: 1280, Height: 720}
}

// Renderer draws ghost views onto a gg canvas.
type Renderer struct {
	cfg Config
}

// NewRenderer creates a renderer.
func NewRenderer(cfg Config) *Renderer {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg = DefaultConfig()
	}
	return &Renderer{cfg: cfg}
}

// Render draws one frame of the given view.
func (r *Renderer) Render(v ghost.View) image.Image {
	return r.draw(v).Image()
}

// RenderPNG renders one frame and encodes it as PNG.
func (r *Renderer) RenderPNG(v ghost.View) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.draw(v).EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) draw(v ghost.View) *gg.Context {
	dc := gg.NewContext(r.cfg.Width, r.cfg.Height)

	stylized := v.Mode == replay.ModeStylized

	// Arena floor.
	if stylized {
		dc.SetHexColor("#10181f")
	} else {
		dc.SetHexColor("#1e272e")
	}
	dc.Clear()

	if !v.Active {
		return dc
	}

	// Floor artifacts render under everything else, in spawn order.
	for _, f := range v.Floor {
		r.drawFloor(dc, f, stylized)
	}

	// Motion trails under the bodies they belong to.
	for _, e := range v.Enemies {
		r.drawTrail(dc, e, stylized)
	}
	r.drawTrail(dc, v.Player, stylized)

	for _, e := range v.Enemies {
		r.drawGhost(dc, e, stylized)
	}
	r.drawGhost(dc, v.Player, stylized)

	for _, p := range v.Projectiles {
		r.drawProjectile(dc, p, stylized)
	}
	for _, g := range v.Grenades {
		r.drawGrenade(dc, g, stylized)
	}

	for _, f := range v.Flashes {
		r.drawFlash(dc, f, stylized)
	}

	if stylized {
		// Tinted overlay: the stylized pass reads as a memory, not a
		// re-fight.
		dc.SetRGBA(0.15, 0.35, 0.45, 0.18)
		dc.DrawRectangle(0, 0, float64(r.cfg.Width), float64(r.cfg.Height))
		dc.Fill()
	}

	return dc
}

func (r *Renderer) drawGhost(dc *gg.Context, g ghost.GhostView, stylized bool) {
	if !g.Visible {
		return
	}
	style := ghost.GetSkinStyle(g.Skin)
	cr, cg, cb := pickColor(style.BodyColor, stylized)

	// Death fall and hit flash arrive as a multiplicative tint.
	cr *= g.Tint.R
	cg *= g.Tint.G
	cb *= g.Tint.B
	alpha := g.Tint.A

	y := g.Y - g.Bob

	dc.Push()
	dc.RotateAbout(g.BodyRot, g.X, y)

	// Limbs swing opposite each other, perpendicular to facing.
	px := math.Cos(g.Facing + math.Pi/2)
	py := math.Sin(g.Facing + math.Pi/2)
	fx := math.Cos(g.Facing)
	fy := math.Sin(g.Facing)
	limbR := style.BodyRadius * 0.42
	dc.SetRGBA(cr*0.8, cg*0.8, cb*0.8, alpha)
	dc.DrawCircle(g.X+px*style.BodyRadius+fx*g.Swing, y+py*style.BodyRadius+fy*g.Swing, limbR)
	dc.Fill()
	dc.DrawCircle(g.X-px*style.BodyRadius-fx*g.Swing, y-py*style.BodyRadius-fy*g.Swing, limbR)
	dc.Fill()

	// Torso.
	dc.SetRGBA(cr, cg, cb, alpha)
	dc.DrawCircle(g.X, y, style.BodyRadius)
	dc.Fill()

	// Weapon along the aim transform; Flip mirrors left/right.
	wr, wg, wb := pickColor(style.WeaponColor, stylized)
	ax := math.Cos(g.Aim.Angle)
	ay := math.Sin(g.Aim.Angle) * flipSign(g.Aim.Flip)
	dc.SetRGBA(wr, wg, wb, alpha)
	dc.SetLineWidth(3)
	dc.DrawLine(g.X, y, g.X+ax*style.AimLength, y+ay*style.AimLength)
	dc.Stroke()

	dc.Pop()
}

func (r *Renderer) drawTrail(dc *gg.Context, g ghost.GhostView, stylized bool) {
	if stylized || len(g.Trail) < 2 {
		return
	}
	style := ghost.GetSkinStyle(g.Skin)
	tr, tg, tb := pickColor(style.TrailColor, false)
	dc.SetLineWidth(2)
	for i := 1; i < len(g.Trail); i++ {
		a := g.Trail[i-1]
		b := g.Trail[i]
		dc.SetRGBA(tr, tg, tb, b.Alpha*0.5)
		dc.DrawLine(a.X, a.Y, b.X, b.Y)
		dc.Stroke()
	}
}

func (r *Renderer) drawProjectile(dc *gg.Context, p ghost.SpriteGhost, stylized bool) {
	cr, cg, cb := pickColor("#f5f6fa", stylized)
	dc.Push()
	dc.RotateAbout(p.Rotation, p.X, p.Y)
	dc.SetRGBA(cr, cg, cb, 1)
	dc.DrawRectangle(p.X-5, p.Y-1.5, 10, 3)
	dc.Fill()
	dc.Pop()
}

func (r *Renderer) drawGrenade(dc *gg.Context, g ghost.SpriteGhost, stylized bool) {
	style := ghost.GetSkinStyle(g.Skin)
	cr, cg, cb := pickColor(style.BodyColor, stylized)
	dc.SetRGBA(cr, cg, cb, 1)
	dc.DrawCircle(g.X, g.Y, style.BodyRadius)
	dc.Fill()
}

func (r *Renderer) drawFlash(dc *gg.Context, f ghost.FlashView, stylized bool) {
	if stylized {
		return
	}
	switch f.Kind {
	case ghost.FlashMuzzle:
		dc.SetRGBA(1, 0.93, 0.55, f.Alpha)
	case ghost.FlashExplosion:
		dc.SetRGBA(1, 0.62, 0.25, f.Alpha*0.85)
	}
	dc.DrawCircle(f.X, f.Y, f.Radius)
	dc.Fill()
}

func (r *Renderer) drawFloor(dc *gg.Context, f ghost.FloorVisual, stylized bool) {
	switch f.Category {
	case replay.FloorBlood:
		color := f.Color
		if color == "" {
			color = "#8b0000"
		}
		cr, cg, cb := pickColor(color, stylized)
		dc.SetRGBA(cr, cg, cb, 0.8)
		dc.DrawCircle(f.X, f.Y, 6*maxf(f.Scale, 0.25))
		dc.Fill()

	case replay.FloorCasings:
		cr, cg, cb := pickColor("#c9a227", stylized)
		dc.Push()
		dc.RotateAbout(f.Rotation, f.X, f.Y)
		dc.SetRGBA(cr, cg, cb, 0.9)
		dc.DrawRectangle(f.X-2.5, f.Y-1, 5, 2)
		dc.Fill()
		dc.Pop()

	case replay.FloorFootprints:
		side := 2.5
		if f.Left {
			side = -2.5
		}
		px := math.Cos(f.Rotation+math.Pi/2) * side
		py := math.Sin(f.Rotation+math.Pi/2) * side
		cr, cg, cb := pickColor("#3d4852", stylized)
		dc.SetRGBA(cr, cg, cb, 0.6)
		dc.DrawEllipse(f.X+px, f.Y+py, 2.2, 4)
		dc.Fill()
	}
}

// pickColor parses a hex color; stylized mode collapses it to its
// luminance for the desaturated look.
func pickColor(hex string, stylized bool) (float64, float64, float64) {
	r, g, b := parseHex(hex)
	if !stylized {
		return r, g, b
	}
	lum := 0.2126*r + 0.7152*g + 0.0722*b
	return lum, lum * 1.05, lum * 1.15 // cool gray
}

func parseHex(hex string) (float64, float64, float64) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0.7, 0.7, 0.7
	}
	r, err1 := strconv.ParseUint(hex[1:3], 16, 8)
	g, err2 := strconv.ParseUint(hex[3:5], 16, 8)
	b, err3 := strconv.ParseUint(hex[5:7], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0.7, 0.7, 0.7
	}
	return float64(r) / 255, float64(g) / 255, float64(b) / 255
}

func flipSign(flip float64) float64 {
	if flip < 0 {
		return -1
	}
	return 1
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
