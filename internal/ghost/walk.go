package ghost

import "math"

// WalkConfig tunes the procedural walk cycle. The cycle is derived purely
// from recorded velocity magnitude (pose is never recorded), so every
// knob here is a reconstruction parameter, not gameplay state.
type WalkConfig struct {
	SpeedThreshold float64 // below this the cycle resets and eases out
	Cadence        float64 // base cycles per second at factor 1.0
	SpeedRef       float64 // speed that maps to factor 1.0
	MinFactor      float64 // cadence factor clamp, lower bound
	MaxFactor      float64 // cadence factor clamp, upper bound
	BobAmplitude   float64 // vertical bob in world units
	SwingAmplitude float64 // limb swing in world units
	EaseRate       float64 // per-second ease back to the base pose
}

// DefaultWalkConfig returns the tuning used when nothing is configured.
func DefaultWalkConfig() WalkConfig {
	return WalkConfig{
		SpeedThreshold: 8.0,
		Cadence:        2.2,
		SpeedRef:       90.0,
		MinFactor:      0.6,
		MaxFactor:      1.8,
		BobAmplitude:   2.5,
		SwingAmplitude: 6.0,
		EaseRate:       10.0,
	}
}

// Walk is the per-ghost walk-cycle state: a phase accumulator and the
// current sinusoidal offsets from the anatomical base pose.
type Walk struct {
	cfg   WalkConfig
	phase float64

	// Current offsets, exposed for rendering.
	Bob   float64
	Swing float64
}

// NewWalk creates a walk cycle with the given tuning.
func NewWalk(cfg WalkConfig) Walk {
	return Walk{cfg: cfg}
}

// Advance steps the cycle by dt given the recorded speed. Above the
// threshold the phase advances at cadence scaled by a clamped
// speed-dependent factor; below it the phase resets and the offsets ease
// back toward the base pose.
func (w *Walk) Advance(speed, dt float64) {
	if speed >= w.cfg.SpeedThreshold {
		factor := speed / w.cfg.SpeedRef
		if factor < w.cfg.MinFactor {
			factor = w.cfg.MinFactor
		}
		if factor > w.cfg.MaxFactor {
			factor = w.cfg.MaxFactor
		}
		w.phase += dt * w.cfg.Cadence * factor * 2 * math.Pi
		w.Bob = math.Abs(math.Sin(w.phase)) * w.cfg.BobAmplitude
		w.Swing = math.Sin(w.phase) * w.cfg.SwingAmplitude
		return
	}

	w.phase = 0
	ease := w.cfg.EaseRate * dt
	if ease > 1 {
		ease = 1
	}
	w.Bob += (0 - w.Bob) * ease
	w.Swing += (0 - w.Swing) * ease
}

// Reset snaps the cycle back to the base pose.
func (w *Walk) Reset() {
	w.phase = 0
	w.Bob = 0
	w.Swing = 0
}

// Phase returns the current accumulator value. Used by tests.
func (w *Walk) Phase() float64 {
	return w.phase
}
