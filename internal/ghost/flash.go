package ghost

// FlashKind distinguishes the short-lived flash overlays.
type FlashKind uint8

const (
	FlashMuzzle FlashKind = iota
	FlashExplosion
)

// Flash durations in seconds. Muzzle flashes are tens of milliseconds;
// explosion flashes linger slightly longer.
const (
	muzzleFlashSeconds    = 0.06
	explosionFlashSeconds = 0.22
)

// Flash is a fixed-duration fading overlay spawned on a shooting flag or
// explosion event. It self-expires; the cast removes dead flashes each
// applied snapshot.
type Flash struct {
	Kind     FlashKind
	X, Y     float64
	Rotation float64
	Radius   float64

	age      float64
	duration float64
}

// NewMuzzleFlash spawns a muzzle flash at the shooter's position.
func NewMuzzleFlash(x, y, rotation, radius float64) *Flash {
	return &Flash{
		Kind:     FlashMuzzle,
		X:        x,
		Y:        y,
		Rotation: rotation,
		Radius:   radius,
		duration: muzzleFlashSeconds,
	}
}

// NewExplosionFlash spawns an explosion flash at the detonation point.
func NewExplosionFlash(x, y, radius float64) *Flash {
	return &Flash{
		Kind:     FlashExplosion,
		X:        x,
		Y:        y,
		Radius:   radius,
		duration: explosionFlashSeconds,
	}
}

// Update ages the flash. Returns false once expired.
func (f *Flash) Update(dt float64) bool {
	f.age += dt
	return f.age < f.duration
}

// Alpha returns the current opacity, fading linearly to zero.
func (f *Flash) Alpha() float64 {
	p := f.age / f.duration
	if p >= 1 {
		return 0
	}
	return 1 - p
}
