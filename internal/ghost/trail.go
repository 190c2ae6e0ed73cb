package ghost

// TrailConfig tunes the motion-trail reconstruction. Trails render only in
// full-fidelity mode.
type TrailConfig struct {
	MaxPoints      int     // fixed history length
	MinInterval    float64 // minimum seconds between samples
	SpeedThreshold float64 // sampling happens only above this speed
	Fade           float64 // per-sample alpha decay on each update
}

// DefaultTrailConfig returns the tuning used when nothing is configured.
func DefaultTrailConfig() TrailConfig {
	return TrailConfig{
		MaxPoints:      8,
		MinInterval:    0.08,
		SpeedThreshold: 8.0,
		Fade:           0.85,
	}
}

// TrailPoint is one sampled position with its current fade alpha.
type TrailPoint struct {
	X, Y  float64
	Alpha float64
}

// Trail keeps a short ring buffer of recent positions sampled at a fixed
// minimum cadence while the ghost moves. Cleared whenever the ghost stops.
type Trail struct {
	cfg       TrailConfig
	points    []TrailPoint
	writeIdx  int
	count     int
	sinceLast float64
}

// NewTrail creates an empty trail.
func NewTrail(cfg TrailConfig) Trail {
	if cfg.MaxPoints <= 0 {
		cfg = DefaultTrailConfig()
	}
	return Trail{cfg: cfg, points: make([]TrailPoint, cfg.MaxPoints)}
}

// Sample feeds one step of reconstructed motion. Below the speed
// threshold the trail clears; above it a point is added whenever the
// minimum interval has elapsed. All stored points fade each step.
func (t *Trail) Sample(x, y, speed, dt float64) {
	if speed < t.cfg.SpeedThreshold {
		t.Clear()
		return
	}

	for i := 0; i < t.count; i++ {
		idx := (t.writeIdx - 1 - i + len(t.points)*2) % len(t.points)
		t.points[idx].Alpha *= t.cfg.Fade
	}

	t.sinceLast += dt
	if t.sinceLast < t.cfg.MinInterval && t.count > 0 {
		return
	}
	t.sinceLast = 0

	t.points[t.writeIdx] = TrailPoint{X: x, Y: y, Alpha: 1.0}
	t.writeIdx = (t.writeIdx + 1) % len(t.points)
	if t.count < len(t.points) {
		t.count++
	}
}

// Clear drops all points.
func (t *Trail) Clear() {
	t.count = 0
	t.writeIdx = 0
	t.sinceLast = 0
}

// Len returns the number of valid points.
func (t *Trail) Len() int {
	return t.count
}

// Points returns the valid points in order, oldest first.
func (t *Trail) Points() []TrailPoint {
	if t.count == 0 {
		return nil
	}
	out := make([]TrailPoint, t.count)
	start := t.writeIdx - t.count
	if start < 0 {
		start += len(t.points)
	}
	for i := 0; i < t.count; i++ {
		out[i] = t.points[(start+i)%len(t.points)]
	}
	return out
}
