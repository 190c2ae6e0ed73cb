package sim

// Projectile is one live bullet. Owner is replay.OwnerPlayer or the
// firing enemy's slot index; the recorder uses it to derive shooting
// flags without it ever reaching a snapshot.
type Projectile struct {
	Owner    int
	X, Y     float64
	VX, VY   float64
	Rotation float64
	TTL      float64
}

// Grenade is one live grenade rolling toward detonation.
type Grenade struct {
	X, Y     float64
	VX, VY   float64
	Rotation float64
	Fuse     float64
	Skin     string
}
