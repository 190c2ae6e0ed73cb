package ghost

// SkinStyle defines the visual properties of one weapon skin, selected by
// the metadata captured at recording start. This separates ghost look
// from reconstruction tuning in ghost.go.
type SkinStyle struct {
	SkinID string

	// Body
	BodyRadius float64 // torso circle radius in world units
	LimbLength float64 // limb reach for the swing offsets
	BodyColor  string  // hex fill for the torso

	// Weapon
	AimLength   float64 // weapon barrel length from body center
	WeaponColor string  // hex stroke for the weapon line
	FlashRadius float64 // muzzle flash size

	// Trails
	TrailColor string // hex for full-fidelity motion trails
}

// DefaultSkinStyles returns the style table for all known skins.
// These are tuned for readability on the 1280x720 preview canvas.
func DefaultSkinStyles() map[string]SkinStyle {
	return map[string]SkinStyle{
		// MAKAROV - compact sidearm, small flash
		"makarov": {
			SkinID:      "makarov",
			BodyRadius:  14,
			LimbLength:  10,
			BodyColor:   "#4ecdc4",
			AimLength:   18,
			WeaponColor: "#2f3640",
			FlashRadius: 8,
			TrailColor:  "#4ecdc4",
		},

		// REVOLVER - long barrel, bigger flash
		"revolver": {
			SkinID:      "revolver",
			BodyRadius:  14,
			LimbLength:  10,
			BodyColor:   "#fd79a8",
			AimLength:   22,
			WeaponColor: "#353b48",
			FlashRadius: 11,
			TrailColor:  "#fd79a8",
		},

		// PUMP - shotgun silhouette, widest flash
		"pump": {
			SkinID:      "pump",
			BodyRadius:  15,
			LimbLength:  11,
			BodyColor:   "#e17055",
			AimLength:   26,
			WeaponColor: "#2d3436",
			FlashRadius: 14,
			TrailColor:  "#e17055",
		},

		// MINI UZI - stubby, rapid muzzle pops
		"mini_uzi": {
			SkinID:      "mini_uzi",
			BodyRadius:  13,
			LimbLength:  9,
			BodyColor:   "#ffeaa7",
			AimLength:   16,
			WeaponColor: "#2f3640",
			FlashRadius: 7,
			TrailColor:  "#ffeaa7",
		},

		// FRAG - grenade sprite used by grenade ghosts, not characters
		"frag": {
			SkinID:     "frag",
			BodyRadius: 5,
			BodyColor:  "#556b2f",
		},
	}
}

var skinStyles = DefaultSkinStyles()

// GetSkinStyle returns the style for a skin id, falling back to a neutral
// default for unknown skins so a missing asset never breaks playback.
func GetSkinStyle(id string) SkinStyle {
	if s, ok := skinStyles[id]; ok {
		return s
	}
	return SkinStyle{
		SkinID:      id,
		BodyRadius:  14,
		LimbLength:  10,
		BodyColor:   "#b2bec3",
		AimLength:   18,
		WeaponColor: "#2f3640",
		FlashRadius: 9,
		TrailColor:  "#b2bec3",
	}
}
