package ghost

import "ghost-reel/internal/replay"

// FloorVisual is one materialized floor-artifact instance. Persistent for
// the rest of the playback pass once spawned.
type FloorVisual struct {
	Category replay.FloorCategory
	X, Y     float64
	Rotation float64
	Scale    float64
	Color    string
	Left     bool
}

// FloorSpawner realizes the progressive floor-artifact spawn: artifacts
// accumulate during playback in the order they originally appeared,
// without ever re-deriving positions.
//
// The baseline is the per-category count in the snapshot that starts the
// current pass (reset on mode switch). On each applied snapshot the
// spawner materializes exactly the index range
// [baseline+spawned, currentCount) and advances its cursor. The recorded
// collections only ever grow, so diffing lengths is sufficient.
type FloorSpawner struct {
	baseline [replay.FloorCategoryCount]int
	spawned  [replay.FloorCategoryCount]int
	visuals  []FloorVisual
}

// NewFloorSpawner creates an empty spawner.
func NewFloorSpawner() *FloorSpawner {
	return &FloorSpawner{}
}

// SetBaseline records the pass baseline and materializes the artifacts
// that already existed when recording began. Those are visible from the
// first frame and do not count as progressive spawns.
func (fs *FloorSpawner) SetBaseline(f replay.FloorArtifacts) {
	fs.Reset()
	for c := replay.FloorCategory(0); c < replay.FloorCategoryCount; c++ {
		fs.baseline[c] = f.Count(c)
	}
	fs.materialize(f, [replay.FloorCategoryCount]int{}, fs.baseline)
}

// Advance spawns the artifacts newly available in f and returns how many
// progressive spawns occurred.
func (fs *FloorSpawner) Advance(f replay.FloorArtifacts) int {
	total := 0
	for c := replay.FloorCategory(0); c < replay.FloorCategoryCount; c++ {
		have := fs.baseline[c] + fs.spawned[c]
		cur := f.Count(c)
		if cur <= have {
			continue
		}
		var from, to [replay.FloorCategoryCount]int
		from[c] = have
		to[c] = cur
		fs.materialize(f, from, to)
		fs.spawned[c] += cur - have
		total += cur - have
	}
	return total
}

// Spawned returns the progressive-spawn count for one category.
func (fs *FloorSpawner) Spawned(c replay.FloorCategory) int {
	return fs.spawned[c]
}

// Visuals returns all materialized instances, in spawn order.
func (fs *FloorSpawner) Visuals() []FloorVisual {
	return fs.visuals
}

// Reset drops all state for a fresh pass.
func (fs *FloorSpawner) Reset() {
	fs.baseline = [replay.FloorCategoryCount]int{}
	fs.spawned = [replay.FloorCategoryCount]int{}
	fs.visuals = fs.visuals[:0]
}

// materialize appends visuals for the half-open index ranges per category.
func (fs *FloorSpawner) materialize(f replay.FloorArtifacts, from, to [replay.FloorCategoryCount]int) {
	for i := from[replay.FloorBlood]; i < to[replay.FloorBlood] && i < len(f.Blood); i++ {
		b := f.Blood[i]
		fs.visuals = append(fs.visuals, FloorVisual{
			Category: replay.FloorBlood,
			X:        b.X, Y: b.Y,
			Rotation: b.Rotation,
			Scale:    b.Scale,
			Color:    b.Color,
		})
	}
	for i := from[replay.FloorCasings]; i < to[replay.FloorCasings] && i < len(f.Casings); i++ {
		c := f.Casings[i]
		fs.visuals = append(fs.visuals, FloorVisual{
			Category: replay.FloorCasings,
			X:        c.X, Y: c.Y,
			Rotation: c.Rotation,
			Scale:    1,
		})
	}
	for i := from[replay.FloorFootprints]; i < to[replay.FloorFootprints] && i < len(f.Footprints); i++ {
		p := f.Footprints[i]
		fs.visuals = append(fs.visuals, FloorVisual{
			Category: replay.FloorFootprints,
			X:        p.X, Y: p.Y,
			Rotation: p.Rotation,
			Scale:    1,
			Left:     p.Left,
		})
	}
}
