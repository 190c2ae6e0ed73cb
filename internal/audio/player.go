// Package audio consumes the replay's abstract "play sound K at position
// P" requests and drives the speaker through beep. Everything degrades
// gracefully: a missing asset or an unavailable audio device leaves the
// player silent, never broken.
package audio

import (
	"log"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"ghost-reel/internal/replay"
)

// Config tunes the sound player.
type Config struct {
	Enabled    bool
	SampleRate int     // target mixer rate in Hz
	Volume     float64 // master volume, 0.0-1.0
	SoundDir   string  // directory holding <kind>.wav assets

	// Positional attenuation: full volume at the listener, silent at
	// MaxDistance. The listener sits at the arena center.
	ListenerX, ListenerY float64
	MaxDistance          float64
}

// DefaultConfig returns the tuning used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Enabled:     true,
		SampleRate:  44100,
		Volume:      0.6,
		SoundDir:    filepath.Join("assets", "sounds"),
		ListenerX:   640,
		ListenerY:   360,
		MaxDistance: 1400,
	}
}

// Player holds pre-decoded sound buffers and plays them positionally.
type Player struct {
	mu      sync.Mutex
	cfg     Config
	format  beep.Format
	buffers map[replay.SoundKind]*beep.Buffer
	ready   bool
}

// NewPlayer initializes the speaker and loads every known sound kind.
// Returns a silent player when audio is disabled or initialization fails.
func NewPlayer(cfg Config) *Player {
	p := &Player{cfg: cfg, buffers: make(map[replay.SoundKind]*beep.Buffer)}
	if !cfg.Enabled {
		return p
	}

	p.format = beep.Format{
		SampleRate:  beep.SampleRate(cfg.SampleRate),
		NumChannels: 2,
		Precision:   2,
	}
	if err := speaker.Init(p.format.SampleRate, p.format.SampleRate.N(time.Second/10)); err != nil {
		log.Printf("⚠️ Audio disabled: %v", err)
		return p
	}
	p.ready = true

	kinds := []replay.SoundKind{
		replay.SoundShot, replay.SoundHit, replay.SoundDeath,
		replay.SoundNearDeath, replay.SoundExplosion,
	}
	loaded := 0
	for _, kind := range kinds {
		if err := p.load(kind); err == nil {
			loaded++
		}
	}
	log.Printf("🔊 Audio ready: %d/%d sounds loaded from %s", loaded, len(kinds), cfg.SoundDir)
	return p
}

// load decodes one WAV asset into a reusable buffer, resampling to the
// mixer rate when the file disagrees.
func (p *Player) load(kind replay.SoundKind) error {
	path := filepath.Join(p.cfg.SoundDir, kind.String()+".wav")
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	streamer, format, err := wav.Decode(file)
	if err != nil {
		file.Close()
		return err
	}
	defer streamer.Close()

	var src beep.Streamer = streamer
	if format.SampleRate != p.format.SampleRate {
		src = beep.Resample(4, format.SampleRate, p.format.SampleRate, streamer)
	}

	buf := beep.NewBuffer(p.format)
	buf.Append(src)
	p.mu.Lock()
	p.buffers[kind] = buf
	p.mu.Unlock()
	return nil
}

// PlaySound plays one sound attenuated by distance from the listener.
// Unknown kinds and missing assets are silently ignored.
func (p *Player) PlaySound(kind replay.SoundKind, x, y float64) {
	p.mu.Lock()
	buf, ok := p.buffers[kind]
	ready := p.ready
	p.mu.Unlock()
	if !ready || !ok {
		return
	}

	gain := p.gainAt(x, y)
	if gain <= 0.01 {
		return
	}

	s := buf.Streamer(0, buf.Len())
	vol := &effects.Volume{
		Streamer: s,
		Base:     2,
		// beep volume is an exponent: 0 is unity, negative quieter.
		Volume: math.Log2(gain * p.cfg.Volume),
	}
	speaker.Play(vol)
}

// gainAt maps a world position to linear gain in [0, 1].
func (p *Player) gainAt(x, y float64) float64 {
	if p.cfg.MaxDistance <= 0 {
		return 1
	}
	d := math.Hypot(x-p.cfg.ListenerX, y-p.cfg.ListenerY)
	g := 1 - d/p.cfg.MaxDistance
	if g < 0 {
		return 0
	}
	return g
}

// Close releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ready {
		speaker.Close()
		p.ready = false
	}
}
