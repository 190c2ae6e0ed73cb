// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all replay and server settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
)

// =============================================================================
// REPLAY CONFIGURATION
// =============================================================================

// ReplayConfig holds recording and playback settings.
type ReplayConfig struct {
	MaxRecordSeconds float64 // Hard cap on recording length
	MinSpeed         float64 // Lower playback speed clamp
	MaxSpeed         float64 // Upper playback speed clamp
	DefaultSpeed     float64 // Speed every playback starts at
	GraceSeconds     float64 // Linger on the final frame before teardown
	NearDeathHP      float64 // Health threshold for the near-death event
	FrameCapHint     int     // Pre-allocation hint for the snapshot store
}

// DefaultReplay returns the default replay configuration.
func DefaultReplay() ReplayConfig {
	return ReplayConfig{
		MaxRecordSeconds: 120,
		MinSpeed:         0.25,
		MaxSpeed:         4.0,
		DefaultSpeed:     1.0,
		GraceSeconds:     1.5,
		NearDeathHP:      1.0,
		FrameCapHint:     7200, // 120s at 60 steps/s
	}
}

// ReplayFromEnv returns replay configuration with environment variable
// overrides. Environment variables take precedence over defaults.
func ReplayFromEnv() ReplayConfig {
	cfg := DefaultReplay()

	if v := getEnvFloat("REPLAY_MAX_SECONDS", 0); v > 0 {
		cfg.MaxRecordSeconds = v
	}
	if v := getEnvFloat("REPLAY_MIN_SPEED", 0); v > 0 {
		cfg.MinSpeed = v
	}
	if v := getEnvFloat("REPLAY_MAX_SPEED", 0); v > 0 {
		cfg.MaxSpeed = v
	}
	if v := getEnvFloat("REPLAY_GRACE_SECONDS", -1); v >= 0 {
		cfg.GraceSeconds = v
	}
	if v := getEnvFloat("REPLAY_NEAR_DEATH_HP", 0); v > 0 {
		cfg.NearDeathHP = v
	}

	return cfg
}

// =============================================================================
// VIDEO & CANVAS CONFIGURATION
// =============================================================================

// VideoConfig holds canvas settings shared by the arena and the renderer.
type VideoConfig struct {
	Width  int // Canvas width in pixels
	Height int // Canvas height in pixels
	FPS    int // Fixed step rate for simulation, recording and playback
}

// DefaultVideo returns the default video configuration.
func DefaultVideo() VideoConfig {
	return VideoConfig{
		Width:  1280, // 720p
		Height: 720,
		FPS:    60,
	}
}

// VideoFromEnv returns video configuration with environment variable overrides.
func VideoFromEnv() VideoConfig {
	cfg := DefaultVideo()

	if w := getEnvInt("CANVAS_WIDTH", 0); w > 0 {
		cfg.Width = w
	}
	if h := getEnvInt("CANVAS_HEIGHT", 0); h > 0 {
		cfg.Height = h
	}
	if fps := getEnvInt("STEP_FPS", 0); fps > 0 {
		cfg.FPS = fps
	}

	return cfg
}

// =============================================================================
// AUDIO CONFIGURATION
// =============================================================================

// AudioConfig holds audio mixer settings.
type AudioConfig struct {
	SampleRate int     // Audio sample rate in Hz
	Volume     float64 // Master volume (0.0 to 1.0)
	Enabled    bool    // Whether replay sounds are enabled
	SoundDir   string  // Directory holding the .wav assets
}

// DefaultAudio returns the default audio configuration.
func DefaultAudio() AudioConfig {
	return AudioConfig{
		SampleRate: 44100,
		Volume:     0.6,
		Enabled:    true,
		SoundDir:   "assets/sounds",
	}
}

// AudioFromEnv returns audio configuration with environment variable overrides.
func AudioFromEnv() AudioConfig {
	cfg := DefaultAudio()

	if v := getEnvFloat("SOUND_VOLUME", -1); v >= 0 {
		cfg.Volume = v
	}
	if os.Getenv("SOUND_ENABLED") == "false" {
		cfg.Enabled = false
	}
	if d := os.Getenv("SOUND_DIR"); d != "" {
		cfg.SoundDir = d
	}

	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port          int
	RatePerSecond float64 // Per-client control request rate limit
	RateBurst     int
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:          3000,
		RatePerSecond: 10,
		RateBurst:     20,
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if r := getEnvFloat("RATE_LIMIT_RPS", 0); r > 0 {
		cfg.RatePerSecond = r
	}
	if b := getEnvInt("RATE_LIMIT_BURST", 0); b > 0 {
		cfg.RateBurst = b
	}

	return cfg
}

// =============================================================================
// JOURNAL CONFIGURATION
// =============================================================================

// JournalConfig holds the replay event journal settings.
type JournalConfig struct {
	Enabled bool
	Path    string // JSONL output file
}

// DefaultJournal returns the default journal configuration.
func DefaultJournal() JournalConfig {
	return JournalConfig{
		Enabled: false,
		Path:    "replay-events.jsonl",
	}
}

// JournalFromEnv returns journal configuration with environment variable overrides.
func JournalFromEnv() JournalConfig {
	cfg := DefaultJournal()

	if os.Getenv("JOURNAL_ENABLED") == "true" {
		cfg.Enabled = true
	}
	if p := os.Getenv("JOURNAL_PATH"); p != "" {
		cfg.Path = p
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Replay  ReplayConfig
	Video   VideoConfig
	Audio   AudioConfig
	Server  ServerConfig
	Journal JournalConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Replay:  ReplayFromEnv(),
		Video:   VideoFromEnv(),
		Audio:   AudioFromEnv(),
		Server:  ServerFromEnv(),
		Journal: JournalFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
