package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"ghost-reel/internal/api"
	"ghost-reel/internal/audio"
	"ghost-reel/internal/config"
	"ghost-reel/internal/ghost"
	"ghost-reel/internal/render"
	"ghost-reel/internal/replay"
	"ghost-reel/internal/sim"

	"github.com/joho/godotenv"
)

// recordingSession binds the generic replay session to the one live scene
// this process simulates, so the API layer never needs to know about it.
type recordingSession struct {
	*replay.Session
	world *sim.World
}

func (rs *recordingSession) StartRecording() {
	player, enemies := rs.world.Trackables()
	rs.Session.StartRecording(rs.world, player, enemies)
}

// fanoutSink routes replay sounds to the local speaker and the WebSocket
// viewers, and visual effects to the viewers alone.
type fanoutSink struct {
	player *audio.Player
	hub    *api.WebSocketHub
}

func (f fanoutSink) PlaySound(kind replay.SoundKind, x, y float64) {
	f.player.PlaySound(kind, x, y)
	f.hub.PlaySound(kind, x, y)
}

func (f fanoutSink) SpawnEffect(kind replay.EffectKind, x, y, rotation float64) {
	f.hub.SpawnEffect(kind, x, y, rotation)
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("💡 No .env file found, using environment variables only")
	}

	log.Println("👻 ================================")
	log.Println("👻  GHOST REEL - REPLAY ENGINE")
	log.Println("👻 ================================")

	// Load centralized configuration (SSOT - Single Source of Truth)
	appConfig := config.Load()
	replayCfg := appConfig.Replay
	videoCfg := appConfig.Video
	audioCfg := appConfig.Audio
	serverCfg := appConfig.Server
	journalCfg := appConfig.Journal

	log.Printf("🎬 Config: %d steps/s, %dx%d canvas, %.0fs recording cap, speed %.2fx-%.2fx",
		videoCfg.FPS, videoCfg.Width, videoCfg.Height,
		replayCfg.MaxRecordSeconds, replayCfg.MinSpeed, replayCfg.MaxSpeed)

	// Debug server (pprof + metrics), localhost only
	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		if err := api.StartDebugServer(api.DefaultObservabilityConfig()); err != nil {
			log.Printf("⚠️ Debug server disabled: %v", err)
		}
	}

	// Live demo scene
	world := sim.NewWorld(sim.WorldConfig{
		Width:      float64(videoCfg.Width),
		Height:     float64(videoCfg.Height),
		EnemyCount: 4,
		MaxHP:      10,
		Seed:       time.Now().UnixNano(),
	})

	// Local sound playback for replayed events
	player := audio.NewPlayer(audio.Config{
		Enabled:     audioCfg.Enabled,
		SampleRate:  audioCfg.SampleRate,
		Volume:      audioCfg.Volume,
		SoundDir:    audioCfg.SoundDir,
		ListenerX:   float64(videoCfg.Width) / 2,
		ListenerY:   float64(videoCfg.Height) / 2,
		MaxDistance: 1400,
	})
	defer player.Close()

	// WebSocket hub doubles as playback notifier and remote effect sink
	hub := api.NewWebSocketHub()

	cast := ghost.NewCast(ghost.DefaultConfig(), fanoutSink{player: player, hub: hub})

	session := replay.NewSession(replay.SessionConfig{
		MaxRecordSeconds: replayCfg.MaxRecordSeconds,
		MinSpeed:         replayCfg.MinSpeed,
		MaxSpeed:         replayCfg.MaxSpeed,
		DefaultSpeed:     replayCfg.DefaultSpeed,
		GraceSeconds:     replayCfg.GraceSeconds,
		NearDeathHP:      replayCfg.NearDeathHP,
		FrameCapHint:     replayCfg.FrameCapHint,
	}, cast, hub)

	// Optional JSONL journal of synthesized events
	var journal *replay.Journal
	if journalCfg.Enabled {
		journal = replay.NewJournal()
		if err := journal.Start(journalCfg.Path); err != nil {
			log.Printf("⚠️ Journal disabled: %v", err)
			journal = nil
		} else {
			session.SetJournal(journal)
			log.Printf("📝 Journal: %s", journalCfg.Path)
		}
	}

	// PNG preview of the current playback view
	renderer := render.NewRenderer(render.Config{Width: videoCfg.Width, Height: videoCfg.Height})
	preview := func() ([]byte, error) {
		return renderer.RenderPNG(cast.View())
	}

	server := api.NewServer(&recordingSession{Session: session, world: world}, preview, hub, &api.RateLimitConfig{
		RequestsPerSecond: serverCfg.RatePerSecond,
		Burst:             serverCfg.RateBurst,
	})
	defer server.Stop()

	// Fixed-step loop driving the simulation and the session
	stepDur := time.Second / time.Duration(videoCfg.FPS)
	dt := stepDur.Seconds()
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(stepDur)
		defer ticker.Stop()
		var droppedSeen uint64
		var eventsSeen int
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				start := time.Now()
				world.Step(dt)
				session.Step(dt)
				api.RecordStep(time.Since(start))
				api.UpdateRecordedFrames(session.Frames())
				api.UpdatePlaybackPhase(int(session.Phase()))
				events := session.EventsSynthesized()
				api.RecordEventsSynthesized(events - eventsSeen)
				eventsSeen = events
				if journal != nil {
					_, dropped := journal.Stats()
					api.RecordJournalDropped(dropped - droppedSeen)
					droppedSeen = dropped
				}
			}
		}
	}()
	log.Printf("✅ Step loop running at %d steps/s", videoCfg.FPS)

	go func() {
		addr := ":" + strconv.Itoa(serverCfg.Port)
		if err := server.Start(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	close(stop)
	if journal != nil {
		journal.Stop()
	}
	log.Println("👋 Goodbye!")
}
