package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ghost-reel/internal/replay"
)

// mockSession implements SessionInterface with just enough state to
// exercise the handlers.
type mockSession struct {
	hasReplay bool
	recording bool
	playing   bool
	phase     replay.Phase
	mode      replay.Mode
	speed     float64
	current   float64
	total     float64
	frames    int

	lastSeek  float64
	playCalls int
}

func newMockSession() *mockSession {
	return &mockSession{phase: replay.PhaseIdle, mode: replay.ModeFullFidelity, speed: 1.0}
}

func (m *mockSession) StartRecording() { m.recording = true; m.phase = replay.PhaseRecording }
func (m *mockSession) StopRecording()  { m.recording = false; m.hasReplay = true }
func (m *mockSession) Clear()          { m.hasReplay = false; m.frames = 0 }

func (m *mockSession) StartPlayback() { m.playing = true; m.playCalls++ }
func (m *mockSession) StopPlayback()  { m.playing = false }
func (m *mockSession) Seek(t float64) { m.lastSeek = t }
func (m *mockSession) SetSpeed(speed float64) {
	// Mirror the real clamp so the echo test is meaningful.
	if speed > 4.0 {
		speed = 4.0
	}
	if speed < 0.25 {
		speed = 0.25
	}
	m.speed = speed
}
func (m *mockSession) SetMode(mode replay.Mode) { m.mode = mode }

func (m *mockSession) HasReplay() bool              { return m.hasReplay }
func (m *mockSession) Duration() float64            { return m.total }
func (m *mockSession) IsRecording() bool            { return m.recording }
func (m *mockSession) IsPlaying() bool              { return m.playing }
func (m *mockSession) Phase() replay.Phase          { return m.phase }
func (m *mockSession) Mode() replay.Mode            { return m.mode }
func (m *mockSession) Speed() float64               { return m.speed }
func (m *mockSession) Progress() (float64, float64) { return m.current, m.total }
func (m *mockSession) Frames() int                  { return m.frames }

// testRouterConfig returns a config with rate limits high enough to
// never interfere with functional tests.
func testRouterConfig(s SessionInterface) RouterConfig {
	return RouterConfig{
		Session: s,
		RateLimitConfig: &RateLimitConfig{
			RequestsPerSecond: 1000,
			Burst:             1000,
			CleanupInterval:   DefaultRateLimitConfig.CleanupInterval,
		},
		DisableLogging: true,
	}
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("encode: %v", err)
	}
	resp, err := http.Post(url, "application/json", &buf)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestStatusEndpoint(t *testing.T) {
	s := newMockSession()
	s.hasReplay = true
	s.total = 12.5
	s.current = 3.25
	s.frames = 750

	ts := httptest.NewServer(NewRouter(testRouterConfig(s)))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/replay/status")
	if err != nil {
		t.Fatalf("GET status: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)

	if body["hasReplay"] != true || body["duration"] != 12.5 || body["time"] != 3.25 {
		t.Errorf("status body = %v", body)
	}
	if body["frames"] != float64(750) {
		t.Errorf("frames = %v", body["frames"])
	}
	if body["phase"] != "idle" || body["mode"] != "full" {
		t.Errorf("phase/mode = %v / %v", body["phase"], body["mode"])
	}
}

func TestPlayRequiresRecording(t *testing.T) {
	s := newMockSession()
	ts := httptest.NewServer(NewRouter(testRouterConfig(s)))
	defer ts.Close()

	// No recording yet: conflict.
	resp := postJSON(t, ts.URL+"/api/replay/play", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("play without replay = %d, want 409", resp.StatusCode)
	}
	resp.Body.Close()

	// Still recording: conflict.
	s.hasReplay = true
	s.recording = true
	resp = postJSON(t, ts.URL+"/api/replay/play", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("play while recording = %d, want 409", resp.StatusCode)
	}
	resp.Body.Close()

	// Stopped recording: playback starts.
	s.recording = false
	resp = postJSON(t, ts.URL+"/api/replay/play", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("play = %d, want 200", resp.StatusCode)
	}
	resp.Body.Close()
	if s.playCalls != 1 {
		t.Errorf("playCalls = %d, want 1", s.playCalls)
	}
}

func TestRecordLifecycleEndpoints(t *testing.T) {
	s := newMockSession()
	ts := httptest.NewServer(NewRouter(testRouterConfig(s)))
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/record/start", nil)
	body := decodeBody(t, resp)
	if body["recording"] != true || body["phase"] != "recording" {
		t.Errorf("start body = %v", body)
	}

	resp = postJSON(t, ts.URL+"/api/record/stop", nil)
	body = decodeBody(t, resp)
	if body["recording"] != false {
		t.Errorf("stop body = %v", body)
	}
	if !s.hasReplay {
		t.Error("stop should leave a replay behind")
	}

	resp = postJSON(t, ts.URL+"/api/record/clear", nil)
	body = decodeBody(t, resp)
	if body["hasReplay"] != false {
		t.Errorf("clear body = %v", body)
	}
}

func TestSeekValidation(t *testing.T) {
	s := newMockSession()
	s.hasReplay = true
	ts := httptest.NewServer(NewRouter(testRouterConfig(s)))
	defer ts.Close()

	// Seek while not playing: conflict.
	resp := postJSON(t, ts.URL+"/api/replay/seek", map[string]float64{"time": 2})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("seek while idle = %d, want 409", resp.StatusCode)
	}
	resp.Body.Close()

	s.playing = true
	resp = postJSON(t, ts.URL+"/api/replay/seek", map[string]float64{"time": 2.5})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("seek = %d, want 200", resp.StatusCode)
	}
	resp.Body.Close()
	if s.lastSeek != 2.5 {
		t.Errorf("lastSeek = %f, want 2.5", s.lastSeek)
	}
}

func TestSpeedValidationAndClampEcho(t *testing.T) {
	s := newMockSession()
	ts := httptest.NewServer(NewRouter(testRouterConfig(s)))
	defer ts.Close()

	tests := []struct {
		name       string
		speed      float64
		wantStatus int
		wantEcho   float64
	}{
		{"negative rejected", -1, http.StatusBadRequest, 0},
		{"zero rejected", 0, http.StatusBadRequest, 0},
		{"in range", 1.5, http.StatusOK, 1.5},
		{"clamped high", 100, http.StatusOK, 4.0},
		{"clamped low", 0.01, http.StatusOK, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/api/replay/speed", map[string]float64{"speed": tt.speed})
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				resp.Body.Close()
				return
			}
			body := decodeBody(t, resp)
			if body["speed"] != tt.wantEcho {
				t.Errorf("echoed speed = %v, want %f", body["speed"], tt.wantEcho)
			}
		})
	}
}

func TestModeEndpoint(t *testing.T) {
	s := newMockSession()
	ts := httptest.NewServer(NewRouter(testRouterConfig(s)))
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/replay/mode", map[string]string{"mode": "stylized"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("mode = %d, want 200", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["mode"] != "stylized" || s.mode != replay.ModeStylized {
		t.Errorf("mode = %v, session mode = %s", body["mode"], s.mode)
	}

	resp = postJSON(t, ts.URL+"/api/replay/mode", map[string]string{"mode": "cinematic"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown mode = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestPreviewEndpoint(t *testing.T) {
	s := newMockSession()

	// No preview wired: 404.
	ts := httptest.NewServer(NewRouter(testRouterConfig(s)))
	resp, err := http.Get(ts.URL + "/api/preview.png")
	if err != nil {
		t.Fatalf("GET preview: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("preview without renderer = %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()
	ts.Close()

	// Wired preview returns PNG bytes with no-store caching.
	cfg := testRouterConfig(s)
	cfg.Preview = func() ([]byte, error) { return []byte("\x89PNG"), nil }
	ts = httptest.NewServer(NewRouter(cfg))
	defer ts.Close()

	resp, err = http.Get(ts.URL + "/api/preview.png")
	if err != nil {
		t.Fatalf("GET preview: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("preview = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %s", ct)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Cache-Control = %s", cc)
	}
}

func TestRateLimitRejectsSustainedFlood(t *testing.T) {
	s := newMockSession()
	cfg := RouterConfig{
		Session: s,
		RateLimitConfig: &RateLimitConfig{
			RequestsPerSecond: 1,
			Burst:             2,
			CleanupInterval:   DefaultRateLimitConfig.CleanupInterval,
		},
		DisableLogging: true,
	}
	ts := httptest.NewServer(NewRouter(cfg))
	defer ts.Close()

	var got429 bool
	for i := 0; i < 5; i++ {
		resp, err := http.Get(ts.URL + "/api/replay/status")
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			got429 = true
			if ra := resp.Header.Get("Retry-After"); ra != "1" {
				t.Errorf("Retry-After = %q, want \"1\"", ra)
			}
		}
		resp.Body.Close()
	}
	if !got429 {
		t.Error("burst of 5 against burst limit 2 should hit 429")
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{"remote addr", "10.0.0.1:4321", "", "", "10.0.0.1"},
		{"x-forwarded-for single", "10.0.0.1:4321", "203.0.113.9", "", "203.0.113.9"},
		{"x-forwarded-for chain", "10.0.0.1:4321", "203.0.113.9, 10.0.0.2", "", "203.0.113.9"},
		{"x-real-ip", "10.0.0.1:4321", "", "203.0.113.7", "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := GetClientIP(r); got != tt.want {
				t.Errorf("GetClientIP() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestWebSocketRateLimiterPerIP(t *testing.T) {
	wrl := NewWebSocketRateLimiter(2)

	if !wrl.Allow("1.2.3.4") || !wrl.Allow("1.2.3.4") {
		t.Fatal("first two connections should be allowed")
	}
	if wrl.Allow("1.2.3.4") {
		t.Error("third connection should be rejected")
	}
	if !wrl.Allow("5.6.7.8") {
		t.Error("other IPs are tracked independently")
	}

	wrl.Release("1.2.3.4")
	if !wrl.Allow("1.2.3.4") {
		t.Error("release should free a slot")
	}
}

func TestIsAllowedOrigin(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"http://localhost:3000", true},
		{"http://127.0.0.1:8080", true},
		{"http://localhost", true},
		{"https://evil.example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsAllowedOrigin(tt.origin); got != tt.want {
			t.Errorf("IsAllowedOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}
