package api

import (
	"encoding/json"
	"net/http"
	"time"

	"ghost-reel/internal/replay"
)

// Handler methods for routerHandlers.
// These are used by both the standalone router (for testing) and the full Server.

func (h *routerHandlers) handleRecordStart(w http.ResponseWriter, r *http.Request) {
	h.session.StartRecording()
	writeJSON(w, map[string]interface{}{
		"recording": h.session.IsRecording(),
		"phase":     h.session.Phase().String(),
	})
}

func (h *routerHandlers) handleRecordStop(w http.ResponseWriter, r *http.Request) {
	h.session.StopRecording()
	writeJSON(w, map[string]interface{}{
		"recording": h.session.IsRecording(),
		"frames":    h.session.Frames(),
		"duration":  h.session.Duration(),
	})
}

func (h *routerHandlers) handleRecordClear(w http.ResponseWriter, r *http.Request) {
	h.session.Clear()
	writeJSON(w, map[string]interface{}{
		"hasReplay": h.session.HasReplay(),
	})
}

func (h *routerHandlers) handleReplayPlay(w http.ResponseWriter, r *http.Request) {
	if !h.session.HasReplay() {
		writeError(w, "No recording available", http.StatusConflict)
		return
	}
	if h.session.IsRecording() {
		writeError(w, "Still recording", http.StatusConflict)
		return
	}
	h.session.StartPlayback()
	writeJSON(w, h.statusBody())
}

func (h *routerHandlers) handleReplayStop(w http.ResponseWriter, r *http.Request) {
	h.session.StopPlayback()
	writeJSON(w, h.statusBody())
}

func (h *routerHandlers) handleReplaySeek(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Time float64 `json:"time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if !h.session.IsPlaying() {
		writeError(w, "Not playing", http.StatusConflict)
		return
	}
	h.session.Seek(req.Time)
	writeJSON(w, h.statusBody())
}

func (h *routerHandlers) handleReplaySpeed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Speed float64 `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Speed <= 0 {
		writeError(w, "Speed must be positive", http.StatusBadRequest)
		return
	}
	h.session.SetSpeed(req.Speed)
	writeJSON(w, map[string]interface{}{
		"speed": h.session.Speed(), // echoed back after clamping
	})
}

func (h *routerHandlers) handleReplayMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	mode, ok := replay.ParseMode(req.Mode)
	if !ok {
		writeError(w, "Unknown mode", http.StatusBadRequest)
		return
	}
	h.session.SetMode(mode)
	writeJSON(w, map[string]interface{}{
		"mode": h.session.Mode().String(),
	})
}

func (h *routerHandlers) handleReplayStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.statusBody())
}

func (h *routerHandlers) handlePreview(w http.ResponseWriter, r *http.Request) {
	if h.preview == nil {
		writeError(w, "Preview not available", http.StatusNotFound)
		return
	}

	start := time.Now()
	png, err := h.preview()
	if err != nil {
		writeError(w, "Render failed", http.StatusInternalServerError)
		return
	}
	RecordRender(time.Since(start))

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

func (h *routerHandlers) statusBody() map[string]interface{} {
	current, total := h.session.Progress()
	return map[string]interface{}{
		"phase":     h.session.Phase().String(),
		"mode":      h.session.Mode().String(),
		"recording": h.session.IsRecording(),
		"playing":   h.session.IsPlaying(),
		"hasReplay": h.session.HasReplay(),
		"speed":     h.session.Speed(),
		"time":      current,
		"duration":  total,
		"frames":    h.session.Frames(),
	}
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
