// Package web implements the HTTP surface: a thin read/write front end
// over Camera and Library.
package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Outurnate/stormwatch/camera"
	"github.com/Outurnate/stormwatch/library"
)

// Handlers holds the collaborators every route needs: the running camera
// and its clip library. Both are non-owning references — the application
// object outlives the HTTP layer.
type Handlers struct {
	cam     *camera.Camera
	lib     *library.Library
	logger  *zap.Logger
	indexHTML []byte
}

// NewHandlers builds a Handlers bound to the given camera and library.
func NewHandlers(cam *camera.Camera, lib *library.Library, logger *zap.Logger) *Handlers {
	return &Handlers{cam: cam, lib: lib, logger: logger, indexHTML: []byte(dashboardHTML)}
}

// HandleIndex serves the static dashboard at GET /.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(h.indexHTML)
}

// HandleLivePreview serves GET /live.jpeg: the camera's own fallback
// (black 32x32) when not running or no frame has landed yet.
func (h *Handlers) HandleLivePreview(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/jpeg")
	w.Write(h.cam.Preview())
}

// HandleStats serves GET /stats: the camera's resolution and frame rates.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	status := h.cam.GetStatus()
	h.writeJSON(w, map[string]interface{}{
		"width":       status.Width,
		"height":      status.Height,
		"nominalFPS":  status.NominalFPS,
		"measuredFPS": status.MeasuredFPS,
	})
}

// clipListEntry is the shape GET /clips returns per clip.
type clipListEntry struct {
	Title     string `json:"title"`
	Video     string `json:"video"`
	Thumbnail string `json:"thumbnail"`
}

// HandleClipList serves GET /clips: every clip whose thumbnail and video
// have both been written, in no particular order.
func (h *Handlers) HandleClipList(w http.ResponseWriter, r *http.Request) {
	clips, err := h.lib.ListClips()
	if err != nil {
		h.logger.Error("list clips", zap.Error(err))
		h.writeError(w, "could not list clips", http.StatusInternalServerError)
		return
	}

	entries := make([]clipListEntry, 0, len(clips))
	for _, c := range clips {
		entries = append(entries, clipListEntry{
			Title:     c.ID.Raw(),
			Video:     "/clips/" + c.VideoName,
			Thumbnail: "/clips/" + c.ThumbName,
		})
	}
	h.writeJSON(w, entries)
}

// HandleClipFile serves GET /clips/<name>: a sendfile of the video or
// thumbnail, 404 if the name fails Library's path-traversal guard or
// doesn't exist.
func (h *Handlers) HandleClipFile(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/clips/")
	path := h.lib.ClipPath(name)
	if path == "" {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}

// HandleSettings serves both GET and POST /settings.
func (h *Handlers) HandleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGetSettings(w, r)
	case http.MethodPost:
		h.handlePostSettings(w, r)
	default:
		h.writeError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handlers) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	values := make(map[string]float64, len(camera.AllProperties))
	for _, p := range camera.AllProperties {
		values[p.String()] = h.cam.GetProperty(p)
	}
	h.writeJSON(w, values)
}

func (h *Handlers) handlePostSettings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	for name, values := range query {
		if len(values) == 0 {
			continue
		}
		prop, ok := camera.PropertyByName(name)
		if !ok {
			continue // unrecognized key: silently ignored
		}
		value, err := strconv.ParseFloat(values[0], 64)
		if err != nil {
			continue
		}
		h.cam.SetProperty(prop, value)
	}
	h.cam.ApplyPropertyChange()
	h.writeJSON(w, map[string]interface{}{})
}

func (h *Handlers) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("encode JSON response", zap.Error(err))
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{"error": message})
}

const dashboardHTML = `<!DOCTYPE html>
<html>
<head><title>stormwatch</title></head>
<body>
<h1>stormwatch</h1>
<img src="/live.jpeg" alt="live preview" width="640" height="480">
<p><a href="/stats">stats</a> | <a href="/clips">clips</a> | <a href="/settings">settings</a></p>
</body>
</html>
`
