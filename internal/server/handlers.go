package server

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/panelboard/pkg/buildinfo"
	"github.com/matzehuels/panelboard/pkg/designer"
	"github.com/matzehuels/panelboard/pkg/diagram"
	perrors "github.com/matzehuels/panelboard/pkg/errors"
	"github.com/matzehuels/panelboard/pkg/export"
	"github.com/matzehuels/panelboard/pkg/observability"
)

// =============================================================================
// Middleware
// =============================================================================

// serialize runs one request at a time against the session.
func (s *Server) serialize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		observability.HTTP().OnRequest(r.Context(), r.Method, route)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, ww.Status(), time.Since(start))
		s.logger.Debug("request", "method", r.Method, "route", route, "status", ww.Status(),
			"duration", time.Since(start), "id", middleware.GetReqID(r.Context()))
	})
}

// =============================================================================
// Document
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  buildinfo.Version,
		"entities": s.d.Document().Len(),
	})
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.d.Write(&buf); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `inline; filename="`+designer.DefaultFilename+`"`)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) putDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.ds.Load(http.MaxBytesReader(w, r.Body, maxBody)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Entities
// =============================================================================

func (s *Server) addComponent(w http.ResponseWriter, r *http.Request) {
	var req componentRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := perrors.ValidateColor(req.Color); err != nil {
		writeError(w, err)
		return
	}
	spec := diagram.ComponentSpec{Type: req.Type, Label: req.Label, Color: req.Color, Image: req.Image}
	var err error
	if spec.Pos, err = parsePoint("pos", req.Pos); err != nil {
		writeError(w, err)
		return
	}
	if req.Size != "" {
		size, err := parseSize("size", req.Size)
		if err != nil {
			writeError(w, err)
			return
		}
		spec.Size = &size
	}
	writeJSON(w, http.StatusCreated, keyResponse{Key: s.ds.AddComponent(spec)})
}

func (s *Server) addEnclosure(w http.ResponseWriter, r *http.Request) {
	var req enclosureRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	pos, err := parsePoint("pos", req.Pos)
	if err != nil {
		writeError(w, err)
		return
	}
	size := s.d.EnclosureMinSize()
	if req.Size != "" {
		if size, err = parseSize("size", req.Size); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusCreated, keyResponse{Key: s.ds.AddEnclosure(req.Label, pos, size)})
}

func (s *Server) drop(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Pos     string           `json:"pos"`
		Payload designer.Payload `json:"payload"`
	}
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	pt, err := parsePoint("pos", req.Pos)
	if err != nil {
		writeError(w, err)
		return
	}
	payload, err := designer.DecodePayload(req.Payload.Encode())
	if err != nil {
		writeError(w, err)
		return
	}
	pl := s.ds.Drop(pt, payload)
	status := http.StatusCreated
	if !pl.Accepted {
		status = http.StatusOK
	}
	writeJSON(w, status, newPlacement(pl))
}

func (s *Server) move(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	pos, err := parsePoint("pos", req.Pos)
	if err != nil {
		writeError(w, err)
		return
	}
	pl, err := s.ds.Move(keyParam(r), pos)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlacement(pl))
}

func (s *Server) resize(w http.ResponseWriter, r *http.Request) {
	var req sizeRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	size, err := parseSize("size", req.Size)
	if err != nil {
		writeError(w, err)
		return
	}
	pl, err := s.ds.Resize(keyParam(r), size)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlacement(pl))
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	if err := s.ds.Remove(keyParam(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Drag sessions
// =============================================================================

func (s *Server) beginDrag(w http.ResponseWriter, r *http.Request) {
	key := keyParam(r)
	if _, ok := s.d.Entity(key); !ok {
		writeError(w, perrors.New(perrors.ErrCodeNotFound, "entity %q not found", key))
		return
	}
	s.ds.BeginDrag(key)
	writeJSON(w, http.StatusOK, newAnnotations(s.d.Annotations()))
}

func (s *Server) endDrag(w http.ResponseWriter, r *http.Request) {
	s.ds.EndDrag()
	w.WriteHeader(http.StatusNoContent)
}

// cancelDrag restores the document to its state when the drag began and
// ends the session.
func (s *Server) cancelDrag(w http.ResponseWriter, r *http.Request) {
	s.ds.CancelDrag()
	s.ds.EndDrag()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) distances(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newAnnotations(s.d.Annotations()))
}

// =============================================================================
// Settings and palette
// =============================================================================

func (s *Server) settings() settingsBody {
	distances, topLevel, grid := s.ds.ShowDistances(), s.ds.AllowTopLevel(), s.ds.ShowGrid()
	return settingsBody{ShowDistances: &distances, AllowTopLevel: &topLevel, ShowGrid: &grid}
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.settings())
}

func (s *Server) putSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsBody
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.ShowDistances != nil && *req.ShowDistances != s.ds.ShowDistances() {
		s.ds.SetShowDistances(*req.ShowDistances)
	}
	if req.AllowTopLevel != nil && *req.AllowTopLevel != s.ds.AllowTopLevel() {
		s.ds.SetAllowTopLevel(*req.AllowTopLevel)
	}
	if req.ShowGrid != nil && *req.ShowGrid != s.ds.ShowGrid() {
		s.ds.SetShowGrid(*req.ShowGrid)
	}
	writeJSON(w, http.StatusOK, s.settings())
}

type presetResponse struct {
	Name    string           `json:"name"`
	Payload designer.Payload `json:"payload"`
}

type paletteGroup struct {
	Category string           `json:"category"`
	Presets  []presetResponse `json:"presets"`
}

func (s *Server) palette(w http.ResponseWriter, r *http.Request) {
	groups := s.d.Registry().Palette()
	out := make([]paletteGroup, len(groups))
	for i, g := range groups {
		out[i] = paletteGroup{Category: string(g.Category)}
		for _, p := range g.Presets {
			out[i].Presets = append(out[i].Presets, presetResponse{Name: p.Name, Payload: designer.PresetPayload(p)})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type notificationResponse struct {
	Level   string       `json:"level"`
	Title   string       `json:"title,omitempty"`
	Message string       `json:"message"`
	Code    perrors.Code `json:"code,omitempty"`
}

// notifications returns and forgets the notifications raised so far.
func (s *Server) notifications(w http.ResponseWriter, r *http.Request) {
	drained := s.notes.Drain()
	out := make([]notificationResponse, len(drained))
	for i, n := range drained {
		out[i] = notificationResponse{Level: n.Level.String(), Title: n.Title, Message: n.Message, Code: n.Code}
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// Export
// =============================================================================

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := export.Options{
		Format:    chi.URLParam(r, "format"),
		Distances: q.Get("distances") == "true" || q.Get("distances") == "1",
		Grid:      q.Get("grid") == "true" || q.Get("grid") == "1",
		Refresh:   q.Get("refresh") == "true" || q.Get("refresh") == "1",
		GridSize:  s.d.Options().GridSize,
		Registry:  s.d.Registry(),
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 || scale > 10 {
			writeError(w, perrors.New(perrors.ErrCodeInvalidInput, "scale must be in (0, 10]"))
			return
		}
		opts.Scale = scale
	}

	res, err := s.runner.Export(r.Context(), s.d.Document(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	cacheStatus := "miss"
	if res.Cached {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", export.ContentType(res.Format))
	w.Header().Set("X-Cache", cacheStatus)
	_, _ = w.Write(res.Data)
}
