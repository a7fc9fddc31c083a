package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/panelboard/pkg/diagram"
	perrors "github.com/matzehuels/panelboard/pkg/errors"
	"github.com/matzehuels/panelboard/pkg/geom"
)

// maxBody bounds request bodies.
const maxBody = 8 << 20

type errorResponse struct {
	Code    perrors.Code `json:"code"`
	Message string       `json:"message"`
}

type keyResponse struct {
	Key string `json:"key"`
}

type placementResponse struct {
	Key      string `json:"key,omitempty"`
	Group    string `json:"group"`
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
	Pos      string `json:"pos"`
	Size     string `json:"size"`
}

type annotationResponse struct {
	From        string    `json:"from"`
	To          string    `json:"to"`
	Orientation string    `json:"orientation"`
	Points      [2]string `json:"points"`
	Value       float64   `json:"value"`
	Text        string    `json:"text"`
}

type settingsBody struct {
	ShowDistances *bool `json:"showDistances,omitempty"`
	AllowTopLevel *bool `json:"allowTopLevel,omitempty"`
	ShowGrid      *bool `json:"showGrid,omitempty"`
}

type componentRequest struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Color string `json:"color"`
	Image string `json:"image"`
	Pos   string `json:"pos"`
	Size  string `json:"size"`
}

type enclosureRequest struct {
	Label string `json:"label"`
	Pos   string `json:"pos"`
	Size  string `json:"size"`
}

type positionRequest struct {
	Pos string `json:"pos"`
}

type sizeRequest struct {
	Size string `json:"size"`
}

func newPlacement(p diagram.Placement) placementResponse {
	return placementResponse{
		Key:      p.Key,
		Group:    p.Group,
		Accepted: p.Accepted,
		Reason:   p.Reason,
		Pos:      p.Pos.String(),
		Size:     p.Size.String(),
	}
}

func newAnnotations(anns []diagram.Annotation) []annotationResponse {
	out := make([]annotationResponse, len(anns))
	for i, a := range anns {
		out[i] = annotationResponse{
			From:        a.From,
			To:          a.To,
			Orientation: a.Orientation.String(),
			Points:      [2]string{a.Points[0].String(), a.Points[1].String()},
			Value:       a.Value,
			Text:        a.Text,
		}
	}
	return out
}

// statusFor maps error codes onto HTTP statuses.
func statusFor(code perrors.Code) int {
	switch code {
	case perrors.ErrCodeFormat, perrors.ErrCodeInvalidInput, perrors.ErrCodeInvalidKey,
		perrors.ErrCodeInvalidPath, perrors.ErrCodeInvalidColor:
		return http.StatusBadRequest
	case perrors.ErrCodeNotFound:
		return http.StatusNotFound
	case perrors.ErrCodeDuplicateKey:
		return http.StatusConflict
	case perrors.ErrCodePlacementRejected:
		return http.StatusUnprocessableEntity
	case perrors.ErrCodeUnsupported:
		return http.StatusNotAcceptable
	case perrors.ErrCodeEngineInit:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := perrors.GetCode(err)
	if code == "" {
		code = perrors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorResponse{Code: code, Message: perrors.UserMessage(err)})
}

// decode reads a JSON body into v; unknown fields are rejected.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidInput, err, "decode request")
	}
	return nil
}

func parsePoint(field, s string) (geom.Point, error) {
	p, err := geom.ParsePoint(s)
	if err != nil {
		return geom.Point{}, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "%s", field)
	}
	return p, nil
}

func parseSize(field, s string) (geom.Size, error) {
	sz, err := geom.ParseSize(s)
	if err != nil {
		return geom.Size{}, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "%s", field)
	}
	return sz, nil
}

func keyParam(r *http.Request) string {
	key := chi.URLParam(r, "key")
	if k, err := url.PathUnescape(key); err == nil {
		return k
	}
	return key
}
