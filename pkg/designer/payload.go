package designer

import (
	"encoding/json"

	"github.com/matzehuels/panelboard/pkg/errors"
	"github.com/matzehuels/panelboard/pkg/geom"
	"github.com/matzehuels/panelboard/pkg/template"
)

// DragMIME is the key a drag payload travels under.
const DragMIME = "application/reactflow"

// Payload is the palette drag payload:
//
//	{"type": "ACB", "data": {"label": "ACB 1"}}
//
// Color and size are optional extensions carried by palette presets.
type Payload struct {
	Type string      `json:"type"`
	Data PayloadData `json:"data"`
}

// PayloadData is the display data of a payload.
type PayloadData struct {
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
	Size  string `json:"size,omitempty"`
}

// DecodePayload parses a drag payload.
func DecodePayload(s string) (Payload, error) {
	var p Payload
	if s == "" {
		return p, errors.New(errors.ErrCodeInvalidInput, "empty drag payload")
	}
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return p, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode drag payload")
	}
	if p.Type == "" {
		return p, errors.New(errors.ErrCodeInvalidInput, "drag payload has no type")
	}
	if err := errors.ValidateColor(p.Data.Color); err != nil {
		return p, err
	}
	if p.Data.Size != "" {
		if _, err := geom.ParseSize(p.Data.Size); err != nil {
			return p, errors.Wrap(errors.ErrCodeInvalidInput, err, "drag payload size")
		}
	}
	return p, nil
}

// Encode renders the payload as JSON.
func (p Payload) Encode() string {
	b, _ := json.Marshal(p)
	return string(b)
}

// DataTransfer wraps the payload under [DragMIME].
func (p Payload) DataTransfer() map[string]string {
	return map[string]string{DragMIME: p.Encode()}
}

// PresetPayload builds the payload a palette entry drags.
func PresetPayload(p template.Preset) Payload {
	return Payload{
		Type: p.Type,
		Data: PayloadData{Label: p.Name, Color: p.Color, Size: p.Size.String()},
	}
}

func (p Payload) size() *geom.Size {
	if p.Data.Size == "" {
		return nil
	}
	s, err := geom.ParseSize(p.Data.Size)
	if err != nil {
		return nil
	}
	return &s
}
