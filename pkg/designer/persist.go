package designer

import (
	"bytes"
	"io"

	"github.com/matzehuels/panelboard/pkg/diagram"
	"github.com/matzehuels/panelboard/pkg/errors"
	"github.com/matzehuels/panelboard/pkg/observability"
)

// DefaultFilename is the suggested name of a saved design.
const DefaultFilename = "enclosure-design.json"

// Save writes the document to w and notifies the outcome.
func (ds *Designer) Save(w io.Writer) error {
	data, err := ds.d.Serialize()
	if err == nil {
		_, err = w.Write(data)
	}
	observability.Designer().OnPersist(ds.ctx, "save", len(data), err)
	if err != nil {
		ds.notifier.Notify(Notification{
			Level:   LevelError,
			Title:   "Error",
			Message: "Failed to save the design",
			Code:    errors.GetCode(err),
		})
		return errors.Wrap(errors.ErrCodeInternal, err, "save design")
	}
	ds.notifier.Notify(Notification{Level: LevelSuccess, Title: "Success", Message: "Design saved successfully"})
	return nil
}

// Load replaces the document with the one read from r. Loading is
// all-or-nothing: on failure the current document is kept, the failure is
// notified and a FORMAT_ERROR is returned. A successful load ends any
// drag session.
func (ds *Designer) Load(r io.Reader) error {
	var buf bytes.Buffer
	_, err := buf.ReadFrom(r)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeFormat, err, "read design")
	} else {
		ds.transact("load", func() { err = ds.d.Deserialize(buf.Bytes()) })
	}
	observability.Designer().OnPersist(ds.ctx, "load", buf.Len(), err)
	if err != nil {
		ds.logger.Warn("load failed", "err", err)
		ds.notifier.Notify(Notification{
			Level:   LevelError,
			Title:   "Error",
			Message: "Failed to load the design: " + errors.UserMessage(err),
			Code:    errors.GetCode(err),
		})
		return err
	}
	ds.dragging = false
	ds.selected = nil
	ds.before = diagram.Snapshot{}
	ds.notifier.Notify(Notification{Level: LevelSuccess, Title: "Success", Message: "Design loaded successfully"})
	return nil
}
