package io

import (
	"github.com/atotto/clipboard"

	"github.com/matzehuels/panelboard/pkg/diagram"
	"github.com/matzehuels/panelboard/pkg/errors"
)

// ClipboardAvailable reports whether the platform has a usable clipboard
// (on Linux, xclip, xsel or wl-clipboard must be installed).
func ClipboardAvailable() bool { return !clipboard.Unsupported }

// CopyDocument places the serialized document of d on the clipboard.
func CopyDocument(d *diagram.Diagram) error {
	if clipboard.Unsupported {
		return errors.New(errors.ErrCodeUnsupported, "no clipboard available")
	}
	data, err := d.Serialize()
	if err != nil {
		return err
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write clipboard")
	}
	return nil
}

// PasteDocument replaces the document of d with the clipboard contents.
func PasteDocument(d *diagram.Diagram) error {
	if clipboard.Unsupported {
		return errors.New(errors.ErrCodeUnsupported, "no clipboard available")
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "read clipboard")
	}
	return d.Deserialize([]byte(text))
}
