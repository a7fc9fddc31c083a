package io

import (
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/panelboard/pkg/diagram"
	"github.com/matzehuels/panelboard/pkg/errors"
)

// Stdio is the path that means standard input or output.
const Stdio = "-"

// ImportFile replaces the document of d with the one stored at path.
// Parse failures are FORMAT_ERROR; a missing file is NOT_FOUND.
func ImportFile(d *diagram.Diagram, path string) error {
	data, err := ReadFile(path)
	if err != nil {
		return err
	}
	if err := d.Deserialize(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ReadFile reads path, or standard input for [Stdio].
func ReadFile(path string) ([]byte, error) {
	if path == Stdio {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read stdin")
		}
		return data, nil
	}
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return data, nil
}
