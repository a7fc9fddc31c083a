package io

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/panelboard/pkg/diagram"
	"github.com/matzehuels/panelboard/pkg/errors"
)

// ExportFile writes the document of d to path, or standard output for
// [Stdio].
func ExportFile(d *diagram.Diagram, path string) error {
	data, err := d.Serialize()
	if err != nil {
		return err
	}
	return WriteFile(path, data)
}

// WriteFile writes data to path through a temporary file in the same
// directory, so an interrupted write never truncates an existing design.
// [Stdio] writes to standard output.
func WriteFile(path string, data []byte) error {
	if path == Stdio {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "rename to %s", path)
	}
	return nil
}
