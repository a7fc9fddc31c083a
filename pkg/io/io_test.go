package io

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/panelboard/pkg/diagram"
	"github.com/matzehuels/panelboard/pkg/errors"
	"github.com/matzehuels/panelboard/pkg/geom"
)

func TestExportImportFile(t *testing.T) {
	src := diagram.NewStarter(diagram.DefaultOptions(), nil)
	src.AddComponent("MCB", geom.Pt(10, 10), nil, "")
	path := filepath.Join(t.TempDir(), "enclosure-design.json")

	if err := ExportFile(src, path); err != nil {
		t.Fatalf("ExportFile: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Errorf("mode = %v", info.Mode().Perm())
	}

	dst := diagram.New(diagram.DefaultOptions(), nil)
	if err := ImportFile(dst, path); err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if !diagram.Equal(src.Document(), dst.Document()) {
		t.Error("imported document differs")
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %d entries", len(entries))
	}
}

func TestImportFileErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"class": "TreeModel"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		code errors.Code
	}{
		{"missing", filepath.Join(dir, "absent.json"), errors.ErrCodeNotFound},
		{"malformed", bad, errors.ErrCodeFormat},
		{"empty path", "", errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := diagram.NewStarter(diagram.DefaultOptions(), nil)
			before, _ := d.Serialize()
			err := ImportFile(d, tt.path)
			if !errors.Is(err, tt.code) {
				t.Fatalf("ImportFile() error = %v, want %s", err, tt.code)
			}
			after, _ := d.Serialize()
			if string(before) != string(after) {
				t.Error("failed import changed the diagram")
			}
		})
	}
}

func TestWriteFileReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.svg")
	if err := WriteFile(path, []byte("old contents")); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(path, []byte("new")); err != nil {
		t.Fatal(err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "new" {
		t.Errorf("contents = %q", got)
	}
}

func TestCopyPasteDocument(t *testing.T) {
	if !ClipboardAvailable() {
		t.Skip("no clipboard on this platform")
	}
	if os.Getenv("PANELBOARD_CLIPBOARD_TEST") == "" {
		t.Skip("PANELBOARD_CLIPBOARD_TEST not set")
	}
	src := diagram.NewStarter(diagram.DefaultOptions(), nil)
	if err := CopyDocument(src); err != nil {
		t.Fatal(err)
	}
	dst := diagram.New(diagram.DefaultOptions(), nil)
	if err := PasteDocument(dst); err != nil {
		t.Fatal(err)
	}
	if !diagram.Equal(src.Document(), dst.Document()) {
		t.Error("pasted document differs")
	}
}
