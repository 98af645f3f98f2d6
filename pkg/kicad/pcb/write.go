package pcb

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kicadops/kicad-layout/pkg/kicad/sexp/kicadsexp"
)

// Write serializes the board document, including any mutations made
// through Footprint and Board methods, to w.
func (b *Board) Write(w io.Writer) error {
	if b.root == nil {
		return fmt.Errorf("board has no document tree")
	}
	return kicadsexp.Write(w, b.root)
}

// WriteFile writes the board document to the given path. The file is
// staged next to the target and renamed into place so a failed write
// never truncates an existing board.
func (b *Board) WriteFile(filename string) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), ".kicad-layout-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if err := b.Write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write board: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), filename); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", filename, err)
	}

	return nil
}
