// Package library loads footprint definitions from KiCad .pretty
// library directories.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kicadops/kicad-layout/pkg/kicad/pcb"
	"github.com/kicadops/kicad-layout/pkg/kicad/sexp"
	"github.com/kicadops/kicad-layout/pkg/kicad/sexp/kicadsexp"
)

// Load reads footprint name from the .pretty library directory dir
// (a file named <name>.kicad_mod). The returned footprint carries the
// library nickname derived from the directory name and has no placement
// or net bindings yet; Board.ReplaceFootprint fills those in.
func Load(dir, name string) (*pcb.Footprint, error) {
	path := filepath.Join(dir, name+".kicad_mod")

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load footprint %q from %s: %w", name, dir, err)
	}
	defer file.Close()

	sexps, err := kicadsexp.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse footprint %s: %w", path, err)
	}
	if len(sexps) == 0 {
		return nil, fmt.Errorf("footprint file %s is empty", path)
	}

	root, ok := sexps[0].(*kicadsexp.List)
	if !ok {
		return nil, fmt.Errorf("footprint file %s has no root node", path)
	}
	if n := sexp.NodeName(root); n != "footprint" && n != "module" {
		return nil, fmt.Errorf("not a footprint file: expected 'footprint', got %q", n)
	}

	fp, err := pcb.FootprintFromNode(root, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse footprint %s: %w", path, err)
	}

	// Library files store the bare footprint name; boards store
	// "Nickname:Name". Stamp the nickname from the directory so the new
	// id survives substitution into a board.
	nickname := strings.TrimSuffix(filepath.Base(dir), ".pretty")
	if err := fp.SetID(nickname, name); err != nil {
		return nil, err
	}

	return fp, nil
}
