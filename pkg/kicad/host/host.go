// Package host adapts a parsed .kicad_pcb document to the capability
// interfaces the layout applicator consumes. It stands in for the pcbnew
// scripting host: lookups resolve against the parsed footprint list and
// footprint substitutions load .kicad_mod files from library directories
// resolved relative to the board's project directory.
package host

import (
	"path/filepath"

	"github.com/kicadops/kicad-layout/pkg/kicad/library"
	"github.com/kicadops/kicad-layout/pkg/kicad/pcb"
	"github.com/kicadops/kicad-layout/pkg/layout"
)

// Board wraps a pcb.Board as a layout.Board.
type Board struct {
	board   *pcb.Board
	projDir string
}

// New creates a host adapter. projDir is the directory containing the
// board file; footprint library paths in layout documents are resolved
// against it.
func New(board *pcb.Board, projDir string) *Board {
	return &Board{board: board, projDir: projDir}
}

// FindComponent looks up a placed footprint by reference designator.
func (h *Board) FindComponent(ref string) (layout.Component, bool) {
	fp, found := h.board.FindFootprint(ref)
	if !found {
		return nil, false
	}
	return &component{fp: fp, host: h}, true
}

// Refresh is a no-op for a file-backed board; there is no view to
// redraw. In-process hosts would forward this to their canvas.
func (h *Board) Refresh() {}

// component adapts a pcb.Footprint to layout.Component.
type component struct {
	fp   *pcb.Footprint
	host *Board
}

func (c *component) Reference() string {
	return c.fp.Reference
}

func (c *component) Position() layout.Point {
	return layout.Point{X: c.fp.Position.X, Y: c.fp.Position.Y}
}

func (c *component) SetPosition(p layout.Point) error {
	return c.fp.SetPosition(p.X, p.Y)
}

func (c *component) Orientation() float64 {
	return float64(c.fp.Position.Angle)
}

func (c *component) SetOrientation(deg float64) error {
	return c.fp.SetOrientation(deg)
}

func (c *component) Flipped() bool {
	return c.fp.IsFlipped()
}

func (c *component) Flip() error {
	return c.fp.Flip()
}

// ReplaceFootprint loads the named footprint and substitutes it for the
// component's current definition. Substitution is skipped when the
// current footprint already has that name; there is no way to recover
// which library file a footprint originally came from, so the name is
// the identity, same trade-off the pcbnew plugin made.
func (c *component) ReplaceFootprint(path, name string) error {
	if c.fp.Name == name {
		return nil
	}

	dir := path
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(c.host.projDir, dir)
	}

	def, err := library.Load(dir, name)
	if err != nil {
		return err
	}

	return c.host.board.ReplaceFootprint(c.fp, def)
}
