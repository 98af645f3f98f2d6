package pcb

import (
	"fmt"

	"github.com/kicadops/kicad-layout/pkg/kicad/sexp/kicadsexp"
)

// Board represents a KiCad PCB document. The parsed model is backed by
// the original s-expression tree, so mutations made through Footprint and
// Board methods are reflected when the board is written back out.
type Board struct {
	Version    int          // File format version
	Generator  string       // Generator info (e.g., "pcbnew")
	Layers     []Layer      // Layer definitions
	Nets       []Net        // Electrical nets
	Footprints []*Footprint // Component footprints
	Tracks     []Track      // Track segments

	root *kicadsexp.List
}

// FindFootprint returns the footprint with the given reference designator.
// Matching is exact; boards hold at most one footprint per reference.
func (b *Board) FindFootprint(ref string) (*Footprint, bool) {
	for _, fp := range b.Footprints {
		if fp.Reference == ref {
			return fp, true
		}
	}
	return nil, false
}

// GetNet returns a net by name, or nil if not found
func (b *Board) GetNet(name string) *Net {
	for i := range b.Nets {
		if b.Nets[i].Name == name {
			return &b.Nets[i]
		}
	}
	return nil
}

// ReplaceFootprint substitutes fp's physical definition with def (a
// footprint loaded from a library), preserving the reference designator,
// value, position, orientation, board side, and pad-to-net bindings
// matched by pad number. The same fp pointer stays valid and describes
// the new definition afterwards.
//
// KiCad has no in-place footprint exchange either: pcbnew deletes the old
// module and re-adds a fresh one, restoring reference, value, and nets.
// This mirrors that sequence on the document tree.
func (b *Board) ReplaceFootprint(fp *Footprint, def *Footprint) error {
	if fp.node == nil || def.node == nil {
		return fmt.Errorf("footprint has no backing node")
	}

	// Bring the new definition onto the same side first, so position and
	// orientation below are applied in final coordinates.
	if def.IsFlipped() != fp.IsFlipped() {
		if err := def.Flip(); err != nil {
			return fmt.Errorf("failed to mirror replacement footprint: %w", err)
		}
	}

	if err := def.SetPosition(fp.Position.X, fp.Position.Y); err != nil {
		return err
	}
	if err := def.SetOrientation(float64(fp.Position.Angle)); err != nil {
		return err
	}

	if err := def.SetReference(fp.Reference); err != nil {
		return err
	}
	if err := def.SetValue(fp.Value); err != nil {
		return err
	}

	// Rebind nets by pad number. Pads the new definition does not have
	// simply drop their connection, same as a pcbnew exchange.
	oldPads := make(map[string]*Net, len(fp.Pads))
	for i := range fp.Pads {
		oldPads[fp.Pads[i].Number] = fp.Pads[i].Net
	}
	for i := range def.Pads {
		if net, ok := oldPads[def.Pads[i].Number]; ok && net != nil {
			def.Pads[i].setNet(net)
		}
	}

	if !b.root.Replace(fp.node, def.node) {
		return fmt.Errorf("footprint %q is not part of this board", fp.Reference)
	}

	// Keep the caller's pointer valid: fp now describes the replacement.
	*fp = *def
	return nil
}
