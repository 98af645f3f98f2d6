package layout

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"
)

// Report summarizes one Apply run for host display.
type Report struct {
	// Applied counts components that had at least one change applied.
	Applied int

	// Skipped lists reference designators named in the document but not
	// found on the board.
	Skipped []string

	// Errors holds per-component failures (footprint substitution is the
	// only fallible operation). A component with an error may still have
	// had its other fields applied.
	Errors []ComponentError
}

// ComponentError records a non-fatal failure scoped to one component.
type ComponentError struct {
	Reference string
	Err       error
}

func (e ComponentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Reference, e.Err)
}

// ApplyFile loads the layout document at path and applies it to board.
// A missing or malformed file is fatal and mutates nothing.
func ApplyFile(board Board, path string, logger *log.Logger) (*Report, error) {
	doc, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return Apply(board, doc, logger), nil
}

// Apply walks the document's component entries and applies the requested
// changes to the matching board components. All values are absolute:
// position is origin + location regardless of prior placement, rotation
// is set (not added), and a side request that already matches the
// component's side does nothing. A side change lands before the rotation
// because mirroring a component negates its orientation; rotating last
// is what makes the requested angle the settled one. Applying the same
// document twice therefore yields the same board as applying it once.
//
// Entries naming components absent from the board are skipped. A failed
// footprint substitution is reported but does not stop the remaining
// fields of that component, nor the remaining components. Refresh is
// signaled once at the end.
func Apply(board Board, doc *Document, logger *log.Logger) *Report {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	report := &Report{}

	// Operations on distinct components are independent, so entry
	// ordering only affects log output. Sort for deterministic runs.
	refs := make([]string, 0, len(doc.Components))
	for ref := range doc.Components {
		refs = append(refs, ref)
	}
	sort.Strings(refs)

	if len(refs) == 0 {
		logger.Warn("layout document names no components")
	}

	for _, ref := range refs {
		spec := doc.Components[ref]

		comp, found := board.FindComponent(ref)
		if !found {
			logger.Warn("component not found on board, skipping", "ref", ref)
			report.Skipped = append(report.Skipped, ref)
			continue
		}

		changed := false

		if spec.Footprint != nil {
			err := comp.ReplaceFootprint(spec.Footprint.Path, spec.Footprint.Name)
			if err != nil {
				logger.Error("footprint substitution failed",
					"ref", ref, "name", spec.Footprint.Name, "err", err)
				report.Errors = append(report.Errors, ComponentError{Reference: ref, Err: err})
			} else {
				logger.Debug("footprint set", "ref", ref, "name", spec.Footprint.Name)
				changed = true
			}
		}

		if spec.Location != nil {
			pos := Point{
				X: doc.Origin.X + spec.Location.X,
				Y: doc.Origin.Y + spec.Location.Y,
			}
			if err := comp.SetPosition(pos); err != nil {
				report.Errors = append(report.Errors, ComponentError{Reference: ref, Err: err})
			} else {
				logger.Debug("position set", "ref", ref, "x", pos.X, "y", pos.Y)
				changed = true
			}
		}

		// Flip negates the orientation, so the side change must land
		// before the absolute rotation.
		if side := spec.Side(); side != nil {
			if *side != comp.Flipped() {
				if err := comp.Flip(); err != nil {
					report.Errors = append(report.Errors, ComponentError{Reference: ref, Err: err})
				} else {
					logger.Debug("side flipped", "ref", ref, "back", *side)
					changed = true
				}
			}
		}

		if spec.Rotation != nil {
			if err := comp.SetOrientation(*spec.Rotation); err != nil {
				report.Errors = append(report.Errors, ComponentError{Reference: ref, Err: err})
			} else {
				logger.Debug("rotation set", "ref", ref, "deg", *spec.Rotation)
				changed = true
			}
		}

		if changed {
			report.Applied++
		}
	}

	board.Refresh()

	logger.Info("layout applied",
		"applied", report.Applied,
		"skipped", len(report.Skipped),
		"errors", len(report.Errors))

	return report
}
