// Package layout applies a declarative component placement document to a
// circuit board. The document names components by reference designator
// and, per component, optionally requests a position, a rotation, a board
// side, and a footprint substitution. Components on the board that the
// document does not name are left untouched; entries naming components
// the board does not have are skipped.
//
// The board itself is consumed through the narrow Board and Component
// interfaces so the applicator can run against any host: a parsed
// .kicad_pcb document, a live scripting session, or an in-memory fake in
// tests.
package layout

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Point is a 2D coordinate in millimeters. In YAML it is written as a
// two-element sequence: [x, y].
type Point struct {
	X float64
	Y float64
}

// UnmarshalYAML decodes a [x, y] sequence.
func (p *Point) UnmarshalYAML(value *yaml.Node) error {
	var coords []float64
	if err := value.Decode(&coords); err != nil {
		return err
	}
	if len(coords) != 2 {
		return fmt.Errorf("line %d: expected [x, y], got %d values", value.Line, len(coords))
	}
	p.X = coords[0]
	p.Y = coords[1]
	return nil
}

// FootprintRef names a footprint in a library directory. Path is
// resolved relative to the directory containing the board file.
type FootprintRef struct {
	Path string `yaml:"path"` // library directory (e.g., "libs/passives.pretty")
	Name string `yaml:"name"` // footprint name within the library
}

// ComponentSpec holds the requested changes for one component. Every
// field is optional; a nil field means "leave that attribute alone", so
// an explicit `flip: false` (front side) is distinct from no opinion.
type ComponentSpec struct {
	Location  *Point        `yaml:"location"`  // board-relative mm, origin offset added
	Rotation  *float64      `yaml:"rotation"`  // absolute degrees
	Flip      *bool         `yaml:"flip"`      // true = back side, false = front side
	Flipped   *bool         `yaml:"flipped"`   // accepted alias for flip
	Footprint *FootprintRef `yaml:"footprint"` // substitute footprint definition
}

// Side resolves the requested board side, honoring both spellings.
// When both are present, flip wins. Nil means no side change requested.
func (s ComponentSpec) Side() *bool {
	if s.Flip != nil {
		return s.Flip
	}
	return s.Flipped
}

// Document is a parsed layout file.
type Document struct {
	// Origin is an offset applied to every component location.
	// Defaults to (0, 0) when absent.
	Origin Point `yaml:"origin"`

	// Components maps reference designators to their requested changes.
	Components map[string]ComponentSpec `yaml:"components"`
}

// Parse decodes a layout document from YAML text.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal layout document: %w", err)
	}
	return &doc, nil
}

// LoadFile reads and decodes a layout document from path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout file %s: %w", path, err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
