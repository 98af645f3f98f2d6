package layout

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(`
origin: [10, 10]
components:
  R1:
    location: [5, 5]
    rotation: 90
  C1:
    flip: true
  U1:
    footprint:
      path: libs/parts.pretty
      name: SOIC-8
`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if doc.Origin.X != 10 || doc.Origin.Y != 10 {
		t.Errorf("Origin = %+v", doc.Origin)
	}
	if len(doc.Components) != 3 {
		t.Fatalf("len(Components) = %d, want 3", len(doc.Components))
	}

	r1 := doc.Components["R1"]
	if r1.Location == nil || r1.Location.X != 5 || r1.Location.Y != 5 {
		t.Errorf("R1 location = %+v", r1.Location)
	}
	if r1.Rotation == nil || *r1.Rotation != 90 {
		t.Errorf("R1 rotation = %v", r1.Rotation)
	}
	// Unset fields stay nil so "no opinion" is distinguishable
	if r1.Flip != nil || r1.Footprint != nil {
		t.Errorf("R1 has unexpected fields: %+v", r1)
	}

	c1 := doc.Components["C1"]
	if c1.Flip == nil || !*c1.Flip {
		t.Errorf("C1 flip = %v", c1.Flip)
	}
	if c1.Location != nil || c1.Rotation != nil {
		t.Errorf("C1 has unexpected fields: %+v", c1)
	}

	u1 := doc.Components["U1"]
	if u1.Footprint == nil || u1.Footprint.Path != "libs/parts.pretty" || u1.Footprint.Name != "SOIC-8" {
		t.Errorf("U1 footprint = %+v", u1.Footprint)
	}
}

func TestParseDefaults(t *testing.T) {
	doc, err := Parse([]byte(`
components:
  R1:
    location: [1, 2]
`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if doc.Origin.X != 0 || doc.Origin.Y != 0 {
		t.Errorf("missing origin should default to (0, 0), got %+v", doc.Origin)
	}
}

func TestSide(t *testing.T) {
	boolPtr := func(b bool) *bool { return &b }

	tests := []struct {
		name string
		spec ComponentSpec
		want *bool
	}{
		{name: "neither", spec: ComponentSpec{}, want: nil},
		{name: "flip true", spec: ComponentSpec{Flip: boolPtr(true)}, want: boolPtr(true)},
		{name: "flip false is explicit front", spec: ComponentSpec{Flip: boolPtr(false)}, want: boolPtr(false)},
		{name: "flipped alias", spec: ComponentSpec{Flipped: boolPtr(true)}, want: boolPtr(true)},
		{
			name: "flip wins over flipped",
			spec: ComponentSpec{Flip: boolPtr(false), Flipped: boolPtr(true)},
			want: boolPtr(false),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.spec.Side()
			switch {
			case got == nil && tt.want == nil:
			case got == nil || tt.want == nil:
				t.Errorf("Side() = %v, want %v", got, tt.want)
			case *got != *tt.want:
				t.Errorf("Side() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestParseBadPoint(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "too few values", input: "components:\n  R1:\n    location: [1]\n"},
		{name: "too many values", input: "components:\n  R1:\n    location: [1, 2, 3]\n"},
		{name: "not a sequence", input: "components:\n  R1:\n    location: here\n"},
		{name: "non-numeric", input: "components:\n  R1:\n    location: [a, b]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.input)); err == nil {
				t.Errorf("Parse() should have failed")
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	content := "origin: [1, 2]\ncomponents:\n  R1:\n    rotation: 45\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	doc, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if doc.Origin.X != 1 || doc.Origin.Y != 2 {
		t.Errorf("Origin = %+v", doc.Origin)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Errorf("LoadFile() of a missing file should fail")
	}
}
