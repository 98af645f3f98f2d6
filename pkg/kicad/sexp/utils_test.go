package sexp

import (
	"testing"

	"github.com/kicadops/kicad-layout/pkg/kicad/sexp/kicadsexp"
)

func mustParse(t *testing.T, input string) *kicadsexp.List {
	t.Helper()
	sexps, err := kicadsexp.ParseString(input)
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return sexps[0].(*kicadsexp.List)
}

func TestFindNode(t *testing.T) {
	node := mustParse(t, `(footprint "R1" (layer "F.Cu") (at 1 2) (pad "1") (pad "2"))`)

	at, found := FindNode(node, "at")
	if !found {
		t.Fatalf("FindNode(at) not found")
	}
	if got := NodeName(at); got != "at" {
		t.Errorf("NodeName() = %q", got)
	}

	if _, found := FindNode(node, "missing"); found {
		t.Errorf("FindNode(missing) unexpectedly found")
	}

	pads := FindAllNodes(node, "pad")
	if len(pads) != 2 {
		t.Errorf("FindAllNodes(pad) = %d nodes, want 2", len(pads))
	}
}

func TestGetters(t *testing.T) {
	node := mustParse(t, `(layer 31 "B.Cu" signal)`)

	if v, err := GetInt(node, 1); err != nil || v != 31 {
		t.Errorf("GetInt() = %d, %v", v, err)
	}
	if v, err := GetString(node, 2); err != nil || v != "B.Cu" {
		t.Errorf("GetString() = %q, %v", v, err)
	}
	if _, err := GetFloat(node, 2); err == nil {
		t.Errorf("GetFloat() on non-number should fail")
	}
	if _, err := GetString(node, 9); err == nil {
		t.Errorf("GetString() out of bounds should fail")
	}
}

func TestGetPosition(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantX     float64
		wantY     float64
		wantAngle Angle
		wantErr   bool
	}{
		{
			name:  "position without angle",
			input: "(at 10.5 -20.25)",
			wantX: 10.5, wantY: -20.25, wantAngle: 0,
		},
		{
			name:  "position with angle",
			input: "(at 1 2 90)",
			wantX: 1, wantY: 2, wantAngle: 90,
		},
		{
			name:    "wrong node",
			input:   "(start 1 2)",
			wantErr: true,
		},
		{
			name:    "missing coordinate",
			input:   "(at 1)",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := GetPosition(mustParse(t, tt.input))

			if tt.wantErr {
				if err == nil {
					t.Fatalf("GetPosition() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("GetPosition() error: %v", err)
			}
			if pos.X != tt.wantX || pos.Y != tt.wantY || pos.Angle != tt.wantAngle {
				t.Errorf("GetPosition() = (%v, %v, %v), want (%v, %v, %v)",
					pos.X, pos.Y, pos.Angle, tt.wantX, tt.wantY, tt.wantAngle)
			}
		})
	}
}

func TestSetAt(t *testing.T) {
	node := mustParse(t, "(at 1 2 45)")

	if err := SetAt(node, 15.5, 30); err != nil {
		t.Fatalf("SetAt() error: %v", err)
	}
	if got := node.String(); got != "(at 15.5 30 45)" {
		t.Errorf("after SetAt: %q", got)
	}

	if err := SetAt(mustParse(t, "(start 1 2)"), 0, 0); err == nil {
		t.Errorf("SetAt() on non-at node should fail")
	}
}

func TestSetAtAngle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		angle Angle
		want  string
	}{
		{
			name:  "replace existing angle",
			input: "(at 1 2 45)",
			angle: 90,
			want:  "(at 1 2 90)",
		},
		{
			name:  "append missing angle",
			input: "(at 1 2)",
			angle: 270,
			want:  "(at 1 2 270)",
		},
		{
			name:  "zero keeps angle absent",
			input: "(at 1 2)",
			angle: 0,
			want:  "(at 1 2)",
		},
		{
			name:  "zero overwrites present angle",
			input: "(at 1 2 90)",
			angle: 0,
			want:  "(at 1 2 0)",
		},
		{
			name:  "negative angle normalized",
			input: "(at 1 2)",
			angle: -90,
			want:  "(at 1 2 270)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := mustParse(t, tt.input)
			if err := SetAtAngle(node, tt.angle); err != nil {
				t.Fatalf("SetAtAngle() error: %v", err)
			}
			if got := node.String(); got != tt.want {
				t.Errorf("SetAtAngle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAngleNormalize(t *testing.T) {
	tests := []struct {
		in   Angle
		want Angle
	}{
		{0, 0},
		{90, 90},
		{360, 0},
		{-90, 270},
		{450, 90},
		{-450, 270},
	}

	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
