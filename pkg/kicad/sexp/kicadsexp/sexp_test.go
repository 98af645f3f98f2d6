package kicadsexp

import (
	"strings"
	"testing"
)

func TestParseString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string // compact String() form
		wantErr bool
	}{
		{
			name:  "flat list",
			input: "(at 10 20 90)",
			want:  "(at 10 20 90)",
		},
		{
			name:  "nested lists",
			input: "(footprint \"R_0603\" (layer \"F.Cu\") (at 1 2))",
			want:  `(footprint "R_0603" (layer "F.Cu") (at 1 2))`,
		},
		{
			name:  "whitespace and newlines",
			input: "(a\n\t(b   c)\n)",
			want:  "(a (b c))",
		},
		{
			name:  "comment skipped",
			input: "(a b) # trailing comment\n(c d)",
			want:  "(a b)",
		},
		{
			name:  "quoted string with spaces",
			input: `(title "Example Board")`,
			want:  `(title "Example Board")`,
		},
		{
			name:  "escaped quote in string",
			input: `(name "say \"hi\"")`,
			want:  `(name "say \"hi\"")`,
		},
		{
			name:  "empty list",
			input: "()",
			want:  "()",
		},
		{
			name:    "unbalanced open",
			input:   "(a (b c)",
			wantErr: true,
		},
		{
			name:    "unbalanced close",
			input:   "a)",
			wantErr: true,
		},
		{
			name:    "unterminated string",
			input:   `(a "oops)`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sexps, err := ParseString(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseString() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseString() unexpected error: %v", err)
			}
			if len(sexps) == 0 {
				t.Fatalf("ParseString() returned no expressions")
			}
			if got := sexps[0].String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStringAtomKeepsQuoting(t *testing.T) {
	sexps, err := ParseString(`(net 1 "GND")`)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}

	list := sexps[0].(*List)

	if _, ok := list.Get(1).(Symbol); !ok {
		t.Errorf("expected bare symbol for net number, got %T", list.Get(1))
	}
	if _, ok := list.Get(2).(String); !ok {
		t.Errorf("expected quoted string for net name, got %T", list.Get(2))
	}

	text, ok := AtomText(list.Get(2))
	if !ok || text != "GND" {
		t.Errorf("AtomText() = %q, %v; want \"GND\", true", text, ok)
	}
}

func TestListMutation(t *testing.T) {
	sexps, _ := ParseString("(at 1 2 3)")
	list := sexps[0].(*List)

	list.Set(1, Symbol("10"))
	if got := list.String(); got != "(at 10 2 3)" {
		t.Errorf("after Set: %q", got)
	}

	list.Append(Symbol("x"))
	if got := list.Len(); got != 5 {
		t.Errorf("after Append: Len() = %d, want 5", got)
	}

	old := list.Get(4)
	if !list.Remove(old) {
		t.Errorf("Remove() did not find element")
	}
	if got := list.String(); got != "(at 10 2 3)" {
		t.Errorf("after Remove: %q", got)
	}

	child := list.Get(3)
	if !list.Replace(child, Symbol("99")) {
		t.Errorf("Replace() did not find element")
	}
	if got := list.String(); got != "(at 10 2 99)" {
		t.Errorf("after Replace: %q", got)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	input := `(kicad_pcb
  (version 20221018)
  (generator pcbnew)
  (layers (0 "F.Cu" signal) (31 "B.Cu" signal))
  (net 0 "")
  (net 1 "GND")
  (footprint "Lib:R_0603"
    (layer "F.Cu")
    (at 10 20 90)
    (property "Reference" "R1")
    (pad "1" smd roundrect (at -0.79 0 90) (size 0.8 0.95) (layers "F.Cu") (net 1 "GND"))
  )
)`

	sexps, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}

	var out strings.Builder
	if err := Write(&out, sexps[0]); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	reparsed, err := ParseString(out.String())
	if err != nil {
		t.Fatalf("reparse error: %v\noutput:\n%s", err, out.String())
	}

	if got, want := reparsed[0].String(), sexps[0].String(); got != want {
		t.Errorf("round trip changed tree:\n got %s\nwant %s", got, want)
	}
}

func TestWriteEscapesStrings(t *testing.T) {
	var out strings.Builder
	node := NewList(Symbol("value"), String(`a "b" \c`))

	if err := Write(&out, node); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	reparsed, err := ParseString(out.String())
	if err != nil {
		t.Fatalf("reparse error: %v", err)
	}

	text, _ := AtomText(reparsed[0].(*List).Get(1))
	if text != `a "b" \c` {
		t.Errorf("escaped string round trip = %q", text)
	}
}
