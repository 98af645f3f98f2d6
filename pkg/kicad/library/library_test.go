package library

import (
	"os"
	"path/filepath"
	"testing"
)

const testMod = `(footprint "R_0805_2012Metric"
  (layer "F.Cu")
  (property "Reference" "REF**" (at 0 -1.65))
  (property "Value" "R_0805_2012Metric" (at 0 1.65))
  (pad "1" smd roundrect (at -0.9125 0) (size 1.025 1.4) (layers "F.Cu" "F.Paste" "F.Mask"))
  (pad "2" smd roundrect (at 0.9125 0) (size 1.025 1.4) (layers "F.Cu" "F.Paste" "F.Mask"))
)`

const legacyMod = `(module C_0603_1608Metric
  (layer F.Cu)
  (fp_text reference REF** (at 0 -1.43) (layer F.SilkS))
  (fp_text value C_0603_1608Metric (at 0 1.43) (layer F.Fab))
  (pad 1 smd roundrect (at -0.775 0) (size 0.9 0.95) (layers F.Cu F.Paste F.Mask))
)`

func writeLibrary(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "Test_Parts.pretty")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatalf("failed to create library dir: %v", err)
	}
	for name, content := range files {
		path := filepath.Join(dir, name+".kicad_mod")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeLibrary(t, map[string]string{"R_0805_2012Metric": testMod})

	fp, err := Load(dir, "R_0805_2012Metric")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if fp.Name != "R_0805_2012Metric" {
		t.Errorf("Name = %q", fp.Name)
	}
	// Nickname comes from the directory name with .pretty stripped
	if fp.Library != "Test_Parts" {
		t.Errorf("Library = %q, want Test_Parts", fp.Library)
	}
	if fp.FullID() != "Test_Parts:R_0805_2012Metric" {
		t.Errorf("FullID() = %q", fp.FullID())
	}
	if len(fp.Pads) != 2 {
		t.Errorf("len(Pads) = %d, want 2", len(fp.Pads))
	}
	if fp.IsFlipped() {
		t.Errorf("library footprint should load on the front side")
	}
}

func TestLoadLegacyModule(t *testing.T) {
	dir := writeLibrary(t, map[string]string{"C_0603_1608Metric": legacyMod})

	fp, err := Load(dir, "C_0603_1608Metric")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if fp.FullID() != "Test_Parts:C_0603_1608Metric" {
		t.Errorf("FullID() = %q", fp.FullID())
	}
	if len(fp.Pads) != 1 {
		t.Errorf("len(Pads) = %d, want 1", len(fp.Pads))
	}
}

func TestLoadMissingFootprint(t *testing.T) {
	dir := writeLibrary(t, map[string]string{"R_0805_2012Metric": testMod})

	if _, err := Load(dir, "No_Such_Part"); err == nil {
		t.Errorf("Load() of a missing footprint should fail")
	}
}

func TestLoadRejectsNonFootprint(t *testing.T) {
	dir := writeLibrary(t, map[string]string{"Broken": `(kicad_pcb (version 20221018))`})

	if _, err := Load(dir, "Broken"); err == nil {
		t.Errorf("Load() should reject a file whose root is not a footprint")
	}
}
