package params

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_Validates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default() failed validation: %v", err)
	}
}

func TestValidate_RejectsOutOfRangeZoom(t *testing.T) {
	p := Default()
	p.Zoom = 0.1
	if err := p.Validate(); err == nil {
		t.Errorf("expected validation failure for out-of-range zoom")
	}
}

func TestValidate_RejectsBadStreamlineOrdering(t *testing.T) {
	p := Default()
	p.Streamlines.Main.Dstep = p.Streamlines.Main.Dtest + 1
	if err := p.Validate(); err == nil {
		t.Errorf("expected validation failure when dstep exceeds dtest")
	}
}

func TestValidate_RejectsUnknownBasisFieldType(t *testing.T) {
	p := Default()
	p.TensorField.BasisFields = append(p.TensorField.BasisFields, BasisFieldSpec{Type: "spiral"})
	if err := p.Validate(); err == nil {
		t.Errorf("expected validation failure for unknown basis field type")
	}
}

func TestLoad_RoundTripsJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.json")
	doc := `{
		"zoom": 2.5,
		"worldDimensions": {"x": 3000, "y": 1500},
		"origin": {"x": 10, "y": 20},
		"seed": 7,
		"buildings": {"minArea": 500, "shrinkSpacing": 2, "chanceNoDivide": 0.05, "heightMin": 15, "heightMax": 35}
	}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if p.Zoom != 2.5 {
		t.Errorf("Zoom = %v, want 2.5", p.Zoom)
	}
	if p.WorldDimensions.X != 3000 || p.WorldDimensions.Y != 1500 {
		t.Errorf("WorldDimensions = %v", p.WorldDimensions)
	}
	if p.Origin.X != 10 || p.Origin.Y != 20 {
		t.Errorf("Origin = %v", p.Origin)
	}
	if p.Buildings.HeightMin != 15 || p.Buildings.HeightMax != 35 {
		t.Errorf("Buildings height range = %+v", p.Buildings)
	}
	// Fields absent from the document fall back to Default()'s values.
	if p.Streamlines.Main.Dsep != Default().Streamlines.Main.Dsep {
		t.Errorf("expected streamlines.main to retain its default when absent from the document")
	}
}

func TestLoad_MissingFileIsError(t *testing.T) {
	if _, err := Load("/nonexistent/path/params.json"); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}
