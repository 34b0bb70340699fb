package assembly

import (
	"strings"
	"testing"
)

const cabinetYAML = `
assembly:
  name: small-cabinet
  components:
    - id: side-left
      position: {x: 0, y: 0, z: 0}
      dimensions: {x: 18, y: 720, z: 560}
      material: {species: birch-ply, thickness: 18}
    - id: side-right
      position: {x: 500, y: 0, z: 0}
      dimensions: {x: 18, y: 720, z: 560}
  constraints:
    - type: fixed
      a: side-left
    - id: width
      type: distance
      a: side-left
      b: side-right
      target: 582
      weight: 2
`

func TestParseDocument(t *testing.T) {
	asm, err := ParseDocument([]byte(cabinetYAML))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	if asm.Name != "small-cabinet" {
		t.Errorf("name = %q", asm.Name)
	}
	if asm.ID == "" {
		t.Error("missing assembly identifier should be generated")
	}
	if asm.ComponentCount() != 2 || asm.ConstraintCount() != 2 {
		t.Fatalf("got %d components / %d constraints, want 2 / 2",
			asm.ComponentCount(), asm.ConstraintCount())
	}

	left := asm.Component("side-left")
	if left == nil {
		t.Fatal("side-left not found")
	}
	if left.Name != "side-left" {
		t.Errorf("component name defaults to its identifier, got %q", left.Name)
	}
	if left.Dimensions.Y != 720 {
		t.Errorf("dimensions.y = %v, want 720", left.Dimensions.Y)
	}
	if left.Material.Species != "birch-ply" {
		t.Errorf("material species = %q", left.Material.Species)
	}

	fixed := asm.Constraints[0]
	if fixed.Type != Fixed || fixed.ElementA != "side-left" {
		t.Errorf("unexpected fixed constraint %+v", fixed)
	}
	if fixed.ID == "" {
		t.Error("missing constraint identifier should be generated")
	}
	if fixed.Weight != DefaultWeight {
		t.Errorf("unweighted constraint = %v, want default", fixed.Weight)
	}

	width := asm.Constraints[1]
	if width.ID != "width" {
		t.Errorf("explicit constraint identifier lost, got %q", width.ID)
	}
	if width.TargetOr(0) != 582 {
		t.Errorf("target = %v, want 582", width.TargetOr(0))
	}
	if width.Weight != 2 {
		t.Errorf("weight = %v, want 2", width.Weight)
	}
}

func TestParseDocumentUnknownConstraintType(t *testing.T) {
	src := `
assembly:
  name: broken
  components:
    - id: top
  constraints:
    - type: welded
      a: top
`
	_, err := ParseDocument([]byte(src))
	if err == nil {
		t.Fatal("expected an error for an unknown constraint type")
	}
	if !strings.Contains(err.Error(), "welded") {
		t.Errorf("error %q should name the unknown type", err)
	}
}

func TestParseDocumentDuplicateComponent(t *testing.T) {
	src := `
assembly:
  name: broken
  components:
    - id: top
    - id: top
`
	if _, err := ParseDocument([]byte(src)); err == nil {
		t.Fatal("expected an error for a duplicate component identifier")
	}
}

func TestParseDocumentComponentWithoutID(t *testing.T) {
	src := `
assembly:
  name: broken
  components:
    - name: unnamed panel
`
	if _, err := ParseDocument([]byte(src)); err == nil {
		t.Fatal("expected an error for a component without an identifier")
	}
}

func TestParseDocumentMalformedYAML(t *testing.T) {
	if _, err := ParseDocument([]byte("assembly: [")); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestParseDocumentDanglingReferenceIsDeferred(t *testing.T) {
	// Dangling constraint references parse fine; solver validation owns
	// that diagnosis.
	src := `
assembly:
  name: deferred
  components:
    - id: top
  constraints:
    - type: coincident
      a: top
      b: ghost
`
	asm, err := ParseDocument([]byte(src))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if asm.ConstraintCount() != 1 {
		t.Errorf("constraint count = %d, want 1", asm.ConstraintCount())
	}
}
