package assembly

import (
	"strings"
	"testing"

	"github.com/chazu/armature/pkg/geom"
)

func TestBuilderBuildsAssembly(t *testing.T) {
	oak := MaterialSpec{Species: "white-oak", Thickness: 20}

	b := NewBuilder("bookcase")
	b.Panel("side-left", geom.Vec3{X: 20, Y: 1800, Z: 300}, oak, geom.Vec3{})
	b.Panel("side-right", geom.Vec3{X: 20, Y: 1800, Z: 300}, oak, geom.Vec3{X: 800})
	b.Fix("side-left")
	b.Distance("side-left", "side-right", 780)
	b.Parallel("side-left", "side-right")

	asm, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if asm.Name != "bookcase" {
		t.Errorf("name = %q", asm.Name)
	}
	if asm.ID == "" {
		t.Error("assembly identifier should be generated")
	}
	if asm.ComponentCount() != 2 || asm.ConstraintCount() != 3 {
		t.Fatalf("got %d components / %d constraints, want 2 / 3",
			asm.ComponentCount(), asm.ConstraintCount())
	}

	dist := asm.Constraints[1]
	if dist.Type != Distance || dist.ElementA != "side-left" || dist.ElementB != "side-right" {
		t.Errorf("unexpected distance constraint %+v", dist)
	}
	if dist.TargetOr(0) != 780 {
		t.Errorf("distance target = %v, want 780", dist.TargetOr(0))
	}
	for _, c := range asm.Constraints {
		if c.ID == "" {
			t.Error("constraint identifier should be generated")
		}
		if c.Weight != DefaultWeight {
			t.Errorf("constraint weight = %v, want default", c.Weight)
		}
	}
}

func TestBuilderReportsUnknownReference(t *testing.T) {
	b := NewBuilder("broken")
	b.Panel("top", geom.Vec3{X: 100, Y: 20, Z: 100}, MaterialSpec{}, geom.Vec3{})
	b.Fix("top")
	b.Distance("top", "leg", 400)

	_, err := b.Build()
	if err == nil {
		t.Fatal("expected an error for an unknown component reference")
	}
	if !strings.Contains(err.Error(), "leg") {
		t.Errorf("error %q should name the unknown component", err)
	}
}

func TestBuilderReportsDuplicatePanel(t *testing.T) {
	b := NewBuilder("broken")
	b.Panel("top", geom.Vec3{X: 100, Y: 20, Z: 100}, MaterialSpec{}, geom.Vec3{})
	b.Panel("top", geom.Vec3{X: 100, Y: 20, Z: 100}, MaterialSpec{}, geom.Vec3{})

	if _, err := b.Build(); err == nil {
		t.Fatal("expected an error for a duplicate panel identifier")
	}
}
