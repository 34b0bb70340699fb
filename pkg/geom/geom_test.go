package geom

import (
	"math"
	"testing"
)

func TestVecOps(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: 4, Y: -2, Z: 0.5}

	if got := a.Add(b); got != (Vec3{X: 5, Y: 0, Z: 3.5}) {
		t.Errorf("Add = %+v", got)
	}
	if got := a.Sub(b); got != (Vec3{X: -3, Y: 4, Z: 2.5}) {
		t.Errorf("Sub = %+v", got)
	}
	if got := a.Scale(2); got != (Vec3{X: 2, Y: 4, Z: 6}) {
		t.Errorf("Scale = %+v", got)
	}
	if got := a.Dot(b); got != 1.5 {
		t.Errorf("Dot = %v, want 1.5", got)
	}
}

func TestLengthAndDistance(t *testing.T) {
	v := Vec3{X: 3, Y: 4}
	if got := v.Length(); got != 5 {
		t.Errorf("Length = %v, want 5", got)
	}
	if got := (Vec3{}).Length(); got != 0 {
		t.Errorf("zero length = %v, want 0", got)
	}
	if got := (Vec3{X: 1}).DistanceTo(Vec3{X: 4, Y: 4}); got != 5 {
		t.Errorf("DistanceTo = %v, want 5", got)
	}
}

func TestIsFinite(t *testing.T) {
	tests := []struct {
		f    float64
		want bool
	}{
		{0, true},
		{-12.5, true},
		{math.MaxFloat64, true},
		{math.NaN(), false},
		{math.Inf(1), false},
		{math.Inf(-1), false},
	}
	for _, tt := range tests {
		if got := IsFinite(tt.f); got != tt.want {
			t.Errorf("IsFinite(%v) = %v, want %v", tt.f, got, tt.want)
		}
	}

	if !(Vec3{X: 1, Y: 2, Z: 3}).IsFinite() {
		t.Error("finite vector reported non-finite")
	}
	if (Vec3{Y: math.NaN()}).IsFinite() {
		t.Error("NaN coordinate reported finite")
	}
}

func TestAxisAccessors(t *testing.T) {
	v := Vec3{X: 1, Y: 2, Z: 3}
	for _, tt := range []struct {
		axis Axis
		name string
		want float64
	}{
		{AxisX, "x", 1},
		{AxisY, "y", 2},
		{AxisZ, "z", 3},
	} {
		if got := v.Component(tt.axis); got != tt.want {
			t.Errorf("Component(%s) = %v, want %v", tt.axis, got, tt.want)
		}
		if tt.axis.String() != tt.name {
			t.Errorf("Axis.String() = %q, want %q", tt.axis, tt.name)
		}
		got := v.WithComponent(tt.axis, 9)
		if got.Component(tt.axis) != 9 {
			t.Errorf("WithComponent(%s) did not replace the coordinate", tt.axis)
		}
	}

	// WithComponent returns a copy.
	_ = v.WithComponent(AxisX, 100)
	if v.X != 1 {
		t.Errorf("WithComponent mutated the receiver: %+v", v)
	}
}
