package geometry

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestBoundsUpdate(t *testing.T) {
	ring := Create([]mgl64.Vec2{{-3, 2}, {7, -1}, {4, 9}}, 1)

	var b Bounds
	b.Update(ring, nil)

	if b.Min != (mgl64.Vec2{-3, -1}) || b.Max != (mgl64.Vec2{7, 9}) {
		t.Errorf("bounds = %v/%v, want (-3,-1)/(7,9)", b.Min, b.Max)
	}
	if b.Min.X() > b.Max.X() || b.Min.Y() > b.Max.Y() {
		t.Error("bounds min exceeds max")
	}
}

// the swept expansion grows the box on the outbound side only
func TestBoundsUpdateVelocity(t *testing.T) {
	ring := Create([]mgl64.Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, 1)

	var b Bounds
	velocity := mgl64.Vec2{5, -3}
	b.Update(ring, &velocity)

	if b.Max.X() != 15 || b.Min.X() != 0 {
		t.Errorf("x extent = [%v, %v], want [0, 15]", b.Min.X(), b.Max.X())
	}
	if b.Min.Y() != -3 || b.Max.Y() != 10 {
		t.Errorf("y extent = [%v, %v], want [-3, 10]", b.Min.Y(), b.Max.Y())
	}
}

func TestBoundsOverlaps(t *testing.T) {
	a := Bounds{Min: mgl64.Vec2{0, 0}, Max: mgl64.Vec2{10, 10}}

	tests := []struct {
		name     string
		other    Bounds
		expected bool
	}{
		{"overlapping", Bounds{Min: mgl64.Vec2{5, 5}, Max: mgl64.Vec2{15, 15}}, true},
		{"touching edge", Bounds{Min: mgl64.Vec2{10, 0}, Max: mgl64.Vec2{20, 10}}, true},
		{"disjoint x", Bounds{Min: mgl64.Vec2{11, 0}, Max: mgl64.Vec2{20, 10}}, false},
		{"disjoint y", Bounds{Min: mgl64.Vec2{0, 11}, Max: mgl64.Vec2{10, 20}}, false},
		{"contained", Bounds{Min: mgl64.Vec2{2, 2}, Max: mgl64.Vec2{8, 8}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlaps(tt.other); got != tt.expected {
				t.Errorf("Overlaps() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBoundsContainsPoint(t *testing.T) {
	b := Bounds{Min: mgl64.Vec2{0, 0}, Max: mgl64.Vec2{10, 10}}

	if !b.ContainsPoint(mgl64.Vec2{5, 5}) {
		t.Error("centre should be contained")
	}
	if b.ContainsPoint(mgl64.Vec2{-1, 5}) {
		t.Error("outside point should not be contained")
	}
}

func TestBoundsTranslateShift(t *testing.T) {
	b := Bounds{Min: mgl64.Vec2{0, 0}, Max: mgl64.Vec2{10, 10}}

	b.Translate(mgl64.Vec2{3, 4})
	if b.Min != (mgl64.Vec2{3, 4}) || b.Max != (mgl64.Vec2{13, 14}) {
		t.Errorf("after Translate: %v/%v", b.Min, b.Max)
	}

	b.Shift(mgl64.Vec2{100, 100})
	if b.Min != (mgl64.Vec2{100, 100}) || b.Max != (mgl64.Vec2{110, 110}) {
		t.Errorf("after Shift: %v/%v", b.Min, b.Max)
	}
}
