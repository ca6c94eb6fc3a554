package decomp

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func polygonArea(polygon []mgl64.Vec2) float64 {
	area := 0.0
	for i := range polygon {
		j := (i + 1) % len(polygon)
		area += polygon[i].X()*polygon[j].Y() - polygon[j].X()*polygon[i].Y()
	}
	return math.Abs(area) / 2
}

func isConvexCCW(polygon []mgl64.Vec2) bool {
	for i := range polygon {
		if isReflex(polygon, i) {
			return false
		}
	}
	return true
}

func TestMakeCCW(t *testing.T) {
	ccw := []mgl64.Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	cw := []mgl64.Vec2{{0, 10}, {10, 10}, {10, 0}, {0, 0}}

	if MakeCCW(ccw) {
		t.Error("CCW polygon should not be reversed")
	}
	if !MakeCCW(cw) {
		t.Error("CW polygon should be reversed")
	}
	if cw[0] != (mgl64.Vec2{0, 0}) {
		t.Errorf("reversed polygon starts at %v, want (0, 0)", cw[0])
	}
}

func TestIsSimple(t *testing.T) {
	tests := []struct {
		name     string
		polygon  []mgl64.Vec2
		expected bool
	}{
		{"square", []mgl64.Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, true},
		{"bowtie", []mgl64.Vec2{{0, 0}, {10, 10}, {10, 0}, {0, 10}}, false},
		{"concave simple", []mgl64.Vec2{{-1, 1}, {-1, 0}, {1, 0}, {1, 1}, {0.5, 0.5}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSimple(tt.polygon); got != tt.expected {
				t.Errorf("IsSimple() = %v, want %v", got, tt.expected)
			}
		})
	}
}

// concave pentagon splits into exactly two convex pieces whose areas
// sum to the input area
func TestQuickDecompConcave(t *testing.T) {
	polygon := []mgl64.Vec2{{-1, 1}, {-1, 0}, {1, 0}, {1, 1}, {0.5, 0.5}}
	MakeCCW(polygon)

	inputArea := polygonArea(polygon)

	pieces, err := QuickDecomp(polygon)
	if err != nil {
		t.Fatalf("QuickDecomp() error: %v", err)
	}
	if len(pieces) != 2 {
		t.Fatalf("QuickDecomp() returned %d pieces, want 2", len(pieces))
	}

	total := 0.0
	for i, piece := range pieces {
		if len(piece) < 3 {
			t.Fatalf("piece %d has %d vertices", i, len(piece))
		}
		if !isConvexCCW(piece) {
			t.Errorf("piece %d is not convex: %v", i, piece)
		}
		total += polygonArea(piece)
	}

	if math.Abs(total-inputArea) > 1e-9 {
		t.Errorf("decomposed area = %v, want %v", total, inputArea)
	}
}

func TestQuickDecompConvexPassthrough(t *testing.T) {
	polygon := []mgl64.Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	pieces, err := QuickDecomp(polygon)
	if err != nil {
		t.Fatalf("QuickDecomp() error: %v", err)
	}
	if len(pieces) != 1 {
		t.Fatalf("convex polygon split into %d pieces, want 1", len(pieces))
	}
}

func TestQuickDecompLShape(t *testing.T) {
	polygon := []mgl64.Vec2{
		{0, 0}, {40, 0}, {40, 10}, {10, 10}, {10, 40}, {0, 40},
	}
	MakeCCW(polygon)
	inputArea := polygonArea(polygon)

	pieces, err := QuickDecomp(polygon)
	if err != nil {
		t.Fatalf("QuickDecomp() error: %v", err)
	}
	if len(pieces) < 2 {
		t.Fatalf("L shape produced %d pieces, want >= 2", len(pieces))
	}

	total := 0.0
	for i, piece := range pieces {
		if !isConvexCCW(piece) {
			t.Errorf("piece %d is not convex", i)
		}
		total += polygonArea(piece)
	}
	if math.Abs(total-inputArea) > 1e-9 {
		t.Errorf("decomposed area = %v, want %v", total, inputArea)
	}
}

func TestDecompExhaustive(t *testing.T) {
	polygon := []mgl64.Vec2{
		{0, 0}, {40, 0}, {40, 10}, {10, 10}, {10, 40}, {0, 40},
	}
	MakeCCW(polygon)
	inputArea := polygonArea(polygon)

	pieces := Decomp(polygon)
	if len(pieces) != 2 {
		t.Fatalf("Decomp() returned %d pieces, want 2", len(pieces))
	}

	total := 0.0
	for i, piece := range pieces {
		if !isConvexCCW(piece) {
			t.Errorf("piece %d is not convex", i)
		}
		total += polygonArea(piece)
	}
	if math.Abs(total-inputArea) > 1e-9 {
		t.Errorf("decomposed area = %v, want %v", total, inputArea)
	}
}

func TestRemoveCollinearPoints(t *testing.T) {
	polygon := []mgl64.Vec2{
		{0, 0}, {5, 0}, {10, 0}, {10, 10}, {0, 10},
	}
	reduced := RemoveCollinearPoints(polygon, 0.01)
	if len(reduced) != 4 {
		t.Errorf("got %d vertices, want 4", len(reduced))
	}
}

func TestRemoveDuplicatePoints(t *testing.T) {
	polygon := []mgl64.Vec2{
		{0, 0}, {10, 0}, {10, 0.0000001}, {10, 10}, {0, 10}, {0, 0.0000001},
	}
	reduced := RemoveDuplicatePoints(polygon, 1e-4)
	if len(reduced) != 4 {
		t.Errorf("got %d vertices, want 4", len(reduced))
	}
}
