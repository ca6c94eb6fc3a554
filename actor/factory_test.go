package actor

import (
	"errors"
	"math"
	"testing"

	"github.com/akmonengine/rebound/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

func TestRectangle(t *testing.T) {
	body := Rectangle(100, 50, 80, 20, nil)

	if body.Position != (mgl64.Vec2{100, 50}) {
		t.Errorf("position = %v", body.Position)
	}
	if len(body.Vertices) != 4 {
		t.Fatalf("vertices = %d, want 4", len(body.Vertices))
	}

	width := body.Bounds.Max.X() - body.Bounds.Min.X()
	height := body.Bounds.Max.Y() - body.Bounds.Min.Y()
	if math.Abs(width-80) > 1e-9 || math.Abs(height-20) > 1e-9 {
		t.Errorf("bounds = %vx%v, want 80x20", width, height)
	}
	if math.Abs(body.Area-1600) > 1e-9 {
		t.Errorf("area = %v, want 1600", body.Area)
	}
}

func TestPolygonSides(t *testing.T) {
	body := Polygon(0, 0, 5, 30, nil)

	if len(body.Vertices) != 5 {
		t.Errorf("vertices = %d, want 5", len(body.Vertices))
	}
	for _, v := range body.Vertices {
		if math.Abs(v.Point.Sub(body.Position).Len()-30) > 1e-9 {
			t.Errorf("vertex %v not on the radius", v.Point)
		}
	}
}

func TestCircleEvenSides(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
		// sides = ceil(max(10, min(maxSides, radius))), rounded up to even
		want int
	}{
		{"small radius floors at ten", 5, 10},
		{"radius drives the count", 17, 18},
		{"capped at maxSides", 100, 26},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := Circle(0, 0, tt.radius, nil, 0)

			if len(body.Vertices) != tt.want {
				t.Errorf("sides = %d, want %d", len(body.Vertices), tt.want)
			}
			if len(body.Vertices)%2 != 0 {
				t.Error("circle approximation must have an even side count")
			}
			if body.CircleRadius != tt.radius {
				t.Errorf("circleRadius = %v, want %v", body.CircleRadius, tt.radius)
			}
		})
	}
}

func TestTrapezoid(t *testing.T) {
	body := Trapezoid(0, 0, 40, 20, 0.5, nil)
	if len(body.Vertices) != 4 {
		t.Errorf("trapezoid vertices = %d, want 4", len(body.Vertices))
	}

	// full slope degenerates to a triangle
	triangle := Trapezoid(0, 0, 40, 20, 1, nil)
	if len(triangle.Vertices) != 3 {
		t.Errorf("triangle vertices = %d, want 3", len(triangle.Vertices))
	}
}

func TestFromVerticesConvex(t *testing.T) {
	body, err := FromVertices(50, 50, [][]mgl64.Vec2{
		{{0, 0}, {30, 0}, {30, 30}, {0, 30}},
	}, nil, false, 0.01, 0)
	if err != nil {
		t.Fatal(err)
	}

	if len(body.Parts) != 1 {
		t.Errorf("convex input produced %d parts, want 1", len(body.Parts))
	}
	if body.Position.Sub(mgl64.Vec2{50, 50}).Len() > 1e-9 {
		t.Errorf("position = %v, want (50, 50)", body.Position)
	}
}

// a concave ring decomposes into a compound of convex parts
func TestFromVerticesConcave(t *testing.T) {
	ring := []mgl64.Vec2{
		{-100, 100}, {-100, 0}, {100, 0}, {100, 100}, {50, 50},
	}
	body, err := FromVertices(0, 0, [][]mgl64.Vec2{ring}, nil, false, 0.01, 0)
	if err != nil {
		t.Fatal(err)
	}

	// root hull plus two convex pieces
	if len(body.Parts) != 3 {
		t.Fatalf("parts = %d, want 3", len(body.Parts))
	}
	if body.Parts[0] != body {
		t.Error("parts[0] must be the compound root")
	}

	partArea := 0.0
	for _, part := range body.Parts[1:] {
		convex, ok := geometry.IsConvex(part.Vertices)
		if !ok || !convex {
			t.Errorf("part %q is not convex", part.Label)
		}
		partArea += part.Area
	}
	if math.Abs(body.Area-partArea) > 1e-9 {
		t.Errorf("compound area = %v, parts sum to %v", body.Area, partArea)
	}
}

func TestFromVerticesFlagsInternalEdges(t *testing.T) {
	ring := []mgl64.Vec2{
		{-100, 100}, {-100, 0}, {100, 0}, {100, 100}, {50, 50},
	}
	body, err := FromVertices(0, 0, [][]mgl64.Vec2{ring}, nil, true, 0.01, 0)
	if err != nil {
		t.Fatal(err)
	}

	internal := 0
	for _, part := range body.Parts[1:] {
		for _, v := range part.Vertices {
			if v.IsInternal {
				internal++
			}
		}
	}
	if internal == 0 {
		t.Error("no internal edges flagged on the shared seam")
	}
}

func TestFromVerticesRejectsDegenerate(t *testing.T) {
	tests := []struct {
		name string
		sets [][]mgl64.Vec2
	}{
		{"empty", nil},
		{"too few points", [][]mgl64.Vec2{{{0, 0}, {1, 1}}}},
		{"nan coordinate", [][]mgl64.Vec2{{{0, 0}, {math.NaN(), 1}, {2, 0}}}},
		{"zero area", [][]mgl64.Vec2{{{0, 0}, {1, 0}, {2, 0}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromVertices(0, 0, tt.sets, nil, false, 0.01, 0)
			if !errors.Is(err, ErrInvalidGeometry) {
				t.Errorf("err = %v, want ErrInvalidGeometry", err)
			}
		})
	}
}
