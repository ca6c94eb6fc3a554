package rebound

import (
	"testing"

	"github.com/akmonengine/rebound/actor"
	"github.com/akmonengine/rebound/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

func TestGetRegion(t *testing.T) {
	tests := []struct {
		name   string
		bounds geometry.Bounds
		want   region
	}{
		{"origin cell", geometry.Bounds{Min: mgl64.Vec2{1, 1}, Max: mgl64.Vec2{39, 39}},
			region{0, 0, 0, 0}},
		{"spanning", geometry.Bounds{Min: mgl64.Vec2{30, 30}, Max: mgl64.Vec2{90, 50}},
			region{0, 2, 0, 1}},
		{"negative", geometry.Bounds{Min: mgl64.Vec2{-50, -10}, Max: mgl64.Vec2{-10, 10}},
			region{-2, -1, -1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getRegion(tt.bounds); got != tt.want {
				t.Errorf("getRegion() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGridPairsForOverlappingBodies(t *testing.T) {
	grid := NewGrid()
	bodyA := createTestBox(100, 100, 30, false)
	bodyB := createTestBox(110, 100, 30, false)

	grid.Update([]*actor.Body{bodyA, bodyB}, geometry.InfiniteBounds(), true)

	if len(grid.pairsList) != 1 {
		t.Fatalf("pairsList = %d entries, want 1", len(grid.pairsList))
	}
	pair := grid.pairsList[0]
	if pair.count <= 0 {
		t.Errorf("pair refcount = %d, want > 0", pair.count)
	}
}

func TestGridNoPairsForDistantBodies(t *testing.T) {
	grid := NewGrid()
	bodyA := createTestBox(0, 0, 20, false)
	bodyB := createTestBox(500, 500, 20, false)

	grid.Update([]*actor.Body{bodyA, bodyB}, geometry.InfiniteBounds(), true)

	if len(grid.pairsList) != 0 {
		t.Errorf("pairsList = %d entries, want 0", len(grid.pairsList))
	}
}

func TestGridSkipsStaticPairs(t *testing.T) {
	grid := NewGrid()
	bodyA := createTestBox(100, 100, 30, true)
	bodyB := createTestBox(110, 100, 30, true)

	grid.Update([]*actor.Body{bodyA, bodyB}, geometry.InfiniteBounds(), true)

	if len(grid.pairsList) != 0 {
		t.Errorf("static pair tracked: %d entries", len(grid.pairsList))
	}
}

// moving a body out of shared cells decrements the pair away
func TestGridIncrementalRegionUpdate(t *testing.T) {
	grid := NewGrid()
	bodyA := createTestBox(100, 100, 30, false)
	bodyB := createTestBox(110, 100, 30, false)
	bodies := []*actor.Body{bodyA, bodyB}

	grid.Update(bodies, geometry.InfiniteBounds(), true)
	if len(grid.pairsList) != 1 {
		t.Fatalf("pairsList = %d entries, want 1", len(grid.pairsList))
	}

	bodyB.SetPosition(mgl64.Vec2{800, 800})
	grid.Update(bodies, geometry.InfiniteBounds(), false)

	if len(grid.pairsList) != 0 {
		t.Errorf("pairsList = %d entries after separation, want 0", len(grid.pairsList))
	}
}

func TestGridSkipsBodiesOutsideWorldBounds(t *testing.T) {
	grid := NewGrid()
	body := createTestBox(1000, 1000, 20, false)
	worldBounds := geometry.Bounds{Min: mgl64.Vec2{0, 0}, Max: mgl64.Vec2{500, 500}}

	grid.Update([]*actor.Body{body}, worldBounds, true)

	if len(grid.buckets) != 0 {
		t.Errorf("out-of-world body was bucketed into %d cells", len(grid.buckets))
	}
}

func TestGridClear(t *testing.T) {
	grid := NewGrid()
	bodyA := createTestBox(100, 100, 30, false)
	bodyB := createTestBox(110, 100, 30, false)

	grid.Update([]*actor.Body{bodyA, bodyB}, geometry.InfiniteBounds(), true)
	grid.Clear()

	if len(grid.buckets) != 0 || len(grid.pairs) != 0 || len(grid.pairsList) != 0 {
		t.Error("Clear left grid state behind")
	}
}
