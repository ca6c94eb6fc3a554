package constraint

import (
	"math"
	"testing"

	"github.com/akmonengine/rebound/actor"
	"github.com/go-gl/mathgl/mgl64"
)

func createTestBody(x, y float64, isStatic bool) *actor.Body {
	cfg := actor.DefaultConfig()
	cfg.Position = mgl64.Vec2{x, y}
	cfg.Vertices = []mgl64.Vec2{{0, 0}, {20, 0}, {20, 20}, {0, 20}}
	cfg.IsStatic = isStatic
	return actor.NewBody(&cfg)
}

func TestNewDerivesLength(t *testing.T) {
	bodyA := createTestBody(0, 0, false)
	bodyB := createTestBody(100, 0, false)

	cfg := DefaultConfig()
	cfg.BodyA = bodyA
	cfg.BodyB = bodyB
	c := New(&cfg)

	if math.Abs(c.Length-100) > 1e-9 {
		t.Errorf("derived length = %v, want 100", c.Length)
	}
	if c.Stiffness != 0.7 {
		t.Errorf("stiffness = %v, want 0.7", c.Stiffness)
	}
}

func TestNewClampsVanishingLength(t *testing.T) {
	bodyA := createTestBody(0, 0, false)

	cfg := DefaultConfig()
	cfg.BodyA = bodyA
	cfg.PointB = mgl64.Vec2{0, 0}
	c := New(&cfg)

	if c.Length < MinLength {
		t.Errorf("length = %v, want >= %v", c.Length, MinLength)
	}
}

func TestSolveBothEndpointsNil(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PointA = mgl64.Vec2{0, 0}
	cfg.PointB = mgl64.Vec2{100, 0}
	c := New(&cfg)

	// must be a no-op, not a panic
	c.Solve(1)
}

func TestSolvePullsBodiesTogether(t *testing.T) {
	bodyA := createTestBody(0, 0, false)
	bodyB := createTestBody(200, 0, false)

	cfg := DefaultConfig()
	cfg.BodyA = bodyA
	cfg.BodyB = bodyB
	cfg.Length = 100
	cfg.Stiffness = 1
	c := New(&cfg)

	before := bodyA.Position.Sub(bodyB.Position).Len()
	c.Solve(1)
	after := bodyA.Position.Sub(bodyB.Position).Len()

	if after >= before {
		t.Errorf("span grew: %v -> %v", before, after)
	}
	// equal masses share the correction equally
	if math.Abs(bodyA.Position.X()-(-bodyB.Position.X()+200)) > 1e-9 {
		t.Errorf("asymmetric correction: A at %v, B at %v", bodyA.Position, bodyB.Position)
	}
	// full stiffness projects straight to the rest length
	if math.Abs(after-100) > 1e-9 {
		t.Errorf("span after solve = %v, want 100", after)
	}
}

func TestSolveStaticAnchorOnlyMovesFreeBody(t *testing.T) {
	bodyA := createTestBody(0, 0, true)
	bodyB := createTestBody(200, 0, false)

	cfg := DefaultConfig()
	cfg.BodyA = bodyA
	cfg.BodyB = bodyB
	cfg.Length = 100
	cfg.Stiffness = 1
	c := New(&cfg)

	c.Solve(1)

	if bodyA.Position != (mgl64.Vec2{0, 0}) {
		t.Errorf("static body moved to %v", bodyA.Position)
	}
	span := bodyA.Position.Sub(bodyB.Position).Len()
	if math.Abs(span-100) > 1e-9 {
		t.Errorf("span = %v, want 100", span)
	}
}

func TestSolveAccumulatesImpulse(t *testing.T) {
	bodyA := createTestBody(0, 0, true)
	bodyB := createTestBody(200, 0, false)

	cfg := DefaultConfig()
	cfg.BodyA = bodyA
	cfg.BodyB = bodyB
	cfg.Length = 100
	cfg.Stiffness = 1
	c := New(&cfg)

	c.Solve(1)

	if bodyB.ConstraintImpulse.Offset == (mgl64.Vec2{}) {
		t.Error("constraint impulse not accumulated for warm start")
	}
}

func TestSolveAllFixedFirst(t *testing.T) {
	anchor := createTestBody(0, 0, true)
	middle := createTestBody(100, 0, false)
	tail := createTestBody(200, 0, false)

	cfgA := DefaultConfig()
	cfgA.BodyA = anchor
	cfgA.BodyB = middle
	cfgA.Length = 50
	cfgA.Stiffness = 1

	cfgB := DefaultConfig()
	cfgB.BodyA = middle
	cfgB.BodyB = tail
	cfgB.Length = 100
	cfgB.Stiffness = 1

	constraints := []*Constraint{New(&cfgB), New(&cfgA)}
	SolveAll(constraints, 1)

	// the anchored constraint solved first moves middle to 50; the free
	// pair then splits its 50 of stretch, leaving middle at 75 (the
	// reverse order would leave it at 50)
	if math.Abs(middle.Position.X()-75) > 1e-9 {
		t.Errorf("middle at %v, want 75", middle.Position.X())
	}
	if anchor.Position != (mgl64.Vec2{0, 0}) {
		t.Error("anchor moved")
	}
}
