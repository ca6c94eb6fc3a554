// Package constraint implements distance constraints between bodies or
// world points, solved by Gauss-Seidel position projection with warm
// starting.
package constraint

import (
	"sync/atomic"

	"github.com/akmonengine/rebound/actor"
	"github.com/akmonengine/rebound/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// Warming scales the carried-over constraint impulse each step.
	Warming = 0.4
	// MinLength guards the distance projection against vanishing spans.
	MinLength    = 1e-6
	torqueDampen = 1
)

var idCounter atomic.Int64

// RenderHint is advisory styling information for external renderers.
type RenderHint int

const (
	RenderLine RenderHint = iota
	RenderPin
	RenderSpring
)

// Constraint keeps two anchors at a fixed distance. An anchor is either
// body-relative (when the body is set) or a world point. AngleA and
// AngleB track the body rotation the local anchors were last expressed
// in.
type Constraint struct {
	ID    int
	Label string

	BodyA *actor.Body
	BodyB *actor.Body

	PointA mgl64.Vec2
	PointB mgl64.Vec2

	Length           float64
	Stiffness        float64
	Damping          float64
	AngularStiffness float64

	AngleA float64
	AngleB float64

	Render RenderHint
}

// Config holds construction parameters for a constraint. A negative
// Length derives the rest length from the initial anchor distance.
type Config struct {
	Label            string
	BodyA            *actor.Body
	BodyB            *actor.Body
	PointA           mgl64.Vec2
	PointB           mgl64.Vec2
	Length           float64
	Stiffness        float64
	Damping          float64
	AngularStiffness float64
	Render           RenderHint
}

// DefaultConfig returns the normative constraint defaults.
func DefaultConfig() Config {
	return Config{
		Length:    -1,
		Stiffness: 0.7,
	}
}

// New creates a constraint from its config.
func New(cfg *Config) *Constraint {
	c := DefaultConfig()
	if cfg != nil {
		c = *cfg
	}

	constraint := &Constraint{
		ID:               int(idCounter.Add(1)),
		Label:            c.Label,
		BodyA:            c.BodyA,
		BodyB:            c.BodyB,
		PointA:           c.PointA,
		PointB:           c.PointB,
		Length:           c.Length,
		Stiffness:        c.Stiffness,
		Damping:          c.Damping,
		AngularStiffness: c.AngularStiffness,
		Render:           c.Render,
	}
	if constraint.Label == "" {
		constraint.Label = "Constraint"
	}
	if constraint.Stiffness == 0 {
		constraint.Stiffness = 0.7
	}

	if constraint.Length < 0 {
		constraint.Length = constraint.AnchorA().Sub(constraint.AnchorB()).Len()
	}
	if constraint.Length < MinLength {
		constraint.Length = MinLength
	}

	if constraint.BodyA != nil {
		constraint.AngleA = constraint.BodyA.Angle
	}
	if constraint.BodyB != nil {
		constraint.AngleB = constraint.BodyB.Angle
	}

	return constraint
}

// AnchorA returns the world position of the first anchor.
func (c *Constraint) AnchorA() mgl64.Vec2 {
	if c.BodyA != nil {
		return c.BodyA.Position.Add(c.PointA)
	}
	return c.PointA
}

// AnchorB returns the world position of the second anchor.
func (c *Constraint) AnchorB() mgl64.Vec2 {
	if c.BodyB != nil {
		return c.BodyB.Position.Add(c.PointB)
	}
	return c.PointB
}

// SolveAll runs one Gauss-Seidel sweep. Constraints with at least one
// fixed endpoint solve first; fully free constraints follow, which
// keeps chains anchored to the world stable.
func SolveAll(constraints []*Constraint, timeScale float64) {
	for _, c := range constraints {
		fixedA := c.BodyA == nil || c.BodyA.IsStatic
		fixedB := c.BodyB == nil || c.BodyB.IsStatic
		if fixedA || fixedB {
			c.Solve(timeScale)
		}
	}
	for _, c := range constraints {
		fixedA := c.BodyA == nil || c.BodyA.IsStatic
		fixedB := c.BodyB == nil || c.BodyB.IsStatic
		if !fixedA && !fixedB {
			c.Solve(timeScale)
		}
	}
}

// Solve projects the two anchors toward the rest length, splitting the
// correction by inverse mass and applying a damped torque from the
// anchor lever arms. Corrections accumulate into each body's constraint
// impulse for warm starting and the post-solve geometry sync.
func (c *Constraint) Solve(timeScale float64) {
	bodyA, bodyB := c.BodyA, c.BodyB
	if bodyA == nil && bodyB == nil {
		return
	}

	// keep local anchors current with body rotation
	if bodyA != nil && !bodyA.IsStatic {
		c.PointA = geometry.RotateVec(c.PointA, bodyA.Angle-c.AngleA)
		c.AngleA = bodyA.Angle
	}
	if bodyB != nil && !bodyB.IsStatic {
		c.PointB = geometry.RotateVec(c.PointB, bodyB.Angle-c.AngleB)
		c.AngleB = bodyB.Angle
	}

	delta := c.AnchorA().Sub(c.AnchorB())
	currentLength := delta.Len()
	if currentLength < MinLength {
		currentLength = MinLength
	}

	difference := (currentLength - c.Length) / currentLength
	stiffness := c.Stiffness
	if stiffness < 1 {
		stiffness *= timeScale
	}
	force := delta.Mul(difference * stiffness)

	massTotal, inertiaTotal := 0.0, 0.0
	if bodyA != nil {
		massTotal += bodyA.InverseMass
		inertiaTotal += bodyA.InverseInertia
	}
	if bodyB != nil {
		massTotal += bodyB.InverseMass
		inertiaTotal += bodyB.InverseInertia
	}
	resistanceTotal := massTotal + inertiaTotal

	var normal mgl64.Vec2
	normalVelocity := 0.0
	if c.Damping > 0 {
		normal = delta.Mul(1 / currentLength)
		var velA, velB mgl64.Vec2
		if bodyA != nil {
			velA = bodyA.Position.Sub(bodyA.PositionPrev)
		}
		if bodyB != nil {
			velB = bodyB.Position.Sub(bodyB.PositionPrev)
		}
		normalVelocity = normal.Dot(velB.Sub(velA))
	}

	if bodyA != nil && !bodyA.IsStatic {
		share := bodyA.InverseMass / massTotal

		bodyA.ConstraintImpulse.Offset = bodyA.ConstraintImpulse.Offset.Sub(force.Mul(share))
		bodyA.Position = bodyA.Position.Sub(force.Mul(share))

		if c.Damping > 0 {
			bodyA.PositionPrev = bodyA.PositionPrev.Sub(normal.Mul(c.Damping * normalVelocity * share))
		}

		torque := (geometry.Cross(c.PointA, force) / resistanceTotal) *
			torqueDampen * bodyA.InverseInertia * (1 - c.AngularStiffness)
		bodyA.ConstraintImpulse.Angle -= torque
		bodyA.Angle -= torque
	}

	if bodyB != nil && !bodyB.IsStatic {
		share := bodyB.InverseMass / massTotal

		bodyB.ConstraintImpulse.Offset = bodyB.ConstraintImpulse.Offset.Add(force.Mul(share))
		bodyB.Position = bodyB.Position.Add(force.Mul(share))

		if c.Damping > 0 {
			bodyB.PositionPrev = bodyB.PositionPrev.Add(normal.Mul(c.Damping * normalVelocity * share))
		}

		torque := (geometry.Cross(c.PointB, force) / resistanceTotal) *
			torqueDampen * bodyB.InverseInertia * (1 - c.AngularStiffness)
		bodyB.ConstraintImpulse.Angle += torque
		bodyB.Angle += torque
	}
}
