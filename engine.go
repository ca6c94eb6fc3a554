// Package rebound is a deterministic, fixed-timestep 2D rigid-body
// physics engine: position-Verlet integration, sequential impulses with
// warm starting, SAT narrowphase over a spatial-hash broadphase, and a
// temporal pair cache with lifecycle events.
package rebound

import (
	"github.com/akmonengine/rebound/actor"
	"github.com/akmonengine/rebound/constraint"
	"github.com/akmonengine/rebound/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// EngineConfig holds construction parameters for an engine.
type EngineConfig struct {
	PositionIterations   int
	VelocityIterations   int
	ConstraintIterations int

	EnableSleeping bool

	Gravity      mgl64.Vec2
	GravityScale float64
	TimeScale    float64

	// World is the root composite; a fresh one is created when nil.
	World *Composite
	// Bounds culls bodies from the broadphase; unbounded when nil.
	Bounds *geometry.Bounds
}

// DefaultEngineConfig returns the normative engine defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		PositionIterations:   6,
		VelocityIterations:   4,
		ConstraintIterations: 2,
		Gravity:              mgl64.Vec2{0, 1},
		GravityScale:         0.001,
		TimeScale:            1,
	}
}

// Engine owns the simulation state: the world tree, the broadphase
// grid, the pair cache, and the event channels. One Step call executes
// the whole pipeline synchronously on the caller's goroutine.
type Engine struct {
	World *Composite

	Pairs *Pairs
	Grid  *Grid

	Events Events

	PositionIterations   int
	VelocityIterations   int
	ConstraintIterations int

	EnableSleeping bool

	Gravity      mgl64.Vec2
	GravityScale float64
	TimeScale    float64
	Bounds       geometry.Bounds

	// Timestamp is the accumulated engine time in milliseconds.
	Timestamp float64

	// Warn is a sink for non-fatal diagnostics; nil discards them. Step
	// sends nothing to it, and actor.FromVertices handles decomposition
	// errors by its hull fallback without reporting them here.
	Warn func(string)
}

// NewEngine creates an engine from its config; nil means defaults.
func NewEngine(cfg *EngineConfig) *Engine {
	c := DefaultEngineConfig()
	if cfg != nil {
		c = *cfg
	}

	if c.PositionIterations == 0 {
		c.PositionIterations = 6
	}
	if c.VelocityIterations == 0 {
		c.VelocityIterations = 4
	}
	if c.ConstraintIterations == 0 {
		c.ConstraintIterations = 2
	}
	if c.TimeScale == 0 {
		c.TimeScale = 1
	}

	world := c.World
	if world == nil {
		world = NewComposite("World")
	}

	bounds := geometry.InfiniteBounds()
	if c.Bounds != nil {
		bounds = *c.Bounds
	}

	return &Engine{
		World:                world,
		Pairs:                NewPairs(),
		Grid:                 NewGrid(),
		Events:               NewEvents(),
		PositionIterations:   c.PositionIterations,
		VelocityIterations:   c.VelocityIterations,
		ConstraintIterations: c.ConstraintIterations,
		EnableSleeping:       c.EnableSleeping,
		Gravity:              c.Gravity,
		GravityScale:         c.GravityScale,
		TimeScale:            c.TimeScale,
		Bounds:               bounds,
	}
}

// Step advances the simulation by delta milliseconds. correction is the
// time-corrected Verlet ratio of this delta to the previous one (1 for
// a fixed timestep). The phase order is normative and observable
// through the event channels.
func (e *Engine) Step(delta, correction float64) {
	e.Timestamp += delta * e.TimeScale

	e.Events.emit(UpdateEvent{Name: BEFORE_UPDATE, Source: e, Timestamp: e.Timestamp})

	allBodies := e.World.AllBodies()
	allConstraints := e.World.AllConstraints()

	if e.EnableSleeping {
		e.sleepingUpdate(allBodies, e.TimeScale)
	}

	e.bodiesApplyGravity(allBodies)
	e.bodiesUpdate(allBodies, delta, correction)

	// first constraint pass
	e.constraintPreSolveAll(allBodies)
	for i := 0; i < e.ConstraintIterations; i++ {
		constraint.SolveAll(allConstraints, e.TimeScale)
	}
	e.constraintPostSolveAll(allBodies)

	// broadphase
	if e.World.IsModified {
		e.Grid.Clear()
	}
	e.Grid.Update(allBodies, e.Bounds, e.World.IsModified)
	if e.World.IsModified {
		e.World.SetModified(false, false, true)
	}

	// narrowphase
	collisions := e.collisions(e.Grid.pairsList)

	e.Pairs.Update(collisions, e.Timestamp)
	e.Pairs.RemoveOld(e.Timestamp)

	if e.EnableSleeping {
		e.sleepingAfterCollisions(e.Pairs.List, e.TimeScale)
	}

	if len(e.Pairs.collisionStart) > 0 {
		e.Events.emit(CollisionEvent{
			Name: COLLISION_START, Source: e,
			Timestamp: e.Timestamp, Pairs: e.Pairs.collisionStart,
		})
	}

	// penetration resolution
	preSolvePosition(e.Pairs.List)
	for i := 0; i < e.PositionIterations; i++ {
		solvePosition(e.Pairs.List, e.TimeScale)
	}
	postSolvePosition(allBodies)

	// second constraint pass, after positions moved
	e.constraintPreSolveAll(allBodies)
	for i := 0; i < e.ConstraintIterations; i++ {
		constraint.SolveAll(allConstraints, e.TimeScale)
	}
	e.constraintPostSolveAll(allBodies)

	// impulse resolution
	preSolveVelocity(e.Pairs.List)
	for i := 0; i < e.VelocityIterations; i++ {
		solveVelocity(e.Pairs.List, e.TimeScale)
	}

	if len(e.Pairs.collisionActive) > 0 {
		e.Events.emit(CollisionEvent{
			Name: COLLISION_ACTIVE, Source: e,
			Timestamp: e.Timestamp, Pairs: e.Pairs.collisionActive,
		})
	}
	if len(e.Pairs.collisionEnd) > 0 {
		e.Events.emit(CollisionEvent{
			Name: COLLISION_END, Source: e,
			Timestamp: e.Timestamp, Pairs: e.Pairs.collisionEnd,
		})
	}

	e.bodiesClearForces(allBodies)

	e.Events.emit(UpdateEvent{Name: AFTER_UPDATE, Source: e, Timestamp: e.Timestamp})
}

func (e *Engine) bodiesApplyGravity(bodies []*actor.Body) {
	if e.Gravity.X() == 0 && e.Gravity.Y() == 0 {
		return
	}
	for _, body := range bodies {
		if body.IsStatic || body.IsSleeping {
			continue
		}
		body.Force = body.Force.Add(e.Gravity.Mul(body.Mass * e.GravityScale))
	}
}

func (e *Engine) bodiesUpdate(bodies []*actor.Body, delta, correction float64) {
	for _, body := range bodies {
		if body.IsStatic || body.IsSleeping {
			continue
		}
		body.Update(delta, e.TimeScale, correction)
	}
}

func (e *Engine) bodiesClearForces(bodies []*actor.Body) {
	for _, body := range bodies {
		body.Force = mgl64.Vec2{}
		body.Torque = 0
	}
}

// constraintPreSolveAll warm starts the constraint solver by replaying
// each body's scaled impulse from the previous step.
func (e *Engine) constraintPreSolveAll(bodies []*actor.Body) {
	for _, body := range bodies {
		impulse := body.ConstraintImpulse
		if body.IsStatic || (impulse.Offset == (mgl64.Vec2{}) && impulse.Angle == 0) {
			continue
		}

		body.Position = body.Position.Add(impulse.Offset)
		body.Angle += impulse.Angle
	}
}

// constraintPostSolveAll syncs body geometry with the positions the
// solver produced, wakes moved bodies, and decays the impulse for the
// next warm start.
func (e *Engine) constraintPostSolveAll(bodies []*actor.Body) {
	for _, body := range bodies {
		impulse := body.ConstraintImpulse
		if body.IsStatic || (impulse.Offset == (mgl64.Vec2{}) && impulse.Angle == 0) {
			continue
		}

		e.setSleeping(body, false)

		for i, part := range body.Parts {
			geometry.Translate(part.Vertices, impulse.Offset)
			if i > 0 {
				part.Position = part.Position.Add(impulse.Offset)
			}

			if impulse.Angle != 0 {
				geometry.Rotate(part.Vertices, impulse.Angle, body.Position)
				geometry.RotateAxes(part.Axes, impulse.Angle)
				if i > 0 {
					part.Position = geometry.RotateAbout(part.Position, impulse.Angle, body.Position)
				}
			}

			part.Bounds.Update(part.Vertices, &body.Velocity)
		}

		body.ConstraintImpulse.Offset = impulse.Offset.Mul(constraint.Warming)
		body.ConstraintImpulse.Angle *= constraint.Warming
	}
}
