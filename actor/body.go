package actor

import (
	"math"
	"sync/atomic"

	"github.com/akmonengine/rebound/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// inertiaScale tunes the polygon moment of inertia for stable stacking.
const inertiaScale = 4

var idCounter atomic.Int64

func nextID() int {
	return int(idCounter.Add(1))
}

// Impulse is an accumulated position and angle offset used to warm
// start the constraint solver.
type Impulse struct {
	Offset mgl64.Vec2
	Angle  float64
}

type original struct {
	restitution    float64
	friction       float64
	mass           float64
	inertia        float64
	density        float64
	inverseMass    float64
	inverseInertia float64
}

// Body is a rigid convex polygon with mass properties, simulated with
// position Verlet. A compound body holds its parts with Parts[0] being
// the body itself; Parent points at the compound root, or the body
// itself when not nested.
type Body struct {
	ID    int
	Label string

	Parent *Body
	Parts  []*Body

	Position     mgl64.Vec2
	PositionPrev mgl64.Vec2
	Angle        float64
	AnglePrev    float64

	Velocity        mgl64.Vec2
	AngularVelocity float64
	Speed           float64
	AngularSpeed    float64
	// Motion is the biased motion average driving the sleep controller.
	Motion float64

	Force  mgl64.Vec2
	Torque float64

	Density        float64
	Mass           float64
	InverseMass    float64
	Inertia        float64
	InverseInertia float64
	Restitution    float64
	Friction       float64
	FrictionStatic float64
	FrictionAir    float64
	Slop           float64
	TimeScale      float64

	Vertices     []geometry.Vertex
	Axes         []mgl64.Vec2
	Bounds       geometry.Bounds
	Area         float64
	CircleRadius float64

	Filter Filter

	IsStatic   bool
	IsSensor   bool
	IsSleeping bool

	SleepThreshold int
	SleepCounter   int
	TotalContacts  int

	PositionImpulse   mgl64.Vec2
	ConstraintImpulse Impulse

	original *original
}

var defaultVertices = []mgl64.Vec2{{0, 0}, {40, 0}, {40, 40}, {0, 40}}

// NewBody constructs a body from its config, establishing all derived
// properties: the ordering (vertices, parts, static, sleeping, then
// orientation and overrides) is significant.
func NewBody(cfg *Config) *Body {
	c := cfg.orDefault()

	body := &Body{
		ID:             nextID(),
		Label:          c.Label,
		Position:       c.Position,
		PositionPrev:   c.Position,
		Angle:          c.Angle,
		AnglePrev:      c.Angle,
		Density:        c.Density,
		Restitution:    c.Restitution,
		Friction:       c.Friction,
		FrictionStatic: c.FrictionStatic,
		FrictionAir:    c.FrictionAir,
		Slop:           c.Slop,
		TimeScale:      c.TimeScale,
		Filter:         c.Filter,
		IsSensor:       c.IsSensor,
		SleepThreshold: c.SleepThreshold,
		CircleRadius:   c.CircleRadius,
	}
	if body.Label == "" {
		body.Label = "Body"
	}
	if body.TimeScale == 0 {
		body.TimeScale = 1
	}
	body.Parent = body
	body.Parts = []*Body{body}

	outline := c.Vertices
	if len(outline) == 0 {
		outline = defaultVertices
	}
	body.SetVertices(outline)

	if len(c.Parts) > 0 {
		body.SetParts(c.Parts, true)
	}
	if c.IsStatic {
		body.SetStatic(true)
	}
	if c.IsSleeping {
		body.SetSleeping(true)
	}

	geometry.Rotate(body.Vertices, body.Angle, body.Position)
	geometry.RotateAxes(body.Axes, body.Angle)
	body.Bounds.Update(body.Vertices, &body.Velocity)

	if c.Mass > 0 {
		body.SetMass(c.Mass)
	}
	if c.Inertia > 0 {
		body.SetInertia(c.Inertia)
	}
	if c.Velocity != (mgl64.Vec2{}) {
		body.SetVelocity(c.Velocity)
	}
	if c.AngularVelocity != 0 {
		body.SetAngularVelocity(c.AngularVelocity)
	}

	return body
}

// SetVertices rebuilds the body's polygon. The ring is re-centred so the
// centroid coincides with the body origin, mass properties are derived
// from the new area, and the vertices are placed at the body position.
func (b *Body) SetVertices(points []mgl64.Vec2) {
	b.Vertices = geometry.Create(points, b.ID)
	b.Axes = geometry.AxesFromVertices(b.Vertices)
	b.Area = geometry.Area(b.Vertices, false)
	b.SetMass(b.Density * b.Area)

	centre := geometry.Centre(b.Vertices)
	geometry.Translate(b.Vertices, centre.Mul(-1))
	b.SetInertia(inertiaScale * geometry.Inertia(b.Vertices, b.Mass))

	geometry.Translate(b.Vertices, b.Position)
	b.Bounds.Update(b.Vertices, &b.Velocity)
}

// SetMass changes the mass, preserving the inertia to mass ratio.
func (b *Body) SetMass(mass float64) {
	moment := b.Inertia / (b.Mass / 6)
	b.Inertia = moment * (mass / 6)
	b.InverseInertia = 1 / b.Inertia
	b.Mass = mass
	b.InverseMass = 1 / b.Mass
	b.Density = b.Mass / b.Area
}

// SetDensity changes the density, deriving mass from the current area.
func (b *Body) SetDensity(density float64) {
	b.SetMass(density * b.Area)
	b.Density = density
}

// SetInertia sets the moment of inertia about the centre of mass.
func (b *Body) SetInertia(inertia float64) {
	b.Inertia = inertia
	b.InverseInertia = 1 / b.Inertia
}

// SetStatic freezes or unfreezes the body and all its parts. Static
// parts carry infinite mass and zeroed inverses so integration and the
// solvers produce no motion; the dynamic properties are stashed and
// restored on the way back.
func (b *Body) SetStatic(isStatic bool) {
	for _, part := range b.Parts {
		part.IsStatic = isStatic

		if isStatic {
			part.original = &original{
				restitution:    part.Restitution,
				friction:       part.Friction,
				mass:           part.Mass,
				inertia:        part.Inertia,
				density:        part.Density,
				inverseMass:    part.InverseMass,
				inverseInertia: part.InverseInertia,
			}

			part.Restitution = 0
			part.Friction = 1
			part.Mass = math.Inf(1)
			part.Inertia = math.Inf(1)
			part.Density = math.Inf(1)
			part.InverseMass = 0
			part.InverseInertia = 0

			part.PositionPrev = part.Position
			part.AnglePrev = part.Angle
			part.Velocity = mgl64.Vec2{}
			part.AngularVelocity = 0
			part.Speed = 0
			part.AngularSpeed = 0
			part.Motion = 0
		} else if part.original != nil {
			part.Restitution = part.original.restitution
			part.Friction = part.original.friction
			part.Mass = part.original.mass
			part.Inertia = part.original.inertia
			part.Density = part.original.density
			part.InverseMass = part.original.inverseMass
			part.InverseInertia = part.original.inverseInertia
			part.original = nil
		}
	}
}

// SetSleeping puts the body to sleep or wakes it, and reports whether
// the state changed. Event emission is the engine's concern.
func (b *Body) SetSleeping(isSleeping bool) bool {
	wasSleeping := b.IsSleeping

	if isSleeping {
		b.IsSleeping = true
		b.SleepCounter = b.SleepThreshold

		b.PositionImpulse = mgl64.Vec2{}
		b.PositionPrev = b.Position
		b.AnglePrev = b.Angle
		b.Speed = 0
		b.AngularSpeed = 0
		b.Motion = 0
	} else {
		b.IsSleeping = false
		b.SleepCounter = 0
	}

	return wasSleeping != isSleeping
}

type totals struct {
	mass    float64
	area    float64
	inertia float64
	centre  mgl64.Vec2
}

// totalProperties sums mass, area and inertia over the parts and forms
// the mass-weighted centroid. Part inertias are added as they are, with
// no parallel-axis offset term; a static part counts with mass 1; the
// root hull part is skipped.
func (b *Body) totalProperties() totals {
	var t totals

	first := 1
	if len(b.Parts) == 1 {
		first = 0
	}
	for i := first; i < len(b.Parts); i++ {
		part := b.Parts[i]
		mass := part.Mass
		if math.IsInf(mass, 1) {
			mass = 1
		}
		t.mass += mass
		t.area += part.Area
		t.inertia += part.Inertia
		t.centre = t.centre.Add(part.Position.Mul(mass))
	}

	t.centre = t.centre.Mul(1 / t.mass)
	return t
}

// SetParts assembles a compound from the given parts. When autoHull is
// set, the root body takes the convex hull of the union as its own
// shape. Mass, area and inertia aggregate over the parts and the root
// position moves to the mass-weighted centroid.
func (b *Body) SetParts(parts []*Body, autoHull bool) {
	b.Parts = b.Parts[:0]
	b.Parts = append(b.Parts, b)
	b.Parent = b

	for _, part := range parts {
		if part != b {
			part.Parent = b
			b.Parts = append(b.Parts, part)
		}
	}

	if len(b.Parts) == 1 {
		return
	}

	if autoHull {
		var union []geometry.Vertex
		for _, part := range parts {
			union = append(union, part.Vertices...)
		}
		geometry.ClockwiseSort(union)
		hull := geometry.Hull(union)
		hullCentre := geometry.Centre(hull)

		b.SetVertices(geometry.Points(hull))
		geometry.Translate(b.Vertices, hullCentre)
	}

	total := b.totalProperties()

	b.Area = total.area
	b.Parent = b
	b.Position = total.centre
	b.PositionPrev = total.centre

	b.SetMass(total.mass)
	b.SetInertia(total.inertia)
	b.SetPosition(total.centre)
}

// SetPosition moves the body without changing its velocity.
func (b *Body) SetPosition(position mgl64.Vec2) {
	delta := position.Sub(b.Position)
	b.PositionPrev = b.PositionPrev.Add(delta)

	for _, part := range b.Parts {
		part.Position = part.Position.Add(delta)
		geometry.Translate(part.Vertices, delta)
		part.Bounds.Update(part.Vertices, &b.Velocity)
	}
}

// SetAngle rotates the body without changing its angular velocity.
func (b *Body) SetAngle(angle float64) {
	delta := angle - b.Angle
	b.AnglePrev += delta

	for _, part := range b.Parts {
		part.Angle += delta
		geometry.Rotate(part.Vertices, delta, b.Position)
		geometry.RotateAxes(part.Axes, delta)
		part.Bounds.Update(part.Vertices, &b.Velocity)
		if part != b {
			part.Position = geometry.RotateAbout(part.Position, delta, b.Position)
		}
	}
}

// SetVelocity sets the linear velocity by adjusting the Verlet history.
func (b *Body) SetVelocity(velocity mgl64.Vec2) {
	b.PositionPrev = b.Position.Sub(velocity)
	b.Velocity = velocity
	b.Speed = velocity.Len()
}

// SetAngularVelocity sets the angular velocity by adjusting the Verlet
// history.
func (b *Body) SetAngularVelocity(velocity float64) {
	b.AnglePrev = b.Angle - velocity
	b.AngularVelocity = velocity
	b.AngularSpeed = math.Abs(velocity)
}

// SetCentre moves the body origin (centre of mass) without moving the
// vertices. With relative set, centre is an offset from the current
// origin.
func (b *Body) SetCentre(centre mgl64.Vec2, relative bool) {
	if !relative {
		b.PositionPrev = centre.Sub(b.Position.Sub(b.PositionPrev))
		b.Position = centre
	} else {
		b.PositionPrev = b.PositionPrev.Add(centre)
		b.Position = b.Position.Add(centre)
	}
}

// Translate moves the body by the given offset.
func (b *Body) Translate(delta mgl64.Vec2) {
	b.SetPosition(b.Position.Add(delta))
}

// Rotate spins the body in place, or about the given point.
func (b *Body) Rotate(rotation float64, point *mgl64.Vec2) {
	if point == nil {
		b.SetAngle(b.Angle + rotation)
		return
	}
	b.SetPosition(geometry.RotateAbout(b.Position, rotation, *point))
	b.SetAngle(b.Angle + rotation)
}

// Scale resizes the body from the given point, recomputing area, mass
// and inertia per part.
func (b *Body) Scale(scaleX, scaleY float64, point *mgl64.Vec2) {
	origin := b.Position
	if point != nil {
		origin = *point
	}

	totalArea, totalInertia := 0.0, 0.0

	for i, part := range b.Parts {
		geometry.Scale(part.Vertices, scaleX, scaleY, origin)

		part.Axes = geometry.AxesFromVertices(part.Vertices)
		part.Area = geometry.Area(part.Vertices, false)
		part.SetMass(b.Density * part.Area)

		geometry.Translate(part.Vertices, part.Position.Mul(-1))
		part.SetInertia(inertiaScale * geometry.Inertia(part.Vertices, part.Mass))
		geometry.Translate(part.Vertices, part.Position)

		if i > 0 {
			totalArea += part.Area
			totalInertia += part.Inertia
		}

		part.Position = mgl64.Vec2{
			origin.X() + (part.Position.X()-origin.X())*scaleX,
			origin.Y() + (part.Position.Y()-origin.Y())*scaleY,
		}
		part.Bounds.Update(part.Vertices, &b.Velocity)
	}

	if len(b.Parts) > 1 {
		b.Area = totalArea
		if !b.IsStatic {
			b.SetMass(b.Density * totalArea)
			b.SetInertia(totalInertia)
		}
	}

	if b.CircleRadius != 0 {
		if scaleX == scaleY {
			b.CircleRadius *= scaleX
		} else {
			// non-uniform scaling breaks the circle approximation
			b.CircleRadius = 0
		}
	}
}

// Update advances the body one step of time-corrected Verlet, then
// carries the delta through every compound part.
func (b *Body) Update(delta, timeScale, correction float64) {
	deltaTimeSquared := math.Pow(delta*timeScale*b.TimeScale, 2)
	frictionAir := 1 - b.FrictionAir*timeScale*b.TimeScale

	velocityPrev := b.Position.Sub(b.PositionPrev)

	b.Velocity = velocityPrev.Mul(frictionAir * correction).
		Add(b.Force.Mul(1 / b.Mass).Mul(deltaTimeSquared))
	b.PositionPrev = b.Position
	b.Position = b.Position.Add(b.Velocity)

	b.AngularVelocity = (b.Angle-b.AnglePrev)*frictionAir*correction +
		(b.Torque/b.Inertia)*deltaTimeSquared
	b.AnglePrev = b.Angle
	b.Angle += b.AngularVelocity

	b.Speed = b.Velocity.Len()
	b.AngularSpeed = math.Abs(b.AngularVelocity)

	for i, part := range b.Parts {
		geometry.Translate(part.Vertices, b.Velocity)
		if i > 0 {
			part.Position = part.Position.Add(b.Velocity)
		}
		geometry.Rotate(part.Vertices, b.AngularVelocity, b.Position)
		geometry.RotateAxes(part.Axes, b.AngularVelocity)
		if i > 0 {
			part.Position = geometry.RotateAbout(part.Position, b.AngularVelocity, b.Position)
		}
		part.Bounds.Update(part.Vertices, &b.Velocity)
	}
}

// ApplyForce accumulates a force applied at a world point, adding the
// torque of its lever arm about the centre of mass.
func (b *Body) ApplyForce(position, force mgl64.Vec2) {
	b.Force = b.Force.Add(force)
	offset := position.Sub(b.Position)
	b.Torque += geometry.Cross(offset, force)
}
