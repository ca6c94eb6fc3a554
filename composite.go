package rebound

import (
	"sync/atomic"

	"github.com/akmonengine/rebound/actor"
	"github.com/akmonengine/rebound/constraint"
	"github.com/akmonengine/rebound/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

var compositeIDCounter atomic.Int64

// Composite is a tree node grouping bodies, constraints and nested
// composites. Structural changes raise IsModified up the tree; the
// broadphase consumes the flag to decide whether to flush.
type Composite struct {
	ID     int
	Label  string
	Parent *Composite

	IsModified bool

	Bodies      []*actor.Body
	Constraints []*constraint.Constraint
	Composites  []*Composite

	Events Events
}

// NewComposite creates an empty composite.
func NewComposite(label string) *Composite {
	if label == "" {
		label = "Composite"
	}
	return &Composite{
		ID:     int(compositeIDCounter.Add(1)),
		Label:  label,
		Events: NewEvents(),
	}
}

// SetModified flags the composite, optionally walking up to parents and
// down to children.
func (c *Composite) SetModified(isModified, updateParents, updateChildren bool) {
	c.IsModified = isModified

	if updateParents && c.Parent != nil {
		c.Parent.SetModified(isModified, updateParents, updateChildren)
	}
	if updateChildren {
		for _, child := range c.Composites {
			child.SetModified(isModified, updateParents, updateChildren)
		}
	}
}

// AddBody appends a body to this composite.
func (c *Composite) AddBody(body *actor.Body) {
	c.Events.emit(CompositeEvent{Name: BEFORE_ADD, Source: c, Body: body})
	c.Bodies = append(c.Bodies, body)
	c.SetModified(true, true, false)
	c.Events.emit(CompositeEvent{Name: AFTER_ADD, Source: c, Body: body})
}

// RemoveBody removes a body, searching children when deep is set.
func (c *Composite) RemoveBody(body *actor.Body, deep bool) {
	for i, b := range c.Bodies {
		if b == body {
			c.Events.emit(CompositeEvent{Name: BEFORE_REMOVE, Source: c, Body: body})
			c.Bodies = append(c.Bodies[:i], c.Bodies[i+1:]...)
			c.SetModified(true, true, false)
			c.Events.emit(CompositeEvent{Name: AFTER_REMOVE, Source: c, Body: body})
			return
		}
	}
	if deep {
		for _, child := range c.Composites {
			child.RemoveBody(body, true)
		}
	}
}

// AddConstraint appends a constraint to this composite.
func (c *Composite) AddConstraint(cons *constraint.Constraint) {
	c.Events.emit(CompositeEvent{Name: BEFORE_ADD, Source: c, Constraint: cons})
	c.Constraints = append(c.Constraints, cons)
	c.SetModified(true, true, false)
	c.Events.emit(CompositeEvent{Name: AFTER_ADD, Source: c, Constraint: cons})
}

// RemoveConstraint removes a constraint, searching children when deep
// is set.
func (c *Composite) RemoveConstraint(cons *constraint.Constraint, deep bool) {
	for i, cc := range c.Constraints {
		if cc == cons {
			c.Events.emit(CompositeEvent{Name: BEFORE_REMOVE, Source: c, Constraint: cons})
			c.Constraints = append(c.Constraints[:i], c.Constraints[i+1:]...)
			c.SetModified(true, true, false)
			c.Events.emit(CompositeEvent{Name: AFTER_REMOVE, Source: c, Constraint: cons})
			return
		}
	}
	if deep {
		for _, child := range c.Composites {
			child.RemoveConstraint(cons, true)
		}
	}
}

// AddComposite nests a child composite.
func (c *Composite) AddComposite(child *Composite) {
	c.Events.emit(CompositeEvent{Name: BEFORE_ADD, Source: c, Composite: child})
	child.Parent = c
	c.Composites = append(c.Composites, child)
	c.SetModified(true, true, false)
	c.Events.emit(CompositeEvent{Name: AFTER_ADD, Source: c, Composite: child})
}

// RemoveComposite unlinks a child composite, searching grandchildren
// when deep is set.
func (c *Composite) RemoveComposite(child *Composite, deep bool) {
	for i, cc := range c.Composites {
		if cc == child {
			c.Events.emit(CompositeEvent{Name: BEFORE_REMOVE, Source: c, Composite: child})
			c.Composites = append(c.Composites[:i], c.Composites[i+1:]...)
			child.Parent = nil
			c.SetModified(true, true, false)
			c.Events.emit(CompositeEvent{Name: AFTER_REMOVE, Source: c, Composite: child})
			return
		}
	}
	if deep {
		for _, grandchild := range c.Composites {
			grandchild.RemoveComposite(child, true)
		}
	}
}

// MoveBody transfers a body from this composite to another.
func (c *Composite) MoveBody(body *actor.Body, to *Composite) {
	c.RemoveBody(body, false)
	to.AddBody(body)
}

// MoveConstraint transfers a constraint from this composite to another.
func (c *Composite) MoveConstraint(cons *constraint.Constraint, to *Composite) {
	c.RemoveConstraint(cons, false)
	to.AddConstraint(cons)
}

// MoveComposite transfers a child composite to another parent.
func (c *Composite) MoveComposite(child *Composite, to *Composite) {
	c.RemoveComposite(child, false)
	to.AddComposite(child)
}

// AllBodies flattens every body in the subtree.
func (c *Composite) AllBodies() []*actor.Body {
	bodies := make([]*actor.Body, 0, len(c.Bodies))
	bodies = append(bodies, c.Bodies...)
	for _, child := range c.Composites {
		bodies = append(bodies, child.AllBodies()...)
	}
	return bodies
}

// AllConstraints flattens every constraint in the subtree.
func (c *Composite) AllConstraints() []*constraint.Constraint {
	constraints := make([]*constraint.Constraint, 0, len(c.Constraints))
	constraints = append(constraints, c.Constraints...)
	for _, child := range c.Composites {
		constraints = append(constraints, child.AllConstraints()...)
	}
	return constraints
}

// AllComposites flattens every composite in the subtree, excluding the
// receiver.
func (c *Composite) AllComposites() []*Composite {
	composites := make([]*Composite, 0, len(c.Composites))
	composites = append(composites, c.Composites...)
	for _, child := range c.Composites {
		composites = append(composites, child.AllComposites()...)
	}
	return composites
}

// Clear empties the composite. keepStatic retains static bodies; deep
// clears nested composites first.
func (c *Composite) Clear(keepStatic, deep bool) {
	if deep {
		for _, child := range c.Composites {
			child.Clear(keepStatic, true)
		}
	}

	if keepStatic {
		kept := c.Bodies[:0]
		for _, body := range c.Bodies {
			if body.IsStatic {
				kept = append(kept, body)
			}
		}
		c.Bodies = kept
	} else {
		c.Bodies = nil
	}

	c.Constraints = nil
	c.Composites = nil

	c.SetModified(true, true, false)
}

// Translate moves every body in the composite (subtree when recursive).
func (c *Composite) Translate(translation mgl64.Vec2, recursive bool) {
	bodies := c.Bodies
	if recursive {
		bodies = c.AllBodies()
	}
	for _, body := range bodies {
		body.Translate(translation)
	}
	c.SetModified(true, true, false)
}

// Rotate spins every body about a point (subtree when recursive).
func (c *Composite) Rotate(rotation float64, point mgl64.Vec2, recursive bool) {
	bodies := c.Bodies
	if recursive {
		bodies = c.AllBodies()
	}
	for _, body := range bodies {
		body.SetPosition(geometry.RotateAbout(body.Position, rotation, point))
		body.SetAngle(body.Angle + rotation)
	}
	c.SetModified(true, true, false)
}

// Scale resizes every body from a point (subtree when recursive).
func (c *Composite) Scale(scaleX, scaleY float64, point mgl64.Vec2, recursive bool) {
	bodies := c.Bodies
	if recursive {
		bodies = c.AllBodies()
	}
	for _, body := range bodies {
		delta := body.Position.Sub(point)
		body.SetPosition(mgl64.Vec2{
			point.X() + delta.X()*scaleX,
			point.Y() + delta.Y()*scaleY,
		})
		body.Scale(scaleX, scaleY, nil)
	}
	c.SetModified(true, true, false)
}
