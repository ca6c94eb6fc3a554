package rebound

import (
	"github.com/akmonengine/rebound/actor"
	"github.com/akmonengine/rebound/constraint"
)

const (
	BEFORE_UPDATE EventType = iota
	AFTER_UPDATE
	COLLISION_START
	COLLISION_ACTIVE
	COLLISION_END
	SLEEP_START
	SLEEP_END
	BEFORE_ADD
	AFTER_ADD
	BEFORE_REMOVE
	AFTER_REMOVE
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// UpdateEvent fires at the start and end of every engine step.
type UpdateEvent struct {
	Name      EventType
	Source    *Engine
	Timestamp float64
}

func (e UpdateEvent) Type() EventType { return e.Name }

// CollisionEvent carries the pairs that started, stayed in, or left
// contact this step.
type CollisionEvent struct {
	Name      EventType
	Source    *Engine
	Timestamp float64
	Pairs     []*Pair
}

func (e CollisionEvent) Type() EventType { return e.Name }

// SleepEvent fires when a body falls asleep or wakes.
type SleepEvent struct {
	Name      EventType
	Source    *Engine
	Timestamp float64
	Body      *actor.Body
}

func (e SleepEvent) Type() EventType { return e.Name }

// CompositeEvent fires around structural changes to a composite; only
// the field matching the changed object is set.
type CompositeEvent struct {
	Name       EventType
	Source     *Composite
	Body       *actor.Body
	Constraint *constraint.Constraint
	Composite  *Composite
}

func (e CompositeEvent) Type() EventType { return e.Name }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager; dispatch is synchronous, in subscription order.
type Events struct {
	listeners map[EventType][]EventListener
}

func NewEvents() Events {
	return Events{
		listeners: make(map[EventType][]EventListener),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

func (e *Events) emit(event Event) {
	if listeners, ok := e.listeners[event.Type()]; ok {
		for _, listener := range listeners {
			listener(event)
		}
	}
}
