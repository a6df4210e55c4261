package ecs

import "sync/atomic"

// EntityID is a process-wide unique entity handle.
type EntityID uint64

var idCounter atomic.Uint64

func nextID() EntityID {
	return EntityID(idCounter.Add(1) - 1)
}

// Entity is an identity plus at most one component of each kind.
type Entity struct {
	ID   EntityID
	Name string

	components map[Kind]Component
}

func newEntity(name string) *Entity {
	return &Entity{
		ID:         nextID(),
		Name:       name,
		components: make(map[Kind]Component),
	}
}

// Add stores c under its kind, replacing any component of that kind.
func (e *Entity) Add(c Component) {
	e.components[c.Kind()] = c
}

// Component returns the component of the given kind, if present.
func (e *Entity) Component(kind Kind) (Component, bool) {
	c, ok := e.components[kind]
	return c, ok
}

// Has reports whether the entity carries every listed kind.
func (e *Entity) Has(kinds ...Kind) bool {
	for _, k := range kinds {
		if _, ok := e.components[k]; !ok {
			return false
		}
	}
	return true
}

// Kinds returns the number of components attached.
func (e *Entity) Kinds() int { return len(e.components) }

// Get returns the component of type T attached to e.
//
// T is the pointer component type, e.g. Get[*Position](e).
func Get[T Component](e *Entity) (T, bool) {
	var zero T
	c, ok := e.components[zero.Kind()]
	if !ok {
		return zero, false
	}
	t, ok := c.(T)
	return t, ok
}
