package ecs

import "github.com/kamstrup/intmap"

// World owns every entity of one simulation. Entities are never removed.
type World struct {
	entities []*Entity
	index    *intmap.Map[EntityID, *Entity]
}

func NewWorld() *World {
	return &World{
		entities: make([]*Entity, 0, 16),
		index:    intmap.New[EntityID, *Entity](16),
	}
}

// CreateEntity registers a new entity; name may be empty.
func (w *World) CreateEntity(name string) *Entity {
	e := newEntity(name)
	w.entities = append(w.entities, e)
	w.index.Put(e.ID, e)
	return e
}

func (w *World) Entity(id EntityID) (*Entity, bool) {
	return w.index.Get(id)
}

// AddComponent attaches c to the entity with the given id. Last write wins.
func (w *World) AddComponent(id EntityID, c Component) error {
	e, ok := w.index.Get(id)
	if !ok {
		return ErrUnknownEntity
	}
	e.Add(c)
	return nil
}

func (w *World) GetComponent(id EntityID, kind Kind) (Component, bool) {
	e, ok := w.index.Get(id)
	if !ok {
		return nil, false
	}
	return e.Component(kind)
}

// Entities returns all entities in creation order. The slice is shared.
func (w *World) Entities() []*Entity { return w.entities }

func (w *World) Len() int { return len(w.entities) }

// Named returns the first entity with the given name.
func (w *World) Named(name string) (*Entity, bool) {
	for _, e := range w.entities {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}
