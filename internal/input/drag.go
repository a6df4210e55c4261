// Package input turns pointer gestures into DragTarget writes.
//
// The simulation core never calls into this package; a host (the terminal
// view) forwards pointer events here and the drag system reads the result
// on the next tick.
package input

import (
	"errors"
	"math"

	"github.com/san-kum/springlab/internal/ecs"
)

var ErrNotDraggable = errors.New("input: entity is not draggable")

// Dragger tracks the entity held by a single pointer.
type Dragger struct {
	world  *ecs.World
	held   *ecs.DragTarget
	heldID ecs.EntityID
}

func NewDragger(world *ecs.World) *Dragger {
	return &Dragger{world: world}
}

// Pick returns the draggable entity nearest to (px, py) within radius.
func (d *Dragger) Pick(px, py, radius float64) (ecs.EntityID, bool) {
	best := math.Inf(1)
	var id ecs.EntityID
	found := false
	for _, e := range d.world.Entities() {
		if !e.Has(ecs.KindDragTarget, ecs.KindPosition) {
			continue
		}
		pos, _ := ecs.Get[*ecs.Position](e)
		dist := math.Hypot(pos.X-px, pos.Y-py)
		if dist <= radius && dist < best {
			best, id, found = dist, e.ID, true
		}
	}
	return id, found
}

// Grab starts dragging id. The offset between pointer and position is kept
// so the entity does not jump to the pointer.
func (d *Dragger) Grab(id ecs.EntityID, px, py float64) error {
	e, ok := d.world.Entity(id)
	if !ok {
		return ecs.ErrUnknownEntity
	}
	drag, ok := ecs.Get[*ecs.DragTarget](e)
	if !ok {
		return ErrNotDraggable
	}
	pos, ok := ecs.Get[*ecs.Position](e)
	if !ok {
		return ErrNotDraggable
	}

	d.Release()
	drag.StartDrag(px-pos.X, py-pos.Y)
	drag.SetTarget(px-drag.OffsetX, py-drag.OffsetY)
	d.held, d.heldID = drag, id
	return nil
}

// Move updates the target of the held entity, if any.
func (d *Dragger) Move(px, py float64) {
	if d.held == nil || !d.held.Dragging {
		return
	}
	d.held.SetTarget(px-d.held.OffsetX, py-d.held.OffsetY)
}

// Release stops the current drag.
func (d *Dragger) Release() {
	if d.held == nil {
		return
	}
	d.held.StopDrag()
	d.held = nil
}

// Held returns the entity being dragged.
func (d *Dragger) Held() (ecs.EntityID, bool) {
	if d.held == nil {
		return 0, false
	}
	return d.heldID, true
}
