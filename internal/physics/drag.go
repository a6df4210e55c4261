package physics

import (
	"github.com/san-kum/springlab/internal/ecs"
	"github.com/san-kum/springlab/internal/engine"
)

const (
	DefaultDragStrength = 0.2
	DefaultDragDamping  = 0.1
)

// DragSystem pulls dragged entities toward their target like a spring
// anchored at the pointer. Damping uses the entity's absolute velocity.
type DragSystem struct {
	Strength float64
	Damping  float64
}

func NewDragSystem(strength, damping float64) *DragSystem {
	return &DragSystem{Strength: strength, Damping: damping}
}

func (s *DragSystem) Phase() engine.Phase { return engine.PhaseForce }

func (s *DragSystem) Update(w *ecs.World) error {
	for _, e := range w.Entities() {
		drag, ok := ecs.Get[*ecs.DragTarget](e)
		if !ok || !drag.Dragging {
			continue
		}
		pos, ok := ecs.Get[*ecs.Position](e)
		if !ok {
			continue
		}
		vel, ok := ecs.Get[*ecs.Velocity](e)
		if !ok {
			continue
		}
		force, ok := ecs.Get[*ecs.Force](e)
		if !ok {
			continue
		}

		fx := s.Strength*(drag.TargetX-pos.X) - s.Damping*vel.VX
		fy := s.Strength*(drag.TargetY-pos.Y) - s.Damping*vel.VY
		force.Add(fx, fy)
	}
	return nil
}
