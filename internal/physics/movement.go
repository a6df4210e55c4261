package physics

import (
	"github.com/san-kum/springlab/internal/ecs"
	"github.com/san-kum/springlab/internal/engine"
)

// Integrate advances one semi-implicit Euler step. Position moves by the
// already-updated velocity.
func Integrate(pos ecs.Position, vel ecs.Velocity, mass ecs.Mass, force ecs.Force) (ecs.Position, ecs.Velocity) {
	ax := force.FX / mass.Mass
	ay := force.FY / mass.Mass

	vel.VX += ax
	vel.VY += ay

	pos.X += vel.VX
	pos.Y += vel.VY
	return pos, vel
}

// MovementSystem integrates every body, then moves its Force sum into
// AccumulatedForce and zeroes Force. It is the only system that resets
// Force or writes Position, Velocity and AccumulatedForce.
type MovementSystem struct{}

func NewMovementSystem() *MovementSystem { return &MovementSystem{} }

func (s *MovementSystem) Phase() engine.Phase { return engine.PhaseIntegrate }

func (s *MovementSystem) Update(w *ecs.World) error {
	for _, e := range w.Entities() {
		pos, ok := ecs.Get[*ecs.Position](e)
		if !ok {
			continue
		}
		vel, ok := ecs.Get[*ecs.Velocity](e)
		if !ok {
			continue
		}
		mass, ok := ecs.Get[*ecs.Mass](e)
		if !ok {
			continue
		}
		force, ok := ecs.Get[*ecs.Force](e)
		if !ok {
			continue
		}
		acc, ok := ecs.Get[*ecs.AccumulatedForce](e)
		if !ok {
			continue
		}

		*pos, *vel = Integrate(*pos, *vel, *mass, *force)

		acc.FX, acc.FY = force.FX, force.FY
		*force = ecs.Force{}
	}
	return nil
}
