package physics

import (
	"math"

	"github.com/san-kum/springlab/internal/ecs"
	"github.com/san-kum/springlab/internal/engine"
)

const (
	// VelocityThreshold is the speed at or below which friction is skipped.
	VelocityThreshold = 0.01

	DefaultFriction = 0.05
)

// FrictionSystem opposes motion with a force proportional to speed.
type FrictionSystem struct{}

func NewFrictionSystem() *FrictionSystem { return &FrictionSystem{} }

func (s *FrictionSystem) Phase() engine.Phase { return engine.PhaseForce }

func (s *FrictionSystem) Update(w *ecs.World) error {
	for _, e := range w.Entities() {
		vel, ok := ecs.Get[*ecs.Velocity](e)
		if !ok {
			continue
		}
		friction, ok := ecs.Get[*ecs.Friction](e)
		if !ok {
			continue
		}
		force, ok := ecs.Get[*ecs.Force](e)
		if !ok {
			continue
		}

		speed := math.Sqrt(vel.VX*vel.VX + vel.VY*vel.VY)
		if speed <= VelocityThreshold {
			continue
		}
		magnitude := friction.Coefficient * speed
		force.Add(-(vel.VX/speed)*magnitude, -(vel.VY/speed)*magnitude)
	}
	return nil
}
