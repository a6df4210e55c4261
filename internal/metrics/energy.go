package metrics

import (
	"github.com/san-kum/springlab/internal/ecs"
)

// Energy is the mean total kinetic energy over all observed ticks.
type Energy struct {
	samples int
	total   float64
	last    float64
}

func NewEnergy() *Energy { return &Energy{} }

func (e *Energy) Name() string { return "kinetic_energy" }

func (e *Energy) Observe(w *ecs.World) {
	e.last = KineticEnergy(w)
	e.total += e.last
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

// Last is the kinetic energy seen on the most recent tick.
func (e *Energy) Last() float64 { return e.last }

func (e *Energy) Reset() {
	e.samples, e.total, e.last = 0, 0, 0
}

// KineticEnergy sums 0.5*m*v^2 over every massed body.
func KineticEnergy(w *ecs.World) float64 {
	total := 0.0
	bodies(w, func(e *ecs.Entity) {
		mass, _ := ecs.Get[*ecs.Mass](e)
		vel, _ := ecs.Get[*ecs.Velocity](e)
		total += 0.5 * mass.Mass * (vel.VX*vel.VX + vel.VY*vel.VY)
	})
	return total
}
