package metrics

import (
	"math"

	"github.com/san-kum/springlab/internal/ecs"
)

// PeakForce is the largest accumulated force magnitude seen on any body.
type PeakForce struct {
	peak float64
}

func NewPeakForce() *PeakForce { return &PeakForce{} }

func (p *PeakForce) Name() string { return "peak_force" }

func (p *PeakForce) Observe(w *ecs.World) {
	bodies(w, func(e *ecs.Entity) {
		acc, ok := ecs.Get[*ecs.AccumulatedForce](e)
		if !ok {
			return
		}
		p.peak = math.Max(p.peak, math.Hypot(acc.FX, acc.FY))
	})
}

func (p *PeakForce) Value() float64 { return p.peak }

func (p *PeakForce) Reset() { p.peak = 0 }
