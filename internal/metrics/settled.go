package metrics

import (
	"math"

	"github.com/san-kum/springlab/internal/ecs"
)

const DefaultSettleSpeed = 0.05

// Settled is the fraction of ticks on which every body moved slower than
// the threshold.
type Settled struct {
	threshold float64
	moving    int
	samples   int
}

func NewSettled(threshold float64) *Settled {
	return &Settled{threshold: threshold}
}

func (s *Settled) Name() string { return "settled" }

func (s *Settled) Observe(w *ecs.World) {
	s.samples++
	moving := false
	bodies(w, func(e *ecs.Entity) {
		vel, _ := ecs.Get[*ecs.Velocity](e)
		if math.Hypot(vel.VX, vel.VY) > s.threshold {
			moving = true
		}
	})
	if moving {
		s.moving++
	}
}

func (s *Settled) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.moving)/float64(s.samples)
}

func (s *Settled) Reset() {
	s.moving = 0
	s.samples = 0
}
