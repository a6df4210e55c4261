// Package metrics observes a world after every tick and reduces it to a
// handful of numbers stored with each run.
package metrics

import (
	"sort"

	"github.com/san-kum/springlab/internal/ecs"
	"github.com/san-kum/springlab/internal/engine"
)

type Metric interface {
	Name() string
	Observe(w *ecs.World)
	Value() float64
	Reset()
}

// Collector feeds every metric once per tick.
type Collector struct {
	metrics []Metric
}

func NewCollector(ms ...Metric) *Collector {
	return &Collector{metrics: ms}
}

// Default returns the metrics recorded for every run.
func Default() *Collector {
	return NewCollector(NewEnergy(), NewPeakForce(), NewSettled(DefaultSettleSpeed))
}

func (c *Collector) Phase() engine.Phase { return engine.PhaseObserve }

func (c *Collector) Update(w *ecs.World) error {
	for _, m := range c.metrics {
		m.Observe(w)
	}
	return nil
}

func (c *Collector) Summary() map[string]float64 {
	out := make(map[string]float64, len(c.metrics))
	for _, m := range c.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// Names returns the metric names in alphabetical order.
func (c *Collector) Names() []string {
	names := make([]string, 0, len(c.metrics))
	for _, m := range c.metrics {
		names = append(names, m.Name())
	}
	sort.Strings(names)
	return names
}

func (c *Collector) Reset() {
	for _, m := range c.metrics {
		m.Reset()
	}
}

// bodies yields every entity that can move.
func bodies(w *ecs.World, fn func(e *ecs.Entity)) {
	for _, e := range w.Entities() {
		if e.Has(ecs.KindMass, ecs.KindVelocity) {
			fn(e)
		}
	}
}
