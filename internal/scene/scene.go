// Package scene builds a runnable simulation from a scene config.
package scene

import (
	"fmt"

	"github.com/san-kum/springlab/internal/config"
	"github.com/san-kum/springlab/internal/ecs"
	"github.com/san-kum/springlab/internal/engine"
	"github.com/san-kum/springlab/internal/input"
	"github.com/san-kum/springlab/internal/metrics"
	"github.com/san-kum/springlab/internal/physics"
	"github.com/san-kum/springlab/internal/sampler"
)

// BodySpec describes a free, draggable point mass.
type BodySpec struct {
	X, Y     float64
	VX, VY   float64
	Mass     float64
	Friction float64
}

// NewBody creates a draggable body with friction.
func NewBody(w *ecs.World, name string, spec BodySpec) *ecs.Entity {
	e := w.CreateEntity(name)
	e.Add(&ecs.Position{X: spec.X, Y: spec.Y})
	e.Add(&ecs.Velocity{VX: spec.VX, VY: spec.VY})
	e.Add(&ecs.Mass{Mass: spec.Mass})
	e.Add(&ecs.Force{})
	e.Add(&ecs.AccumulatedForce{})
	e.Add(&ecs.DragTarget{})
	e.Add(&ecs.Friction{Coefficient: spec.Friction})
	return e
}

// NewAnchor creates a fixed point. It has no Mass, so it never moves.
func NewAnchor(w *ecs.World, name string, x, y float64) *ecs.Entity {
	e := w.CreateEntity(name)
	e.Add(&ecs.Position{X: x, Y: y})
	e.Add(&ecs.Velocity{})
	e.Add(&ecs.Force{})
	e.Add(&ecs.AccumulatedForce{})
	return e
}

// NewSpring creates a spring entity between a and b.
func NewSpring(w *ecs.World, name string, a, b ecs.EntityID, stiffness, damping, restLengthRatio float64, model ecs.SpringModel) *ecs.Entity {
	e := w.CreateEntity(name)
	e.Add(&ecs.SpringLink{
		A:               a,
		B:               b,
		Stiffness:       stiffness,
		Damping:         damping,
		RestLengthRatio: restLengthRatio,
		Model:           model,
	})
	return e
}

// Scene is a world with its engine, sinks and input host wired up.
type Scene struct {
	Name     string
	World    *ecs.World
	Engine   *engine.Engine
	Sampler  *sampler.Sampler
	Chart    *sampler.Chart
	Recorder *sampler.Recorder
	Dragger  *input.Dragger
	Metrics  *metrics.Collector
}

// Option customizes Build.
type Option func(*options)

type options struct {
	clock  sampler.Clock
	record bool
}

// WithClock sets the sampler's clock.
func WithClock(c sampler.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithRecorder keeps every flushed sample in Scene.Recorder.
func WithRecorder() Option {
	return func(o *options) { o.record = true }
}

// Build validates cfg and returns a scene whose systems run in the order
// spring, friction, drag, movement, sampler, metrics.
func Build(cfg *config.Config, opts ...Option) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{clock: sampler.SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}

	w := ecs.NewWorld()
	ids := make(map[string]ecs.EntityID, len(cfg.Bodies))
	for _, b := range cfg.Bodies {
		var e *ecs.Entity
		switch b.Kind {
		case config.KindAnchor:
			e = NewAnchor(w, b.Name, b.X, b.Y)
		default:
			e = NewBody(w, b.Name, BodySpec{X: b.X, Y: b.Y, VX: b.VX, VY: b.VY, Mass: b.Mass, Friction: b.Friction})
		}
		ids[b.Name] = e.ID
	}

	for i, s := range cfg.Springs {
		model, err := ecs.ParseSpringModel(s.Model)
		if err != nil {
			return nil, fmt.Errorf("spring %d: %w", i, err)
		}
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("spring%d", i+1)
		}
		NewSpring(w, name, ids[s.A], ids[s.B], s.Stiffness, s.Damping, s.RestLengthRatio, model)
	}

	chart := sampler.NewChart(cfg.Sampler.WindowSize)
	sinks := []sampler.Sink{chart}
	var rec *sampler.Recorder
	if o.record {
		rec = sampler.NewRecorder()
		sinks = append(sinks, rec)
	}
	smp, err := sampler.New(sampler.Config{
		Targets:        cfg.Sampler.Targets,
		SamplingRate:   cfg.Sampler.SamplingRate,
		UpdateInterval: cfg.Sampler.UpdateInterval,
		WindowSize:     cfg.Sampler.WindowSize,
	}, o.clock, sinks...)
	if err != nil {
		return nil, err
	}

	col := metrics.Default()
	eng := engine.New(w)
	systems := []engine.System{
		physics.NewSpringSystem(),
		physics.NewFrictionSystem(),
		physics.NewDragSystem(cfg.Drag.Strength, cfg.Drag.Damping),
		physics.NewMovementSystem(),
		smp,
		col,
	}
	for _, s := range systems {
		if err := eng.AddSystem(s); err != nil {
			return nil, err
		}
	}

	return &Scene{
		Name:     cfg.Name,
		World:    w,
		Engine:   eng,
		Sampler:  smp,
		Chart:    chart,
		Recorder: rec,
		Dragger:  input.NewDragger(w),
		Metrics:  col,
	}, nil
}

// BodyState is a snapshot of one positioned entity.
type BodyState struct {
	Name     string  `json:"name"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Anchored bool    `json:"anchored"`
}

// Bodies returns the position of every entity that has one, in creation order.
func (s *Scene) Bodies() []BodyState {
	out := make([]BodyState, 0, s.World.Len())
	for _, e := range s.World.Entities() {
		pos, ok := ecs.Get[*ecs.Position](e)
		if !ok {
			continue
		}
		out = append(out, BodyState{
			Name:     e.Name,
			X:        pos.X,
			Y:        pos.Y,
			Anchored: !e.Has(ecs.KindMass),
		})
	}
	return out
}

// Links returns the endpoint positions of every spring.
func (s *Scene) Links() [][2]ecs.Position {
	var out [][2]ecs.Position
	for _, e := range s.World.Entities() {
		link, ok := ecs.Get[*ecs.SpringLink](e)
		if !ok {
			continue
		}
		a, okA := s.World.GetComponent(link.A, ecs.KindPosition)
		b, okB := s.World.GetComponent(link.B, ecs.KindPosition)
		if !okA || !okB {
			continue
		}
		out = append(out, [2]ecs.Position{*a.(*ecs.Position), *b.(*ecs.Position)})
	}
	return out
}
