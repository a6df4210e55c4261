package physics

import (
	"math"

	"github.com/san-kum/springlab/internal/ecs"
	"github.com/san-kum/springlab/internal/engine"
)

const (
	DefaultStiffness       = 0.2
	DefaultSpringDamping   = 0.05
	DefaultRestLengthRatio = 1.0
)

// ForceLaw computes the force a spring applies to endpoint A. Endpoint B
// receives the negation. ok is false when no force applies this tick.
type ForceLaw interface {
	Force(link *ecs.SpringLink, posA, posB *ecs.Position, velA *ecs.Velocity) (fx, fy float64, ok bool)
}

// HookeLaw applies stiffness to the raw separation vector with no rest
// length. Damping acts on A's absolute velocity.
type HookeLaw struct{}

func (HookeLaw) Force(link *ecs.SpringLink, posA, posB *ecs.Position, velA *ecs.Velocity) (float64, float64, bool) {
	dx := posB.X - posA.X
	dy := posB.Y - posA.Y
	fx := link.Stiffness*dx - link.Damping*velA.VX
	fy := link.Stiffness*dy - link.Damping*velA.VY
	return fx, fy, true
}

// RestLengthLaw pulls along the normalized separation toward the rest
// length latched on the first tick with nonzero separation. Damping acts on
// A's absolute velocity, not the relative velocity.
type RestLengthLaw struct{}

func (RestLengthLaw) Force(link *ecs.SpringLink, posA, posB *ecs.Position, velA *ecs.Velocity) (float64, float64, bool) {
	dx := posB.X - posA.X
	dy := posB.Y - posA.Y
	length := math.Sqrt(dx*dx + dy*dy)
	if length == 0 {
		return 0, 0, false
	}

	link.Latch(length)
	magnitude := link.Stiffness * (length - link.RestLength())

	fx := magnitude*(dx/length) - link.Damping*velA.VX
	fy := magnitude*(dy/length) - link.Damping*velA.VY
	return fx, fy, true
}

// SpringSystem applies every SpringLink in the world. Endpoints missing
// Position, Velocity or Force are a wiring error and abort the tick.
type SpringSystem struct {
	laws map[ecs.SpringModel]ForceLaw
}

func NewSpringSystem() *SpringSystem {
	return &SpringSystem{
		laws: map[ecs.SpringModel]ForceLaw{
			ecs.SpringRestLength: RestLengthLaw{},
			ecs.SpringHooke:      HookeLaw{},
		},
	}
}

// SetLaw replaces the law used for links of the given model.
func (s *SpringSystem) SetLaw(model ecs.SpringModel, law ForceLaw) {
	s.laws[model] = law
}

func (s *SpringSystem) Phase() engine.Phase { return engine.PhaseForce }

func (s *SpringSystem) Update(w *ecs.World) error {
	for _, e := range w.Entities() {
		link, ok := ecs.Get[*ecs.SpringLink](e)
		if !ok {
			continue
		}

		a, err := resolveEndpoint(w, e.ID, link.A)
		if err != nil {
			return err
		}
		b, err := resolveEndpoint(w, e.ID, link.B)
		if err != nil {
			return err
		}

		law, ok := s.laws[link.Model]
		if !ok {
			law = RestLengthLaw{}
		}

		fx, fy, ok := law.Force(link, a.pos, b.pos, a.vel)
		if !ok {
			continue
		}
		a.force.Add(fx, fy)
		b.force.Add(-fx, -fy)
	}
	return nil
}

type endpoint struct {
	pos   *ecs.Position
	vel   *ecs.Velocity
	force *ecs.Force
}

func resolveEndpoint(w *ecs.World, spring, id ecs.EntityID) (endpoint, error) {
	e, ok := w.Entity(id)
	if !ok {
		return endpoint{}, &ecs.EndpointError{Spring: spring, Endpoint: id, Wrapped: ecs.ErrUnknownEntity}
	}

	var ep endpoint
	if ep.pos, ok = ecs.Get[*ecs.Position](e); !ok {
		return endpoint{}, missing(spring, id, ecs.KindPosition)
	}
	if ep.vel, ok = ecs.Get[*ecs.Velocity](e); !ok {
		return endpoint{}, missing(spring, id, ecs.KindVelocity)
	}
	if ep.force, ok = ecs.Get[*ecs.Force](e); !ok {
		return endpoint{}, missing(spring, id, ecs.KindForce)
	}
	return ep, nil
}

func missing(spring, id ecs.EntityID, kind ecs.Kind) error {
	return &ecs.EndpointError{Spring: spring, Endpoint: id, Kind: kind, Wrapped: ecs.ErrMissingComponent}
}
