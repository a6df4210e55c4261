package physics_test

import (
	"errors"
	"testing"

	"github.com/san-kum/springlab/internal/ecs"
	"github.com/san-kum/springlab/internal/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type body struct {
	e     *ecs.Entity
	pos   *ecs.Position
	vel   *ecs.Velocity
	force *ecs.Force
	acc   *ecs.AccumulatedForce
}

func newBody(w *ecs.World, name string, x, y float64) body {
	b := body{
		e:     w.CreateEntity(name),
		pos:   &ecs.Position{X: x, Y: y},
		vel:   &ecs.Velocity{},
		force: &ecs.Force{},
		acc:   &ecs.AccumulatedForce{},
	}
	b.e.Add(b.pos)
	b.e.Add(b.vel)
	b.e.Add(&ecs.Mass{Mass: 1})
	b.e.Add(b.force)
	b.e.Add(b.acc)
	return b
}

func link(w *ecs.World, a, b body, l ecs.SpringLink) *ecs.SpringLink {
	l.A, l.B = a.e.ID, b.e.ID
	s := w.CreateEntity("spring")
	s.Add(&l)
	got, _ := ecs.Get[*ecs.SpringLink](s)
	return got
}

func TestFrictionBelowThreshold(t *testing.T) {
	tests := []struct {
		name   string
		vx, vy float64
	}{
		{"at rest", 0, 0},
		{"tiny", 0.005, 0.005},
		{"just below", 0, -0.0099},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ecs.NewWorld()
			b := newBody(w, "box", 0, 0)
			b.vel.VX, b.vel.VY = tt.vx, tt.vy
			b.e.Add(&ecs.Friction{Coefficient: 0.5})

			require.NoError(t, physics.NewFrictionSystem().Update(w))
			assert.Equal(t, ecs.Force{}, *b.force)
		})
	}
}

func TestFrictionOpposesVelocity(t *testing.T) {
	w := ecs.NewWorld()
	b := newBody(w, "box", 0, 0)
	b.vel.VX, b.vel.VY = 3, 4
	b.force.Add(1, 1)
	b.e.Add(&ecs.Friction{Coefficient: 0.1})

	require.NoError(t, physics.NewFrictionSystem().Update(w))

	// magnitude 0.5 along -(0.6, 0.8), added to the existing force.
	assert.InDelta(t, 1-0.3, b.force.FX, 1e-12)
	assert.InDelta(t, 1-0.4, b.force.FY, 1e-12)
}

func TestFrictionSkipsIncompleteEntities(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity("no force")
	e.Add(&ecs.Velocity{VX: 10})
	e.Add(&ecs.Friction{Coefficient: 1})

	assert.NoError(t, physics.NewFrictionSystem().Update(w))
}

func TestHookeSpringEqualAndOpposite(t *testing.T) {
	w := ecs.NewWorld()
	a := newBody(w, "a", 10, 20)
	b := newBody(w, "b", 40, -20)
	a.vel.VX, a.vel.VY = 1, -2
	b.vel.VX, b.vel.VY = 100, 100
	link(w, a, b, ecs.SpringLink{Stiffness: 0.5, Damping: 0.1, Model: ecs.SpringHooke})

	require.NoError(t, physics.NewSpringSystem().Update(w))

	assert.InDelta(t, 0.5*30-0.1*1, a.force.FX, 1e-12)
	assert.InDelta(t, 0.5*-40-0.1*-2, a.force.FY, 1e-12)
	assert.Equal(t, -a.force.FX, b.force.FX)
	assert.Equal(t, -a.force.FY, b.force.FY)
}

func TestSpringDampingUsesOnlyEndpointA(t *testing.T) {
	// Damping reads A's absolute velocity; B's velocity never enters.
	w := ecs.NewWorld()
	a := newBody(w, "a", 0, 0)
	b := newBody(w, "b", 150, 0)
	b.vel.VX = 50
	link(w, a, b, ecs.SpringLink{Stiffness: 1, Damping: 1, RestLengthRatio: 1})

	require.NoError(t, physics.NewSpringSystem().Update(w))
	assert.Equal(t, ecs.Force{}, *a.force)
	assert.Equal(t, ecs.Force{}, *b.force)
}

func TestRestLengthLatching(t *testing.T) {
	w := ecs.NewWorld()
	a := newBody(w, "a", 0, 0)
	b := newBody(w, "b", 90, 120)
	a.vel.VX, a.vel.VY = 2, 0
	l := link(w, a, b, ecs.SpringLink{Stiffness: 0.3, Damping: 0.05, RestLengthRatio: 1})

	require.NoError(t, physics.NewSpringSystem().Update(w))

	initial, ok := l.InitialLength()
	require.True(t, ok)
	assert.InDelta(t, 150, initial, 1e-12)

	// Only the damping term remains on the latching tick.
	assert.InDelta(t, -0.05*2, a.force.FX, 1e-12)
	assert.InDelta(t, 0, a.force.FY, 1e-12)
	assert.Equal(t, -a.force.FX, b.force.FX)
	assert.Equal(t, -a.force.FY, b.force.FY)
}

func TestRestLengthRatioStretches(t *testing.T) {
	w := ecs.NewWorld()
	a := newBody(w, "a", 0, 0)
	b := newBody(w, "b", 100, 0)
	link(w, a, b, ecs.SpringLink{Stiffness: 0.2, RestLengthRatio: 2})

	require.NoError(t, physics.NewSpringSystem().Update(w))

	// rest 200, length 100: push A away from B.
	assert.InDelta(t, -20, a.force.FX, 1e-12)
	assert.InDelta(t, 20, b.force.FX, 1e-12)
}

func TestZeroLengthGuard(t *testing.T) {
	w := ecs.NewWorld()
	a := newBody(w, "a", 5, 5)
	b := newBody(w, "b", 5, 5)
	a.vel.VX = 3
	a.force.Add(1, 2)
	l := link(w, a, b, ecs.SpringLink{Stiffness: 1, Damping: 1, RestLengthRatio: 1})

	require.NoError(t, physics.NewSpringSystem().Update(w))

	assert.Equal(t, ecs.Force{FX: 1, FY: 2}, *a.force)
	assert.Equal(t, ecs.Force{}, *b.force)
	_, latched := l.InitialLength()
	assert.False(t, latched)
}

func TestSpringMissingEndpointComponentIsFatal(t *testing.T) {
	kinds := []ecs.Kind{ecs.KindPosition, ecs.KindVelocity, ecs.KindForce}
	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			w := ecs.NewWorld()
			a := newBody(w, "a", 0, 0)

			b := w.CreateEntity("b")
			if kind != ecs.KindPosition {
				b.Add(&ecs.Position{X: 10})
			}
			if kind != ecs.KindVelocity {
				b.Add(&ecs.Velocity{})
			}
			if kind != ecs.KindForce {
				b.Add(&ecs.Force{})
			}
			s := w.CreateEntity("spring")
			s.Add(&ecs.SpringLink{A: a.e.ID, B: b.ID, Stiffness: 1})

			err := physics.NewSpringSystem().Update(w)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ecs.ErrMissingComponent))

			var ep *ecs.EndpointError
			require.True(t, errors.As(err, &ep))
			assert.Equal(t, kind, ep.Kind)
			assert.Equal(t, b.ID, ep.Endpoint)
			assert.Equal(t, s.ID, ep.Spring)
		})
	}
}

func TestSpringUnknownEndpointIsFatal(t *testing.T) {
	w := ecs.NewWorld()
	a := newBody(w, "a", 0, 0)
	stranger := ecs.NewWorld().CreateEntity("elsewhere")
	w.CreateEntity("spring").Add(&ecs.SpringLink{A: a.e.ID, B: stranger.ID})

	err := physics.NewSpringSystem().Update(w)
	assert.True(t, errors.Is(err, ecs.ErrUnknownEntity))
}

type constantLaw struct{ fx, fy float64 }

func (c constantLaw) Force(*ecs.SpringLink, *ecs.Position, *ecs.Position, *ecs.Velocity) (float64, float64, bool) {
	return c.fx, c.fy, true
}

func TestSpringSystemSetLaw(t *testing.T) {
	w := ecs.NewWorld()
	a := newBody(w, "a", 0, 0)
	b := newBody(w, "b", 1, 1)
	link(w, a, b, ecs.SpringLink{Model: ecs.SpringHooke})

	s := physics.NewSpringSystem()
	s.SetLaw(ecs.SpringHooke, constantLaw{3, -1})
	require.NoError(t, s.Update(w))

	assert.Equal(t, ecs.Force{FX: 3, FY: -1}, *a.force)
	assert.Equal(t, ecs.Force{FX: -3, FY: 1}, *b.force)
}

func TestDragSystem(t *testing.T) {
	w := ecs.NewWorld()
	b := newBody(w, "box", 10, 10)
	b.vel.VX, b.vel.VY = 1, -1
	drag := &ecs.DragTarget{}
	b.e.Add(drag)

	s := physics.NewDragSystem(0.2, 0.1)
	require.NoError(t, s.Update(w))
	assert.Equal(t, ecs.Force{}, *b.force, "idle drag target contributes nothing")

	drag.StartDrag(0, 0)
	drag.SetTarget(20, 0)
	require.NoError(t, s.Update(w))

	assert.InDelta(t, 0.2*10-0.1*1, b.force.FX, 1e-12)
	assert.InDelta(t, 0.2*-10-0.1*-1, b.force.FY, 1e-12)
}

func TestIntegrateUsesUpdatedVelocity(t *testing.T) {
	pos, vel := physics.Integrate(ecs.Position{}, ecs.Velocity{}, ecs.Mass{Mass: 1}, ecs.Force{FX: 2})

	assert.Equal(t, ecs.Velocity{VX: 2}, vel)
	assert.Equal(t, ecs.Position{X: 2}, pos)
}

func TestMovementSnapshotsAndResetsForce(t *testing.T) {
	w := ecs.NewWorld()
	b := newBody(w, "box", 1, 1)
	b.e.Add(&ecs.Mass{Mass: 2})
	b.vel.VX = 1
	b.force.Add(4, -2)

	require.NoError(t, physics.NewMovementSystem().Update(w))

	assert.Equal(t, ecs.Force{}, *b.force)
	assert.Equal(t, ecs.AccumulatedForce{FX: 4, FY: -2}, *b.acc)
	assert.Equal(t, ecs.Velocity{VX: 3, VY: -1}, *b.vel)
	assert.Equal(t, ecs.Position{X: 4, Y: 0}, *b.pos)

	// A second pass with no new force overwrites the snapshot.
	require.NoError(t, physics.NewMovementSystem().Update(w))
	assert.Equal(t, ecs.AccumulatedForce{}, *b.acc)
}

func TestMovementSkipsMasslessAnchors(t *testing.T) {
	w := ecs.NewWorld()
	anchor := w.CreateEntity("anchor")
	pos := &ecs.Position{X: 100, Y: 100}
	force := &ecs.Force{FX: 5}
	anchor.Add(pos)
	anchor.Add(&ecs.Velocity{})
	anchor.Add(force)
	anchor.Add(&ecs.AccumulatedForce{})

	require.NoError(t, physics.NewMovementSystem().Update(w))

	assert.Equal(t, ecs.Position{X: 100, Y: 100}, *pos)
	assert.Equal(t, ecs.Force{FX: 5}, *force)
}
