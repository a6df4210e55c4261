package ecs_test

import (
	"errors"
	"testing"

	"github.com/san-kum/springlab/internal/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldCreateEntity(t *testing.T) {
	w := ecs.NewWorld()

	a := w.CreateEntity("box1")
	b := w.CreateEntity("")
	c := w.CreateEntity("box1")

	assert.Equal(t, 3, w.Len())
	assert.Less(t, a.ID, b.ID)
	assert.Less(t, b.ID, c.ID)
	assert.Equal(t, []*ecs.Entity{a, b, c}, w.Entities())

	got, ok := w.Entity(b.ID)
	require.True(t, ok)
	assert.Same(t, b, got)

	named, ok := w.Named("box1")
	require.True(t, ok)
	assert.Same(t, a, named)
}

func TestEntityIDsUniqueAcrossWorlds(t *testing.T) {
	a := ecs.NewWorld().CreateEntity("")
	b := ecs.NewWorld().CreateEntity("")

	assert.NotEqual(t, a.ID, b.ID)
}

func TestAddComponentOverwrites(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity("box")

	require.NoError(t, w.AddComponent(e.ID, &ecs.Position{X: 1, Y: 2}))
	require.NoError(t, w.AddComponent(e.ID, &ecs.Position{X: 3, Y: 4}))

	assert.Equal(t, 1, e.Kinds())
	c, ok := w.GetComponent(e.ID, ecs.KindPosition)
	require.True(t, ok)
	assert.Equal(t, &ecs.Position{X: 3, Y: 4}, c)
}

func TestAddComponentUnknownEntity(t *testing.T) {
	w := ecs.NewWorld()
	other := ecs.NewWorld().CreateEntity("elsewhere")

	err := w.AddComponent(other.ID, &ecs.Mass{Mass: 1})
	assert.True(t, errors.Is(err, ecs.ErrUnknownEntity))

	_, ok := w.GetComponent(other.ID, ecs.KindMass)
	assert.False(t, ok)
}

func TestGetTyped(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity("")
	e.Add(&ecs.Velocity{VX: 2})

	vel, ok := ecs.Get[*ecs.Velocity](e)
	require.True(t, ok)
	vel.VX = 5

	again, _ := ecs.Get[*ecs.Velocity](e)
	assert.Equal(t, 5.0, again.VX)

	_, ok = ecs.Get[*ecs.Mass](e)
	assert.False(t, ok)
	assert.True(t, e.Has(ecs.KindVelocity))
	assert.False(t, e.Has(ecs.KindVelocity, ecs.KindMass))
}

func TestSpringLinkLatch(t *testing.T) {
	link := &ecs.SpringLink{RestLengthRatio: 2}

	_, ok := link.InitialLength()
	assert.False(t, ok)
	assert.Equal(t, 0.0, link.RestLength())

	link.Latch(150)
	link.Latch(10)

	l, ok := link.InitialLength()
	assert.True(t, ok)
	assert.Equal(t, 150.0, l)
	assert.Equal(t, 300.0, link.RestLength())
}

func TestParseSpringModel(t *testing.T) {
	tests := []struct {
		in   string
		want ecs.SpringModel
		err  bool
	}{
		{"", ecs.SpringRestLength, false},
		{"rest_length", ecs.SpringRestLength, false},
		{"hooke", ecs.SpringHooke, false},
		{"verlet", 0, true},
	}
	for _, tt := range tests {
		got, err := ecs.ParseSpringModel(tt.in)
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, got, mustParse(t, got.String()))
	}
}

func mustParse(t *testing.T, s string) ecs.SpringModel {
	t.Helper()
	m, err := ecs.ParseSpringModel(s)
	require.NoError(t, err)
	return m
}

func TestDragTarget(t *testing.T) {
	d := &ecs.DragTarget{}
	d.StartDrag(5, -3)
	d.SetTarget(10, 20)

	assert.True(t, d.Dragging)
	assert.Equal(t, 5.0, d.OffsetX)
	assert.Equal(t, -3.0, d.OffsetY)
	assert.Equal(t, 10.0, d.TargetX)

	d.StopDrag()
	assert.False(t, d.Dragging)
	assert.Equal(t, 20.0, d.TargetY)
}

func TestEndpointError(t *testing.T) {
	err := error(&ecs.EndpointError{Spring: 7, Endpoint: 3, Kind: ecs.KindForce, Wrapped: ecs.ErrMissingComponent})

	assert.True(t, errors.Is(err, ecs.ErrMissingComponent))
	assert.Equal(t, "spring 7: endpoint 3 has no force: ecs: missing required component", err.Error())

	var ep *ecs.EndpointError
	require.True(t, errors.As(err, &ep))
	assert.Equal(t, ecs.EntityID(3), ep.Endpoint)
}
