package engine_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/springlab/internal/ecs"
	"github.com/san-kum/springlab/internal/engine"
	"github.com/san-kum/springlab/internal/physics"
)

type recordingSystem struct {
	name  string
	phase engine.Phase
	log   *[]string
	err   error
}

func (r *recordingSystem) Update(w *ecs.World) error {
	*r.log = append(*r.log, r.name)
	return r.err
}

func (r *recordingSystem) Phase() engine.Phase { return r.phase }

type unphased struct{ calls int }

func (u *unphased) Update(w *ecs.World) error {
	u.calls++
	return nil
}

var _ = Describe("Engine", func() {
	var (
		world *ecs.World
		eng   *engine.Engine
		log   []string
	)

	BeforeEach(func() {
		world = ecs.NewWorld()
		eng = engine.New(world)
		log = nil
	})

	Describe("AddSystem", func() {
		It("keeps registration order", func() {
			Expect(eng.AddSystem(&recordingSystem{name: "spring", log: &log})).To(Succeed())
			Expect(eng.AddSystem(&recordingSystem{name: "friction", log: &log})).To(Succeed())
			Expect(eng.AddSystem(&recordingSystem{name: "movement", phase: engine.PhaseIntegrate, log: &log})).To(Succeed())

			Expect(eng.Tick()).To(Succeed())
			Expect(log).To(Equal([]string{"spring", "friction", "movement"}))
		})

		It("rejects a force system after integration", func() {
			Expect(eng.AddSystem(physics.NewMovementSystem())).To(Succeed())

			err := eng.AddSystem(physics.NewSpringSystem())
			Expect(errors.Is(err, engine.ErrPhaseOrder)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("SpringSystem"))
		})

		It("accepts unphased systems anywhere", func() {
			Expect(eng.AddSystem(&recordingSystem{name: "observe", phase: engine.PhaseObserve, log: &log})).To(Succeed())
			Expect(eng.AddSystem(&unphased{})).To(Succeed())
		})

		It("rejects nil", func() {
			Expect(eng.AddSystem(nil)).To(MatchError(engine.ErrNilSystem))
		})
	})

	Describe("Tick", func() {
		It("counts completed ticks", func() {
			u := &unphased{}
			Expect(eng.AddSystem(u)).To(Succeed())

			Expect(eng.RunTicks(5)).To(Succeed())
			Expect(eng.Ticks()).To(Equal(uint64(5)))
			Expect(u.calls).To(Equal(5))
		})

		It("aborts the tick on a system error", func() {
			boom := errors.New("boom")
			Expect(eng.AddSystem(&recordingSystem{name: "a", log: &log})).To(Succeed())
			Expect(eng.AddSystem(&recordingSystem{name: "b", log: &log, err: boom})).To(Succeed())
			Expect(eng.AddSystem(&recordingSystem{name: "c", log: &log})).To(Succeed())

			err := eng.Tick()
			Expect(errors.Is(err, boom)).To(BeTrue())

			var tickErr *engine.TickError
			Expect(errors.As(err, &tickErr)).To(BeTrue())
			Expect(tickErr.Tick).To(Equal(uint64(0)))
			Expect(tickErr.System).To(Equal("recordingSystem"))
			Expect(log).To(Equal([]string{"a", "b"}))
			Expect(eng.Ticks()).To(BeZero())
		})

		It("surfaces spring wiring errors as fatal", func() {
			body := world.CreateEntity("body")
			body.Add(&ecs.Position{})
			body.Add(&ecs.Velocity{})
			body.Add(&ecs.Force{})
			bare := world.CreateEntity("bare")
			bare.Add(&ecs.Position{X: 10})
			spring := world.CreateEntity("spring")
			spring.Add(&ecs.SpringLink{A: body.ID, B: bare.ID, Stiffness: 1})

			Expect(eng.AddSystem(physics.NewSpringSystem())).To(Succeed())

			err := eng.Tick()
			Expect(errors.Is(err, ecs.ErrMissingComponent)).To(BeTrue())
		})
	})

	Describe("Stats", func() {
		It("records executions per system", func() {
			Expect(eng.AddSystem(physics.NewFrictionSystem())).To(Succeed())
			Expect(eng.AddSystem(physics.NewMovementSystem())).To(Succeed())
			Expect(eng.RunTicks(3)).To(Succeed())

			stats := eng.Stats()
			Expect(stats.Ticks).To(Equal(uint64(3)))
			Expect(stats.Systems).To(HaveLen(2))
			Expect(stats.Systems[0].Name).To(Equal("FrictionSystem"))
			Expect(stats.Systems[1].Name).To(Equal("MovementSystem"))
			Expect(stats.Systems[1].ExecutionCount).To(Equal(int64(3)))
			Expect(stats.Systems[1].MinDuration).To(BeNumerically("<=", stats.Systems[1].MaxDuration))
		})

		It("reports zero durations before the first tick", func() {
			Expect(eng.AddSystem(&unphased{})).To(Succeed())
			Expect(eng.Stats().Systems[0].MinDuration).To(BeZero())
		})
	})

	Describe("Run", func() {
		It("ticks until the context is done", func() {
			u := &unphased{}
			Expect(eng.AddSystem(u)).To(Succeed())

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			err := eng.Run(ctx, time.Millisecond)
			Expect(err).To(MatchError(context.DeadlineExceeded))
			Expect(u.calls).To(BeNumerically(">", 0))
		})

		It("rejects a non-positive interval", func() {
			u := &unphased{}
			Expect(eng.AddSystem(u)).To(Succeed())

			Expect(eng.Run(context.Background(), 0)).To(MatchError(engine.ErrInvalidInterval))
			Expect(eng.Run(context.Background(), -time.Second)).To(MatchError(engine.ErrInvalidInterval))
			Expect(u.calls).To(BeZero())
		})
	})

	Describe("a full spring scene", func() {
		It("moves the body toward its rest length and resets force", func() {
			anchor := world.CreateEntity("anchor")
			anchor.Add(&ecs.Position{X: 0, Y: 0})
			anchor.Add(&ecs.Velocity{})
			anchor.Add(&ecs.Force{})
			anchor.Add(&ecs.AccumulatedForce{})

			box := world.CreateEntity("box")
			boxPos := &ecs.Position{X: 100, Y: 0}
			boxForce := &ecs.Force{}
			boxAcc := &ecs.AccumulatedForce{}
			box.Add(boxPos)
			box.Add(&ecs.Velocity{})
			box.Add(&ecs.Mass{Mass: 1})
			box.Add(boxForce)
			box.Add(boxAcc)
			box.Add(&ecs.Friction{Coefficient: 0.05})

			link := &ecs.SpringLink{A: box.ID, B: anchor.ID, Stiffness: 0.1, RestLengthRatio: 0.5}
			world.CreateEntity("spring").Add(link)

			Expect(eng.AddSystem(physics.NewSpringSystem())).To(Succeed())
			Expect(eng.AddSystem(physics.NewFrictionSystem())).To(Succeed())
			Expect(eng.AddSystem(physics.NewDragSystem(physics.DefaultDragStrength, physics.DefaultDragDamping))).To(Succeed())
			Expect(eng.AddSystem(physics.NewMovementSystem())).To(Succeed())

			Expect(eng.Tick()).To(Succeed())

			// rest = 50, stretch = 50, pull toward the anchor along -x.
			Expect(boxAcc.FX).To(BeNumerically("~", -5, 1e-9))
			Expect(boxPos.X).To(BeNumerically("~", 95, 1e-9))
			Expect(*boxForce).To(Equal(ecs.Force{}))
		})
	})
})
