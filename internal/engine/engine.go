package engine

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/san-kum/springlab/internal/ecs"
)

// System is a per-tick transform over every entity of the world.
type System interface {
	Update(w *ecs.World) error
}

// Phase orders systems that depend on each other's writes.
type Phase int

const (
	// PhaseForce systems only add into ecs.Force.
	PhaseForce Phase = iota
	// PhaseIntegrate consumes and resets ecs.Force.
	PhaseIntegrate
	// PhaseObserve reads the state integration produced.
	PhaseObserve
)

func (p Phase) String() string {
	switch p {
	case PhaseForce:
		return "force"
	case PhaseIntegrate:
		return "integrate"
	case PhaseObserve:
		return "observe"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Phased is implemented by systems that declare their phase.
type Phased interface {
	Phase() Phase
}

// Stats summarizes execution of all systems.
type Stats struct {
	Ticks   uint64
	Systems []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Engine holds the world and its ordered systems.
type Engine struct {
	world       *ecs.World
	systems     []System
	systemStats []*systemStatsInternal
	lastPhase   Phase
	ticks       uint64
}

func New(world *ecs.World) *Engine {
	return &Engine{
		world:   world,
		systems: make([]System, 0, 8),
	}
}

func (e *Engine) World() *ecs.World { return e.world }

// Ticks returns the number of completed ticks.
func (e *Engine) Ticks() uint64 { return e.ticks }

// AddSystem appends system to the run order.
func (e *Engine) AddSystem(system System) error {
	if system == nil {
		return ErrNilSystem
	}
	if p, ok := system.(Phased); ok {
		if p.Phase() < e.lastPhase {
			return fmt.Errorf("%w: %s (%s) after %s", ErrPhaseOrder, systemName(system), p.Phase(), e.lastPhase)
		}
		e.lastPhase = p.Phase()
	}

	e.systems = append(e.systems, system)
	e.systemStats = append(e.systemStats, &systemStatsInternal{
		name:        systemName(system),
		minDuration: time.Duration(1<<63 - 1),
	})
	return nil
}

// Tick runs every system once. A system error aborts the rest of the tick.
func (e *Engine) Tick() error {
	for i, system := range e.systems {
		start := time.Now()
		err := system.Update(e.world)
		duration := time.Since(start)

		stats := e.systemStats[i]
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration
		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}

		if err != nil {
			return &TickError{Tick: e.ticks, System: stats.name, Wrapped: err}
		}
	}
	e.ticks++
	return nil
}

// RunTicks runs n ticks back to back.
func (e *Engine) RunTicks(n int) error {
	for i := 0; i < n; i++ {
		if err := e.Tick(); err != nil {
			return err
		}
	}
	return nil
}

// Run ticks at the given interval until ctx is done or a tick fails.
func (e *Engine) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInterval, interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := e.Tick(); err != nil {
				return err
			}
		}
	}
}

// Stats returns execution statistics for every system.
func (e *Engine) Stats() Stats {
	stats := Stats{
		Ticks:   e.ticks,
		Systems: make([]SystemStats, len(e.systemStats)),
	}

	for i, internal := range e.systemStats {
		avg := time.Duration(0)
		minDuration := internal.minDuration
		if internal.executionCount > 0 {
			avg = internal.totalDuration / time.Duration(internal.executionCount)
		} else {
			minDuration = 0
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avg,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
	}
	return stats
}

func systemName(system System) string {
	t := reflect.TypeOf(system)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
