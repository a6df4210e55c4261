// Package automation drives scenes without a terminal: scripted drags,
// parameter sweeps and randomized starts.
package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/san-kum/springlab/internal/config"
	"github.com/san-kum/springlab/internal/ecs"
	"github.com/san-kum/springlab/internal/scene"
	"gopkg.in/yaml.v3"
)

var ErrInvalidScenario = errors.New("automation: invalid scenario")

// Scenario is a scripted sequence of ticks and pointer actions on one scene.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Preset      string         `yaml:"preset"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep grabs, moves or releases a body, then runs Ticks ticks.
type ScenarioStep struct {
	Grab    string  `yaml:"grab,omitempty"`
	MoveTo  *Target `yaml:"move_to,omitempty"`
	Release bool    `yaml:"release,omitempty"`
	Ticks   int     `yaml:"ticks"`
}

// Target is a pointer position in world coordinates.
type Target struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// StepResult records where every body was after a step.
type StepResult struct {
	Step   int
	Tick   uint64
	Bodies []scene.BodyState
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (s *Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidScenario)
	}
	for i, step := range s.Steps {
		if step.Ticks < 0 {
			return fmt.Errorf("%w: step %d: negative ticks", ErrInvalidScenario, i+1)
		}
	}
	return nil
}

// Config returns the scene the scenario runs on.
func (s *Scenario) Config() (*config.Config, error) {
	if s.Preset == "" {
		return config.DefaultConfig(), nil
	}
	cfg := config.GetPreset(s.Preset)
	if cfg == nil {
		return nil, fmt.Errorf("%w: unknown preset %q", ErrInvalidScenario, s.Preset)
	}
	return cfg, nil
}

// RunScenario plays every step on sc. A grab takes hold of the named body at
// its current position, so the pointer offset is zero.
func RunScenario(ctx context.Context, sc *scene.Scene, scenario *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if step.Grab != "" {
			e, ok := sc.World.Named(step.Grab)
			if !ok {
				return results, fmt.Errorf("step %d: %w: %s", i+1, ecs.ErrUnknownEntity, step.Grab)
			}
			pos, ok := ecs.Get[*ecs.Position](e)
			if !ok {
				return results, fmt.Errorf("step %d: %s has no position", i+1, step.Grab)
			}
			if err := sc.Dragger.Grab(e.ID, pos.X, pos.Y); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
		if step.MoveTo != nil {
			sc.Dragger.Move(step.MoveTo.X, step.MoveTo.Y)
		}
		if step.Release {
			sc.Dragger.Release()
		}

		for t := 0; t < step.Ticks; t++ {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			if err := sc.Engine.Tick(); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}

		results = append(results, StepResult{Step: i + 1, Tick: sc.Engine.Ticks(), Bodies: sc.Bodies()})
	}

	return results, nil
}

// ParameterSweep runs the same scene with one spring's stiffness varied
// across [Min, Max].
type ParameterSweep struct {
	Spring   int
	Min, Max float64
	NumSteps int
	Ticks    int
}

type SweepResult struct {
	Stiffness float64
	Summary   map[string]float64
}

func RunSweep(ctx context.Context, base *config.Config, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.Spring < 0 || sweep.Spring >= len(base.Springs) {
		return nil, fmt.Errorf("%w: spring %d out of range", ErrInvalidScenario, sweep.Spring)
	}
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("%w: sweep needs at least 2 steps", ErrInvalidScenario)
	}

	results := make([]SweepResult, sweep.NumSteps)
	paramStep := (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)

	err := runEnsemble(ctx, sweep.NumSteps, func(ctx context.Context, i int) error {
		k := sweep.Min + float64(i)*paramStep
		cfg := base.Clone()
		cfg.Springs[sweep.Spring].Stiffness = k

		sc, err := scene.Build(cfg)
		if err != nil {
			return err
		}
		if err := sc.Engine.RunTicks(sweep.Ticks); err != nil {
			return fmt.Errorf("stiffness %.4f: %w", k, err)
		}

		results[i] = SweepResult{Stiffness: k, Summary: sc.Metrics.Summary()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

// MonteCarloConfig perturbs every non-anchor body's start position.
type MonteCarloConfig struct {
	Perturbation float64
	NumTrials    int
	Ticks        int
	Seed         int64
	// Bound is the distance from the start beyond which a body counts as
	// escaped.
	Bound float64
}

type MonteCarloResult struct {
	TrialID int
	Start   []scene.BodyState
	Final   []scene.BodyState
	Stable  bool
}

func RunMonteCarlo(ctx context.Context, base *config.Config, mc *MonteCarloConfig) ([]MonteCarloResult, error) {
	rng := rand.New(rand.NewSource(mc.Seed))
	if mc.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	// Draw every start up front so a seed gives the same trials regardless
	// of goroutine scheduling.
	configs := make([]*config.Config, mc.NumTrials)
	for trial := range configs {
		cfg := base.Clone()
		for i := range cfg.Bodies {
			if cfg.Bodies[i].Kind == config.KindAnchor {
				continue
			}
			cfg.Bodies[i].X += (rng.Float64() - 0.5) * 2 * mc.Perturbation
			cfg.Bodies[i].Y += (rng.Float64() - 0.5) * 2 * mc.Perturbation
		}
		configs[trial] = cfg
	}

	results := make([]MonteCarloResult, mc.NumTrials)
	err := runEnsemble(ctx, mc.NumTrials, func(ctx context.Context, trial int) error {
		sc, err := scene.Build(configs[trial])
		if err != nil {
			return err
		}
		start := sc.Bodies()
		if err := sc.Engine.RunTicks(mc.Ticks); err != nil {
			return fmt.Errorf("trial %d: %w", trial, err)
		}
		final := sc.Bodies()

		results[trial] = MonteCarloResult{
			TrialID: trial,
			Start:   start,
			Final:   final,
			Stable:  bounded(start, final, mc.Bound),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

func bounded(start, final []scene.BodyState, bound float64) bool {
	for i := range final {
		d := math.Hypot(final[i].X-start[i].X, final[i].Y-start[i].Y)
		if math.IsNaN(d) || d > bound {
			return false
		}
	}
	return true
}

func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
