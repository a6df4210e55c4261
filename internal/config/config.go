package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMass            = 1.0
	DefaultFriction        = 0.05
	DefaultStiffness       = 0.2
	DefaultSpringDamping   = 0.05
	DefaultRestLengthRatio = 1.0
	DefaultDragStrength    = 0.2
	DefaultDragDamping     = 0.1
	DefaultSamplingRate    = 2
	DefaultUpdateInterval  = 20 * time.Millisecond
	DefaultWindowSize      = 200

	KindBody   = "body"
	KindAnchor = "anchor"
)

var ErrInvalid = errors.New("config: invalid scene")

type Config struct {
	Name    string         `yaml:"name"`
	Bodies  []BodyConfig   `yaml:"bodies"`
	Springs []SpringConfig `yaml:"springs"`
	Drag    DragConfig     `yaml:"drag"`
	Sampler SamplerConfig  `yaml:"sampler"`
}

type BodyConfig struct {
	Name     string  `yaml:"name"`
	Kind     string  `yaml:"kind,omitempty"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	VX       float64 `yaml:"vx,omitempty"`
	VY       float64 `yaml:"vy,omitempty"`
	Mass     float64 `yaml:"mass,omitempty"`
	Friction float64 `yaml:"friction,omitempty"`
}

type SpringConfig struct {
	Name            string  `yaml:"name,omitempty"`
	A               string  `yaml:"a"`
	B               string  `yaml:"b"`
	Stiffness       float64 `yaml:"stiffness"`
	Damping         float64 `yaml:"damping"`
	RestLengthRatio float64 `yaml:"rest_length_ratio,omitempty"`
	Model           string  `yaml:"model,omitempty"`
}

type DragConfig struct {
	Strength float64 `yaml:"strength"`
	Damping  float64 `yaml:"damping"`
}

type SamplerConfig struct {
	Targets        []string      `yaml:"targets"`
	SamplingRate   int           `yaml:"sampling_rate"`
	UpdateInterval time.Duration `yaml:"update_interval"`
	WindowSize     int           `yaml:"window_size"`
}

// DefaultConfig is the three-box scene: box1 hangs from a fixed anchor and
// box2, box3 trail it on springs.
func DefaultConfig() *Config {
	return &Config{
		Name: "triple",
		Bodies: []BodyConfig{
			{Name: "anchor", Kind: KindAnchor, X: 100, Y: 100},
			{Name: "box1", Kind: KindBody, X: 100, Y: 100, Mass: DefaultMass, Friction: DefaultFriction},
			{Name: "box2", Kind: KindBody, X: 250, Y: 100, Mass: DefaultMass, Friction: DefaultFriction},
			{Name: "box3", Kind: KindBody, X: 400, Y: 100, Mass: DefaultMass, Friction: DefaultFriction},
		},
		Springs: []SpringConfig{
			{Name: "spring", A: "box1", B: "anchor", Stiffness: 0.2, Damping: 0.05, RestLengthRatio: 1.0},
			{Name: "spring2", A: "box1", B: "box2", Stiffness: 0.2, Damping: 0.05, RestLengthRatio: 2.0},
			{Name: "spring3", A: "box2", B: "box3", Stiffness: 0.1, Damping: 0.05, RestLengthRatio: 1.0},
		},
		Drag:    DragConfig{Strength: DefaultDragStrength, Damping: DefaultDragDamping},
		Sampler: DefaultSamplerConfig(),
	}
}

func DefaultSamplerConfig() SamplerConfig {
	return SamplerConfig{
		Targets:        []string{"box1"},
		SamplingRate:   DefaultSamplingRate,
		UpdateInterval: DefaultUpdateInterval,
		WindowSize:     DefaultWindowSize,
	}
}

// Load reads a scene file. Fields absent from the file keep their defaults;
// bodies and springs replace the default scene when present.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) applyDefaults() {
	for i := range c.Bodies {
		b := &c.Bodies[i]
		if b.Kind == "" {
			b.Kind = KindBody
		}
		if b.Kind == KindBody && b.Mass == 0 {
			b.Mass = DefaultMass
		}
	}
	for i := range c.Springs {
		if c.Springs[i].RestLengthRatio == 0 {
			c.Springs[i].RestLengthRatio = DefaultRestLengthRatio
		}
	}
}

// Validate checks construction contracts: positive mass, non-negative
// friction, unique body names and springs that reference known bodies.
func (c *Config) Validate() error {
	names := make(map[string]struct{}, len(c.Bodies))
	for _, b := range c.Bodies {
		if b.Name == "" {
			return fmt.Errorf("%w: body without name", ErrInvalid)
		}
		if _, dup := names[b.Name]; dup {
			return fmt.Errorf("%w: duplicate body %q", ErrInvalid, b.Name)
		}
		names[b.Name] = struct{}{}

		switch b.Kind {
		case KindBody:
			if b.Mass <= 0 {
				return fmt.Errorf("%w: body %q mass must be positive, got %g", ErrInvalid, b.Name, b.Mass)
			}
			if b.Friction < 0 {
				return fmt.Errorf("%w: body %q friction must not be negative", ErrInvalid, b.Name)
			}
		case KindAnchor:
		default:
			return fmt.Errorf("%w: body %q has unknown kind %q", ErrInvalid, b.Name, b.Kind)
		}
	}

	for i, s := range c.Springs {
		for _, end := range []string{s.A, s.B} {
			if _, ok := names[end]; !ok {
				return fmt.Errorf("%w: spring %d references unknown body %q", ErrInvalid, i, end)
			}
		}
		if s.A == s.B {
			return fmt.Errorf("%w: spring %d joins %q to itself", ErrInvalid, i, s.A)
		}
		switch s.Model {
		case "", "rest_length", "hooke":
		default:
			return fmt.Errorf("%w: spring %d has unknown model %q", ErrInvalid, i, s.Model)
		}
	}

	if c.Sampler.SamplingRate <= 0 {
		return fmt.Errorf("%w: sampling_rate must be positive", ErrInvalid)
	}
	if c.Sampler.WindowSize <= 0 {
		return fmt.Errorf("%w: window_size must be positive", ErrInvalid)
	}
	return nil
}
