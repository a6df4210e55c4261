package sampler

import (
	"errors"
	"time"

	"github.com/san-kum/springlab/internal/ecs"
	"github.com/san-kum/springlab/internal/engine"
)

const (
	DefaultSamplingRate   = 2
	DefaultUpdateInterval = 20 * time.Millisecond
	DefaultWindowSize     = 200
	DefaultTarget         = "box1"
)

var ErrInvalidConfig = errors.New("sampler: invalid config")

// Sample is one accumulated-force reading. Time is the tick index.
type Sample struct {
	Time   float64 `json:"time"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Entity string  `json:"entity"`
}

// Sink receives flushed batches. The slice is owned by the sink.
type Sink interface {
	Append(samples []Sample)
}

type Config struct {
	Targets        []string
	SamplingRate   int
	UpdateInterval time.Duration
	WindowSize     int
}

func DefaultConfig() Config {
	return Config{
		Targets:        []string{DefaultTarget},
		SamplingRate:   DefaultSamplingRate,
		UpdateInterval: DefaultUpdateInterval,
		WindowSize:     DefaultWindowSize,
	}
}

func (c Config) Validate() error {
	if c.SamplingRate <= 0 {
		return errors.Join(ErrInvalidConfig, errors.New("sampling rate must be positive"))
	}
	if c.UpdateInterval < 0 {
		return errors.Join(ErrInvalidConfig, errors.New("update interval must not be negative"))
	}
	if c.WindowSize <= 0 {
		return errors.Join(ErrInvalidConfig, errors.New("window size must be positive"))
	}
	return nil
}

// Sampler reads AccumulatedForce of the target entities after integration.
type Sampler struct {
	cfg     Config
	clock   Clock
	sinks   []Sink
	targets map[string]struct{}

	pending   []Sample
	tick      uint64
	lastFlush time.Time
	flushed   bool
	flushes   int
}

func New(cfg Config, clock Clock, sinks ...Sink) (*Sampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = SystemClock{}
	}
	targets := make(map[string]struct{}, len(cfg.Targets))
	for _, name := range cfg.Targets {
		targets[name] = struct{}{}
	}
	return &Sampler{
		cfg:     cfg,
		clock:   clock,
		sinks:   sinks,
		targets: targets,
	}, nil
}

// AddSink registers another flush destination.
func (s *Sampler) AddSink(sink Sink) { s.sinks = append(s.sinks, sink) }

func (s *Sampler) Phase() engine.Phase { return engine.PhaseObserve }

func (s *Sampler) Update(w *ecs.World) error {
	if s.tick%uint64(s.cfg.SamplingRate) == 0 {
		for _, e := range w.Entities() {
			if _, ok := s.targets[e.Name]; !ok {
				continue
			}
			acc, ok := ecs.Get[*ecs.AccumulatedForce](e)
			if !ok {
				continue
			}
			s.pending = append(s.pending, Sample{
				Time:   float64(s.tick),
				X:      acc.FX,
				Y:      acc.FY,
				Entity: e.Name,
			})
		}
	}

	now := s.clock.Now()
	if !s.flushed || now.Sub(s.lastFlush) >= s.cfg.UpdateInterval {
		s.flush()
		s.lastFlush = now
		s.flushed = true
	}

	s.tick++
	return nil
}

func (s *Sampler) flush() {
	for _, sink := range s.sinks {
		batch := make([]Sample, len(s.pending))
		copy(batch, s.pending)
		sink.Append(batch)
	}
	s.pending = s.pending[:0]
	s.flushes++
}

// Flush drains pending samples into the sinks outside the interval rule.
// Headless drivers call it once the engine stops so no sample is left behind.
func (s *Sampler) Flush() {
	if len(s.pending) == 0 {
		return
	}
	s.flush()
}

// Pending returns the number of samples waiting for the next flush.
func (s *Sampler) Pending() int { return len(s.pending) }

// Flushes returns how many times the buffer has been drained.
func (s *Sampler) Flushes() int { return s.flushes }

func (s *Sampler) Config() Config { return s.cfg }
