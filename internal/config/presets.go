package config

import "sort"

var Presets = map[string]*Config{
	"triple": DefaultConfig(),
	"single": {
		Name: "single",
		Bodies: []BodyConfig{
			{Name: "anchor", Kind: KindAnchor, X: 100, Y: 100},
			{Name: "box1", Kind: KindBody, X: 160, Y: 140, Mass: DefaultMass, Friction: DefaultFriction},
		},
		Springs: []SpringConfig{
			{Name: "spring", A: "box1", B: "anchor", Stiffness: 0.2, Damping: 0.05, RestLengthRatio: 0.5},
		},
		Drag:    DragConfig{Strength: DefaultDragStrength, Damping: DefaultDragDamping},
		Sampler: DefaultSamplerConfig(),
	},
	"pair": {
		Name: "pair",
		Bodies: []BodyConfig{
			{Name: "box1", Kind: KindBody, X: 100, Y: 100, VX: 2, Mass: DefaultMass, Friction: DefaultFriction},
			{Name: "box2", Kind: KindBody, X: 300, Y: 100, VY: -2, Mass: 2, Friction: DefaultFriction},
		},
		Springs: []SpringConfig{
			{Name: "spring", A: "box1", B: "box2", Stiffness: 0.01, Damping: 0.01, Model: "hooke"},
		},
		Drag:    DragConfig{Strength: DefaultDragStrength, Damping: DefaultDragDamping},
		Sampler: DefaultSamplerConfig(),
	},
	"chain": {
		Name: "chain",
		Bodies: []BodyConfig{
			{Name: "anchor", Kind: KindAnchor, X: 60, Y: 60},
			{Name: "box1", Kind: KindBody, X: 140, Y: 60, Mass: DefaultMass, Friction: DefaultFriction},
			{Name: "box2", Kind: KindBody, X: 220, Y: 60, Mass: DefaultMass, Friction: DefaultFriction},
			{Name: "box3", Kind: KindBody, X: 300, Y: 60, Mass: DefaultMass, Friction: DefaultFriction},
			{Name: "box4", Kind: KindBody, X: 380, Y: 60, Mass: DefaultMass, Friction: DefaultFriction},
			{Name: "tail", Kind: KindAnchor, X: 460, Y: 60},
		},
		Springs: []SpringConfig{
			{A: "box1", B: "anchor", Stiffness: 0.15, Damping: 0.05, RestLengthRatio: 0.8},
			{A: "box1", B: "box2", Stiffness: 0.15, Damping: 0.05, RestLengthRatio: 0.8},
			{A: "box2", B: "box3", Stiffness: 0.15, Damping: 0.05, RestLengthRatio: 0.8},
			{A: "box3", B: "box4", Stiffness: 0.15, Damping: 0.05, RestLengthRatio: 0.8},
			{A: "box4", B: "tail", Stiffness: 0.15, Damping: 0.05, RestLengthRatio: 0.8},
		},
		Drag: DragConfig{Strength: DefaultDragStrength, Damping: DefaultDragDamping},
		Sampler: SamplerConfig{
			Targets:        []string{"box2"},
			SamplingRate:   DefaultSamplingRate,
			UpdateInterval: DefaultUpdateInterval,
			WindowSize:     DefaultWindowSize,
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names in alphabetical order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone deep-copies the config so presets stay untouched.
func (c *Config) Clone() *Config {
	out := *c
	out.Bodies = append([]BodyConfig(nil), c.Bodies...)
	out.Springs = append([]SpringConfig(nil), c.Springs...)
	out.Sampler.Targets = append([]string(nil), c.Sampler.Targets...)
	return &out
}
