package ecs

import "fmt"

// Kind tags a component type. Values are stable for the process lifetime.
type Kind uint8

const (
	KindPosition Kind = iota
	KindVelocity
	KindMass
	KindForce
	KindAccumulatedForce
	KindFriction
	KindSpringLink
	KindDragTarget
)

var kindNames = [...]string{
	KindPosition:         "position",
	KindVelocity:         "velocity",
	KindMass:             "mass",
	KindForce:            "force",
	KindAccumulatedForce: "accumulated_force",
	KindFriction:         "friction",
	KindSpringLink:       "spring_link",
	KindDragTarget:       "drag_target",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Component is plain data attached to an entity.
type Component interface {
	Kind() Kind
}

// Position is in world units. Written only by the movement system.
type Position struct {
	X, Y float64
}

// Velocity in world units per tick. Written only by the movement system.
type Velocity struct {
	VX, VY float64
}

// Mass must be positive.
type Mass struct {
	Mass float64
}

// Force is the per-tick accumulator. Force systems call Add; the movement
// system snapshots and zeroes it after integration.
type Force struct {
	FX, FY float64
}

func (f *Force) Add(fx, fy float64) {
	f.FX += fx
	f.FY += fy
}

// AccumulatedForce holds the Force sum of the last integrated tick.
type AccumulatedForce struct {
	FX, FY float64
}

type Friction struct {
	Coefficient float64
}

// SpringModel selects the force law a SpringLink is evaluated with.
type SpringModel uint8

const (
	// SpringRestLength pulls along the normalized separation toward
	// RestLengthRatio times the first observed length.
	SpringRestLength SpringModel = iota
	// SpringHooke applies stiffness to the raw separation vector.
	SpringHooke
)

func (m SpringModel) String() string {
	switch m {
	case SpringHooke:
		return "hooke"
	case SpringRestLength:
		return "rest_length"
	default:
		return fmt.Sprintf("spring_model(%d)", uint8(m))
	}
}

// ParseSpringModel accepts the names produced by SpringModel.String.
// The empty string selects SpringRestLength.
func ParseSpringModel(s string) (SpringModel, error) {
	switch s {
	case "", "rest_length":
		return SpringRestLength, nil
	case "hooke":
		return SpringHooke, nil
	default:
		return 0, fmt.Errorf("unknown spring model %q", s)
	}
}

// SpringLink joins two entities by handle. It owns neither endpoint.
type SpringLink struct {
	A, B            EntityID
	Stiffness       float64
	Damping         float64
	RestLengthRatio float64
	Model           SpringModel

	initialLength float64
	latched       bool
}

// Latch records length as the initial length unless one is already set.
func (s *SpringLink) Latch(length float64) {
	if s.latched {
		return
	}
	s.initialLength = length
	s.latched = true
}

func (s *SpringLink) InitialLength() (float64, bool) {
	return s.initialLength, s.latched
}

// RestLength is RestLengthRatio times the latched initial length, or 0
// before the first latch.
func (s *SpringLink) RestLength() float64 {
	return s.RestLengthRatio * s.initialLength
}

// DragTarget is written by the input layer and read by the drag system.
type DragTarget struct {
	Dragging         bool
	TargetX, TargetY float64
	OffsetX, OffsetY float64
}

func (d *DragTarget) StartDrag(offsetX, offsetY float64) {
	d.Dragging = true
	d.OffsetX = offsetX
	d.OffsetY = offsetY
}

func (d *DragTarget) SetTarget(x, y float64) {
	d.TargetX = x
	d.TargetY = y
}

func (d *DragTarget) StopDrag() {
	d.Dragging = false
}

func (*Position) Kind() Kind         { return KindPosition }
func (*Velocity) Kind() Kind         { return KindVelocity }
func (*Mass) Kind() Kind             { return KindMass }
func (*Force) Kind() Kind            { return KindForce }
func (*AccumulatedForce) Kind() Kind { return KindAccumulatedForce }
func (*Friction) Kind() Kind         { return KindFriction }
func (*SpringLink) Kind() Kind       { return KindSpringLink }
func (*DragTarget) Kind() Kind       { return KindDragTarget }
