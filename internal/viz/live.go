package viz

import (
	"fmt"
	"image"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/springlab/internal/scene"
)

const (
	width       = 80
	height      = 24
	panelCells  = 52
	fitMargin   = 8
	bodyHalf    = 2
	pickRadius  = 6
	costHistory = 120
	DefaultFPS  = 60
	gifPath     = "springlab.gif"
)

type TickMsg time.Time

// Model drives one scene at a fixed frame rate and forwards the mouse to
// the scene's dragger.
type Model struct {
	scene         *scene.Scene
	fps           int
	width, height int
	canvas        *Canvas
	view          Viewport
	theme         Theme
	running       bool
	showHelp      bool
	err           error
	tickCost      []float64
	recording     bool
	frames        []*image.Paletted
	status        string
}

func NewModel(sc *scene.Scene, fps int) Model {
	if fps <= 0 {
		fps = DefaultFPS
	}
	m := Model{
		scene:    sc,
		fps:      fps,
		width:    width,
		height:   height,
		canvas:   NewCanvas(width, height),
		theme:    Themes[0],
		running:  true,
		tickCost: make([]float64, 0, costHistory),
	}
	m.fit()
	return m
}

// Err is the error that stopped the simulation, if any.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "s":
			if !m.running && m.err == nil {
				if err := m.step(); err != nil {
					m.err = err
					return m, tea.Quit
				}
			}
		case "f":
			m.fit()
		case "t":
			m.theme = NextTheme(m.theme.Name)
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		if !m.showHelp {
			m.handleMouse(msg)
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		if m.running {
			if err := m.step(); err != nil {
				m.err = err
				return m, tea.Quit
			}
		}
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, m.tick()
	}
	return m, nil
}

// step runs one engine tick and records how long the systems took.
func (m *Model) step() error {
	if err := m.scene.Engine.Tick(); err != nil {
		return err
	}
	var cost time.Duration
	for _, s := range m.scene.Engine.Stats().Systems {
		cost += s.LastDuration
	}
	m.tickCost = append(m.tickCost, float64(cost.Microseconds()))
	if len(m.tickCost) > costHistory {
		m.tickCost = m.tickCost[1:]
	}
	return nil
}

// cellToWorld converts a terminal cell to world coordinates, aiming at the
// centre of the cell.
func (m *Model) cellToWorld(cellX, cellY int) (float64, float64) {
	px := (cellX-canvasPadX)*2 + 1
	py := (cellY-canvasPadY)*4 + 2
	return m.view.ToWorld(px, py)
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	wx, wy := m.cellToWorld(msg.X, msg.Y)
	drag := m.scene.Dragger

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		id, ok := drag.Pick(wx, wy, pickRadius/m.view.Scale)
		if !ok {
			return
		}
		if err := drag.Grab(id, wx, wy); err != nil {
			m.status = err.Error()
		}
	case tea.MouseActionMotion:
		drag.Move(wx, wy)
	case tea.MouseActionRelease:
		drag.Release()
	}
}

func (m *Model) resize(termW, termH int) {
	m.width = max(20, termW-2*canvasPadX-panelCells)
	m.height = max(8, termH-2*canvasPadY)
	m.canvas = NewCanvas(m.width, m.height)
	m.fit()
}

// fit frames every body currently in the scene.
func (m *Model) fit() {
	bodies := m.scene.Bodies()
	if len(bodies) == 0 {
		m.view = Viewport{Scale: 1}
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, b := range bodies {
		minX, maxX = math.Min(minX, b.X), math.Max(maxX, b.X)
		minY, maxY = math.Min(minY, b.Y), math.Max(maxY, b.Y)
	}
	m.view = FitViewport(minX, minY, maxX, maxY, m.canvas.SubWidth(), m.canvas.SubHeight(), fitMargin)
}

func (m *Model) draw() {
	m.canvas.Clear()
	for _, link := range m.scene.Links() {
		x0, y0 := m.view.ToCanvas(link[0].X, link[0].Y)
		x1, y1 := m.view.ToCanvas(link[1].X, link[1].Y)
		m.canvas.DrawLine(x0, y0, x1, y1)
	}
	for _, b := range m.scene.Bodies() {
		x, y := m.view.ToCanvas(b.X, b.Y)
		if b.Anchored {
			m.canvas.Cross(x, y, bodyHalf+1)
			continue
		}
		m.canvas.FillBox(x, y, bodyHalf)
	}
}

func (m Model) View() string {
	st := newStyles(m.theme)
	m.draw()
	canvasView := st.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.scene.Name)) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(st.failed.Render("FAILED") + "\n")
		s.WriteString(st.failed.Render(m.err.Error()) + "\n")
	case m.running:
		s.WriteString(st.running.Render("RUNNING"))
	default:
		s.WriteString(st.paused.Render("PAUSED"))
	}
	if m.recording {
		s.WriteString("  " + st.failed.Render(fmt.Sprintf("REC %d", len(m.frames))))
	}
	s.WriteString("\n")

	if chart := m.scene.Chart.Render(36, 5); chart != "" {
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	s.WriteString(st.label.Render("Tick") + st.value.Render(fmt.Sprintf("%d", m.scene.Engine.Ticks())) + "\n")
	s.WriteString(st.label.Render("Samples") + st.value.Render(fmt.Sprintf("%d flushes", m.scene.Sampler.Flushes())) + "\n")
	held := "-"
	if id, ok := m.scene.Dragger.Held(); ok {
		if e, ok := m.scene.World.Entity(id); ok {
			held = e.Name
		}
	}
	s.WriteString(st.label.Render("Dragging") + st.active.Render(held) + "\n")

	s.WriteString("\nBODIES\n")
	for _, b := range m.scene.Bodies() {
		line := fmt.Sprintf("%-8s %8.1f %8.1f", b.Name, b.X, b.Y)
		if b.Name == held {
			s.WriteString(st.active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.value.Render(line) + "\n")
		}
	}

	s.WriteString("\nSYSTEMS\n")
	for _, sys := range m.scene.Engine.Stats().Systems {
		s.WriteString(st.label.Render(sys.Name) + st.value.Render(sys.AvgDuration.String()) + "\n")
	}
	s.WriteString(st.label.Render("Tick cost") + st.sparkline(m.tickCost, 30) + "\n")

	if m.status != "" {
		s.WriteString("\n" + st.value.Render(m.status) + "\n")
	}
	s.WriteString(st.help.Render("SP:Pause S:Step F:Fit T:Theme G:Record ?:Help Q:Quit\nDrag a box with the left mouse button"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  S        - Single tick when paused  ║
║  F        - Refit the view           ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  Mouse    - Drag a box               ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Run opens the live view on sc and blocks until the user quits or a tick
// fails.
func Run(sc *scene.Scene, fps int) error {
	p := tea.NewProgram(NewModel(sc, fps), tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.err != nil {
		return m.err
	}
	return nil
}
