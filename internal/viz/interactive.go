package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/springlab/internal/config"
	"github.com/san-kum/springlab/internal/scene"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	pickedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	descStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Bold(true)
)

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// param is one editable number of the selected scene.
type param struct {
	label string
	value *float64
}

type picker struct {
	state, cursor int
	presets       []string
	cfg           *config.Config
	params        []param
	paramCursor   int
	editing       bool
	editBuf       string
	fps           int
	err           error
	width, height int
	liveModel     Model
}

func newPicker(fps int) picker {
	return picker{
		state:   stateMenu,
		presets: config.ListPresets(),
		fps:     fps,
	}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.state == stateSim {
			return m.forward(msg)
		}
		return m, nil
	default:
		if m.state == stateSim {
			return m.forward(msg)
		}
	}
	return m, nil
}

func (m picker) forward(msg tea.Msg) (picker, tea.Cmd) {
	next, cmd := m.liveModel.Update(msg)
	m.liveModel = next.(Model)
	m.err = m.liveModel.Err()
	return m, cmd
}

func (m picker) handleKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		return m.forward(msg)
	}
	return m, nil
}

func (m picker) menuKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.cfg = config.GetPreset(m.presets[m.cursor])
		m.params = editableParams(m.cfg)
		m.state, m.paramCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m picker) configKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%f", &val); err == nil {
				*m.params[m.paramCursor].value = val
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.params)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		if len(m.params) > 0 {
			m.editing, m.editBuf = true, fmt.Sprintf("%.3f", *m.params[m.paramCursor].value)
		}
	case "left", "h":
		if len(m.params) > 0 {
			*m.params[m.paramCursor].value -= 0.01
		}
	case "right", "l":
		if len(m.params) > 0 {
			*m.params[m.paramCursor].value += 0.01
		}
	case "s":
		return m.start()
	}
	return m, nil
}

// editableParams exposes the spring and friction coefficients of cfg.
func editableParams(cfg *config.Config) []param {
	var out []param
	for i := range cfg.Springs {
		s := &cfg.Springs[i]
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("spring%d", i+1)
		}
		out = append(out,
			param{label: name + ".k", value: &s.Stiffness},
			param{label: name + ".damping", value: &s.Damping},
			param{label: name + ".ratio", value: &s.RestLengthRatio},
		)
	}
	for i := range cfg.Bodies {
		b := &cfg.Bodies[i]
		if b.Kind == config.KindAnchor {
			continue
		}
		out = append(out, param{label: b.Name + ".friction", value: &b.Friction})
	}
	return out
}

func (m picker) start() (picker, tea.Cmd) {
	sc, err := scene.Build(m.cfg)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.liveModel = NewModel(sc, m.fps)
	if m.width > 0 {
		m.liveModel.resize(m.width, m.height)
	}
	m.state, m.err = stateSim, nil
	return m, m.liveModel.Init()
}

func (m picker) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

func describe(cfg *config.Config) string {
	anchors := 0
	for _, b := range cfg.Bodies {
		if b.Kind == config.KindAnchor {
			anchors++
		}
	}
	return fmt.Sprintf("%d bodies, %d anchors, %d springs", len(cfg.Bodies)-anchors, anchors, len(cfg.Springs))
}

func (m picker) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render("SPRINGLAB") + "\n    " + subStyle.Render("spring and particle playground") + "\n    " + subStyle.Render("──────────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := describe(config.GetPreset(name))
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), pickedStyle.Render(fmt.Sprintf("%-10s", name)), descStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", idleStyle.Render(fmt.Sprintf("  %-10s", name)), idleStyle.Render(desc)))
		}
	}
	b.WriteString("\n    " + keyStyle.Render("j/k") + idleStyle.Render(" navigate  ") + keyStyle.Render("enter") + idleStyle.Render(" select  ") + keyStyle.Render("q") + idleStyle.Render(" quit") + "\n")
	return b.String()
}

func (m picker) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render(strings.ToUpper(m.cfg.Name)) + "\n    " + subStyle.Render(describe(m.cfg)) + "\n    " + subStyle.Render("──────────────────────────────") + "\n\n")
	for i, p := range m.params {
		valStr := fmt.Sprintf("%8.3f", *p.value)
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%8s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursorStyle.Render("▸"), pickedStyle.Render(fmt.Sprintf("%-18s", p.label)), descStyle.Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", idleStyle.Render(fmt.Sprintf("  %-18s", p.label)), idleStyle.Render(valStr)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + errStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyStyle.Render("j/k") + idleStyle.Render(" select  ") + keyStyle.Render("h/l") + idleStyle.Render(" adjust  ") + keyStyle.Render("s") + idleStyle.Render(" start  ") + keyStyle.Render("esc") + idleStyle.Render(" back") + "\n")
	return b.String()
}

// RunInteractive lets the user pick and tune a preset before running it live.
func RunInteractive(fps int) error {
	final, err := tea.NewProgram(newPicker(fps), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(picker); ok && m.err != nil {
		return m.err
	}
	return nil
}
