// Package tui is a live terminal view of a running layout. The bubbletea
// frame loop drives one simulation tick per frame and maps mouse drags onto
// the simulation's drag calls.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/TFMV/forcegraph/models"
	"github.com/TFMV/forcegraph/physics"
	"github.com/TFMV/forcegraph/render"
)

const (
	frameInterval = time.Second / 30
	historyLen    = 120
	headerRows    = 1 // Title line above the frame
	chartRows     = 4
	footerRows    = chartRows + 4 // Chart, caption, legend, status, help
	panStep       = 20
	zoomStep      = 1.2
	maxNeighbors  = 5
	maxGroups     = 10
)

// FrameMsg advances the simulation by one tick.
type FrameMsg time.Time

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return FrameMsg(t) })
}

// Model is the bubbletea model for the live view.
type Model struct {
	sim      *physics.Simulation
	graph    *models.Graph
	opts     *render.Options
	renderer *render.ASCIIRenderer

	snap   physics.Snapshot
	alphas []float64
	drag   string // Node under the pointer while dragging
	hover  string
	paused bool
	err    error
	width  int
	height int
	title  string
}

// New creates a live view over sim, which must have been built from graph.
// opts supplies palette, labels and the layout-space size mapped onto the
// terminal.
func New(sim *physics.Simulation, graph *models.Graph, opts *render.Options, title string) Model {
	o := *opts
	return Model{
		sim:      sim,
		graph:    graph,
		opts:     &o,
		renderer: &render.ASCIIRenderer{},
		snap:     sim.Snapshot(),
		width:    80,
		height:   30,
		title:    title,
	}
}

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	return nextFrame()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case FrameMsg:
		m.step()
		return m, nextFrame()
	}
	return m, nil
}

func (m *Model) step() {
	if m.paused || m.err != nil || m.sim.State() != physics.Running {
		m.snap = m.sim.Snapshot()
		return
	}
	snap, err := m.sim.Tick()
	if err != nil {
		m.err = err
		return
	}
	m.snap = snap
	m.alphas = append(m.alphas, snap.Alpha)
	if len(m.alphas) > historyLen {
		m.alphas = m.alphas[len(m.alphas)-historyLen:]
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ":
		m.paused = !m.paused
	case "r":
		// Reheat from scratch, as on a fresh load.
		if err := m.sim.SetAlpha(1); err == nil {
			m.sim.Restart()
			m.err = nil
		}
	case "f":
		m.opts.Fit = !m.opts.Fit
		if !m.opts.Fit {
			m.opts.Viewport = render.Fit(m.snap, m.opts.Width, m.opts.Height, m.opts.Padding)
		}
	case "0":
		m.opts.Fit = false
		m.opts.Viewport = render.Identity()
	case "+", "=":
		m.zoom(zoomStep, m.opts.Width/2, m.opts.Height/2)
	case "-", "_":
		m.zoom(1/zoomStep, m.opts.Width/2, m.opts.Height/2)
	case "left", "h":
		m.pan(panStep, 0)
	case "right", "l":
		m.pan(-panStep, 0)
	case "up", "k":
		m.pan(0, panStep)
	case "down", "j":
		m.pan(0, -panStep)
	}
	return m, nil
}

// frozen replaces a fitted view with the equivalent fixed transform so it
// can be adjusted by hand.
func (m *Model) frozen() render.Viewport {
	if m.opts.Fit {
		m.opts.Fit = false
		m.opts.Viewport = render.Fit(m.snap, m.opts.Width, m.opts.Height, m.opts.Padding)
	}
	return m.opts.Viewport
}

func (m *Model) zoom(factor, sx, sy float64) {
	m.opts.Viewport = m.frozen().ZoomAt(factor, sx, sy)
}

func (m *Model) pan(dx, dy float64) {
	m.opts.Viewport = m.frozen().Pan(dx, dy)
}

// frameOptions sizes the grid to the terminal.
func (m *Model) frameOptions() *render.Options {
	m.opts.Columns = max(m.width, 3)
	m.opts.Rows = max(m.height-headerRows-footerRows, 3)
	return m.opts
}

// layoutAt maps a terminal cell to layout coordinates.
func (m *Model) layoutAt(x, y int) (float64, float64) {
	opts := m.frameOptions()
	sx, sy := render.ScreenOf(opts, x, y-headerRows)
	vp := opts.Viewport
	if opts.Fit {
		vp = render.Fit(m.snap, opts.Width, opts.Height, opts.Padding)
	}
	return vp.Invert(sx, sy)
}

// nodeAt returns the node drawn nearest the terminal cell, within one cell.
func (m *Model) nodeAt(x, y int) (string, bool) {
	opts := m.frameOptions()
	vp := opts.Viewport
	if opts.Fit {
		vp = render.Fit(m.snap, opts.Width, opts.Height, opts.Padding)
	}

	best, bestDist := "", math.Inf(1)
	for _, n := range m.snap.Nodes {
		sx, sy := vp.Apply(n.X, n.Y)
		cx, cy := render.CellOf(opts, sx, sy)
		dx, dy := float64(cx-x), float64(cy+headerRows-y)
		if math.Abs(dx) > 1 || math.Abs(dy) > 1 {
			continue
		}
		if d := dx*dx + dy*dy; d < bestDist {
			best, bestDist = n.ID, d
		}
	}
	return best, best != ""
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		sx, sy := render.ScreenOf(m.frameOptions(), msg.X, msg.Y-headerRows)
		m.zoom(zoomStep, sx, sy)

	case msg.Button == tea.MouseButtonWheelDown:
		sx, sy := render.ScreenOf(m.frameOptions(), msg.X, msg.Y-headerRows)
		m.zoom(1/zoomStep, sx, sy)

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		// A release outside the terminal is never reported; end that drag here.
		if m.drag != "" {
			_ = m.sim.DragEnd(m.drag)
			m.drag = ""
		}
		id, ok := m.nodeAt(msg.X, msg.Y)
		if !ok {
			return
		}
		n, _ := m.sim.Node(id)
		if err := m.sim.DragStart(id, n.X, n.Y); err == nil {
			m.drag = id
		}

	case msg.Action == tea.MouseActionMotion:
		if m.drag == "" {
			m.hover, _ = m.nodeAt(msg.X, msg.Y)
			return
		}
		x, y := m.layoutAt(msg.X, msg.Y)
		_ = m.sim.DragMove(m.drag, x, y)

	case msg.Action == tea.MouseActionRelease:
		if m.drag != "" {
			_ = m.sim.DragEnd(m.drag)
			m.drag = ""
		}
	}
}

// View renders the title, coloured frame, alpha chart and status bar.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(m.frame())

	if len(m.alphas) > 1 {
		chart := asciigraph.Plot(m.alphas,
			asciigraph.Height(chartRows),
			asciigraph.Width(min(historyLen, max(m.width-12, 10))),
			asciigraph.Caption("alpha"))
		b.WriteString(ChartStyle.Render(chart))
	}
	b.WriteString("\n")
	b.WriteString(m.legend())
	b.WriteString("\n")
	b.WriteString(m.status())
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("drag nodes · wheel/+/- zoom · arrows pan · f fit · r reheat · space pause · q quit"))
	return b.String()
}

func (m *Model) palette() *render.Palette {
	if m.opts.Palette == nil {
		return render.Category10()
	}
	return m.opts.Palette
}

func (m *Model) frame() string {
	opts := m.frameOptions()
	f := m.renderer.Frame(m.snap, opts)
	palette := m.palette()

	var b strings.Builder
	last := len(f.Cells) - 1
	for y, row := range f.Cells {
		for x, c := range row {
			switch {
			case f.Slots[y][x] >= 0:
				color := palette.NodeColors[f.Slots[y][x]%len(palette.NodeColors)]
				b.WriteString(nodeStyle(color).Render(string(c)))
			case y == 0 || y == last || x == 0 || x == len(row)-1:
				b.WriteString(BorderStyle.Render(string(c)))
			case c == '·':
				b.WriteString(EdgeStyle.Render(string(c)))
			default:
				b.WriteRune(c)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) status() string {
	var state string
	switch {
	case m.err != nil:
		state = ErrorStyle.Render(m.err.Error())
	case m.paused:
		state = RunningStyle.Render("paused")
	case m.snap.State == physics.Running:
		state = RunningStyle.Render("running")
	default:
		state = IdleStyle.Render("idle")
	}

	parts := []string{
		state,
		fmt.Sprintf("tick %d", m.snap.Tick),
		fmt.Sprintf("alpha %.4f", m.snap.Alpha),
		fmt.Sprintf("%d nodes", len(m.snap.Nodes)),
	}
	if m.drag != "" {
		parts = append(parts, "dragging "+m.detail(m.drag))
	} else if m.hover != "" {
		parts = append(parts, m.detail(m.hover))
	}
	return StatusBarStyle.Render(strings.Join(parts, " │ "))
}

// detail describes a node: group, degree, total link weight and its first
// few neighbours.
func (m *Model) detail(id string) string {
	n, err := m.graph.FindNode(id)
	if err != nil {
		return id
	}
	degree, _ := m.graph.DegreeOf(id)
	weight := 0.0
	for _, l := range m.graph.LinksOf(id) {
		weight += l.Value
	}

	s := fmt.Sprintf("%s (group %s, degree %d, weight %g)", n.ID, n.Group, degree, weight)
	var names []string
	for _, nb := range m.graph.Neighbors(id) {
		if len(names) == maxNeighbors {
			names = append(names, "…")
			break
		}
		names = append(names, nb.ID)
	}
	if len(names) > 0 {
		s += " → " + strings.Join(names, ", ")
	}
	return s
}

// legend lists groups with their frame symbol and node count. Groups take
// palette slots in first-seen order, matching the frame.
func (m *Model) legend() string {
	palette := m.palette()
	groups := m.graph.Groups()

	var parts []string
	for i, group := range groups {
		if i == maxGroups {
			parts = append(parts, fmt.Sprintf("+%d more", len(groups)-maxGroups))
			break
		}
		slot := i % len(palette.NodeColors)
		count := len(m.graph.FilterNodes(func(n *models.Node) bool { return n.Group == group }))
		name := group
		if name == "" {
			name = "-"
		}
		symbol := nodeStyle(palette.NodeColors[slot]).Render(string(render.NodeSymbol(slot)))
		parts = append(parts, fmt.Sprintf("%s %s (%d)", symbol, name, count))
	}
	return strings.Join(parts, "  ")
}

// Run starts the live view and blocks until the user quits.
func Run(sim *physics.Simulation, graph *models.Graph, opts *render.Options, title string) error {
	p := tea.NewProgram(New(sim, graph, opts, title), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
