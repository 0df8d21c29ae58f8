package tui

import (
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"geoscale/internal/geom"
)

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
	panStep      = 4 // braille dots

	zoomStep = 1.2
	minZoom  = 0.05
	maxZoom  = 64
)

// layout returns the map area origin and size for the current window.
func (m Model) layout() (x, y, w, h int) {
	h = max(4, m.height-headerHeight-footerHeight)
	contentWidth := max(10, m.width)
	w = contentWidth - 1
	if m.showSidebar {
		w -= sidebarWidth
		x = sidebarWidth + 1
	}
	return x, headerHeight, max(10, w), h
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resizeSidebar()
	case tea.KeyMsg:
		if cmd, done := m.handleKey(msg); done {
			return m, cmd
		}
	case tea.MouseMsg:
		m.hover(msg.X, msg.Y)
	}
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) resizeSidebar() {
	if m.showSidebar {
		_, _, _, h := m.layout()
		m.l.SetSize(sidebarWidth-2, h-2)
	}
}

// handleKey applies a key press. done reports that the key was consumed and
// must not reach the sidebar list.
func (m *Model) handleKey(msg tea.KeyMsg) (cmd tea.Cmd, done bool) {
	if m.showSidebar && m.l.FilterState() == list.Filtering {
		m.l, cmd = m.l.Update(msg)
		return cmd, true
	}
	if m.pasteMode {
		switch msg.String() {
		case "esc":
			m.setPasteMode(false)
		case "enter":
			m.applyPaste(m.ta.Value())
		default:
			m.ta, cmd = m.ta.Update(msg)
		}
		return cmd, true
	}

	k := msg.String()
	switch k {
	case "ctrl+c", "q":
		return tea.Quit, true
	case "1", "2", "3", "l":
		m.toggleLayer(k)
	case "+", "=":
		m.zoomBy(zoomStep)
	case "-", "_":
		m.zoomBy(1 / zoomStep)
	case "0":
		m.zoom = 1
		m.panX, m.panY = 0, 0
		m.status = "view reset"
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.refreshDir()
			m.resizeSidebar()
		}
	case "p":
		m.setPasteMode(true)
	case "h":
		m.helpVisible = !m.helpVisible
	case "a":
		m.showAttrs = !m.showAttrs
		if m.showAttrs {
			m.refreshAttrsFromCurrent()
		}
	case "i":
		m.toggleInspect()
	case "enter":
		if !m.showSidebar {
			break
		}
		if it, ok := m.l.SelectedItem().(fileItem); ok {
			m.open(it)
		}
	case "up", "down":
		// the sidebar list owns vertical keys while it is shown
		if m.showSidebar {
			return nil, false
		}
		if k == "up" {
			m.panY -= panStep
		} else {
			m.panY += panStep
		}
	case "left":
		m.panX -= panStep
	case "right":
		m.panX += panStep
	}
	return nil, false
}

func (m *Model) setPasteMode(on bool) {
	m.pasteMode = on
	if on {
		m.ta.SetValue("")
		m.ta.Focus()
		m.status = "paste mode"
		return
	}
	m.ta.Blur()
	m.status = "view mode"
}

func (m *Model) toggleLayer(k string) {
	switch k {
	case "1":
		m.layers.points = !m.layers.points
	case "2":
		m.layers.lines = !m.layers.lines
	case "3":
		m.layers.polys = !m.layers.polys
	case "l":
		on := !m.layers.all()
		m.layers = layers{points: on, lines: on, polys: on}
	}
	m.status = m.layersLabel()
}

func (m *Model) zoomBy(f float64) {
	z := m.zoom * f
	if z < minZoom || z > maxZoom {
		return
	}
	m.zoom = z
	m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
}

func (m *Model) toggleInspect() {
	if m.inspectPopup != "" {
		m.inspectPopup = ""
		return
	}
	f, at, ok := m.inspectNearest()
	if !ok {
		m.inspectPopup = "no feature nearby"
		m.status = m.inspectPopup
		return
	}
	m.inspectPopup = m.inspectText(f, at)
	m.status = "inspect: " + f.Label
}

// hover tracks the pointer over the map and snaps the highlight to the
// nearest drawn vertex.
func (m *Model) hover(x, y int) {
	mx, my, w, h := m.layout()
	if x < mx || x >= mx+w || y < my || y >= my+h {
		m.ptr.over = false
		return
	}
	p := pointer{over: true, cellX: x - mx, cellY: y - my}
	p.at, p.hasGeo = m.cellToData(p.cellX, p.cellY, w, h)
	p.dotX, p.dotY = p.cellX*2, p.cellY*4
	if vx, vy, ok := m.nearestVertex(p.dotX, p.dotY, w, h); ok {
		p.dotX, p.dotY = vx, vy
	}
	m.ptr = p
}

// applyPaste renders pasted text. Geometry text may be plain WKT or the
// 'WKT',SRID form; anything else is read as a raw point set.
func (m *Model) applyPaste(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		m.status = "paste: empty"
		return
	}
	d, recovered, err := parsePaste(text)
	if err != nil {
		m.status = "paste error: " + err.Error()
		m.log.WithError(err).Warn("paste rejected")
		return
	}
	m.selPath = ""
	m.setDataset(d)
	var note string
	if recovered > 0 && m.cfg.WarnEmptyCoordinates {
		m.log.WithField("recovered", recovered).Warn("point set had empty coordinates, drawn at (0, 0)")
		note = warnStyle.Render(fmt.Sprintf("  %d empty coordinate(s) drawn at 0,0", recovered))
	}
	m.setPasteMode(false)
	m.status = "rendered paste  " + m.countsLabel() + note
}

func parsePaste(text string) (geom.Dataset, int, error) {
	d := geom.Dataset{Name: "<paste>"}
	if strings.HasPrefix(text, "'") || geom.TypeOf(text) != "" {
		v, err := geom.ParseValue(text)
		if err != nil {
			return geom.Dataset{}, 0, err
		}
		g, err := v.Geometry()
		if err != nil {
			return geom.Dataset{}, 0, err
		}
		d.Features = []geom.Feature{{Label: g.Type().String(), Geom: g}}
		return d, 0, nil
	}
	e, err := geom.ExtractScaled(text, nil)
	if err != nil {
		return geom.Dataset{}, 0, err
	}
	d.Features = []geom.Feature{{Label: "point set", Geom: geom.LineString(e.Points)}}
	if len(e.Points) == 1 {
		d.Features[0].Geom = geom.PointGeom(e.Points[0])
	}
	return d, e.Recovered, nil
}

func (m Model) countsLabel() string {
	return fmt.Sprintf("counts: pts=%d ls=%d poly=%d", m.summary.Points, m.summary.Lines, m.summary.Polygons)
}

func (m Model) layersLabel() string {
	mark := func(name string, on bool) string {
		if on {
			return name
		}
		return "-" + name
	}
	return "layers: " + strings.Join([]string{
		mark("points", m.layers.points),
		mark("lines", m.layers.lines),
		mark("polys", m.layers.polys),
	}, " ")
}
