package tui

import (
	"fmt"
	"strings"

	"geoscale/internal/geom"
)

// viewBorder is the margin, in braille dots, kept around the fitted data.
const viewBorder = 2

// viewScale maps data coordinates onto the w x h cell map's braille dot
// grid: the dataset is fitted to the grid, then zoomed about its centre and
// shifted by the pan offset.
func (m Model) viewScale(w, h int) (geom.Scale, bool) {
	if !m.hasBBox || w <= 0 || h <= 0 {
		return geom.Scale{}, false
	}
	W, H := float64(w*2), float64(h*4)
	fit := geom.FitScale(m.bbox, W, H, viewBorder)
	cx := fit.OffsetX + W/(2*fit.Factor)
	cy := fit.OffsetY + H/(2*fit.Factor)
	f := fit.Factor * m.zoom
	return geom.Scale{
		OffsetX: cx - W/(2*f) - float64(m.panX)/f,
		OffsetY: cy - H/(2*f) + float64(m.panY)/f,
		Factor:  f,
		Height:  H,
	}, true
}

// cellToData converts the centre of a map cell back to data coordinates.
func (m Model) cellToData(cx, cy, w, h int) (geom.Point, bool) {
	s, ok := m.viewScale(w, h)
	if !ok {
		return geom.Point{}, false
	}
	return s.Invert(float64(cx*2)+1, float64(cy*4)+2), true
}

func (m Model) renderMap(w, h int) string {
	lines := make([]string, h)
	blank := strings.Repeat(" ", w)
	for y := range lines {
		lines[y] = blank
	}
	s, ok := m.viewScale(w, h)
	if !ok {
		return strings.Join(lines, "\n")
	}

	br := newBrailleBuf(w, h)
	m.data.Draw(&brailleCanvas{
		buf:    br,
		layers: m.layers,
	}, &s)
	lines = br.toLines()

	// Hover highlight: draw an orange circle at the hovered vertex cell
	if m.ptr.over {
		cx := m.ptr.dotX / 2
		cy := m.ptr.dotY / 4
		if cy >= 0 && cy < len(lines) {
			r := []rune(lines[cy])
			if cx >= 0 && cx < len(r) {
				circle := hoverStyle.Render("◯")
				lines[cy] = string(r[:cx]) + circle + string(r[cx+1:])
			}
		}
	}
	return strings.Join(lines, "\n")
}

// nearestVertex finds the drawn vertex closest to the braille dot (mx, my).
func (m Model) nearestVertex(mx, my, w, h int) (int, int, bool) {
	s, ok := m.viewScale(w, h)
	if !ok {
		return 0, 0, false
	}
	var vc vertexCanvas
	m.data.Draw(&vc, &s)
	p, _, ok := vc.nearest(float64(mx), float64(my))
	if !ok {
		return 0, 0, false
	}
	x, y := dot(p)
	return x, y, true
}

// inspectNearest returns the feature with a vertex closest to the viewport
// centre, with that vertex in data coordinates.
func (m Model) inspectNearest() (f geom.Feature, at geom.Point, ok bool) {
	w, h := 80, 24
	if m.width > 0 && m.height > 0 {
		_, _, w, h = m.layout()
	}
	s, ok := m.viewScale(w, h)
	if !ok {
		return geom.Feature{}, geom.Point{}, false
	}
	cx, cy := float64(w), float64(h*2)
	best := -1.0
	for _, feat := range m.data.Features {
		var vc vertexCanvas
		feat.Geom.Draw(&vc, &s)
		p, d2, found := vc.nearest(cx, cy)
		if found && (best < 0 || d2 < best) {
			best = d2
			f = feat
			at = s.Invert(p.X, p.Y)
		}
	}
	return f, at, best >= 0
}

// inspectText describes f for the inspect popup.
func (m Model) inspectText(f geom.Feature, at geom.Point) string {
	meta := []string{
		fmt.Sprintf("feature: %s (%s)", f.Label, f.Geom.Type()),
		fmt.Sprintf("dataset: %s", m.data.Name),
	}
	if b, ok := f.Geom.Bounds(nil); ok {
		meta = append(meta, fmt.Sprintf("bbox: [%.5f, %.5f, %.5f, %.5f]", b.MinX, b.MinY, b.MaxX, b.MaxY))
	}
	meta = append(meta, fmt.Sprintf("nearest: x=%.6f y=%.6f", at.X, at.Y))
	for _, c := range m.data.Columns {
		if v, ok := f.Props[c]; ok && v != "" {
			meta = append(meta, fmt.Sprintf("%s: %s", c, v))
		}
	}
	return strings.Join(meta, "\n")
}
