package tui

import (
	"math"
	"sort"

	"geoscale/internal/geom"
)

type brailleBuf struct {
	w, h int       // in cells
	m    [][]uint8 // per-cell 8-bit mask
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	for i := range m {
		m[i] = make([]uint8, w)
	}
	return &brailleBuf{w: w, h: h, m: m}
}

// dot bits indexed by [column][row] within a 2x4 cell
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= dotBits[mx%2][my%4]
}

// drawLineMicro draws a line on the microgrid using Bresenham
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (b *brailleBuf) toLines() []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		row := make([]rune, b.w)
		for x := 0; x < b.w; x++ {
			mask := b.m[y][x]
			if mask == 0 {
				row[x] = ' '
			} else {
				row[x] = rune(0x2800 + int(mask))
			}
		}
		out[y] = string(row)
	}
	return out
}

// layers holds the visibility of each primitive kind.
type layers struct {
	points, lines, polys bool
}

func (l layers) all() bool { return l.points && l.lines && l.polys }

// brailleCanvas draws scaled geometry into a braille buffer, honouring
// the layer toggles.
type brailleCanvas struct {
	buf *brailleBuf
	layers
}

func (c *brailleCanvas) DrawPoint(p geom.Point) {
	if !c.points || !p.Finite() {
		return
	}
	x, y := dot(p)
	c.buf.setPixel(x, y)
}

func (c *brailleCanvas) DrawLine(path []geom.Point) {
	if !c.lines {
		return
	}
	c.polyline(path, false)
}

// DrawPolygon fills the rings with the even-odd rule, leaving holes empty,
// then strokes every ring.
func (c *brailleCanvas) DrawPolygon(rings [][]geom.Point) {
	if !c.polys || len(rings) == 0 || len(rings[0]) < 3 {
		return
	}
	if !finiteRings(rings) {
		// still stroke the finite segments
		for _, ring := range rings {
			c.polyline(ring, true)
		}
		return
	}
	hMic := c.buf.h * 4
	var xs []int
	for yMic := 0; yMic < hMic; yMic++ {
		xs = xs[:0]
		fy := float64(yMic)
		for _, ring := range rings {
			for i := range ring {
				a, b := ring[i], ring[(i+1)%len(ring)]
				if a.Y == b.Y {
					continue
				}
				if (fy >= a.Y && fy < b.Y) || (fy >= b.Y && fy < a.Y) {
					t := (fy - a.Y) / (b.Y - a.Y)
					xs = append(xs, px(a.X+t*(b.X-a.X)))
				}
			}
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for xMic := max(0, xs[i]); xMic <= xs[i+1] && xMic < c.buf.w*2; xMic++ {
				c.buf.setPixel(xMic, yMic)
			}
		}
	}
	for _, ring := range rings {
		c.polyline(ring, true)
	}
}

func (c *brailleCanvas) polyline(path []geom.Point, closed bool) {
	if len(path) == 1 {
		if !path[0].Finite() {
			return
		}
		x, y := dot(path[0])
		c.buf.setPixel(x, y)
		return
	}
	for i := 0; i+1 < len(path); i++ {
		c.segment(path[i], path[i+1])
	}
	if closed && len(path) > 2 {
		c.segment(path[len(path)-1], path[0])
	}
}

func (c *brailleCanvas) segment(a, b geom.Point) {
	a, b, ok := clipSegment(a, b, float64(c.buf.w*2), float64(c.buf.h*4))
	if !ok {
		return
	}
	x0, y0 := dot(a)
	x1, y1 := dot(b)
	c.buf.drawLineMicro(x0, y0, x1, y1)
}

// clipSegment clips a-b to the rectangle [-1, w] x [-1, h] (Liang-Barsky).
// Segments with a non-finite end are dropped.
func clipSegment(a, b geom.Point, w, h float64) (geom.Point, geom.Point, bool) {
	if !a.Finite() || !b.Finite() {
		return a, b, false
	}
	t0, t1 := 0.0, 1.0
	dx, dy := b.X-a.X, b.Y-a.Y
	edges := [4][2]float64{
		{-dx, a.X + 1},
		{dx, w - a.X},
		{-dy, a.Y + 1},
		{dy, h - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return a, b, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return a, b, false
			}
			t1 = math.Min(t1, r)
		}
	}
	return geom.Point{X: a.X + t0*dx, Y: a.Y + t0*dy},
		geom.Point{X: a.X + t1*dx, Y: a.Y + t1*dy}, true
}

// vertexCanvas records every device vertex it is given.
type vertexCanvas struct {
	pts []geom.Point
}

func (c *vertexCanvas) DrawPoint(p geom.Point)     { c.pts = append(c.pts, p) }
func (c *vertexCanvas) DrawLine(path []geom.Point) { c.pts = append(c.pts, path...) }
func (c *vertexCanvas) DrawPolygon(rings [][]geom.Point) {
	for _, r := range rings {
		c.pts = append(c.pts, r...)
	}
}

// nearest returns the recorded vertex closest to (x, y) and its squared
// distance. ok is false when nothing was recorded.
func (c *vertexCanvas) nearest(x, y float64) (best geom.Point, d2 float64, ok bool) {
	d2 = math.Inf(1)
	for _, p := range c.pts {
		dx, dy := p.X-x, p.Y-y
		if d := dx*dx + dy*dy; d < d2 {
			best, d2, ok = p, d, true
		}
	}
	return best, d2, ok
}

// dot rounds a device point to braille dot coordinates, clamped to keep
// extreme zoom levels inside int range.
func dot(p geom.Point) (int, int) { return px(p.X), px(p.Y) }

func px(v float64) int {
	const lim = 1 << 24
	if math.IsNaN(v) {
		return -lim
	}
	return int(math.Round(math.Max(-lim, math.Min(lim, v))))
}

func finiteRings(rings [][]geom.Point) bool {
	for _, r := range rings {
		for _, p := range r {
			if !p.Finite() {
				return false
			}
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
