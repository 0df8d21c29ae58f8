package geom

import (
	"strconv"
	"strings"
)

// Type identifies a geometry variant.
type Type int

const (
	TypePoint Type = iota + 1
	TypeMultiPoint
	TypeLineString
	TypeMultiLineString
	TypePolygon
	TypeMultiPolygon
	TypeCollection
)

var typeNames = map[Type]string{
	TypePoint:           "POINT",
	TypeMultiPoint:      "MULTIPOINT",
	TypeLineString:      "LINESTRING",
	TypeMultiLineString: "MULTILINESTRING",
	TypePolygon:         "POLYGON",
	TypeMultiPolygon:    "MULTIPOLYGON",
	TypeCollection:      "GEOMETRYCOLLECTION",
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "UNKNOWN"
}

// Canvas receives device-space primitives from Geometry.Draw.
type Canvas interface {
	DrawPoint(p Point)
	DrawLine(path []Point)
	// DrawPolygon receives the outer ring first, then any holes.
	DrawPolygon(rings [][]Point)
}

// Geometry is implemented by every variant in this package.
type Geometry interface {
	Type() Type
	// Bounds folds the geometry's vertices into existing. ok is false
	// when existing is nil and the geometry has no vertex.
	Bounds(existing *BBox) (b BBox, ok bool)
	// Draw emits the geometry onto c, mapped through s when s is not nil.
	Draw(c Canvas, s *Scale)
	WKT() string
}

type (
	PointGeom       Point
	MultiPoint      []Point
	LineString      []Point
	MultiLineString [][]Point
	Polygon         [][]Point // first ring is the outer boundary
	MultiPolygon    []Polygon
	Collection      []Geometry
)

func (PointGeom) Type() Type       { return TypePoint }
func (MultiPoint) Type() Type      { return TypeMultiPoint }
func (LineString) Type() Type      { return TypeLineString }
func (MultiLineString) Type() Type { return TypeMultiLineString }
func (Polygon) Type() Type         { return TypePolygon }
func (MultiPolygon) Type() Type    { return TypeMultiPolygon }
func (Collection) Type() Type      { return TypeCollection }

func foldPoints(existing *BBox, pts []Point) *BBox {
	for _, p := range pts {
		existing = fold(existing, p)
	}
	return existing
}

func result(b *BBox) (BBox, bool) {
	if b == nil {
		return BBox{}, false
	}
	return *b, true
}

func (g PointGeom) Bounds(existing *BBox) (BBox, bool) {
	return result(fold(existing, Point(g)))
}

func (g MultiPoint) Bounds(existing *BBox) (BBox, bool) {
	return result(foldPoints(existing, g))
}

func (g LineString) Bounds(existing *BBox) (BBox, bool) {
	return result(foldPoints(existing, g))
}

func (g MultiLineString) Bounds(existing *BBox) (BBox, bool) {
	for _, ls := range g {
		existing = foldPoints(existing, ls)
	}
	return result(existing)
}

// Bounds of a polygon only looks at the outer ring; holes lie inside it.
func (g Polygon) Bounds(existing *BBox) (BBox, bool) {
	if len(g) == 0 {
		return result(existing)
	}
	return result(foldPoints(existing, g[0]))
}

func (g MultiPolygon) Bounds(existing *BBox) (BBox, bool) {
	for _, poly := range g {
		if len(poly) > 0 {
			existing = foldPoints(existing, poly[0])
		}
	}
	return result(existing)
}

func (g Collection) Bounds(existing *BBox) (BBox, bool) {
	for _, m := range g {
		if b, ok := m.Bounds(existing); ok {
			existing = &b
		}
	}
	return result(existing)
}

func project(p Point, s *Scale) Point {
	if s == nil {
		return p
	}
	return s.Apply(p.X, p.Y)
}

func projectAll(pts []Point, s *Scale) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = project(p, s)
	}
	return out
}

func projectRings(rings [][]Point, s *Scale) [][]Point {
	out := make([][]Point, len(rings))
	for i, r := range rings {
		out[i] = projectAll(r, s)
	}
	return out
}

func (g PointGeom) Draw(c Canvas, s *Scale) { c.DrawPoint(project(Point(g), s)) }

func (g MultiPoint) Draw(c Canvas, s *Scale) {
	for _, p := range g {
		c.DrawPoint(project(p, s))
	}
}

func (g LineString) Draw(c Canvas, s *Scale) { c.DrawLine(projectAll(g, s)) }

func (g MultiLineString) Draw(c Canvas, s *Scale) {
	for _, ls := range g {
		c.DrawLine(projectAll(ls, s))
	}
}

func (g Polygon) Draw(c Canvas, s *Scale) { c.DrawPolygon(projectRings(g, s)) }

func (g MultiPolygon) Draw(c Canvas, s *Scale) {
	for _, poly := range g {
		c.DrawPolygon(projectRings(poly, s))
	}
}

func (g Collection) Draw(c Canvas, s *Scale) {
	for _, m := range g {
		m.Draw(c, s)
	}
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func writePoints(sb *strings.Builder, pts []Point) {
	for i, p := range pts {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(formatFloat(p.X))
		sb.WriteByte(' ')
		sb.WriteString(formatFloat(p.Y))
	}
}

func writeRings(sb *strings.Builder, rings [][]Point) {
	for i, r := range rings {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('(')
		writePoints(sb, r)
		sb.WriteByte(')')
	}
}

func wrap(kw string, body func(sb *strings.Builder)) string {
	var sb strings.Builder
	sb.WriteString(kw)
	sb.WriteByte('(')
	body(&sb)
	sb.WriteByte(')')
	return sb.String()
}

func (g PointGeom) WKT() string {
	return wrap("POINT", func(sb *strings.Builder) { writePoints(sb, []Point{Point(g)}) })
}

func (g MultiPoint) WKT() string {
	return wrap("MULTIPOINT", func(sb *strings.Builder) { writePoints(sb, g) })
}

func (g LineString) WKT() string {
	return wrap("LINESTRING", func(sb *strings.Builder) { writePoints(sb, g) })
}

func (g MultiLineString) WKT() string {
	return wrap("MULTILINESTRING", func(sb *strings.Builder) { writeRings(sb, g) })
}

func (g Polygon) WKT() string {
	return wrap("POLYGON", func(sb *strings.Builder) { writeRings(sb, g) })
}

func (g MultiPolygon) WKT() string {
	return wrap("MULTIPOLYGON", func(sb *strings.Builder) {
		for i, poly := range g {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteByte('(')
			writeRings(sb, poly)
			sb.WriteByte(')')
		}
	})
}

func (g Collection) WKT() string {
	return wrap("GEOMETRYCOLLECTION", func(sb *strings.Builder) {
		for i, m := range g {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(m.WKT())
		}
	})
}

// Summary counts drawable primitives.
type Summary struct {
	Points   int `json:"points"`
	Lines    int `json:"lines"`
	Polygons int `json:"polygons"`
}

func (s *Summary) DrawPoint(Point)       { s.Points++ }
func (s *Summary) DrawLine([]Point)      { s.Lines++ }
func (s *Summary) DrawPolygon([][]Point) { s.Polygons++ }

type finiteCheck struct{ ok bool }

func (c *finiteCheck) points(pts []Point) {
	for _, p := range pts {
		c.ok = c.ok && p.Finite()
	}
}

func (c *finiteCheck) DrawPoint(p Point)     { c.points([]Point{p}) }
func (c *finiteCheck) DrawLine(path []Point) { c.points(path) }
func (c *finiteCheck) DrawPolygon(r [][]Point) {
	for _, ring := range r {
		c.points(ring)
	}
}

// Finite reports whether every vertex of g is a finite coordinate pair.
func Finite(g Geometry) bool {
	c := finiteCheck{ok: true}
	g.Draw(&c, nil)
	return c.ok
}

// Summarize counts the primitives g would draw.
func Summarize(g Geometry) Summary {
	var s Summary
	g.Draw(&s, nil)
	return s
}
