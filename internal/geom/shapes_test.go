package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCanvas struct {
	points   []Point
	lines    [][]Point
	polygons [][][]Point
}

func (c *recordingCanvas) DrawPoint(p Point)           { c.points = append(c.points, p) }
func (c *recordingCanvas) DrawLine(path []Point)       { c.lines = append(c.lines, path) }
func (c *recordingCanvas) DrawPolygon(rings [][]Point) { c.polygons = append(c.polygons, rings) }

func TestGeometryBounds(t *testing.T) {
	tests := []struct {
		name string
		g    Geometry
		want BBox
	}{
		{"point", PointGeom{3, 4}, BBox{3, 4, 3, 4}},
		{"multipoint", MultiPoint{{1, 5}, {-2, 3}}, BBox{-2, 3, 1, 5}},
		{"linestring", LineString{{0, 0}, {5, -1}}, BBox{0, -1, 5, 0}},
		{"multilinestring", MultiLineString{{{0, 0}, {1, 1}}, {{7, -3}}}, BBox{0, -3, 7, 1}},
		{"polygon uses outer ring", Polygon{{{0, 0}, {4, 0}, {4, 4}, {0, 0}}, {{9, 9}}}, BBox{0, 0, 4, 4}},
		{"multipolygon", MultiPolygon{{{{0, 0}, {1, 1}}}, {{{5, 6}, {7, 8}}}}, BBox{0, 0, 7, 8}},
		{"collection", Collection{PointGeom{-1, -1}, LineString{{2, 2}, {3, 3}}}, BBox{-1, -1, 3, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok := tt.g.Bounds(nil)
			require.True(t, ok)
			assert.Equal(t, tt.want, b)

			// folding into its own box changes nothing
			again, ok := tt.g.Bounds(&b)
			require.True(t, ok)
			assert.Equal(t, b, again)
		})
	}
}

func TestGeometryBoundsEmpty(t *testing.T) {
	_, ok := Collection{}.Bounds(nil)
	assert.False(t, ok)
	_, ok = MultiPoint{}.Bounds(nil)
	assert.False(t, ok)

	existing := BBox{1, 1, 2, 2}
	b, ok := Polygon{}.Bounds(&existing)
	require.True(t, ok)
	assert.Equal(t, existing, b)
}

func TestGeometryBoundsMatchesPointSet(t *testing.T) {
	g, err := ParseWKT("LINESTRING(1 2,3 4,5 6)")
	require.NoError(t, err)
	fromGeom, ok := g.Bounds(nil)
	require.True(t, ok)
	fromSet, err := ComputeBoundingBox("1 2,3 4,5 6", nil)
	require.NoError(t, err)
	assert.Equal(t, fromSet, fromGeom)
}

func TestGeometryDraw(t *testing.T) {
	s := &Scale{Factor: 2, Height: 100}
	g := Collection{
		PointGeom{10, 10},
		LineString{{0, 0}, {5, 5}},
		Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}},
	}
	var c recordingCanvas
	g.Draw(&c, s)
	assert.Equal(t, []Point{{20, 80}}, c.points)
	assert.Equal(t, [][]Point{{{0, 100}, {10, 90}}}, c.lines)
	require.Len(t, c.polygons, 1)
	assert.Equal(t, []Point{{0, 100}, {2, 100}, {2, 98}, {0, 100}}, c.polygons[0][0])

	// nil scale passes coordinates through
	var raw recordingCanvas
	PointGeom{10, 10}.Draw(&raw, nil)
	assert.Equal(t, []Point{{10, 10}}, raw.points)
}

func TestSummarize(t *testing.T) {
	g := Collection{
		MultiPoint{{0, 0}, {1, 1}},
		MultiLineString{{{0, 0}, {1, 1}}, {{2, 2}, {3, 3}}},
		MultiPolygon{{{{0, 0}, {1, 1}, {1, 0}}}},
	}
	assert.Equal(t, Summary{Points: 2, Lines: 2, Polygons: 1}, Summarize(g))
}

func TestFinite(t *testing.T) {
	assert.True(t, Finite(Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}))
	assert.False(t, Finite(LineString{{0, 0}, {math.NaN(), 5}}))
	assert.False(t, Finite(Collection{PointGeom{X: 1}, PointGeom{Y: math.Inf(-1)}}))
	assert.False(t, Point{X: math.Inf(1)}.Finite())
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "MULTILINESTRING", TypeMultiLineString.String())
	assert.Equal(t, "GEOMETRYCOLLECTION", Collection{}.Type().String())
	assert.Equal(t, "UNKNOWN", Type(0).String())
}
