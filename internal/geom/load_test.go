package geom

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	cgeom "github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadGeoJSONFeatureCollection(t *testing.T) {
	p := writeFile(t, "cities.geojson", `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "a", "pop": 12},
     "geometry": {"type": "Point", "coordinates": [1, 2]}},
    {"type": "Feature", "properties": {"name": "b", "capital": true},
     "geometry": {"type": "LineString", "coordinates": [[0, 0], [5, 7]]}},
    {"type": "Feature", "properties": {},
     "geometry": {"type": "Polygon", "coordinates": [[[-1, -1], [2, -1], [2, 3], [-1, -1]]]}}
  ]
}`)
	d, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "cities.geojson", d.Name)
	require.Len(t, d.Features, 3)
	assert.Equal(t, "a", d.Features[0].Label)
	assert.Equal(t, "12", d.Features[0].Props["pop"])
	assert.Equal(t, "true", d.Features[1].Props["capital"])
	assert.Equal(t, []string{"name", "pop", "capital"}, d.Columns)
	assert.Equal(t, Summary{Points: 1, Lines: 1, Polygons: 1}, d.Summary())

	b, ok := d.Bounds()
	require.True(t, ok)
	assert.Equal(t, BBox{MinX: -1, MinY: -1, MaxX: 5, MaxY: 7}, b)
}

func TestDecodeGeoJSONBareGeometry(t *testing.T) {
	d, err := DecodeGeoJSON([]byte(`{"type":"MultiPolygon","coordinates":[[[[0,0],[1,0],[1,1],[0,0]]],[[[4,4],[5,4],[5,5],[4,4]]]]}`))
	require.NoError(t, err)
	require.Len(t, d.Features, 1)
	assert.Equal(t, TypeMultiPolygon, d.Features[0].Geom.Type())

	_, err = DecodeGeoJSON([]byte(`{"features":[]}`))
	assert.Error(t, err)
}

func TestLoadCSV(t *testing.T) {
	p := writeFile(t, "pts.csv", "name,Latitude,Longitude,kind\nhome,52.5,13.4,house\nbad,x,1,skip\nnan,NaN,1,skip\nwork,48.1,11.6,office\n")
	d, err := Load(p)
	require.NoError(t, err)
	require.Len(t, d.Features, 2)
	assert.Equal(t, "home", d.Features[0].Label)
	assert.Equal(t, PointGeom{X: 13.4, Y: 52.5}, d.Features[0].Geom)
	assert.Equal(t, "office", d.Features[1].Props["kind"])
	assert.Equal(t, []string{"name", "Latitude", "Longitude", "kind"}, d.Columns)
}

func TestDecodeCSVMissingColumns(t *testing.T) {
	_, err := DecodeCSV(strings.NewReader("a,b\n1,2\n"))
	assert.Error(t, err)
}

func TestLoadKML(t *testing.T) {
	p := writeFile(t, "doc.kml", `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <Placemark><name>pin</name><Point><coordinates>13.4,52.5,0</coordinates></Point></Placemark>
    <Folder>
      <Placemark><name>road</name><LineString><coordinates>0,0 1,1 NaN,5 2,0</coordinates></LineString></Placemark>
    </Folder>
    <Placemark><name>park</name><Polygon>
      <outerBoundaryIs><LinearRing><coordinates>0,0 4,0 4,4 0,0</coordinates></LinearRing></outerBoundaryIs>
      <innerBoundaryIs><LinearRing><coordinates>1,1 2,1 2,2 1,1</coordinates></LinearRing></innerBoundaryIs>
    </Polygon></Placemark>
  </Document>
</kml>`)
	d, err := Load(p)
	require.NoError(t, err)
	require.Len(t, d.Features, 3)
	assert.Equal(t, PointGeom{X: 13.4, Y: 52.5}, d.Features[0].Geom)
	assert.Equal(t, "park", d.Features[1].Label)
	poly, ok := d.Features[1].Geom.(Polygon)
	require.True(t, ok)
	assert.Len(t, poly, 2)
	assert.Equal(t, "road", d.Features[2].Label)
	assert.Equal(t, LineString{{0, 0}, {1, 1}, {2, 0}}, d.Features[2].Geom)
}

func TestLoadWKT(t *testing.T) {
	p := writeFile(t, "rows.wkt", "POINT(1 2)\n\n'LINESTRING(0 0,3 3)',4326\n")
	d, err := Load(p)
	require.NoError(t, err)
	require.Len(t, d.Features, 2)
	assert.Equal(t, "3", d.Features[1].Label)
	assert.Equal(t, "4326", d.Features[1].Props["srid"])

	bad := writeFile(t, "bad.wkt", "POINT(1 2)\nLINESTRING(0 0,1)\n")
	_, err = Load(bad)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

type shpRecord struct {
	cgeom.Point
	Name string
}

func TestLoadShapefile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "sites.shp")
	enc, err := shp.NewEncoder(p, shpRecord{})
	require.NoError(t, err)
	require.NoError(t, enc.Encode(shpRecord{Point: cgeom.Point{X: 1, Y: 2}, Name: "north"}))
	require.NoError(t, enc.Encode(shpRecord{Point: cgeom.Point{X: -3, Y: 5}, Name: "south"}))
	enc.Close()

	d, err := Load(p)
	require.NoError(t, err)
	require.Len(t, d.Features, 2)
	assert.Equal(t, PointGeom{X: 1, Y: 2}, d.Features[0].Geom)
	assert.Equal(t, "south", d.Features[1].Label)
	b, ok := d.Bounds()
	require.True(t, ok)
	assert.Equal(t, BBox{MinX: -3, MinY: 2, MaxX: 1, MaxY: 5}, b)
}

func TestLoadUnsupported(t *testing.T) {
	_, err := Load("map.gpx")
	assert.Error(t, err)
	assert.False(t, Supported("map.gpx"))
	assert.True(t, Supported("Map.GeoJSON"))
}
