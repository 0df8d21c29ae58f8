package geom

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	cgeom "github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
)

// LoadShapefile reads every record of an ESRI shapefile. Attribute columns
// come from the accompanying .dbf file; Z and M values are dropped.
func LoadShapefile(path string) (Dataset, error) {
	dec, err := shp.NewDecoder(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("shapefile %s: %w", path, err)
	}
	defer dec.Close()

	var cols []string
	for _, f := range dec.Fields() {
		name := string(bytes.Trim(f.Name[:], "\x00"))
		cols = append(cols, strings.TrimSpace(name))
	}
	d := Dataset{Name: filepath.Base(path), Columns: cols}
	for {
		g, fields, more := dec.DecodeRowFields(cols...)
		if !more || dec.Error() != nil {
			break
		}
		mg, ok := fromCtessum(g)
		if !ok || !Finite(mg) {
			continue
		}
		props := make(map[string]string, len(fields))
		for k, v := range fields {
			props[k] = strings.TrimSpace(strings.Trim(v, "\x00"))
		}
		var label string
		for k, v := range props {
			if strings.EqualFold(k, "name") {
				label = v
			}
		}
		d.Features = append(d.Features, Feature{Label: label, Geom: mg, Props: props})
	}
	if err := dec.Error(); err != nil {
		return Dataset{}, fmt.Errorf("shapefile %s: %w", path, err)
	}
	if len(d.Features) == 0 {
		return Dataset{}, fmt.Errorf("shapefile %s: %w", path, ErrEmptyGeometry)
	}
	return d, nil
}

func ctessumPoints(pts []cgeom.Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = Point{X: p.X, Y: p.Y}
	}
	return out
}

func fromCtessum(g cgeom.Geom) (Geometry, bool) {
	switch t := g.(type) {
	case cgeom.Point:
		return PointGeom{X: t.X, Y: t.Y}, true
	case cgeom.MultiPoint:
		return MultiPoint(ctessumPoints(t)), true
	case cgeom.LineString:
		return LineString(ctessumPoints(t)), true
	case cgeom.MultiLineString:
		ml := make(MultiLineString, len(t))
		for i, ls := range t {
			ml[i] = ctessumPoints(ls)
		}
		return ml, true
	case cgeom.Polygon:
		poly := make(Polygon, len(t))
		for i, r := range t {
			poly[i] = ctessumPoints(r)
		}
		return poly, true
	case cgeom.MultiPolygon:
		mp := make(MultiPolygon, 0, len(t))
		for _, p := range t {
			if pg, ok := fromCtessum(p); ok {
				mp = append(mp, pg.(Polygon))
			}
		}
		return mp, true
	}
	return nil, false
}
