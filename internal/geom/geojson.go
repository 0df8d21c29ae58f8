package geom

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	geojson "github.com/paulmach/go.geojson"
)

// LoadGeoJSON reads a GeoJSON file holding a FeatureCollection, a Feature or
// a bare geometry. Feature properties become attribute columns.
func LoadGeoJSON(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, err
	}
	d, err := DecodeGeoJSON(data)
	if err != nil {
		return Dataset{}, err
	}
	d.Name = filepath.Base(path)
	return d, nil
}

// DecodeGeoJSON decodes GeoJSON bytes into a Dataset.
func DecodeGeoJSON(data []byte) (Dataset, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Dataset{}, err
	}
	if head.Type == "" {
		return Dataset{}, errors.New("invalid geojson: missing type")
	}
	var d Dataset
	addFeature := func(f *geojson.Feature) {
		if f == nil || f.Geometry == nil {
			return
		}
		g, ok := fromGeoJSON(f.Geometry)
		if !ok {
			return
		}
		keys := make([]string, 0, len(f.Properties))
		props := make(map[string]string, len(f.Properties))
		for k, v := range f.Properties {
			keys = append(keys, k)
			props[k] = propString(v)
		}
		sort.Strings(keys)
		d.addColumns(keys...)
		label := props["name"]
		if label == "" && f.ID != nil {
			label = fmt.Sprint(f.ID)
		}
		d.Features = append(d.Features, Feature{Label: label, Geom: g, Props: props})
	}
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return Dataset{}, err
		}
		for _, f := range fc.Features {
			addFeature(f)
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return Dataset{}, err
		}
		addFeature(f)
	default:
		gj, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return Dataset{}, err
		}
		if g, ok := fromGeoJSON(gj); ok {
			d.Features = append(d.Features, Feature{Geom: g})
		}
	}
	if len(d.Features) == 0 {
		return Dataset{}, errors.New("no geometries found")
	}
	return d, nil
}

func propString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		bs, _ := json.Marshal(t)
		return string(bs)
	}
}

func coordPoint(c []float64) (Point, bool) {
	if len(c) < 2 {
		return Point{}, false
	}
	return Point{X: c[0], Y: c[1]}, true
}

func coordPoints(cs [][]float64) []Point {
	out := make([]Point, 0, len(cs))
	for _, c := range cs {
		if p, ok := coordPoint(c); ok {
			out = append(out, p)
		}
	}
	return out
}

func coordRings(rs [][][]float64) [][]Point {
	out := make([][]Point, 0, len(rs))
	for _, r := range rs {
		out = append(out, coordPoints(r))
	}
	return out
}

func fromGeoJSON(g *geojson.Geometry) (Geometry, bool) {
	switch g.Type {
	case geojson.GeometryPoint:
		p, ok := coordPoint(g.Point)
		return PointGeom(p), ok
	case geojson.GeometryMultiPoint:
		return MultiPoint(coordPoints(g.MultiPoint)), true
	case geojson.GeometryLineString:
		return LineString(coordPoints(g.LineString)), true
	case geojson.GeometryMultiLineString:
		return MultiLineString(coordRings(g.MultiLineString)), true
	case geojson.GeometryPolygon:
		return Polygon(coordRings(g.Polygon)), true
	case geojson.GeometryMultiPolygon:
		mp := make(MultiPolygon, 0, len(g.MultiPolygon))
		for _, poly := range g.MultiPolygon {
			mp = append(mp, Polygon(coordRings(poly)))
		}
		return mp, true
	case geojson.GeometryCollection:
		var gc Collection
		for _, m := range g.Geometries {
			if mg, ok := fromGeoJSON(m); ok {
				gc = append(gc, mg)
			}
		}
		return gc, len(gc) > 0
	}
	return nil, false
}
