package geom

import (
	"encoding/xml"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type kmlCoords struct {
	Coordinates string `xml:"coordinates"`
}

type kmlPolygon struct {
	Outer kmlCoords   `xml:"outerBoundaryIs>LinearRing"`
	Inner []kmlCoords `xml:"innerBoundaryIs>LinearRing"`
}

type kmlPlacemark struct {
	Name       string      `xml:"name"`
	Point      *kmlCoords  `xml:"Point"`
	LineString *kmlCoords  `xml:"LineString"`
	Polygon    *kmlPolygon `xml:"Polygon"`
}

type kmlDoc struct {
	Placemarks []kmlPlacemark `xml:"Placemark"`
	Document   struct {
		Placemarks []kmlPlacemark `xml:"Placemark"`
		Folders    []struct {
			Placemarks []kmlPlacemark `xml:"Placemark"`
		} `xml:"Folder"`
	} `xml:"Document"`
}

// LoadKML extracts Point, LineString and Polygon placemarks from a KML file.
// KML coordinates are "lon,lat[,alt]"; altitude is ignored.
func LoadKML(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, err
	}
	defer f.Close()
	d, err := DecodeKML(f)
	if err != nil {
		return Dataset{}, err
	}
	d.Name = filepath.Base(path)
	return d, nil
}

// DecodeKML is LoadKML over a reader.
func DecodeKML(r io.Reader) (Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Dataset{}, err
	}
	var doc kmlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return Dataset{}, err
	}
	pms := append([]kmlPlacemark{}, doc.Placemarks...)
	pms = append(pms, doc.Document.Placemarks...)
	for _, folder := range doc.Document.Folders {
		pms = append(pms, folder.Placemarks...)
	}
	d := Dataset{Columns: []string{"name"}}
	for _, pm := range pms {
		var g Geometry
		switch {
		case pm.Point != nil:
			pts := kmlPoints(pm.Point.Coordinates)
			if len(pts) == 1 {
				g = PointGeom(pts[0])
			} else if len(pts) > 1 {
				g = MultiPoint(pts)
			}
		case pm.LineString != nil:
			if pts := kmlPoints(pm.LineString.Coordinates); len(pts) > 0 {
				g = LineString(pts)
			}
		case pm.Polygon != nil:
			outer := kmlPoints(pm.Polygon.Outer.Coordinates)
			if len(outer) == 0 {
				continue
			}
			poly := Polygon{outer}
			for _, in := range pm.Polygon.Inner {
				poly = append(poly, kmlPoints(in.Coordinates))
			}
			g = poly
		}
		if g == nil {
			continue
		}
		d.Features = append(d.Features, Feature{
			Label: pm.Name,
			Geom:  g,
			Props: map[string]string{"name": pm.Name},
		})
	}
	if len(d.Features) == 0 {
		return Dataset{}, errors.New("kml: no placemarks found")
	}
	return d, nil
}

// kmlPoints parses whitespace separated "lon,lat[,alt]" tuples, skipping
// any that do not parse.
func kmlPoints(coords string) []Point {
	var out []Point
	for _, tuple := range strings.Fields(coords) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := parseCoord(strings.TrimSpace(vals[0]))
		lat, err2 := parseCoord(strings.TrimSpace(vals[1]))
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, Point{X: lon, Y: lat})
	}
	return out
}
