package geom

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LoadCSV reads a CSV with latitude/longitude columns and returns one point
// feature per row. Column detection: lat|latitude|y and
// lon|lng|long|longitude|x (case-insensitive). Every column is kept as an
// attribute.
func LoadCSV(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, err
	}
	defer f.Close()
	d, err := DecodeCSV(f)
	if err != nil {
		return Dataset{}, err
	}
	d.Name = filepath.Base(path)
	return d, nil
}

// DecodeCSV is LoadCSV over a reader.
func DecodeCSV(r io.Reader) (Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	recs, err := cr.ReadAll()
	if err != nil {
		return Dataset{}, err
	}
	if len(recs) == 0 {
		return Dataset{}, errors.New("empty csv")
	}
	header := recs[0]
	idxLat, idxLon, idxName := -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "lat", "latitude", "y":
			if idxLat == -1 {
				idxLat = i
			}
		case "lon", "lng", "long", "longitude", "x":
			if idxLon == -1 {
				idxLon = i
			}
		case "name", "label":
			if idxName == -1 {
				idxName = i
			}
		}
	}
	if idxLat == -1 || idxLon == -1 {
		return Dataset{}, errors.New("csv: latitude/longitude columns not found")
	}
	d := Dataset{Columns: header}
	for _, row := range recs[1:] {
		if idxLon >= len(row) || idxLat >= len(row) {
			continue
		}
		lon, err1 := parseCoord(strings.TrimSpace(row[idxLon]))
		lat, err2 := parseCoord(strings.TrimSpace(row[idxLat]))
		if err1 != nil || err2 != nil {
			continue
		}
		props := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(row) {
				props[h] = row[i]
			}
		}
		var label string
		if idxName >= 0 && idxName < len(row) {
			label = row[idxName]
		}
		d.Features = append(d.Features, Feature{Label: label, Geom: PointGeom{X: lon, Y: lat}, Props: props})
	}
	if len(d.Features) == 0 {
		return Dataset{}, errors.New("csv: no valid points parsed")
	}
	return d, nil
}
