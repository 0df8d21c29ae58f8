package geom

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Extensions lists the file extensions Load understands.
var Extensions = []string{".geojson", ".json", ".csv", ".kml", ".wkt", ".shp"}

// Supported reports whether Load can read path.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Load reads a geometry file, picking the decoder from its extension.
func Load(path string) (Dataset, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".geojson", ".json":
		return LoadGeoJSON(path)
	case ".csv":
		return LoadCSV(path)
	case ".kml":
		return LoadKML(path)
	case ".wkt":
		return LoadWKT(path)
	case ".shp":
		return LoadShapefile(path)
	default:
		return Dataset{}, fmt.Errorf("unsupported file %q", ext)
	}
}

// LoadWKT reads one geometry value per non-empty line. Lines may use the
// 'WKT',SRID form.
func LoadWKT(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, err
	}
	defer f.Close()
	d, err := DecodeWKT(f)
	if err != nil {
		return Dataset{}, err
	}
	d.Name = filepath.Base(path)
	return d, nil
}

// DecodeWKT is LoadWKT over a reader.
func DecodeWKT(r io.Reader) (Dataset, error) {
	d := Dataset{Columns: []string{"line", "srid"}}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		v, err := ParseValue(line)
		if err != nil {
			return Dataset{}, fmt.Errorf("line %d: %w", n, err)
		}
		g, err := v.Geometry()
		if err != nil {
			return Dataset{}, fmt.Errorf("line %d: %w", n, err)
		}
		d.Features = append(d.Features, Feature{
			Label: strconv.Itoa(n),
			Geom:  g,
			Props: map[string]string{"line": strconv.Itoa(n), "srid": strconv.Itoa(v.SRID)},
		})
	}
	if err := sc.Err(); err != nil {
		return Dataset{}, err
	}
	if len(d.Features) == 0 {
		return Dataset{}, fmt.Errorf("wkt: %w", ErrEmptyGeometry)
	}
	return d, nil
}
