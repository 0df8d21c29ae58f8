package geom

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ParseWKT parses a WKT geometry into its variant.
// Supported: POINT, MULTIPOINT, LINESTRING, MULTILINESTRING, POLYGON,
// MULTIPOLYGON and GEOMETRYCOLLECTION of those.
func ParseWKT(wkt string) (Geometry, error) {
	s := strings.TrimSpace(wkt)
	if s == "" {
		return nil, errors.New("empty wkt")
	}
	kw := TypeOf(s)
	rest := strings.TrimSpace(s[len(kw):])
	if strings.EqualFold(rest, "EMPTY") {
		return nil, fmt.Errorf("wkt %s: %w", strings.ToLower(kw), ErrEmptyGeometry)
	}
	i := strings.Index(s, "(")
	j := strings.LastIndex(s, ")")
	if i < 0 || j <= i {
		return nil, fmt.Errorf("wkt %s: invalid", strings.ToLower(kw))
	}
	body := s[i+1 : j]
	switch kw {
	case "POINT":
		pts, err := parsePointList(body)
		if err != nil {
			return nil, err
		}
		if len(pts) != 1 {
			return nil, fmt.Errorf("wkt point: want 1 coordinate, got %d", len(pts))
		}
		return PointGeom(pts[0]), nil
	case "MULTIPOINT":
		pts, err := parsePointList(body)
		if err != nil {
			return nil, err
		}
		return MultiPoint(pts), nil
	case "LINESTRING":
		pts, err := parsePointList(body)
		if err != nil {
			return nil, err
		}
		return LineString(pts), nil
	case "MULTILINESTRING":
		rings, err := parseRings(body)
		if err != nil {
			return nil, err
		}
		return MultiLineString(rings), nil
	case "POLYGON":
		rings, err := parseRings(body)
		if err != nil {
			return nil, err
		}
		return Polygon(rings), nil
	case "MULTIPOLYGON":
		var mp MultiPolygon
		for _, part := range splitTop(body) {
			rings, err := parseRings(unwrap(part))
			if err != nil {
				return nil, err
			}
			mp = append(mp, Polygon(rings))
		}
		return mp, nil
	case "GEOMETRYCOLLECTION":
		var gc Collection
		for _, part := range splitTop(body) {
			g, err := ParseWKT(part)
			if err != nil {
				return nil, fmt.Errorf("wkt geometrycollection: %w", err)
			}
			gc = append(gc, g)
		}
		return gc, nil
	}
	return nil, fmt.Errorf("wkt %q: %w", kw, ErrUnsupportedType)
}

// TypeOf returns the upper-cased leading keyword of a WKT string.
func TypeOf(wkt string) string {
	s := strings.TrimSpace(wkt)
	end := strings.IndexFunc(s, func(r rune) bool {
		return !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z')
	})
	if end < 0 {
		end = len(s)
	}
	return strings.ToUpper(s[:end])
}

// parsePointList parses "x y, x y" where each tuple may be wrapped in
// parentheses, as MULTIPOINT allows.
func parsePointList(block string) ([]Point, error) {
	var out []Point
	for i, tup := range strings.Split(block, ",") {
		tup = strings.Trim(strings.TrimSpace(tup), "()")
		parts := strings.Fields(tup)
		if len(parts) < 2 {
			return nil, &TokenError{Index: i, Token: tup, Err: errMissingY}
		}
		x, err := parseCoord(parts[0])
		if err != nil {
			return nil, &TokenError{Index: i, Token: tup, Err: err}
		}
		y, err := parseCoord(parts[1])
		if err != nil {
			return nil, &TokenError{Index: i, Token: tup, Err: err}
		}
		out = append(out, Point{X: x, Y: y})
	}
	return out, nil
}

// parseRings parses "(x y, ...),(x y, ...)".
func parseRings(block string) ([][]Point, error) {
	var rings [][]Point
	for _, part := range splitTop(block) {
		pts, err := parsePointList(unwrap(part))
		if err != nil {
			return nil, err
		}
		rings = append(rings, pts)
	}
	return rings, nil
}

// splitTop splits s on commas that are not nested inside parentheses.
func splitTop(s string) []string {
	var out []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(out, strings.TrimSpace(s[start:]))
}

// unwrap strips one level of enclosing parentheses.
func unwrap(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		return s[1 : len(s)-1]
	}
	return s
}

var (
	editorValueRe = regexp.MustCompile(`(?i)^'(POINT|MULTIPOINT|LINESTRING|MULTILINESTRING|POLYGON|MULTIPOLYGON|GEOMETRYCOLLECTION)\s*\(.*\)',[0-9]*$`)
	bareValueRe   = regexp.MustCompile(`(?i)^(POINT|MULTIPOINT|LINESTRING|MULTILINESTRING|POLYGON|MULTIPOLYGON|GEOMETRYCOLLECTION)\s*\(.*\)$`)
)

// Value is a geometry column value: WKT plus its spatial reference id.
type Value struct {
	WKT  string
	SRID int
}

// ParseValue splits a column value of the form 'WKT',SRID or a bare WKT.
// Anything else yields a zero Value and ErrUnsupportedType.
func ParseValue(v string) (Value, error) {
	v = strings.TrimSpace(v)
	switch {
	case editorValueRe.MatchString(v):
		comma := strings.LastIndex(v, ",")
		var val Value
		if srid := strings.TrimSpace(v[comma+1:]); srid != "" {
			n, err := strconv.Atoi(srid)
			if err != nil {
				return Value{}, fmt.Errorf("srid %q: %w", srid, err)
			}
			val.SRID = n
		}
		val.WKT = strings.TrimSpace(v[1 : comma-1])
		return val, nil
	case bareValueRe.MatchString(v):
		return Value{WKT: v}, nil
	}
	return Value{}, fmt.Errorf("value %q: %w", v, ErrUnsupportedType)
}

// String encodes v in the 'WKT',SRID form accepted by ParseValue.
func (v Value) String() string {
	return "'" + v.WKT + "'," + strconv.Itoa(v.SRID)
}

// Geometry parses the WKT of v.
func (v Value) Geometry() (Geometry, error) { return ParseWKT(v.WKT) }
