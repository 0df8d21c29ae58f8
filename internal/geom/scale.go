package geom

import (
	"math"
	"strconv"
	"strings"
)

// Scale maps data coordinates into device space. Device Y grows downward,
// so the vertical axis is flipped against Height.
type Scale struct {
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Factor  float64 `json:"factor"`
	Height  float64 `json:"height"`
}

// Apply transforms a data coordinate into device space.
func (s Scale) Apply(x, y float64) Point {
	return Point{
		X: (x - s.OffsetX) * s.Factor,
		Y: s.Height - (y-s.OffsetY)*s.Factor,
	}
}

// Invert maps a device coordinate back into data space.
func (s Scale) Invert(dx, dy float64) Point {
	if s.Factor == 0 {
		return Point{X: s.OffsetX, Y: s.OffsetY}
	}
	return Point{
		X: dx/s.Factor + s.OffsetX,
		Y: s.OffsetY + (s.Height-dy)/s.Factor,
	}
}

// FitScale returns the scale that fits b into a width x height target,
// keeping border device units free on the constraining axis and centring
// the box along the other one.
func FitScale(b BBox, width, height, border float64) Scale {
	plotW := width - 2*border
	plotH := height - 2*border
	if plotW <= 0 || plotH <= 0 {
		plotW, plotH, border = width, height, 0
	}
	var xr, yr float64
	if plotW > 0 {
		xr = b.Width() / plotW
	}
	if plotH > 0 {
		yr = b.Height() / plotH
	}
	ratio := xr
	if yr > xr {
		ratio = yr
	}
	factor := 1.0
	if ratio != 0 {
		factor = 1 / ratio
	}
	s := Scale{Factor: factor, Height: height}
	if xr < yr {
		s.OffsetX = (b.MaxX + b.MinX - width/factor) / 2
		s.OffsetY = b.MinY - border/factor
	} else {
		s.OffsetX = b.MinX - border/factor
		s.OffsetY = (b.MaxY + b.MinY - height/factor) / 2
	}
	return s
}

// ComputeBoundingBox folds every point of a "x y,x y,..." point set into
// existing. A nil existing box is seeded from the first point. Each token
// must hold two numeric coordinates separated by a single space.
func ComputeBoundingBox(pointSet string, existing *BBox) (BBox, error) {
	box := existing
	for i, tok := range strings.Split(pointSet, ",") {
		p, err := parseToken(i, tok)
		if err != nil {
			return BBox{}, err
		}
		box = fold(box, p)
	}
	return *box, nil
}

func parseToken(i int, tok string) (Point, error) {
	parts := strings.Split(strings.TrimSpace(tok), " ")
	if len(parts) < 2 {
		return Point{}, &TokenError{Index: i, Token: tok, Err: errMissingY}
	}
	x, err := parseCoord(parts[0])
	if err != nil {
		return Point{}, &TokenError{Index: i, Token: tok, Err: err}
	}
	y, err := parseCoord(parts[1])
	if err != nil {
		return Point{}, &TokenError{Index: i, Token: tok, Err: err}
	}
	return Point{X: x, Y: y}, nil
}

// parseCoord parses one coordinate. NaN and infinities are rejected.
func parseCoord(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

// Extraction is the result of ExtractScaled.
type Extraction struct {
	Points []Point
	// Recovered counts tokens with an empty coordinate that were emitted
	// as (0, 0).
	Recovered int
}

// Linear flattens the points into [x0, y0, x1, y1, ...].
func (e Extraction) Linear() []float64 {
	out := make([]float64, 0, 2*len(e.Points))
	for _, p := range e.Points {
		out = append(out, p.X, p.Y)
	}
	return out
}

// ExtractScaled parses a point set that may carry ring parentheses around
// its tokens and maps each point through s, or passes it through when s is
// nil. A token with an empty or missing coordinate becomes the device point
// (0, 0); this matches the rows produced by older WKT serialisers and is
// reported through Recovered rather than as an error.
func ExtractScaled(pointSet string, s *Scale) (Extraction, error) {
	var e Extraction
	for i, tok := range strings.Split(pointSet, ",") {
		tok = strings.NewReplacer("(", "", ")", "").Replace(tok)
		parts := strings.Split(tok, " ")
		if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
			e.Points = append(e.Points, Point{})
			e.Recovered++
			continue
		}
		x, err := parseCoord(strings.TrimSpace(parts[0]))
		if err != nil {
			return Extraction{}, &TokenError{Index: i, Token: tok, Err: err}
		}
		y, err := parseCoord(strings.TrimSpace(parts[1]))
		if err != nil {
			return Extraction{}, &TokenError{Index: i, Token: tok, Err: err}
		}
		if s != nil {
			e.Points = append(e.Points, s.Apply(x, y))
		} else {
			e.Points = append(e.Points, Point{X: x, Y: y})
		}
	}
	return e, nil
}

// ExtractPoints is ExtractScaled returning the points only.
func ExtractPoints(pointSet string, s *Scale) ([]Point, error) {
	e, err := ExtractScaled(pointSet, s)
	if err != nil {
		return nil, err
	}
	return e.Points, nil
}

// ExtractPointsLinear is ExtractScaled flattened to [x0, y0, x1, y1, ...].
func ExtractPointsLinear(pointSet string, s *Scale) ([]float64, error) {
	e, err := ExtractScaled(pointSet, s)
	if err != nil {
		return nil, err
	}
	return e.Linear(), nil
}
