package geom

// Feature is one geometry row with its label and attribute values.
type Feature struct {
	Label string
	Geom  Geometry
	Props map[string]string
}

// Dataset is a set of features sharing the attribute columns in Columns.
type Dataset struct {
	Name     string
	Columns  []string
	Features []Feature
}

// Bounds is the union of every feature's bounds.
func (d Dataset) Bounds() (BBox, bool) {
	var box *BBox
	for _, f := range d.Features {
		if b, ok := f.Geom.Bounds(box); ok {
			box = &b
		}
	}
	return result(box)
}

// Draw draws every feature onto c.
func (d Dataset) Draw(c Canvas, s *Scale) {
	for _, f := range d.Features {
		f.Geom.Draw(c, s)
	}
}

func (d Dataset) Summary() Summary {
	var s Summary
	d.Draw(&s, nil)
	return s
}

// addColumns appends names not yet in d.Columns, keeping first-seen order.
func (d *Dataset) addColumns(names ...string) {
	for _, n := range names {
		found := false
		for _, c := range d.Columns {
			if c == n {
				found = true
				break
			}
		}
		if !found {
			d.Columns = append(d.Columns, n)
		}
	}
}
