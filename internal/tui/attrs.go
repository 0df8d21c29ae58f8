package tui

import (
	"fmt"
	"strconv"

	table "github.com/charmbracelet/bubbles/table"
)

const maxColW = 24

// refreshAttrsFromCurrent rebuilds the table from the loaded dataset.
func (m *Model) refreshAttrsFromCurrent() {
	cols, rows := m.buildAttributes()
	if len(cols) == 0 || len(rows) == 0 {
		m.showAttrs = false
		m.status = "no attributes for current dataset"
		return
	}
	tcols := make([]table.Column, 0, len(cols)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	for _, c := range cols {
		tcols = append(tcols, table.Column{Title: c, Width: min(len(c)+2, maxColW)})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		row := make(table.Row, 0, len(tcols))
		row = append(row, strconv.Itoa(i+1))
		row = append(row, r...)
		trows = append(trows, row)
	}
	// rows must match the column count at every step
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

// buildAttributes returns the label and type of each feature followed by
// its values for every dataset column.
func (m *Model) buildAttributes() ([]string, [][]string) {
	if len(m.data.Features) == 0 {
		return nil, nil
	}
	cols := append([]string{"label", "type"}, m.data.Columns...)
	rows := make([][]string, 0, len(m.data.Features))
	for _, f := range m.data.Features {
		vals := make([]string, 0, len(cols))
		vals = append(vals, f.Label, f.Geom.Type().String())
		for _, c := range m.data.Columns {
			vals = append(vals, f.Props[c])
		}
		rows = append(rows, vals)
	}
	if len(m.data.Columns) == 0 {
		// no attribute columns: show each feature's bounds instead
		cols = append(cols, "bbox")
		for i, f := range m.data.Features {
			b, _ := f.Geom.Bounds(nil)
			rows[i] = append(rows[i], fmt.Sprintf("[%.5f,%.5f,%.5f,%.5f]", b.MinX, b.MinY, b.MaxX, b.MaxY))
		}
	}
	return cols, rows
}

// attrsBox renders the attribute table in a border sized to its columns.
func (m Model) attrsBox(w, h int) string {
	tw := 0
	for _, c := range m.tbl.Columns() {
		tw += c.Width + 3
	}
	bw := min(w, max(32, tw))
	m.tbl.SetWidth(bw - 4)
	m.tbl.SetHeight(min(h-2, 20))
	return boxStyle.Width(bw).Render(m.tbl.View())
}
