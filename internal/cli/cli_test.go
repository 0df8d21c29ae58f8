package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"geoscale/internal/geom"
)

// run executes the command line and returns stdout and stderr.
func run(t *testing.T, a *app, args ...string) (string, string, error) {
	t.Helper()
	if a == nil {
		a = &app{runProgram: func(tea.Model) error { return nil }}
	}
	root := newRoot(a)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestBBoxCommand(t *testing.T) {
	out, _, err := run(t, nil, "bbox", "1 5,-2 3,4 -1")
	require.NoError(t, err)
	var b geom.BBox
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.Equal(t, geom.BBox{MinX: -2, MinY: -1, MaxX: 4, MaxY: 5}, b)

	out, _, err = run(t, nil, "bbox", "--existing", "-10,0,0,10", "1 1")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.Equal(t, geom.BBox{MinX: -10, MinY: 0, MaxX: 1, MaxY: 10}, b)

	_, _, err = run(t, nil, "bbox", "1 2,3")
	assert.ErrorIs(t, err, geom.ErrMalformedToken)

	_, _, err = run(t, nil, "bbox", "--existing", "1,2", "1 1")
	assert.Error(t, err)

	_, _, err = run(t, nil, "bbox", "--existing", "5,0,1,10", "1 1")
	assert.ErrorContains(t, err, "min exceeds max")

	_, _, err = run(t, nil, "bbox", "--existing", "0,0,NaN,10", "1 1")
	assert.ErrorContains(t, err, "finite")

	_, _, err = run(t, nil, "bbox", "NaN 1,3 4")
	assert.ErrorIs(t, err, geom.ErrMalformedToken)
}

func TestScaleCommand(t *testing.T) {
	out, errOut, err := run(t, nil, "scale", "--offset-x", "10", "--factor", "2", "--height", "100", "(10 20,,15 25)")
	require.NoError(t, err)
	var res scaleOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []geom.Point{{X: 0, Y: 60}, {}, {X: 10, Y: 50}}, res.Points)
	assert.Equal(t, 1, res.Recovered)
	assert.Contains(t, errOut, "empty coordinates")

	out, _, err = run(t, nil, "scale", "--linear", "--raw", "1 2,3 4")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []float64{1, 2, 3, 4}, res.Linear)

	_, _, err = run(t, nil, "scale", "1 x")
	assert.ErrorIs(t, err, geom.ErrMalformedToken)
}

func TestWKTCommand(t *testing.T) {
	out, _, err := run(t, nil, "wkt", "--width", "100", "--height", "50", "--border", "0", "'LINESTRING(0 0, 10 10)',4326")
	require.NoError(t, err)
	var res wktOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "LINESTRING", res.Type)
	assert.Equal(t, 4326, res.SRID)
	assert.Equal(t, "LINESTRING(0 0,10 10)", res.WKT)
	assert.Equal(t, geom.Summary{Lines: 1}, res.Summary)
	require.NotNil(t, res.Scale)
	assert.InDelta(t, 5, res.Scale.Factor, 1e-9)
	require.NotNil(t, res.Device)
	assert.InDelta(t, 25, res.Device.MinX, 1e-9)
	assert.InDelta(t, 75, res.Device.MaxX, 1e-9)
	assert.InDelta(t, 0, res.Device.MinY, 1e-9)
	assert.InDelta(t, 50, res.Device.MaxY, 1e-9)

	_, _, err = run(t, nil, "wkt", "CIRCLE(1 1)")
	assert.ErrorIs(t, err, geom.ErrUnsupportedType)
}

func TestInfoCommand(t *testing.T) {
	p := filepath.Join(t.TempDir(), "rows.wkt")
	require.NoError(t, os.WriteFile(p, []byte("POINT(1 2)\nPOLYGON((0 0,4 0,4 4,0 0))\n"), 0o644))
	out, _, err := run(t, nil, "info", p)
	require.NoError(t, err)
	var res datasetOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 2, res.Features)
	assert.Equal(t, geom.Summary{Points: 1, Polygons: 1}, res.Summary)
	require.NotNil(t, res.BBox)
	assert.Equal(t, geom.BBox{MinX: 0, MinY: 0, MaxX: 4, MaxY: 4}, *res.BBox)
}

func TestQueryCommand(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "gis.db")
	conn, err := sqlite.OpenConn(db, sqlite.OpenReadWrite, sqlite.OpenCreate)
	require.NoError(t, err)
	require.NoError(t, sqlitex.ExecuteScript(conn, `
CREATE TABLE sites (name TEXT, wkt TEXT);
INSERT INTO sites VALUES ('a', 'POINT(1 1)'), ('b', 'POINT(3 7)');
`, nil))
	require.NoError(t, conn.Close())

	cfgPath := filepath.Join(dir, "geoscale.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("source:\n  driver: sqlite\n  dsn: "+db+"\n  table: sites\n  column: wkt\n"), 0o644))

	out, _, err := run(t, nil, "--config", cfgPath, "query", "--label", "name")
	require.NoError(t, err)
	var res datasetOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "sites", res.Name)
	assert.Equal(t, 2, res.Features)
	assert.Equal(t, geom.BBox{MinX: 1, MinY: 1, MaxX: 3, MaxY: 7}, *res.BBox)

	var shown tea.Model
	a := &app{runProgram: func(m tea.Model) error { shown = m; return nil }}
	out, _, err = run(t, a, "--config", cfgPath, "query", "--view", "--limit", "1")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NotNil(t, shown)
}

func TestViewCommandStartsViewer(t *testing.T) {
	var shown tea.Model
	a := &app{runProgram: func(m tea.Model) error { shown = m; return nil }}
	_, errOut, err := run(t, a)
	require.NoError(t, err)
	assert.NotNil(t, shown)
	// the viewer owns the terminal, nothing is logged to stderr
	assert.Empty(t, errOut)
}

func TestBadConfig(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(p, []byte("width: -3\n"), 0o644))
	_, _, err := run(t, nil, "--config", p, "bbox", "1 1")
	assert.Error(t, err)
}
