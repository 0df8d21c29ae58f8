package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"geoscale/internal/config"
	"geoscale/internal/geom"
)

func seedSQLite(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gis.db")
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, sqlitex.ExecuteScript(conn, `
CREATE TABLE "land parcels" (id INTEGER PRIMARY KEY, name TEXT, geom TEXT);
INSERT INTO "land parcels" (name, geom) VALUES ('well', 'POINT(1 2)');
INSERT INTO "land parcels" (name, geom) VALUES ('road', '''LINESTRING(0 0,4 6)'',4326');
INSERT INTO "land parcels" (name, geom) VALUES ('junk', 'not a geometry');
INSERT INTO "land parcels" (name, geom) VALUES ('gap', NULL);
INSERT INTO "land parcels" (name, geom) VALUES (NULL, 'POLYGON((-1 -1,2 -1,2 3,-1 -1))');
`, nil))
	return path
}

func TestSQLiteLoad(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	src, err := OpenSQLite(seedSQLite(t), log)
	require.NoError(t, err)
	defer src.Close()

	d, err := src.Load(context.Background(), Query{Table: "land parcels", Column: "geom", Label: "name"})
	require.NoError(t, err)
	require.Len(t, d.Features, 3)
	assert.Equal(t, "land parcels", d.Name)
	assert.Equal(t, "well", d.Features[0].Label)
	assert.Equal(t, geom.PointGeom{X: 1, Y: 2}, d.Features[0].Geom)
	assert.Equal(t, "4326", d.Features[1].Props["srid"])
	// a NULL label falls back to the row number
	assert.Equal(t, "4", d.Features[2].Label)

	b, ok := d.Bounds()
	require.True(t, ok)
	assert.Equal(t, geom.BBox{MinX: -1, MinY: -1, MaxX: 4, MaxY: 6}, b)

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, 3, hook.LastEntry().Data["row"])
}

func TestSQLiteLoadLimit(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	src, err := OpenSQLite(seedSQLite(t), log)
	require.NoError(t, err)
	defer src.Close()

	d, err := src.Load(context.Background(), Query{Table: "land parcels", Column: "geom", Limit: 2})
	require.NoError(t, err)
	require.Len(t, d.Features, 2)
	assert.Equal(t, "1", d.Features[0].Label)
}

func TestSQLiteLoadErrors(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	src, err := OpenSQLite(seedSQLite(t), log)
	require.NoError(t, err)
	defer src.Close()

	_, err = src.Load(context.Background(), Query{Table: "missing", Column: "geom"})
	assert.Error(t, err)
	_, err = src.Load(context.Background(), Query{Table: "land parcels"})
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	ctx := context.Background()

	_, err := Open(ctx, config.Source{}, log)
	assert.Error(t, err)
	_, err = Open(ctx, config.Source{Driver: "oracle"}, log)
	assert.Error(t, err)

	src, err := Open(ctx, config.Source{Driver: "sqlite", DSN: seedSQLite(t)}, log)
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, src)
	assert.NoError(t, src.Close())
}

func TestQuoting(t *testing.T) {
	assert.Equal(t, `"a""b"`, quoteSQLite(`a"b`))
	assert.Equal(t, `"gis"."roads"`, quotePostgres("gis.roads"))
}

func TestQueryFromConfig(t *testing.T) {
	q := QueryFromConfig(config.Source{Table: "t", Column: "g", Label: "n", Limit: 3})
	assert.Equal(t, Query{Table: "t", Column: "g", Label: "n", Limit: 3}, q)
}

// TestPostgresLoad runs against a PostGIS server named by GEOSCALE_PG_URL.
func TestPostgresLoad(t *testing.T) {
	url := os.Getenv("GEOSCALE_PG_URL")
	if url == "" {
		t.Skip("GEOSCALE_PG_URL not set")
	}
	ctx := context.Background()
	log, _ := logtest.NewNullLogger()
	src, err := OpenPostgres(ctx, url, log)
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })

	_, err = src.pool.Exec(ctx, `DROP TABLE IF EXISTS geoscale_test; CREATE TABLE geoscale_test (name text, geom geometry)`)
	require.NoError(t, err)
	t.Cleanup(func() { src.pool.Exec(ctx, `DROP TABLE geoscale_test`) })
	_, err = src.pool.Exec(ctx, `INSERT INTO geoscale_test VALUES ('a', ST_GeomFromText('POINT(3 4)', 4326))`)
	require.NoError(t, err)

	d, err := src.Load(ctx, Query{Table: "geoscale_test", Column: "geom", Label: "name"})
	require.NoError(t, err)
	require.Len(t, d.Features, 1)
	assert.Equal(t, geom.PointGeom{X: 3, Y: 4}, d.Features[0].Geom)
	assert.Equal(t, "4326", d.Features[0].Props["srid"])
}
