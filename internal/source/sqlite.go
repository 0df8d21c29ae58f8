package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"geoscale/internal/geom"
)

// SQLite reads WKT text columns from a SQLite database.
type SQLite struct {
	conn *sqlite.Conn
	log  logrus.FieldLogger
}

// OpenSQLite opens path read-only.
func OpenSQLite(path string, log logrus.FieldLogger) (*SQLite, error) {
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadOnly)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return &SQLite{conn: conn, log: log}, nil
}

func (s *SQLite) Load(ctx context.Context, q Query) (geom.Dataset, error) {
	if err := q.validate(); err != nil {
		return geom.Dataset{}, err
	}
	s.conn.SetInterrupt(ctx.Done())
	defer s.conn.SetInterrupt(nil)

	label := "''"
	if q.Label != "" {
		label = "CAST(" + quoteSQLite(q.Label) + " AS TEXT)"
	}
	col := quoteSQLite(q.Column)
	query := fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s IS NOT NULL", label, col, quoteSQLite(q.Table), col)
	var args []any
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	b := newBuilder(q, s.log)
	err := sqlitex.ExecuteTransient(s.conn, query, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			b.add(row{label: stmt.ColumnText(0), wkt: stmt.ColumnText(1)})
			return nil
		},
	})
	if err != nil {
		return geom.Dataset{}, fmt.Errorf("query %s: %w", q.Table, err)
	}
	return b.dataset(), nil
}

func (s *SQLite) Close() error {
	return s.conn.Close()
}

func quoteSQLite(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
