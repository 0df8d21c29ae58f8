// Package source loads geometry rows from a database table.
package source

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"geoscale/internal/config"
	"geoscale/internal/geom"
)

// Source reads a table of geometry values into a dataset.
type Source interface {
	Load(ctx context.Context, q Query) (geom.Dataset, error)
	Close() error
}

// Query names the table, the geometry column and an optional label column.
// A zero Limit reads every row.
type Query struct {
	Table  string
	Column string
	Label  string
	Limit  int
}

// QueryFromConfig builds the query described by cfg.
func QueryFromConfig(cfg config.Source) Query {
	return Query{
		Table:  cfg.Table,
		Column: cfg.Column,
		Label:  cfg.Label,
		Limit:  cfg.Limit,
	}
}

func (q Query) validate() error {
	if q.Table == "" || q.Column == "" {
		return fmt.Errorf("source: table and column are required")
	}
	if q.Limit < 0 {
		return fmt.Errorf("source: negative limit %d", q.Limit)
	}
	return nil
}

// Open connects to the database named by cfg.Driver.
func Open(ctx context.Context, cfg config.Source, log logrus.FieldLogger) (Source, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	switch cfg.Driver {
	case "sqlite":
		return OpenSQLite(cfg.DSN, log)
	case "postgres":
		return OpenPostgres(ctx, cfg.DSN, log)
	case "":
		return nil, fmt.Errorf("source: no driver configured")
	default:
		return nil, fmt.Errorf("source: unknown driver %q", cfg.Driver)
	}
}

// row is one fetched value before parsing.
type row struct {
	label string
	wkt   string
	srid  int
}

// builder collects rows into a dataset, skipping values that do not parse.
type builder struct {
	log     logrus.FieldLogger
	data    geom.Dataset
	n       int
	skipped int
}

func newBuilder(q Query, log logrus.FieldLogger) *builder {
	return &builder{
		log: log.WithFields(logrus.Fields{"table": q.Table, "column": q.Column}),
		data: geom.Dataset{
			Name:    q.Table,
			Columns: []string{"row", "srid"},
		},
	}
}

func (b *builder) add(r row) {
	b.n++
	v, err := geom.ParseValue(r.wkt)
	if err == nil && r.srid != 0 {
		v.SRID = r.srid
	}
	var g geom.Geometry
	if err == nil {
		g, err = v.Geometry()
	}
	if err != nil {
		b.skipped++
		b.log.WithError(err).WithField("row", b.n).Warn("skipping unparseable geometry")
		return
	}
	label := r.label
	if label == "" {
		label = strconv.Itoa(b.n)
	}
	b.data.Features = append(b.data.Features, geom.Feature{
		Label: label,
		Geom:  g,
		Props: map[string]string{"row": strconv.Itoa(b.n), "srid": strconv.Itoa(v.SRID)},
	})
}

func (b *builder) dataset() geom.Dataset {
	b.log.WithFields(logrus.Fields{
		"rows":    b.n,
		"skipped": b.skipped,
	}).Debug("loaded geometry rows")
	return b.data
}
