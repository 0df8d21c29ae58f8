package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"geoscale/internal/geom"
)

// Postgres reads PostGIS geometry columns through ST_AsText.
type Postgres struct {
	pool *pgxpool.Pool
	log  logrus.FieldLogger
}

// OpenPostgres connects to databaseURL and checks that the server answers.
func OpenPostgres(ctx context.Context, databaseURL string, log logrus.FieldLogger) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	cfg.MaxConns = 4
	cfg.MaxConnIdleTime = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return &Postgres{pool: pool, log: log}, nil
}

func (p *Postgres) Load(ctx context.Context, q Query) (geom.Dataset, error) {
	if err := q.validate(); err != nil {
		return geom.Dataset{}, err
	}
	label := "''"
	if q.Label != "" {
		label = quotePostgres(q.Label) + "::text"
	}
	col := quotePostgres(q.Column)
	query := fmt.Sprintf("SELECT %s, ST_AsText(%s), ST_SRID(%s) FROM %s WHERE %s IS NOT NULL",
		label, col, col, quotePostgres(q.Table), col)
	var args []any
	if q.Limit > 0 {
		query += " LIMIT $1"
		args = append(args, q.Limit)
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return geom.Dataset{}, fmt.Errorf("query %s: %w", q.Table, err)
	}
	defer rows.Close()

	b := newBuilder(q, p.log)
	for rows.Next() {
		var (
			lbl  *string
			wkt  string
			srid int32
		)
		if err := rows.Scan(&lbl, &wkt, &srid); err != nil {
			return geom.Dataset{}, fmt.Errorf("scan %s: %w", q.Table, err)
		}
		r := row{wkt: wkt, srid: int(srid)}
		if lbl != nil {
			r.label = *lbl
		}
		b.add(r)
	}
	if err := rows.Err(); err != nil {
		return geom.Dataset{}, fmt.Errorf("query %s: %w", q.Table, err)
	}
	return b.dataset(), nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// quotePostgres quotes a possibly schema-qualified identifier.
func quotePostgres(name string) string {
	return pgx.Identifier(strings.Split(name, ".")).Sanitize()
}
