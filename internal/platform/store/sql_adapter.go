package store

import (
	"context"
	"errors"
	"time"

	"pfascheck/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
)

// pgAdapter wraps pg.PG and implements Querier
// it emits query trace events when a tracer is configured on pg.PG
type pgAdapter struct {
	p *pg.PG
}

func newPGAdapter(p *pg.PG) *pgAdapter { return &pgAdapter{p: p} }

func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil || a.p == nil || a.p.Pool == nil {
		return errors.New("pg: nil adapter")
	}
	return a.p.Pool.Ping(ctx)
}

func (a *pgAdapter) Close() error { a.p.Close(); return nil }

func (a *pgAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := a.p.Pool.Query(ctx, sql, args...)
	if err != nil {
		a.emit(ctx, sql, args, start, 0, err)
		return nil, err
	}
	// traced on Close so elapsed covers the full scan
	return &rows{r: rs, done: func(n int, err error) { a.emit(ctx, sql, args, start, n, err) }}, nil
}

func (a *pgAdapter) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	r := a.p.Pool.QueryRow(ctx, sql, args...)
	return row{r: r, after: func(err error) { a.emit(ctx, sql, args, start, 1, err) }}
}

func (a *pgAdapter) emit(ctx context.Context, sql string, args []any, start time.Time, n int, err error) {
	if a.p.Tracer == nil {
		return
	}
	elapsedUS := time.Since(start).Microseconds()
	a.p.Tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:       sql,
		Args:      args,
		Rows:      n,
		ElapsedUS: elapsedUS,
		Err:       err,
		Slow:      a.p.SlowMs > 0 && elapsedUS >= int64(a.p.SlowMs)*1000,
	})
}

type row struct {
	r     pgx.Row
	after func(error)
}

func (x row) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	if x.after != nil {
		x.after(err)
	}
	return err
}

type rows struct {
	r      pgx.Rows
	n      int
	closed bool
	done   func(n int, err error)
}

func (x *rows) Next() bool {
	if x.r.Next() {
		x.n++
		return true
	}
	return false
}

func (x *rows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x *rows) Err() error            { return x.r.Err() }

func (x *rows) Close() {
	x.r.Close()
	if !x.closed && x.done != nil {
		x.closed = true
		x.done(x.n, x.r.Err())
	}
}
