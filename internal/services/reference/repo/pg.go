package repo

import (
	"context"
	"strings"

	perr "pfascheck/internal/platform/errors"
	"pfascheck/internal/platform/store"
	"pfascheck/internal/services/reference/domain"

	"github.com/jackc/pgx/v5"
)

// Defaults for the Postgres source
const (
	DefaultTable  = "pfas_sites"
	DefaultColumn = "zip_codes"
)

// PG reads one text column of ;-delimited zip codes from a table
type PG struct {
	q   store.Querier
	sql string
}

// NewPG binds a Postgres source; table may be schema qualified
func NewPG(q store.Querier, table, column string) *PG {
	if q == nil {
		panic("reference.PG requires a non nil Querier")
	}
	if table == "" {
		table = DefaultTable
	}
	if column == "" {
		column = DefaultColumn
	}
	tbl := pgx.Identifier(strings.Split(table, ".")).Sanitize()
	col := pgx.Identifier{column}.Sanitize()
	return &PG{q: q, sql: "SELECT " + col + "::text FROM " + tbl}
}

// Name implements domain.Source
func (p *PG) Name() string { return "pg" }

// Records implements domain.Source; NULL values become missing fields
func (p *PG) Records(ctx context.Context) ([]domain.Record, error) {
	recs, err := store.Many(ctx, p.q, func(r store.Row) (domain.Record, error) {
		var v *string
		if err := r.Scan(&v); err != nil {
			return domain.Record{}, err
		}
		if v == nil {
			return domain.Record{Codes: domain.Missing()}, nil
		}
		return domain.Record{Codes: domain.Delimited(*v)}, nil
	}, p.sql)
	if err != nil {
		return nil, perr.FromStore(err, "select reference records")
	}
	return recs, nil
}
