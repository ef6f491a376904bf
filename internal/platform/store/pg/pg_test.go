package pg

import (
	"context"
	"errors"
	"testing"

	"pfascheck/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestOpen_ParseError(t *testing.T) {
	if _, err := Open(context.Background(), Config{URL: "://bad"}, nil, nil); err == nil {
		t.Fatalf("expected parse error, got nil")
	}
}

func TestOpen_NewPoolError(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &newPool, func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error) {
		return nil, errors.New("boom")
	})
	_, err := Open(context.Background(), Config{URL: "postgres://u:p@h:5432/db?sslmode=disable"}, nil, nil)
	if err == nil {
		t.Fatalf("expected newPool error, got nil")
	}
}

func TestOpen_AppliesConfig(t *testing.T) {
	testkit.Serial(t)

	var seen *pgxpool.Config
	fake := &pgxpool.Pool{} // zero value; never closed
	testkit.Swap(t, &newPool, func(_ context.Context, pc *pgxpool.Config) (*pgxpool.Pool, error) {
		seen = pc
		return fake, nil
	})

	cfg := Config{URL: "postgres://u:p@h:5432/db?sslmode=disable", MaxConns: 7, SlowMs: 123, AppName: "pfascheck"}
	mutCalled := false
	p, err := Open(context.Background(), cfg, nil, func(*pgxpool.Config) { mutCalled = true })
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !mutCalled || p.SlowMs != 123 || p.Pool != fake {
		t.Fatalf("unexpected client %+v mut=%v", p, mutCalled)
	}
	if seen.MaxConns != 7 {
		t.Fatalf("MaxConns = %d", seen.MaxConns)
	}
	params := seen.ConnConfig.RuntimeParams
	if params["application_name"] != "pfascheck" || params["default_transaction_read_only"] != "on" {
		t.Fatalf("runtime params = %v", params)
	}
}

func TestClose_NilSafe(t *testing.T) {
	var p *PG
	p.Close()
	(&PG{}).Close()
}
