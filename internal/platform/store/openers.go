package store

import (
	"context"
	"time"

	mgo "pfascheck/internal/platform/store/mongo"
	"pfascheck/internal/platform/store/pg"
)

// pgBackoff bounds the wait between boot pings
var pgBackoff = struct{ start, ceiling time.Duration }{150 * time.Millisecond, 2 * time.Second}

// openPG opens pg and waits for a ping with backoff; an unreachable server is logged, not fatal
func openPG(ctx context.Context, cfg Config, s *Store) (*pgAdapter, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
		AppName:  cfg.AppName,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}

	attempts := cfg.PG.ConnectRetries
	if attempts <= 0 {
		attempts = 6
	}
	pingTimeout := cfg.PG.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 3 * time.Second
	}

	var lastErr error
	backoff := pgBackoff.start
	for i := 0; i < attempts; i++ {
		toCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = p.Pool.Ping(toCtx)
		cancel()
		if lastErr == nil {
			return newPGAdapter(p), nil
		}
		s.Log.Warn().Err(lastErr).Int("attempt", i+1).Msg("postgres not ready")
		if i == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			p.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, pgBackoff.ceiling)
	}

	// the pool dials on demand; reference loads will fail and degrade until postgres is up
	s.Log.Warn().Err(lastErr).Int("attempts", attempts).Msg("postgres unreachable at boot, continuing")
	return newPGAdapter(p), nil
}

// openMongo builds the client and pings once; a failed ping is only logged since
// the driver reconnects on its own and reference loads degrade meanwhile
func openMongo(ctx context.Context, cfg Config, s *Store) (*mgo.Client, error) {
	var mon mgo.CommandLogger
	if cfg.Mongo.LogCommands {
		mon = mgo.Tracer(s.Log)
	}
	c, err := mgo.Open(ctx, mgo.Config{
		URI:            cfg.Mongo.URI,
		Database:       cfg.Mongo.Database,
		AppName:        cfg.AppName,
		ConnectTimeout: cfg.Mongo.ConnectTimeout,
	}, mon)
	if err != nil {
		return nil, err
	}

	pctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()
	if err := c.Ping(pctx); err != nil {
		s.Log.Warn().Err(err).Msg("mongo unreachable at boot, continuing")
	}
	return c, nil
}
