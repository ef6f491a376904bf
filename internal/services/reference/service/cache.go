package service

import (
	"context"
	"sync/atomic"
	"time"

	perr "pfascheck/internal/platform/errors"
	"pfascheck/internal/platform/logger"
	"pfascheck/internal/platform/metrics"
	ptime "pfascheck/internal/platform/time"
	"pfascheck/internal/services/reference/domain"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"
)

// Config bounds the cache lifetime
type Config struct {
	TTL          time.Duration // default 1h
	FailureTTL   time.Duration // default TTL
	FetchTimeout time.Duration // default 30s
}

func (c Config) withDefaults() Config {
	if c.TTL <= 0 {
		c.TTL = time.Hour
	}
	if c.FailureTTL <= 0 {
		c.FailureTTL = c.TTL
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 30 * time.Second
	}
	return c
}

// Cache owns the current snapshot and its expiry
// snapshots are immutable; loads replace the pointer
type Cache struct {
	src     domain.Source
	cfg     Config
	clock   clockwork.Clock
	log     logger.Logger
	metrics *metrics.Metrics

	cur   atomic.Pointer[domain.Snapshot]
	group singleflight.Group
}

// Option configures a Cache
type Option func(*Cache)

// WithClock swaps the time source
func WithClock(c clockwork.Clock) Option { return func(x *Cache) { x.clock = c } }

// WithLogger sets the cache logger
func WithLogger(l logger.Logger) Option { return func(x *Cache) { x.log = l } }

// WithMetrics records loads; nil is fine
func WithMetrics(m *metrics.Metrics) Option { return func(x *Cache) { x.metrics = m } }

// NewCache builds a cache over src; nothing is fetched until first use
func NewCache(src domain.Source, cfg Config, opts ...Option) *Cache {
	if src == nil {
		panic("reference.Cache requires a non nil Source")
	}
	c := &Cache{
		src:   src,
		cfg:   cfg.withDefaults(),
		clock: clockwork.NewRealClock(),
		log:   *logger.Named("reference"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Get returns the current snapshot, loading on first use or after expiry
func (c *Cache) Get(ctx context.Context) domain.Snapshot {
	if s, ok := c.fresh(); ok {
		return s
	}
	return c.load(ctx, false)
}

// Refresh re-fetches unconditionally and replaces the snapshot
// a load already in flight is joined rather than duplicated
func (c *Cache) Refresh(ctx context.Context) domain.Snapshot { return c.load(ctx, true) }

// Peek returns the current snapshot without loading; ok is false before the first load
func (c *Cache) Peek() (domain.Snapshot, bool) {
	s := c.cur.Load()
	if s == nil {
		return domain.Snapshot{}, false
	}
	return *s, true
}

func (c *Cache) fresh() (domain.Snapshot, bool) {
	s := c.cur.Load()
	if s == nil || ptime.Remaining(c.clock.Now(), s.ExpiresAt) == 0 {
		return domain.Snapshot{}, false
	}
	return *s, true
}

func (c *Cache) load(ctx context.Context, force bool) domain.Snapshot {
	v, _, _ := c.group.Do("load", func() (any, error) {
		// a concurrent caller may have published while we queued
		if !force {
			if s, ok := c.fresh(); ok {
				return &s, nil
			}
		}
		s := c.fetch(ctx)
		c.cur.Store(s)
		return s, nil
	})
	return *v.(*domain.Snapshot)
}

// fetch never fails: errors become a degraded empty snapshot
func (c *Cache) fetch(ctx context.Context) *domain.Snapshot {
	// detached so one caller hanging up does not poison the shared load
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.FetchTimeout)
	defer cancel()

	start := c.clock.Now()
	recs, err := c.src.Records(fctx)
	now := c.clock.Now()
	elapsed := now.Sub(start)
	log := c.log
	if id := logger.RequestID(ctx); id != "" {
		log = log.With().Str("request_id", id).Logger()
	}

	if err != nil {
		err = perr.Wrapf(err, perr.ErrorCodeUnavailable, "load reference set from %s", c.src.Name())
		log.Error().Err(err).Str("source", c.src.Name()).Dur("retry_in", c.cfg.FailureTTL).Msg("reference load failed, serving empty set")
		c.metrics.ReferenceLoad(c.src.Name(), 0, elapsed, err)
		return &domain.Snapshot{
			Codes:     domain.ZipSet{},
			Source:    c.src.Name(),
			LoadedAt:  now,
			ExpiresAt: now.Add(c.cfg.FailureTTL),
			Err:       err,
		}
	}

	set, stats := BuildSet(recs)
	log.Info().
		Str("source", c.src.Name()).
		Int("records", stats.Records).
		Int("skipped", stats.Skipped).
		Int("zip_codes", set.Len()).
		Dur("elapsed", elapsed).
		Msg("reference set loaded")
	c.metrics.ReferenceLoad(c.src.Name(), set.Len(), elapsed, nil)
	return &domain.Snapshot{
		Codes:     set,
		Source:    c.src.Name(),
		Records:   stats.Records,
		Skipped:   stats.Skipped,
		LoadedAt:  now,
		ExpiresAt: now.Add(c.cfg.TTL),
	}
}
