package service

import (
	"context"

	ptime "pfascheck/internal/platform/time"
	"pfascheck/internal/services/reference/domain"
)

// Service defines the service contract for reference data
type Service interface{ domain.ServicePort }

// Svc implements Service over a Cache
type Svc struct {
	cache *Cache
}

// New wraps a cache as the module service
func New(c *Cache) *Svc {
	if c == nil {
		panic("reference.Service requires a non nil Cache")
	}
	return &Svc{cache: c}
}

// Snapshot implements domain.Lookup
func (s *Svc) Snapshot(ctx context.Context) domain.Snapshot { return s.cache.Get(ctx) }

// Status reports the current snapshot without triggering a load
func (s *Svc) Status(_ context.Context) domain.Status {
	snap, ok := s.cache.Peek()
	if !ok {
		return domain.Status{Source: s.cache.src.Name()}
	}
	return StatusOf(snap)
}

// Refresh forces a reload and reports the result
func (s *Svc) Refresh(ctx context.Context) domain.Status { return StatusOf(s.cache.Refresh(ctx)) }

// Warm loads the set ahead of the first request; failures are already logged by the cache
func (s *Svc) Warm(ctx context.Context) domain.Status { return StatusOf(s.cache.Get(ctx)) }

// StatusOf converts a snapshot to its wire view
func StatusOf(s domain.Snapshot) domain.Status {
	st := domain.Status{
		Source:    s.Source,
		Size:      s.Size(),
		Records:   s.Records,
		Skipped:   s.Skipped,
		Loaded:    !s.LoadedAt.IsZero(),
		Degraded:  s.Degraded(),
		LoadedAt:  ptime.Ptr(s.LoadedAt),
		ExpiresAt: ptime.Ptr(s.ExpiresAt),
	}
	if s.Err != nil {
		st.Error = s.Err.Error()
	}
	return st
}
