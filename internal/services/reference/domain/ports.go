package domain

import "context"

// Source fetches every contamination record from the backing store
type Source interface {
	Records(ctx context.Context) ([]Record, error)
	Name() string
}

// Lookup hands out the current snapshot, loading it when stale
// consumers never see an error: a failed load yields a degraded snapshot
type Lookup interface {
	Snapshot(ctx context.Context) Snapshot
}

// ServicePort is the reference module contract
type ServicePort interface {
	Lookup
	Status(ctx context.Context) Status
	Refresh(ctx context.Context) Status
}
