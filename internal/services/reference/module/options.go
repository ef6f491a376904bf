package module

import (
	"time"

	"pfascheck/internal/platform/config"
	"pfascheck/internal/services/reference/repo"
)

// Source names
const (
	SourceMongo = "mongo"
	SourcePG    = "pg"
)

// Options configures the reference module
type Options struct {
	Source string

	// mongo
	Collection string
	Field      string

	// postgres
	Table  string
	Column string

	TTL          time.Duration
	FailureTTL   time.Duration
	FetchTimeout time.Duration
}

// FromConfig reads CORE_REFERENCE_* plus the mongo collection
// the collection is required only when the source is mongo
func FromConfig(cfg config.Conf) Options {
	rc := cfg.Prefix("CORE_REFERENCE_")
	o := Options{
		Source:       rc.MayEnum("SOURCE", SourceMongo, SourceMongo, SourcePG),
		Field:        rc.MayString("FIELD", repo.DefaultField),
		Table:        rc.MayString("PG_TABLE", repo.DefaultTable),
		Column:       rc.MayString("PG_COLUMN", repo.DefaultColumn),
		TTL:          rc.MayDuration("TTL", time.Hour),
		FetchTimeout: rc.MayDuration("FETCH_TIMEOUT", 30*time.Second),
	}
	o.FailureTTL = rc.MayDuration("FAILURE_TTL", o.TTL)
	if o.Source == SourceMongo {
		o.Collection = cfg.Prefix("SERVICE_MONGO_").MustString("COLLECTION")
	}
	return o
}
