// Package module wires the reference loader into the API using modkit
package module

import (
	"context"

	modkit "pfascheck/internal/modkit"
	"pfascheck/internal/modkit/httpkit"
	"pfascheck/internal/modkit/swaggerkit"
	"pfascheck/internal/platform/logger"
	refdom "pfascheck/internal/services/reference/domain"
	refhttp "pfascheck/internal/services/reference/http"
	refrepo "pfascheck/internal/services/reference/repo"
	refsvc "pfascheck/internal/services/reference/service"
)

// Ports is what other modules may consume
type Ports struct {
	Lookup refdom.Lookup
}

// Module implements the modkit.Module interface
type Module struct {
	b   modkit.Built
	svc *refsvc.Svc
}

// New constructs the reference module; the source must have its backend open in deps.Store
func New(deps modkit.Deps, o Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("reference"), modkit.WithPrefix("/reference")}, opts...)...)

	src := source(deps, o)
	log := deps.Log.With().Str("component", "reference").Str("source", src.Name()).Logger()
	cache := refsvc.NewCache(src, refsvc.Config{
		TTL:          o.TTL,
		FailureTTL:   o.FailureTTL,
		FetchTimeout: o.FetchTimeout,
	}, refsvc.WithLogger(log), refsvc.WithMetrics(deps.Metrics))

	return &Module{b: b, svc: refsvc.New(cache)}
}

func source(deps modkit.Deps, o Options) refdom.Source {
	switch o.Source {
	case SourcePG:
		if deps.Store == nil || deps.Store.PG == nil {
			logger.Get().Panic().Msg("reference source pg requires SERVICE_PGSQL_DBURL")
		}
		return refrepo.NewPG(deps.Store.PG, o.Table, o.Column)
	default:
		if deps.Store == nil || deps.Store.Mongo == nil {
			logger.Get().Panic().Msg("reference source mongo requires SERVICE_MONGO_URI")
		}
		return refrepo.NewMongo(deps.Store.Mongo, o.Collection, o.Field)
	}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { refhttp.Register(rr, m.svc) })
}

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return m.b.Prefix }

// Ports returns the module ports
func (m *Module) Ports() any { return Ports{Lookup: m.svc} }

// Operations implements swaggerkit.Documented
func (m *Module) Operations() []swaggerkit.Operation { return refhttp.Operations(m.b.Prefix) }

// Service exposes the reference service for binaries that skip HTTP
func (m *Module) Service() refsvc.Service { return m.svc }

// Warm loads the set ahead of the first request and logs the outcome
func (m *Module) Warm(ctx context.Context) refdom.Status { return m.svc.Warm(ctx) }
