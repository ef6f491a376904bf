// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"pfascheck/internal/core/version"
	modkit "pfascheck/internal/modkit"
	"pfascheck/internal/modkit/httpkit"
	"pfascheck/internal/modkit/swaggerkit"
	metahttp "pfascheck/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

// New constructs a meta module; WithPorts may carry a metahttp.ReferenceStatus
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	d := metahttp.Deps{ServiceName: version.Service, StartedAt: time.Now()}
	// typed nils would read as configured backends
	if deps.Store != nil {
		if deps.Store.PG != nil {
			d.PG = deps.Store.PG
		}
		if deps.Store.Mongo != nil {
			d.Mongo = deps.Store.Mongo
		}
	}
	if ref, ok := modkit.PortsAs[metahttp.ReferenceStatus](b); ok {
		d.Reference = ref
	}
	return &Module{b: b, deps: d}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.Name }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return m.b.Prefix }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }

// Operations implements swaggerkit.Documented
func (m *Module) Operations() []swaggerkit.Operation { return metahttp.Operations(m.b.Prefix) }
