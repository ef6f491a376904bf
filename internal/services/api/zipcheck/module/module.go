// Package module wires zipcheck into the API using modkit
package module

import (
	modkit "pfascheck/internal/modkit"
	"pfascheck/internal/modkit/httpkit"
	"pfascheck/internal/modkit/swaggerkit"
	zchttp "pfascheck/internal/services/api/zipcheck/http"
	zcsvc "pfascheck/internal/services/api/zipcheck/service"
	refdom "pfascheck/internal/services/reference/domain"
)

// Ports is what other modules (the web page) consume
type Ports struct {
	Service zcsvc.Service
}

// Module implements the modkit.Module interface
type Module struct {
	b    modkit.Built
	opts Options
	svc  *zcsvc.Svc
}

// New constructs the zipcheck module; the reference Lookup is injected with modkit.WithPorts
func New(deps modkit.Deps, o Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("zipcheck"), modkit.WithPrefix("/zipcheck")}, opts...)...)

	ref, ok := modkit.PortsAs[refdom.Lookup](b)
	if !ok {
		panic("zipcheck module requires a reference Lookup port")
	}
	if o.MaxUploadBytes <= 0 {
		o.MaxUploadBytes = DefaultMaxUpload
	}
	return &Module{b: b, opts: o, svc: zcsvc.New(ref, deps.Metrics)}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { zchttp.Register(rr, m.svc, m.opts.MaxUploadBytes) })
}

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return m.b.Prefix }

// Ports returns the module ports
func (m *Module) Ports() any { return Ports{Service: m.svc} }

// Operations implements swaggerkit.Documented
func (m *Module) Operations() []swaggerkit.Operation { return zchttp.Operations(m.b.Prefix) }

// MaxUploadBytes is the configured upload limit, shared with the web page
func (m *Module) MaxUploadBytes() int64 { return m.opts.MaxUploadBytes }
