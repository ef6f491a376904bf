package modkit

import (
	"net/http"

	pstrings "pfascheck/internal/platform/strings"
	phttp "pfascheck/internal/platform/net/http"
)

// Built is a plain struct with the fields modules care about
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any

	// Register is never nil
	Register func(phttp.Router)
}

// Build applies Option funcs and returns a plain struct
// name and prefix are validated so a misconfigured module fails at boot
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	if c.register == nil {
		c.register = func(phttp.Router) {}
	}
	return Built{
		Name:     pstrings.MustString(c.name, "module name"),
		Prefix:   pstrings.MustPrefix(c.prefix),
		Mw:       append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:    c.ports,
		Register: c.register,
	}
}

// Mount is the MountRoutes body shared by modules: prefix, middleware, then own
// routes followed by any extra registrations from options
func (b Built) Mount(r phttp.Router, own func(phttp.Router)) {
	r.Route(b.Prefix, func(rr phttp.Router) {
		if len(b.Mw) > 0 {
			rr.Use(b.Mw...)
		}
		own(rr)
		b.Register(rr)
	})
}

// PortsAs type asserts the injected ports, returning the zero value when absent
func PortsAs[T any](b Built) (T, bool) {
	v, ok := b.Ports.(T)
	return v, ok
}
