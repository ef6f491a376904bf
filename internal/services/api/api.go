// Package api provides the HTTP API for the application
package api

import (
	"pfascheck/internal/core/version"
	"pfascheck/internal/platform/config"
	"pfascheck/internal/platform/logger"
	"pfascheck/internal/platform/metrics"
	phttp "pfascheck/internal/platform/net/http"
	"pfascheck/internal/platform/store"

	"pfascheck/internal/modkit"
	"pfascheck/internal/modkit/httpkit"
	"pfascheck/internal/modkit/module"
	"pfascheck/internal/modkit/swaggerkit"

	metamod "pfascheck/internal/services/api/meta/module"
	zcmod "pfascheck/internal/services/api/zipcheck/module"
	refdom "pfascheck/internal/services/reference/domain"
	refmod "pfascheck/internal/services/reference/module"
	"pfascheck/internal/services/web"
)

// Options are the API options
type Options struct {
	// Config is the root config; modules apply their own prefixes
	Config  config.Conf
	Store   *store.Store
	Logger  *logger.Logger
	Metrics *metrics.Metrics

	Stack          httpkit.StackOptions
	EnableSwagger  bool
	EnableProfiler bool
	EnableWeb      bool
}

// App is what Mount built, for the binary to warm up and inspect
type App struct {
	Reference *refmod.Module
	Zipcheck  *zcmod.Module
	Modules   []modkit.Module
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) (*App, error) {
	log := logger.Get()
	if opt.Logger != nil {
		log = opt.Logger
	}
	deps := modkit.Deps{
		Log:     *log,
		Cfg:     opt.Config,
		Store:   opt.Store,
		Metrics: opt.Metrics,
	}

	// reference owns the Lookup port the other modules consume
	ref := refmod.New(deps, refmod.FromConfig(deps.Cfg))
	lookup := module.MustPortsOf[refdom.Lookup](ref)

	zc := zcmod.New(deps, zcmod.FromConfig(deps.Cfg), modkit.WithPorts(lookup))
	meta := metamod.New(deps, modkit.WithPorts(ref.Service()))

	app := &App{Reference: ref, Zipcheck: zc, Modules: []modkit.Module{meta, ref, zc}}
	stack := httpkit.CommonStack(withObserver(opt.Stack, opt.Metrics))

	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range app.Modules {
			m.MountRoutes(api)
			log.Debug().Str("module", m.Name()).Str("prefix", "/api/v1"+m.Prefix()).Msg("module mounted")
		}
	})

	info := swaggerkit.Info{Title: "PFAS Zip Code Checker API", Version: version.Info().Version, Server: "/api/v1"}
	if err := swaggerkit.Mount(r, opt.EnableSwagger, info, swaggerkit.Collect(documented(app.Modules)...)); err != nil {
		return nil, err
	}
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	if opt.Metrics != nil {
		r.Handle("/metrics", opt.Metrics.Handler())
	}

	if opt.EnableWeb {
		zcPorts := module.MustPortsOf[zcmod.Ports](zc)
		page, err := web.New(zcPorts.Service, lookup, zc.MaxUploadBytes())
		if err != nil {
			return nil, err
		}
		r.Group(func(g httpkit.Router) {
			g.Use(stack...)
			page.Register(g)
		})
	}
	return app, nil
}

func documented(mods []modkit.Module) []any {
	out := make([]any, len(mods))
	for i, m := range mods {
		out[i] = m
	}
	return out
}

func withObserver(o httpkit.StackOptions, m *metrics.Metrics) httpkit.StackOptions {
	if o.Observe == nil && m != nil {
		o.Observe = m.ObserveHTTP
	}
	return o
}

// compile time check that the modules satisfy the shared contract
var (
	_ modkit.Module = (*refmod.Module)(nil)
	_ modkit.Module = (*zcmod.Module)(nil)
	_ modkit.Module = (*metamod.Module)(nil)
)
