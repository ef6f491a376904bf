// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"pfascheck/internal/core/version"
	"pfascheck/internal/modkit/httpkit"
	"pfascheck/internal/modkit/swaggerkit"
	refdom "pfascheck/internal/services/reference/domain"
)

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// ReferenceStatus reports the cached reference set without loading it
type ReferenceStatus interface {
	Status(stdctx.Context) refdom.Status
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time

	// nil backends are reported as skipped
	PG        any
	Mongo     any
	Reference ReferenceStatus

	Now func() time.Time
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &handlers{deps: d}

	httpkit.GetJSON(r, "/health", h.health)
	httpkit.GetJSON(r, "/ready", h.ready)
	httpkit.GetJSON(r, "/version", h.version)
	httpkit.GetJSON(r, "/service", h.service)
}

// Operations documents the meta routes under prefix
func Operations(prefix string) []swaggerkit.Operation {
	return []swaggerkit.Operation{
		{Method: "GET", Path: prefix + "/health", Summary: "Health check", Tag: "Meta"},
		{Method: "GET", Path: prefix + "/ready", Summary: "Readiness probe with dependency checks", Tag: "Meta"},
		{Method: "GET", Path: prefix + "/version", Summary: "Build and version info", Tag: "Meta"},
		{Method: "GET", Path: prefix + "/service", Summary: "Service info and uptime", Tag: "Meta"},
	}
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"pfascheck-api"`
	Started string `json:"started"  example:"2026-05-02T13:00:00Z"`
	Now     string `json:"now"      example:"2026-05-02T13:05:00Z"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"mongo"`
	Status string `json:"status" example:"ok"` // ok fail skipped unknown degraded
	Error  string `json:"error,omitempty" example:"server selection error: context deadline exceeded"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok degraded fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-05-02T13:05:00Z"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string `json:"name"    example:"pfascheck-api"`
	Started string `json:"started" example:"2026-05-02T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     h.deps.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	check := func(name string, c any) ReadyCheck {
		if c == nil {
			return ReadyCheck{Name: name, Status: "skipped"}
		}
		if p, ok := c.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				return ReadyCheck{Name: name, Status: "fail", Error: err.Error()}
			}
			return ReadyCheck{Name: name, Status: "ok"}
		}
		return ReadyCheck{Name: name, Status: "unknown"}
	}

	checks := []ReadyCheck{check("pg", h.deps.PG), check("mongo", h.deps.Mongo)}
	if h.deps.Reference != nil {
		checks = append(checks, reference(h.deps.Reference.Status(ctx)))
	}

	overall := "ok"
	for _, c := range checks {
		switch c.Status {
		case "fail":
			overall = "fail"
		case "degraded", "unknown":
			if overall == "ok" {
				overall = "degraded"
			}
		}
	}
	// only one backend is ever configured; all skipped means nothing to serve from
	if checks[0].Status == "skipped" && checks[1].Status == "skipped" {
		overall = "fail"
	}

	return ReadyResponse{
		Status: overall,
		Checks: checks,
		Now:    h.deps.Now().UTC().Format(time.RFC3339),
	}, nil
}

func reference(st refdom.Status) ReadyCheck {
	switch {
	case st.Degraded:
		return ReadyCheck{Name: "reference", Status: "degraded", Error: st.Error}
	case !st.Loaded:
		return ReadyCheck{Name: "reference", Status: "skipped"}
	default:
		return ReadyCheck{Name: "reference", Status: "ok"}
	}
}

func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

func (h *handlers) service(_ *http.Request) (any, error) {
	uptime := h.deps.Now().Sub(h.deps.StartedAt)
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(uptime / time.Second),
	}, nil
}
