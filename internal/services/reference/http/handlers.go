// Package http provides http transport for the reference set
package http

import (
	stdhttp "net/http"

	"pfascheck/internal/modkit/httpkit"
	"pfascheck/internal/modkit/swaggerkit"
	"pfascheck/internal/services/reference/domain"
)

// Register mounts reference endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	httpkit.GetJSON(r, "/status", h.status)
	httpkit.Post(r, "/refresh", h.refresh)
}

// Operations documents the endpoints Register mounts under prefix
func Operations(prefix string) []swaggerkit.Operation {
	return []swaggerkit.Operation{
		{Method: "GET", Path: prefix + "/status", Summary: "Reference set status", Tag: "Reference"},
		{Method: "POST", Path: prefix + "/refresh", Summary: "Reload the reference set now", Tag: "Reference"},
	}
}

type handlers struct{ svc domain.ServicePort }

func (h *handlers) status(r *stdhttp.Request) (any, error) {
	return h.svc.Status(r.Context()), nil
}

// a failed reload is still a 200; the status carries degraded and error
func (h *handlers) refresh(r *stdhttp.Request) (any, error) {
	return h.svc.Refresh(r.Context()), nil
}
