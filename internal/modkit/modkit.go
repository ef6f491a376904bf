// Package modkit wires API modules: shared deps, build options and the mount contract
package modkit

import (
	"pfascheck/internal/modkit/swaggerkit"
	phttp "pfascheck/internal/platform/net/http"
)

// Module is one feature mounted under /api/v1
// every module documents its own routes so the swagger document cannot drift from the router
type Module interface {
	MountRoutes(r phttp.Router)
	// Ports returns the bundle sibling modules consume; nil when the module exports nothing
	Ports() any
	Name() string
	// Prefix is the mount path relative to /api/v1, e.g. /zipcheck
	Prefix() string
	swaggerkit.Documented
}
