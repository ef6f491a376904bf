package modkit

import (
	"pfascheck/internal/platform/config"
	"pfascheck/internal/platform/logger"
	"pfascheck/internal/platform/metrics"
	"pfascheck/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// Store and Metrics may be nil in tests; modules nil check before use
type Deps struct {
	Log     logger.Logger
	Cfg     config.Conf
	Store   *store.Store
	Metrics *metrics.Metrics
}
