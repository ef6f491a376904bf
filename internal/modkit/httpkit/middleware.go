package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"pfascheck/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	Timeout time.Duration // default 60s; batch uploads parse in-request
	Slow    time.Duration // access log warn threshold, default 2s
	CORS    middleware.CORSOptions

	// Observe receives every finished request (metrics)
	Observe func(method, route string, status int, elapsed time.Duration)
}

// CommonStack returns the baseline middleware slice mounted ahead of module routes
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
	if o.Slow <= 0 {
		o.Slow = 2 * time.Second
	}
	return []func(http.Handler) http.Handler{
		// tracing / correlation
		middleware.RealIP(),
		middleware.RequestID(),
		middleware.RequestContext(),

		// observability, outside recover so panics are logged with their 500
		middleware.AccessLog(middleware.AccessLogOptions{Slow: o.Slow, Observe: o.Observe}),

		// safety
		middleware.RecoverJSON,

		middleware.CORS(o.CORS),
		middleware.NoCache(),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(o.Timeout),
	}
}
