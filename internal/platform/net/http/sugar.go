package http

import (
	"net/http"

	"pfascheck/internal/platform/net/http/bind"
)

// GetJSON mounts a pure JSON handler for GET
func GetJSON(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, JSONHandlerNoBody(h))
}

// PostJSON mounts a pure JSON handler for POST
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, JSONHandler(h))
}

// PostNoBody mounts a POST handler that takes no body (actions like refresh)
func PostNoBody(r Router, path string, h func(*http.Request) (any, error)) {
	r.Post(path, JSONHandlerNoBody(h))
}

// PostUpload mounts a multipart upload handler for POST
func PostUpload(r Router, path, field string, maxBytes int64, h func(*http.Request, bind.File) Response) {
	r.Post(path, UploadHandler(field, maxBytes, h))
}
