package httpkit

import (
	"net/http"

	phttp "pfascheck/internal/platform/net/http"
)

// GetJSON mounts a body-less JSON handler under GET
func GetJSON(r Router, path string, h func(*http.Request) (any, error)) { phttp.GetJSON(r, path, h) }

// PostJSON mounts a JSON body handler under POST; the body is decoded and validated into T
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.PostJSON(r, path, h)
}

// Post mounts a body-less action under POST
func Post(r Router, path string, h func(*http.Request) (any, error)) { phttp.PostNoBody(r, path, h) }

// Upload mounts a multipart handler under POST reading the file from field
func Upload(r Router, path, field string, maxBytes int64, h func(*http.Request, File) Response) {
	phttp.PostUpload(r, path, field, maxBytes, h)
}
