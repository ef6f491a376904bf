package http

import (
	"net/http"

	"pfascheck/internal/platform/net/http/bind"
)

// JSONHandler adapts a pure JSON handler to a platform Handler
func JSONHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return Error(err)
		}
		return result(fn(r, in))
	})
}

// JSONHandlerNoBody calls fn without parsing a request body and wraps the result
func JSONHandlerNoBody(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		return result(fn(r))
	})
}

// UploadHandler parses a multipart upload from field and hands it to fn
func UploadHandler(field string, maxBytes int64, fn func(*http.Request, bind.File) Response) Handler {
	return Handle(func(r *http.Request) Response {
		f, err := bind.Upload(r, field, maxBytes)
		if err != nil {
			return Error(err)
		}
		return fn(r, f)
	})
}

// Warner is implemented by results that carry envelope warnings
type Warner interface {
	Warnings() []string
}

func result(out any, err error) Response {
	if err != nil {
		return Error(err)
	}
	if w, ok := out.(Warner); ok {
		return Warn(out, w.Warnings()...)
	}
	return OK(out)
}
