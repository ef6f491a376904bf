// Package http provides http transport for zip code lookups
package http

import (
	stdhttp "net/http"

	"pfascheck/internal/modkit/httpkit"
	"pfascheck/internal/modkit/swaggerkit"
	"pfascheck/internal/services/api/zipcheck/domain"
)

// FileField and ColumnField are the multipart form fields for batch uploads
const (
	FileField   = "file"
	ColumnField = "column"
)

// Register mounts zipcheck endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort, maxUpload int64) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.CheckInput](r, "/check", h.check)
	httpkit.GetJSON(r, "/check/{zip}", h.checkPath)
	httpkit.Upload(r, "/batch/inspect", FileField, maxUpload, h.inspect)
	httpkit.Upload(r, "/batch", FileField, maxUpload, h.batch)
	httpkit.Upload(r, "/batch.csv", FileField, maxUpload, h.batchCSV)
}

// Operations documents the endpoints Register mounts under prefix
func Operations(prefix string) []swaggerkit.Operation {
	file := swaggerkit.Field{Name: FileField, Type: "binary", Required: true}
	column := swaggerkit.Field{Name: ColumnField, Type: "string", Example: "Zip Code"}
	return []swaggerkit.Operation{
		{
			Method: "POST", Path: prefix + "/check", Summary: "Check one zip code", Tag: "Zipcheck",
			Body: "json", Fields: []swaggerkit.Field{{Name: "zip_code", Type: "string", Required: true, Example: "02134"}},
		},
		{Method: "GET", Path: prefix + "/check/{zip}", Summary: "Check one zip code", Tag: "Zipcheck"},
		{
			Method: "POST", Path: prefix + "/batch/inspect", Summary: "Preview an uploaded file and its detected zip column",
			Tag: "Zipcheck", Body: "multipart", Fields: []swaggerkit.Field{file},
		},
		{
			Method: "POST", Path: prefix + "/batch", Summary: "Annotate every row of an uploaded file",
			Tag: "Zipcheck", Body: "multipart", Fields: []swaggerkit.Field{file, column},
		},
		{
			Method: "POST", Path: prefix + "/batch.csv", Summary: "Download the annotated file as CSV",
			Tag: "Zipcheck", Body: "multipart", Fields: []swaggerkit.Field{file, column}, Produces: "text/csv",
		},
	}
}

type handlers struct{ svc domain.ServicePort }

func (h *handlers) check(r *stdhttp.Request, in domain.CheckInput) (any, error) {
	return h.svc.Check(r.Context(), in)
}

func (h *handlers) checkPath(r *stdhttp.Request) (any, error) {
	return h.svc.Check(r.Context(), domain.CheckInput{ZipCode: httpkit.URLParam(r, "zip")})
}

func (h *handlers) inspect(r *stdhttp.Request, f httpkit.File) httpkit.Response {
	p, err := h.svc.Inspect(r.Context(), upload(f))
	if err != nil {
		return httpkit.Error(err)
	}
	return httpkit.OK(p)
}

func (h *handlers) batch(r *stdhttp.Request, f httpkit.File) httpkit.Response {
	rep, err := h.svc.Process(r.Context(), upload(f), r.FormValue(ColumnField))
	if err != nil {
		return httpkit.Error(err)
	}
	return httpkit.Warn(rep, rep.Warnings()...)
}

func (h *handlers) batchCSV(r *stdhttp.Request, f httpkit.File) httpkit.Response {
	rep, err := h.svc.Process(r.Context(), upload(f), r.FormValue(ColumnField))
	if err != nil {
		return httpkit.Error(err)
	}
	resp := httpkit.Attachment(rep.Download.Filename, "text/csv; charset=utf-8", rep.CSV)
	resp.Header.Set("X-Report-Id", rep.ID)
	return resp
}

func upload(f httpkit.File) domain.Upload { return domain.Upload{Name: f.Name, Data: f.Data} }
