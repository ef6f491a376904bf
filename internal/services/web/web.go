// Package web serves the interactive page: a single code form and a batch upload form
// all answers come from the zipcheck service; this package only presents them
//
// A batch runs in two posts. /batch inspects the upload and renders a preview with
// the detected zip column preselected; the file rides along base64 encoded in the
// preview form, so /batch/process needs no server-side session.
package web

import (
	"bytes"
	"encoding/base64"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"pfascheck/internal/core/table"
	perr "pfascheck/internal/platform/errors"
	"pfascheck/internal/platform/logger"
	phttp "pfascheck/internal/platform/net/http"
	"pfascheck/internal/platform/net/http/bind"
	zcdom "pfascheck/internal/services/api/zipcheck/domain"
	refdom "pfascheck/internal/services/reference/domain"
)

// Page renders the checker UI
type Page struct {
	svc       zcdom.ServicePort
	ref       refdom.Lookup
	maxUpload int64
	r         *Renderer
}

// New builds the page over the zipcheck service and the reference lookup
func New(svc zcdom.ServicePort, ref refdom.Lookup, maxUpload int64) (*Page, error) {
	if svc == nil || ref == nil {
		return nil, perr.Internalf("web page requires the zipcheck service and a reference lookup")
	}
	r, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	return &Page{svc: svc, ref: ref, maxUpload: maxUpload, r: r}, nil
}

// Register mounts the page routes at the router root
func (p *Page) Register(r phttp.Router) {
	r.Get("/", p.index)
	r.Post("/check", p.check)
	r.Post("/batch", p.batch)
	r.Post("/batch/process", p.process)
}

type view struct {
	Size     int
	Degraded string
	Accept   string

	ZipCode    string
	Verdict    *zcdom.Verdict
	CheckError string

	Preview    *zcdom.Preview
	Carried    string
	Selected   string
	BatchError string
	Report     *zcdom.Report
}

func (p *Page) view(r *http.Request) view {
	snap := p.ref.Snapshot(r.Context())
	v := view{Size: snap.Size(), Accept: strings.Join(table.Extensions, ",")}
	if snap.Degraded() {
		v.Degraded = "Error connecting to database: " + snap.Err.Error()
	}
	return v
}

func (p *Page) index(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, http.StatusOK, p.view(r))
}

func (p *Page) check(w http.ResponseWriter, r *http.Request) {
	v := p.view(r)
	v.ZipCode = r.FormValue("zip_code")
	verdict, err := p.svc.Check(r.Context(), zcdom.CheckInput{ZipCode: v.ZipCode})
	if err != nil {
		v.CheckError = message(err)
		p.render(w, r, perr.HTTPStatus(err), v)
		return
	}
	v.Verdict = &verdict
	p.render(w, r, http.StatusOK, v)
}

// batch inspects a fresh upload and renders the column confirmation step
func (p *Page) batch(w http.ResponseWriter, r *http.Request) {
	v := p.view(r)
	f, err := bind.Upload(r, "file", p.maxUpload)
	if err != nil {
		v.BatchError = message(err)
		p.render(w, r, perr.HTTPStatus(err), v)
		return
	}
	up := zcdom.Upload{Name: f.Name, Data: f.Data}
	if err := p.preview(r, &v, up, r.FormValue("column")); err != nil {
		v.BatchError = message(err)
		p.render(w, r, perr.HTTPStatus(err), v)
		return
	}
	p.render(w, r, http.StatusOK, v)
}

// process runs the confirmed column over the carried file
func (p *Page) process(w http.ResponseWriter, r *http.Request) {
	v := p.view(r)
	up, err := p.carried(r)
	if err != nil {
		v.BatchError = message(err)
		p.render(w, r, perr.HTTPStatus(err), v)
		return
	}

	rep, err := p.svc.Process(r.Context(), up, r.PostForm.Get("column"))
	if err != nil {
		v.BatchError = message(err)
		// bad column choice: show the preview again so another column can be picked
		if e, ok := perr.As(err); ok && e.Field() == "column" {
			_ = p.preview(r, &v, up, "")
		}
		p.render(w, r, perr.HTTPStatus(err), v)
		return
	}
	v.Report = &rep
	p.render(w, r, http.StatusOK, v)
}

func (p *Page) preview(r *http.Request, v *view, up zcdom.Upload, column string) error {
	pv, err := p.svc.Inspect(r.Context(), up)
	if err != nil {
		return err
	}
	v.Preview = &pv
	v.Carried = base64.StdEncoding.EncodeToString(up.Data)
	v.Selected = column
	if v.Selected == "" {
		v.Selected = pv.Detected
	}
	return nil
}

// formSlack covers the filename and column fields next to the encoded file
const formSlack = 64 << 10

// carried decodes the file a preview form posted back
func (p *Page) carried(r *http.Request) (zcdom.Upload, error) {
	if p.maxUpload > 0 {
		limit := int64(base64.StdEncoding.EncodedLen(int(p.maxUpload))) + formSlack
		r.Body = http.MaxBytesReader(nil, r.Body, limit)
	}
	if err := r.ParseForm(); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return zcdom.Upload{}, perr.WithField(perr.TooLargef("upload exceeds %d bytes", p.maxUpload), "file")
		}
		return zcdom.Upload{}, perr.Wrap(err, perr.ErrorCodeValidation, "invalid form")
	}

	name, encoded := r.PostForm.Get("filename"), r.PostForm.Get("data")
	if name == "" || encoded == "" {
		return zcdom.Upload{}, perr.WithField(perr.Validationf("file is required"), "file")
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return zcdom.Upload{}, perr.WithField(perr.Wrap(err, perr.ErrorCodeValidation, "unreadable upload"), "file")
	}
	if p.maxUpload > 0 && int64(len(data)) > p.maxUpload {
		return zcdom.Upload{}, perr.WithField(perr.TooLargef("upload exceeds %d bytes", p.maxUpload), "file")
	}
	return zcdom.Upload{Name: filepath.Base(name), Data: data}, nil
}

func (p *Page) render(w http.ResponseWriter, r *http.Request, status int, v view) {
	// buffered so a failed render never leaves a half written page
	var buf bytes.Buffer
	if err := p.r.Render(&buf, "index", v); err != nil {
		logger.C(r.Context()).Error().Err(err).Msg("render page")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func message(err error) string {
	if e, ok := perr.As(err); ok {
		return e.Message()
	}
	return err.Error()
}
