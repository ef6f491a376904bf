package web

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"testing/fstest"

	phttp "pfascheck/internal/platform/net/http"
	"pfascheck/internal/platform/testkit"
	zcsvc "pfascheck/internal/services/api/zipcheck/service"
	refdom "pfascheck/internal/services/reference/domain"

	"github.com/go-chi/chi/v5"
)

type staticLookup struct{ snap refdom.Snapshot }

func (s staticLookup) Snapshot(context.Context) refdom.Snapshot { return s.snap }

func page(t *testing.T, snap refdom.Snapshot) phttp.Router {
	t.Helper()
	ref := staticLookup{snap: snap}
	p, err := New(zcsvc.New(ref, nil), ref, 1<<20)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := phttp.AdaptChi(chi.NewRouter())
	p.Register(r)
	return r
}

func loaded(codes ...string) refdom.Snapshot {
	set := refdom.ZipSet{}
	for _, c := range codes {
		set.Add(c)
	}
	return refdom.Snapshot{Codes: set, Source: "mongo"}
}

func do(r phttp.Router, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, req)
	return rec
}

func form(path string, vals url.Values) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(vals.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestIndex_Banner(t *testing.T) {
	rec := do(page(t, loaded("02134", "10001")), httptest.NewRequest("GET", "/", nil))
	if rec.Code != 200 || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("index = %d %v", rec.Code, rec.Header())
	}
	testkit.MustContain(t, rec.Body.String(), "Database loaded with 2 unique PFAS-affected zip codes.")
}

func TestIndex_Degraded(t *testing.T) {
	snap := refdom.Snapshot{Codes: refdom.ZipSet{}, Err: errors.New("server selection timeout")}
	rec := do(page(t, snap), httptest.NewRequest("GET", "/", nil))
	testkit.MustContain(t, rec.Body.String(), "Error connecting to database: server selection timeout")
}

func TestCheckForm(t *testing.T) {
	r := page(t, loaded("02134"))

	rec := do(r, form("/check", url.Values{"zip_code": {"02134"}}))
	if rec.Code != 200 {
		t.Fatalf("check = %d", rec.Code)
	}
	testkit.MustContain(t, rec.Body.String(), "Zip code 02134 is in a PFAS-affected area.")

	rec = do(r, form("/check", url.Values{"zip_code": {"10001"}}))
	testkit.MustContain(t, rec.Body.String(), "Zip code 10001 is NOT in a PFAS-affected area.")

	rec = do(r, form("/check", url.Values{"zip_code": {"12ab"}}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid = %d", rec.Code)
	}
	testkit.MustContain(t, rec.Body.String(), "please enter a valid 5-digit zip code")
}

var carriedData = regexp.MustCompile(`name="data" value="([^"]*)"`)

// confirm posts the preview form back the way a browser would
func confirm(t *testing.T, r phttp.Router, preview, filename, column string) *httptest.ResponseRecorder {
	t.Helper()
	m := carriedData.FindStringSubmatch(preview)
	if m == nil {
		t.Fatalf("preview carries no file:\n%s", preview)
	}
	return do(r, form("/batch/process", url.Values{
		"filename": {filename},
		"data":     {html.UnescapeString(m[1])},
		"column":   {column},
	}))
}

func TestBatchForm_PreviewThenConfirm(t *testing.T) {
	r := page(t, loaded("02134"))
	content := "Name,Zip Code\n<b>a</b>,2134\nb,10001\n"

	rec := do(r, testkit.Upload(t, "/batch", "clients.csv", content, nil))
	if rec.Code != 200 {
		t.Fatalf("preview = %d %s", rec.Code, rec.Body.String())
	}
	preview := rec.Body.String()
	testkit.MustContain(t, preview, "clients.csv: 2 rows")
	testkit.MustContain(t, preview, "<td>&lt;b&gt;a&lt;/b&gt;</td><td>2134</td>")
	testkit.MustContain(t, preview, "Detected zip code column: Zip Code")
	testkit.MustContain(t, preview, `<option value="Zip Code" selected>Zip Code</option>`)
	testkit.MustContain(t, preview, `<option value="Name">Name</option>`)
	if strings.Contains(preview, "<dd>") {
		t.Fatalf("preview already processed the batch")
	}
	m := carriedData.FindStringSubmatch(preview)
	if m == nil || html.UnescapeString(m[1]) != base64.StdEncoding.EncodeToString([]byte(content)) {
		t.Fatalf("carried data = %v", m)
	}

	rec = confirm(t, r, preview, "clients.csv", "Zip Code")
	if rec.Code != 200 {
		t.Fatalf("process = %d %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	testkit.MustContain(t, body, "<dd>50.0%</dd>")
	testkit.MustContain(t, body, `download="clients_with_pfas_status.csv"`)
	testkit.MustContain(t, body, `href="data:file/csv;base64,`)
	testkit.MustContain(t, body, "&lt;b&gt;a&lt;/b&gt;")
}

func TestBatchForm_ChangeColumn(t *testing.T) {
	r := page(t, loaded("02134"))

	rec := do(r, testkit.Upload(t, "/batch", "c.csv", "Name,Where,Zip\na,2134,10001\n", nil))
	preview := rec.Body.String()
	testkit.MustContain(t, preview, `<option value="Zip" selected>Zip</option>`)
	testkit.MustContain(t, preview, `<option value="Where">Where</option>`)

	rec = confirm(t, r, preview, "c.csv", "Zip")
	testkit.MustContain(t, rec.Body.String(), "<dd>0.0%</dd>")

	rec = confirm(t, r, preview, "c.csv", "Where")
	if rec.Code != 200 {
		t.Fatalf("changed column = %d %s", rec.Code, rec.Body.String())
	}
	testkit.MustContain(t, rec.Body.String(), "<dd>100.0%</dd>")
}

func TestBatchForm_UndetectedColumn(t *testing.T) {
	r := page(t, loaded("02134"))

	rec := do(r, testkit.Upload(t, "/batch", "c.csv", "Name,Where\na,2134\n", nil))
	if rec.Code != 200 {
		t.Fatalf("preview = %d", rec.Code)
	}
	preview := rec.Body.String()
	testkit.MustContain(t, preview, "No zip code column detected")
	testkit.MustContain(t, preview, `<option value="" selected>Choose a column</option>`)

	// confirming without a choice, or with a column the file lacks, shows the preview again
	for _, column := range []string{"", "Nope"} {
		rec = confirm(t, r, preview, "c.csv", column)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("column %q = %d", column, rec.Code)
		}
		testkit.MustContain(t, rec.Body.String(), `<option value="Where">Where</option>`)
		testkit.MustContain(t, rec.Body.String(), `class="error"`)
	}

	rec = confirm(t, r, preview, "c.csv", "Where")
	testkit.MustContain(t, rec.Body.String(), "<dd>100.0%</dd>")
}

func TestBatchForm_PreviewErrors(t *testing.T) {
	r := page(t, loaded("02134"))

	rec := do(r, testkit.Upload(t, "/batch", "c.pdf", "%PDF", nil))
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("unsupported = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), `action="/batch/process"`) {
		t.Fatalf("unreadable upload must not offer a preview")
	}
}

func TestBatchProcess_CarriedFileChecks(t *testing.T) {
	r := page(t, loaded("02134"))

	rec := do(r, form("/batch/process", url.Values{"column": {"zip"}}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing file = %d", rec.Code)
	}
	testkit.MustContain(t, rec.Body.String(), "file is required")

	rec = do(r, form("/batch/process", url.Values{"filename": {"c.csv"}, "data": {"%%%"}, "column": {"zip"}}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad encoding = %d", rec.Code)
	}

	ref := staticLookup{snap: loaded("02134")}
	p, err := New(zcsvc.New(ref, nil), ref, 8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	small := phttp.AdaptChi(chi.NewRouter())
	p.Register(small)
	big := base64.StdEncoding.EncodeToString([]byte("zip\n02134\n10001\n"))
	rec = do(small, form("/batch/process", url.Values{"filename": {"c.csv"}, "data": {big}, "column": {"zip"}}))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("too large = %d", rec.Code)
	}
}

func TestNew_RequiresDeps(t *testing.T) {
	if _, err := New(nil, staticLookup{}, 0); err == nil {
		t.Fatalf("expected error for nil service")
	}
}

func TestRenderer(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/layout.html": {Data: []byte(`{{define "base"}}[{{template "content" .}}]{{end}}`)},
		"templates/hello.html":  {Data: []byte(`{{define "content"}}hi {{.}}{{end}}`)},
	}
	r, err := newRenderer(fsys)
	if err != nil {
		t.Fatalf("newRenderer: %v", err)
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, "hello", "<x>"); err != nil || buf.String() != "[hi &lt;x&gt;]" {
		t.Fatalf("Render = %q %v", buf.String(), err)
	}
	if err := r.Render(&buf, "missing", nil); err == nil {
		t.Fatalf("expected missing template error")
	}
}
