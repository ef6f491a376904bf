package module

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	modkit "pfascheck/internal/modkit"
	"pfascheck/internal/platform/config"
	phttp "pfascheck/internal/platform/net/http"
	"pfascheck/internal/platform/testkit"
	refdom "pfascheck/internal/services/reference/domain"

	"github.com/go-chi/chi/v5"
)

type staticLookup struct{ snap refdom.Snapshot }

func (s staticLookup) Snapshot(context.Context) refdom.Snapshot { return s.snap }

func router(t *testing.T, snap refdom.Snapshot, o Options) phttp.Router {
	t.Helper()
	m := New(modkit.Deps{}, o, modkit.WithPorts[refdom.Lookup](staticLookup{snap: snap}))
	r := phttp.AdaptChi(chi.NewRouter())
	m.MountRoutes(r)
	return r
}

func affected(codes ...string) refdom.Snapshot {
	set := refdom.ZipSet{}
	for _, c := range codes {
		set.Add(c)
	}
	return refdom.Snapshot{Codes: set, Source: "mongo"}
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Code       int             `json:"code"`
	Error      string          `json:"error"`
	Field      string          `json:"field"`
	Warnings   []string        `json:"warnings"`
	Data       json.RawMessage `json:"data"`
}

func serve(r phttp.Router, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, req)
	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestCheckEndpoints(t *testing.T) {
	r := router(t, affected("02134"), Options{})

	rec, env := serve(r, httptest.NewRequest("POST", "/zipcheck/check", strings.NewReader(`{"zip_code":"02134"}`)))
	if rec.Code != 200 || !strings.Contains(string(env.Data), `"affected":true`) {
		t.Fatalf("POST check = %d %s", rec.Code, rec.Body.String())
	}

	rec, env = serve(r, httptest.NewRequest("GET", "/zipcheck/check/10001", nil))
	if rec.Code != 200 || !strings.Contains(string(env.Data), "is NOT in a PFAS-affected area") {
		t.Fatalf("GET check = %d %s", rec.Code, rec.Body.String())
	}

	rec, env = serve(r, httptest.NewRequest("GET", "/zipcheck/check/1234A", nil))
	if rec.Code != http.StatusBadRequest || env.Field != "zip_code" {
		t.Fatalf("GET invalid = %d %s", rec.Code, rec.Body.String())
	}
}

func TestCheck_DegradedWarning(t *testing.T) {
	snap := refdom.Snapshot{Codes: refdom.ZipSet{}, Err: errors.New("no route to host")}
	r := router(t, snap, Options{})
	rec, env := serve(r, httptest.NewRequest("GET", "/zipcheck/check/02134", nil))
	if rec.Code != 200 || len(env.Warnings) != 1 {
		t.Fatalf("degraded = %d %s", rec.Code, rec.Body.String())
	}
	testkit.MustContain(t, env.Warnings[0], "reference data unavailable")
}

func TestBatchEndpoints(t *testing.T) {
	r := router(t, affected("02134"), Options{})
	csv := "Name,Zip Code\na,2134\nb,10001\n"

	req := testkit.Upload(t, "/zipcheck/batch/inspect", "clients.csv", csv, nil)
	rec, env := serve(r, req)
	if rec.Code != 200 || !strings.Contains(string(env.Data), `"detected":"Zip Code"`) {
		t.Fatalf("inspect = %d %s", rec.Code, rec.Body.String())
	}

	req = testkit.Upload(t, "/zipcheck/batch", "clients.csv", csv, nil)
	rec, env = serve(r, req)
	if rec.Code != 200 {
		t.Fatalf("batch = %d %s", rec.Code, rec.Body.String())
	}
	var rep struct {
		Summary struct {
			Total      int    `json:"total"`
			Affected   int    `json:"affected"`
			Percentage string `json:"percentage"`
		} `json:"summary"`
		Download struct {
			Filename string `json:"filename"`
			DataURI  string `json:"data_uri"`
		} `json:"download"`
	}
	if err := json.Unmarshal(env.Data, &rep); err != nil {
		t.Fatal(err)
	}
	if rep.Summary.Total != 2 || rep.Summary.Affected != 1 || rep.Summary.Percentage != "50.0%" {
		t.Fatalf("summary = %+v", rep.Summary)
	}
	if rep.Download.Filename != "clients_with_pfas_status.csv" || !strings.HasPrefix(rep.Download.DataURI, "data:file/csv;base64,") {
		t.Fatalf("download = %+v", rep.Download)
	}

	req = testkit.Upload(t, "/zipcheck/batch.csv", "clients.csv", csv, nil)
	rec = httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, req)
	if rec.Code != 200 || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("csv = %d %v", rec.Code, rec.Header())
	}
	testkit.MustContain(t, rec.Header().Get("Content-Disposition"), `filename=clients_with_pfas_status.csv`)
	if rec.Body.String() != "Name,Zip Code,In_PFAS_Area\na,02134,Yes\nb,10001,No\n" {
		t.Fatalf("csv body = %q", rec.Body.String())
	}
}

func TestBatch_ColumnRequired(t *testing.T) {
	r := router(t, affected("02134"), Options{})

	req := testkit.Upload(t, "/zipcheck/batch", "c.csv", "Name,Where\na,2134\n", nil)
	rec, env := serve(r, req)
	if rec.Code != http.StatusUnprocessableEntity || env.Field != "column" {
		t.Fatalf("undetected column = %d %s", rec.Code, rec.Body.String())
	}

	req = testkit.Upload(t, "/zipcheck/batch", "c.csv", "Name,Where\na,2134\n", map[string]string{"column": "Where"})
	rec, _ = serve(r, req)
	if rec.Code != 200 {
		t.Fatalf("explicit column = %d %s", rec.Code, rec.Body.String())
	}
}

func TestBatch_UploadErrors(t *testing.T) {
	r := router(t, affected(), Options{MaxUploadBytes: 256})

	req := testkit.Upload(t, "/zipcheck/batch", "c.pdf", "%PDF", nil)
	if rec, _ := serve(r, req); rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("pdf = %d", rec.Code)
	}

	req = testkit.Upload(t, "/zipcheck/batch", "c.csv", "zip\n"+strings.Repeat("02134\n", 100), nil)
	if rec, _ := serve(r, req); rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("too large = %d", rec.Code)
	}

	req = httptest.NewRequest("POST", "/zipcheck/batch", strings.NewReader("zip\n02134\n"))
	req.Header.Set("Content-Type", "text/csv")
	if rec, _ := serve(r, req); rec.Code != http.StatusBadRequest {
		t.Fatalf("not multipart = %d", rec.Code)
	}
}

func TestNew_RequiresLookup(t *testing.T) {
	testkit.MustPanic(t, func() { New(modkit.Deps{}, Options{}) })
}

func TestFromConfig(t *testing.T) {
	testkit.Serial(t)
	t.Setenv("CORE_API_MAX_UPLOAD_BYTES", "")
	if o := FromConfig(config.New()); o.MaxUploadBytes != DefaultMaxUpload {
		t.Fatalf("default = %d", o.MaxUploadBytes)
	}
	t.Setenv("CORE_API_MAX_UPLOAD_BYTES", "1MiB")
	if o := FromConfig(config.New()); o.MaxUploadBytes != 1<<20 {
		t.Fatalf("1MiB = %d", o.MaxUploadBytes)
	}
	m := New(modkit.Deps{}, Options{}, modkit.WithPorts[refdom.Lookup](staticLookup{}))
	if m.MaxUploadBytes() != DefaultMaxUpload || len(m.Operations()) != 5 {
		t.Fatalf("module defaults: %d %d", m.MaxUploadBytes(), len(m.Operations()))
	}
}
