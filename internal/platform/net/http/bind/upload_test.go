package bind

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "pfascheck/internal/platform/errors"
)

func multipartRequest(t *testing.T, field, filename, content string, extra map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range extra {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = fw.Write([]byte(content))
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpload_OK(t *testing.T) {
	req := multipartRequest(t, "file", "clients.CSV", "zip\n02134\n", map[string]string{"column": "zip"})
	f, err := Upload(req, "file", 1<<20)
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if f.Name != "clients.CSV" || f.Ext() != ".csv" || string(f.Data) != "zip\n02134\n" {
		t.Fatalf("file = %+v", f)
	}
	if req.FormValue("column") != "zip" {
		t.Fatalf("form value lost")
	}
}

func TestUpload_Missing(t *testing.T) {
	req := multipartRequest(t, "", "", "", map[string]string{"column": "zip"})
	_, err := Upload(req, "file", 1<<20)
	e, ok := perr.As(err)
	if !ok || e.Code() != perr.ErrorCodeValidation || e.Field() != "file" {
		t.Fatalf("expected validation error on file, got %v", err)
	}
}

func TestUpload_TooLarge(t *testing.T) {
	req := multipartRequest(t, "file", "big.csv", strings.Repeat("0", 4096), nil)
	_, err := Upload(req, "file", 512)
	if perr.CodeOf(err) != perr.ErrorCodeTooLarge {
		t.Fatalf("expected too large, got %v (%v)", perr.CodeOf(err), err)
	}
}

func TestUpload_NotMultipart(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(`{"a":1}`))
	req.Header.Set("Content-Type", "application/json")
	if _, err := Upload(req, "file", 1<<20); perr.CodeOf(err) != perr.ErrorCodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
