package bind

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	perr "pfascheck/internal/platform/errors"
)

// File is an uploaded multipart file held in memory
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Ext returns the lower-cased file extension including the dot
func (f File) Ext() string { return strings.ToLower(filepath.Ext(f.Name)) }

// memoryLimit caps the part of a multipart form kept in RAM before spilling to temp files
const memoryLimit = 8 << 20

// Upload reads the multipart file in field, enforcing maxBytes on the whole request body.
// Other form values stay available through r.FormValue
func Upload(r *http.Request, field string, maxBytes int64) (File, error) {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)
	}
	if err := r.ParseMultipartForm(memoryLimit); err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			return File{}, perr.WithField(perr.TooLargef("upload exceeds %d bytes", tooBig.Limit), field)
		case errors.Is(err, http.ErrNotMultipart):
			return File{}, perr.Validationf("expected multipart/form-data upload")
		default:
			return File{}, perr.WithField(perr.Wrap(err, perr.ErrorCodeValidation, "invalid multipart form"), field)
		}
	}

	mf, hdr, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return File{}, perr.WithField(perr.Validationf("%s is required", field), field)
		}
		return File{}, perr.WithField(perr.Wrap(err, perr.ErrorCodeValidation, "unreadable upload"), field)
	}
	defer mf.Close()

	data, err := io.ReadAll(mf)
	if err != nil {
		return File{}, perr.WithField(perr.Wrap(err, perr.ErrorCodeValidation, "unreadable upload"), field)
	}
	return File{
		Name:        filepath.Base(hdr.Filename),
		ContentType: hdr.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
