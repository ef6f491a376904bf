// Package service implements single and batch zip code lookups against the reference set
package service

import (
	"bytes"
	"context"
	"fmt"

	"pfascheck/internal/core/table"
	"pfascheck/internal/core/zipcode"
	perr "pfascheck/internal/platform/errors"
	"pfascheck/internal/platform/logger"
	"pfascheck/internal/platform/metrics"
	"pfascheck/internal/platform/net/http/bind"
	pstrings "pfascheck/internal/platform/strings"
	"pfascheck/internal/services/api/zipcheck/domain"
	refdom "pfascheck/internal/services/reference/domain"
	refsvc "pfascheck/internal/services/reference/service"

	"github.com/google/uuid"
)

// PreviewRows is how many rows Inspect returns
const PreviewRows = 5

// Service defines the service contract for zipcheck
type Service interface{ domain.ServicePort }

// Svc implements Service
type Svc struct {
	ref     refdom.Lookup
	metrics *metrics.Metrics
	newID   func() string
}

// New constructs a zipcheck service over the reference lookup; m may be nil
func New(ref refdom.Lookup, m *metrics.Metrics) *Svc {
	if ref == nil {
		panic("zipcheck.Service requires a non nil reference Lookup")
	}
	return &Svc{ref: ref, metrics: m, newID: uuid.NewString}
}

// Check answers whether one 5 digit code is in an affected area
// input that is not exactly five digits is rejected before any lookup
func (s *Svc) Check(ctx context.Context, in domain.CheckInput) (domain.Verdict, error) {
	if err := bind.Struct(in); err != nil {
		s.metrics.Lookup("single", "invalid")
		return domain.Verdict{}, perr.WithField(
			perr.Wrap(err, perr.ErrorCodeValidation, "please enter a valid 5-digit zip code"), "zip_code")
	}

	snap := s.ref.Snapshot(ctx)
	v := domain.Verdict{
		ZipCode:   in.ZipCode,
		Affected:  snap.Contains(in.ZipCode),
		Reference: refsvc.StatusOf(snap),
	}
	if v.Affected {
		v.Message = fmt.Sprintf("Zip code %s is in a PFAS-affected area.", in.ZipCode)
		s.metrics.Lookup("single", "affected")
	} else {
		v.Message = fmt.Sprintf("Zip code %s is NOT in a PFAS-affected area.", in.ZipCode)
		s.metrics.Lookup("single", "clear")
	}
	return v.WithWarnings(warnings(snap)), nil
}

// Inspect parses the upload and returns its columns, the detected zip column and a preview
func (s *Svc) Inspect(_ context.Context, up domain.Upload) (domain.Preview, error) {
	t, err := table.Parse(up.Name, bytes.NewReader(up.Data))
	if err != nil {
		return domain.Preview{}, err
	}
	detected, _ := table.DetectColumn(t.Columns)
	return domain.Preview{
		Filename: up.Name,
		Columns:  t.Columns,
		Detected: detected,
		Rows:     t.Len(),
		Head:     t.Head(PreviewRows),
	}, nil
}

// Process annotates every row with In_PFAS_Area and builds the downloadable report
// column overrides auto-detection; when neither yields a column the caller must choose one
func (s *Svc) Process(ctx context.Context, up domain.Upload, column string) (domain.Report, error) {
	t, err := table.Parse(up.Name, bytes.NewReader(up.Data))
	if err != nil {
		return domain.Report{}, err
	}
	col, err := resolveColumn(t, column)
	if err != nil {
		return domain.Report{}, err
	}

	id := s.newID()
	ctx = logger.WithReport(ctx, id)
	log := logger.C(ctx)

	snap := s.ref.Snapshot(ctx)
	sum := annotate(t, t.Index(col), snap)

	csv, err := table.EncodeCSV(t)
	if err != nil {
		return domain.Report{}, perr.Wrap(err, perr.ErrorCodeUnknown, "encode report csv")
	}
	s.metrics.Batch(sum.Total, sum.Affected, sum.Unrecognized)

	log.Info().
		Str("file", up.Name).
		Str("column", col).
		Int("total", sum.Total).
		Int("affected", sum.Affected).
		Int("unrecognized", sum.Unrecognized).
		Bool("degraded", snap.Degraded()).
		Msg("batch processed")

	rep := domain.Report{
		ID:       id,
		Filename: up.Name,
		Column:   col,
		Columns:  t.Columns,
		Rows:     t.Rows,
		Summary:  sum,
		Download: domain.Download{
			Filename: table.ReportFilename(up.Name),
			DataURI:  table.DataURI(csv),
		},
		Reference: refsvc.StatusOf(snap),
		CSV:       csv,
	}
	return rep.WithWarnings(warnings(snap)), nil
}

func resolveColumn(t *table.Table, column string) (string, error) {
	if column != "" {
		if column == table.StatusColumn {
			return "", perr.WithField(perr.InvalidArgf("column %q is the output status column; choose the zip code column",
				column), "column")
		}
		if t.Index(column) < 0 {
			return "", perr.WithField(perr.InvalidArgf("column %q not found; available columns: %s",
				column, pstrings.Quoted(t.Columns)), "column")
		}
		return column, nil
	}
	if c, ok := table.DetectColumn(t.Columns); ok {
		return c, nil
	}
	return "", perr.WithField(perr.InvalidArgf("could not detect a zip code column; choose one of: %s",
		pstrings.Quoted(t.Columns)), "column")
}

// annotate writes normalized codes back into col and appends the status column
func annotate(t *table.Table, col int, snap refdom.Snapshot) domain.Summary {
	raw := t.Column(col)
	codes := make([]string, len(raw))
	status := make([]string, len(raw))
	sum := domain.Summary{Total: len(raw)}
	for i, v := range raw {
		code, ok := zipcode.Canonical(v)
		codes[i] = code
		switch {
		case !ok:
			status[i] = "No"
			sum.Unrecognized++
		case snap.Contains(code):
			status[i] = "Yes"
			sum.Affected++
		default:
			status[i] = "No"
		}
	}
	t.SetColumn(t.Columns[col], codes)
	t.SetColumn(table.StatusColumn, status)
	sum.Percentage = Percentage(sum.Affected, sum.Total)
	return sum
}

// Percentage formats affected/total with one decimal; an empty batch is 0.0%
func Percentage(affected, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(affected)/float64(total)*100)
}

func warnings(snap refdom.Snapshot) []string {
	if !snap.Degraded() {
		return nil
	}
	return []string{"reference data unavailable: " + snap.Err.Error()}
}
