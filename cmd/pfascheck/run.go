package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"pfascheck/internal/core/table"
	perr "pfascheck/internal/platform/errors"
	"pfascheck/internal/services/api/zipcheck/domain"
)

// execute performs the lookup o asks for and returns the exit code
func execute(ctx context.Context, o options, svc domain.ServicePort, stdout, stderr io.Writer) int {
	if o.zip != "" {
		v, err := svc.Check(ctx, domain.CheckInput{ZipCode: o.zip})
		if err != nil {
			return fail(stderr, err)
		}
		warn(stderr, v.Warnings())
		fmt.Fprintln(stdout, v.Message)
		return exitOK
	}

	data, err := os.ReadFile(o.file)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitInput
	}
	rep, err := svc.Process(ctx, domain.Upload{Name: filepath.Base(o.file), Data: data}, o.column)
	if err != nil {
		return fail(stderr, err)
	}
	warn(stderr, rep.Warnings())

	out := o.out
	if out == "" {
		out = filepath.Join(filepath.Dir(o.file), table.ReportFilename(o.file))
	}
	if err := os.WriteFile(out, rep.CSV, 0o644); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitInput
	}

	s := rep.Summary
	fmt.Fprintf(stdout, "Total clients: %d\n", s.Total)
	fmt.Fprintf(stdout, "Clients in PFAS areas: %d\n", s.Affected)
	fmt.Fprintf(stdout, "Percentage affected: %s\n", s.Percentage)
	if s.Unrecognized > 0 {
		fmt.Fprintf(stdout, "Unrecognized zip codes: %d\n", s.Unrecognized)
	}
	fmt.Fprintf(stdout, "Report written to %s\n", out)
	return exitOK
}

func fail(stderr io.Writer, err error) int {
	fmt.Fprintln(stderr, "error:", perr.WireFrom(err).Message)
	if perr.IsCode(err, perr.ErrorCodeUnknown) {
		fmt.Fprintln(stderr, err)
	}
	return exitInput
}

func warn(stderr io.Writer, ws []string) {
	for _, w := range ws {
		fmt.Fprintln(stderr, "warning:", w)
	}
}
