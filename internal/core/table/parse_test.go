package table

import (
	"bytes"
	"strings"
	"testing"

	perr "pfascheck/internal/platform/errors"

	"github.com/xuri/excelize/v2"
)

func TestParse_CSV(t *testing.T) {
	in := "\xEF\xBB\xBFName,Zip Code,,Name\nAda,2134,x,a\n\n,,,\nGrace,10001\n"
	tb, err := Parse("clients.csv", strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	wantCols := []string{"Name", "Zip Code", "Unnamed: 2", "Name.1"}
	if strings.Join(tb.Columns, "|") != strings.Join(wantCols, "|") {
		t.Fatalf("columns = %q", tb.Columns)
	}
	if tb.Len() != 2 {
		t.Fatalf("rows = %d, want 2 (blank rows skipped)", tb.Len())
	}
	if tb.Rows[1][0] != "Grace" || tb.Rows[1][1] != "10001" || tb.Rows[1][3] != "" {
		t.Fatalf("short row not padded: %q", tb.Rows[1])
	}
	if tb.Name != "clients.csv" {
		t.Fatalf("name = %q", tb.Name)
	}
}

func TestParse_TSV(t *testing.T) {
	tb, err := Parse("clients.TSV", strings.NewReader("zip\tname\n02134\tAda\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tb.Columns[0] != "zip" || tb.Rows[0][0] != "02134" {
		t.Fatalf("unexpected table %+v", tb)
	}
}

func TestParse_LongRowIsError(t *testing.T) {
	_, err := Parse("bad.csv", strings.NewReader("a,b\n1,2,3\n"))
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "expected 2 fields in line 2, saw 3") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestParse_TrailingEmptyCellsTolerated(t *testing.T) {
	tb, err := Parse("ok.csv", strings.NewReader("a,b\n1,2,,\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(tb.Rows[0]) != 2 {
		t.Fatalf("row = %q", tb.Rows[0])
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		body string
		code perr.ErrorCode
	}{
		{"empty.csv", "", perr.ErrorCodeValidation},
		{"blank.csv", "\n\n , \n", perr.ErrorCodeValidation},
		{"report.pdf", "%PDF", perr.ErrorCodeUnsupported},
		{"noext", "zip\n1", perr.ErrorCodeUnsupported},
		{"broken.xlsx", "not a zip archive", perr.ErrorCodeValidation},
		{"broken.xls", "not an ole2 file", perr.ErrorCodeValidation},
	}
	for _, c := range cases {
		_, err := Parse(c.name, strings.NewReader(c.body))
		if !perr.IsCode(err, c.code) {
			t.Errorf("Parse(%s) err = %v, want code %s", c.name, err, c.code)
		}
	}
}

func xlsxFixture(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	// a second sheet that must be ignored
	if _, err := f.NewSheet("Other"); err != nil {
		t.Fatalf("NewSheet: %v", err)
	}
	if err := f.SetCellValue("Other", "A1", "zip"); err != nil {
		t.Fatalf("SetCellValue: %v", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

func TestParse_XLSX_FirstSheetNumericZips(t *testing.T) {
	data := xlsxFixture(t, [][]any{
		{"Client", "ZIP"},
		{"Ada", 2134},
		{"Grace", "10001"},
		{"Hopper", nil},
	})
	tb, err := Parse("clients.xlsx", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if strings.Join(tb.Columns, ",") != "Client,ZIP" {
		t.Fatalf("columns = %q", tb.Columns)
	}
	if tb.Len() != 3 {
		t.Fatalf("rows = %d", tb.Len())
	}
	if tb.Rows[0][1] != "2134" || tb.Rows[1][1] != "10001" || tb.Rows[2][1] != "" {
		t.Fatalf("rows = %q", tb.Rows)
	}
	if col, ok := DetectColumn(tb.Columns); !ok || col != "ZIP" {
		t.Fatalf("DetectColumn = %q %v", col, ok)
	}
}
