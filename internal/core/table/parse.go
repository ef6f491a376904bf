package table

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	perr "pfascheck/internal/platform/errors"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Extensions lists the accepted upload extensions
var Extensions = []string{".csv", ".txt", ".tsv", ".xlsx", ".xlsm", ".xls"}

// Parse reads name's contents from r, dispatching on the file extension
// the first row is the header; rows where every cell is blank are skipped
func Parse(name string, r io.Reader) (*Table, error) {
	var (
		raw [][]string
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv", ".txt":
		raw, err = readDelimited(r, ',')
	case ".tsv":
		raw, err = readDelimited(r, '\t')
	case ".xlsx", ".xlsm":
		raw, err = readXLSX(r)
	case ".xls":
		raw, err = readXLS(r)
	default:
		return nil, perr.Unsupportedf("unsupported file type %q: upload one of %s", ext, strings.Join(Extensions, ", "))
	}
	if err != nil {
		if _, ok := perr.As(err); ok {
			return nil, err
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeValidation, "error reading file %s", name)
	}
	return build(name, raw)
}

// build turns raw records into a rectangular table
func build(name string, raw [][]string) (*Table, error) {
	raw = dropBlank(raw)
	if len(raw) == 0 {
		return nil, perr.Validationf("error reading file %s: no header row", name)
	}

	cols := headers(raw[0])
	t := &Table{Name: name, Columns: cols, Rows: make([][]string, 0, len(raw)-1)}
	for i, rec := range raw[1:] {
		if len(rec) > len(cols) {
			// trailing empty cells are harmless, anything else is a malformed row
			if strings.TrimSpace(strings.Join(rec[len(cols):], "")) != "" {
				return nil, perr.Validationf("error reading file %s: expected %d fields in line %d, saw %d",
					name, len(cols), i+2, len(rec))
			}
			rec = rec[:len(cols)]
		}
		row := make([]string, len(cols))
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// headers trims names, labels blanks "Unnamed: i" and suffixes duplicates ".1", ".2"
func headers(rec []string) []string {
	out := make([]string, len(rec))
	seen := make(map[string]int, len(rec))
	for i, h := range rec {
		h = strings.TrimSpace(h)
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[h]; dup {
			seen[h] = n + 1
			h = h + "." + strconv.Itoa(n+1)
		} else {
			seen[h] = 0
		}
		out[i] = h
	}
	return out
}

func dropBlank(raw [][]string) [][]string {
	out := raw[:0]
	for _, rec := range raw {
		for _, c := range rec {
			if strings.TrimSpace(c) != "" {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func readDelimited(r io.Reader, comma rune) ([][]string, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	cr := csv.NewReader(br)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr.ReadAll()
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

func readXLS(r io.Reader) (raw [][]string, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	// the BIFF reader panics on some malformed workbooks
	defer func() {
		if v := recover(); v != nil {
			raw, err = nil, fmt.Errorf("malformed xls workbook: %v", v)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if wb == nil {
		return nil, errors.New("no workbook stream in file")
	}
	if wb.NumSheets() == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("workbook has no sheets")
	}
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := xlsRow(sheet, i)
		if row == nil {
			raw = append(raw, nil)
			continue
		}
		rec := make([]string, row.LastCol())
		for c := range rec {
			rec[c] = row.Col(c)
		}
		raw = append(raw, rec)
	}
	return raw, nil
}

// xlsRow returns nil for rows the sheet never wrote; the reader dereferences
// missing rows instead of reporting them
func xlsRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}
