// Package table reads uploaded client tables (CSV or spreadsheet) into a header
// plus string cells and writes them back out as CSV
package table

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"path"
	"strings"

	"golang.org/x/text/cases"
)

// StatusColumn is the derived column added to every processed table
const StatusColumn = "In_PFAS_Area"

// Aliases are the folded header names auto-detected as the zip code column
var Aliases = []string{"zip", "zip_code", "zipcode", "postal_code", "postal", "zip code"}

// Table is a header row plus string cells, first sheet only
// every row has exactly len(Columns) cells
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Len returns the number of data rows
func (t *Table) Len() int { return len(t.Rows) }

// Index returns the position of column, or -1
// names are matched exactly, as they appear in the file
func (t *Table) Index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Column returns a copy of the values in column i
func (t *Table) Column(i int) []string {
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out
}

// SetColumn replaces the values of name, or appends it as a new last column
// values must have one entry per row
func (t *Table) SetColumn(name string, values []string) {
	i := t.Index(name)
	if i < 0 {
		t.Columns = append(t.Columns, name)
		for r := range t.Rows {
			t.Rows[r] = append(t.Rows[r], values[r])
		}
		return
	}
	for r := range t.Rows {
		t.Rows[r][i] = values[r]
	}
}

// Head returns copies of the first n rows
func (t *Table) Head(n int) [][]string {
	n = min(n, len(t.Rows))
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		out[i] = append([]string(nil), t.Rows[i]...)
	}
	return out
}

// fold trims and case folds a header; a Caser is stateful so each call gets its own
func fold(s string) string { return cases.Fold().String(strings.TrimSpace(s)) }

// DetectColumn returns the first column, in file order, whose folded name is an alias
func DetectColumn(columns []string) (string, bool) {
	for _, c := range columns {
		f := fold(c)
		for _, a := range Aliases {
			if f == a {
				return c, true
			}
		}
	}
	return "", false
}

// EncodeCSV writes the header and rows as comma separated text
func EncodeCSV(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Columns); err != nil {
		return nil, err
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DataURI wraps CSV bytes in an inline download link
func DataURI(csv []byte) string {
	return "data:file/csv;base64," + base64.StdEncoding.EncodeToString(csv)
}

// ReportFilename derives the download name: the upload's name up to its first dot,
// plus _with_pfas_status.csv
func ReportFilename(input string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(input), `\`, "/"))
	stem, _, _ := strings.Cut(base, ".")
	if stem == "" || stem == "/" {
		stem = "results"
	}
	return stem + "_with_pfas_status.csv"
}
