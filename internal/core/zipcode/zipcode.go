// Package zipcode normalizes and validates US zip codes as they arrive from
// spreadsheets, CSV exports and the reference store
//
// Spreadsheet tools read zip columns as numbers, which drops leading zeros and
// may add a decimal part ("2134.0"). Normalize undoes both.
package zipcode

import (
	"strings"

	"golang.org/x/text/width"
)

// Length is the number of digits in a five digit zip code
const Length = 5

// placeholders are missing-value markers written by spreadsheet and dataframe exports
var placeholders = map[string]struct{}{
	"nan":  {},
	"none": {},
	"null": {},
	"n/a":  {},
	"na":   {},
	"<na>": {},
}

// IsPlaceholder reports whether s is a missing-value marker, case-insensitively
func IsPlaceholder(s string) bool {
	_, ok := placeholders[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// Normalize coerces a raw value into a canonical zip code string
//
//	"12345.0" -> "12345"
//	"123"     -> "00123"
//	" 501 "   -> "00501"
//
// Blank and placeholder values come back trimmed and otherwise unchanged.
// Values longer than five characters are not shortened.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" || IsPlaceholder(s) {
		return s
	}
	// fullwidth digits show up in sheets typed with an IME
	s = width.Fold.String(s)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	if n := len(s); n < Length {
		s = strings.Repeat("0", Length-n) + s
	}
	return s
}

// Valid reports whether s is exactly five ASCII digits
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Canonical normalizes raw and reports whether the result is a valid zip code
func Canonical(raw string) (string, bool) {
	s := Normalize(raw)
	return s, Valid(s)
}
