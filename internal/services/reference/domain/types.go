// Package domain holds the reference set types shared by the loader and its consumers
package domain

import (
	"sort"
	"strings"
	"time"

	"pfascheck/internal/core/zipcode"
)

// FieldKind tags how a record stores its zip codes
type FieldKind uint8

const (
	// FieldMissing is an absent or null field
	FieldMissing FieldKind = iota
	// FieldList is a multi-valued field, one code per entry
	FieldList
	// FieldDelimited is a single string of codes separated by Delimiter
	FieldDelimited
)

// Delimiter separates codes inside a delimited field
const Delimiter = ";"

// CodeField is the zip code field of one source record, resolved once at ingestion
type CodeField struct {
	Kind FieldKind
	List []string
	Text string
}

// Missing returns an absent field
func Missing() CodeField { return CodeField{} }

// List returns a multi-valued field
func List(codes ...string) CodeField { return CodeField{Kind: FieldList, List: codes} }

// Delimited returns a single-string field
func Delimited(s string) CodeField { return CodeField{Kind: FieldDelimited, Text: s} }

// Entries returns the raw candidate codes before any filtering
func (f CodeField) Entries() []string {
	switch f.Kind {
	case FieldList:
		return f.List
	case FieldDelimited:
		return strings.Split(f.Text, Delimiter)
	default:
		return nil
	}
}

// Codes returns the normalized codes with blank and placeholder entries dropped
func (f CodeField) Codes() []string {
	raw := f.Entries()
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if c, ok := Accept(e); ok {
			out = append(out, c)
		}
	}
	return out
}

// Accept trims and normalizes one entry; ok is false for blank or placeholder entries
func Accept(entry string) (string, bool) {
	e := strings.TrimSpace(entry)
	if e == "" || zipcode.IsPlaceholder(e) {
		return "", false
	}
	return zipcode.Normalize(e), true
}

// Record is one contamination record as far as the loader cares
type Record struct {
	Codes CodeField
}

// ZipSet is the deduplicated affected zip code set
type ZipSet map[string]struct{}

// Add inserts code
func (s ZipSet) Add(code string) { s[code] = struct{}{} }

// Has reports membership; nil sets contain nothing
func (s ZipSet) Has(code string) bool {
	_, ok := s[code]
	return ok
}

// Len returns the number of unique codes
func (s ZipSet) Len() int { return len(s) }

// Sorted returns the members in ascending order
func (s ZipSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Snapshot is one published reference set; read-only once published
// a snapshot with Err set is the degraded fallback and carries an empty set
type Snapshot struct {
	Codes     ZipSet
	Source    string
	Records   int
	Skipped   int
	LoadedAt  time.Time
	ExpiresAt time.Time
	Err       error
}

// Degraded reports whether the snapshot is the empty fallback after a failed load
func (s Snapshot) Degraded() bool { return s.Err != nil }

// Contains reports whether code is in the affected set
func (s Snapshot) Contains(code string) bool { return s.Codes.Has(code) }

// Size returns the number of unique codes
func (s Snapshot) Size() int { return s.Codes.Len() }

// Status is the wire view of a snapshot
type Status struct {
	Source    string     `json:"source" example:"mongo"`
	Size      int        `json:"size" example:"1342"`
	Records   int        `json:"records" example:"980"`
	Skipped   int        `json:"skipped" example:"12"`
	Loaded    bool       `json:"loaded"`
	Degraded  bool       `json:"degraded"`
	LoadedAt  *time.Time `json:"loaded_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Error     string     `json:"error,omitempty"`
}
