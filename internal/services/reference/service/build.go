// Package service builds and caches the affected zip code set
package service

import (
	"pfascheck/internal/services/reference/domain"
)

// BuildStats counts what went into a set
type BuildStats struct {
	Records int // records seen
	Skipped int // blank or placeholder entries dropped
}

// BuildSet resolves every record's code field and collects the normalized codes
// list fields contribute each entry; delimited fields are split on ";"
func BuildSet(records []domain.Record) (domain.ZipSet, BuildStats) {
	set := domain.ZipSet{}
	stats := BuildStats{Records: len(records)}
	for _, r := range records {
		for _, e := range r.Codes.Entries() {
			code, ok := domain.Accept(e)
			if !ok {
				stats.Skipped++
				continue
			}
			set.Add(code)
		}
	}
	return set, stats
}
