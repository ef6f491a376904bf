// Package domain holds DTOs for zipcheck http and service contracts
package domain

import (
	refdom "pfascheck/internal/services/reference/domain"
)

// CheckInput is a single zip code lookup
type CheckInput struct {
	ZipCode string `json:"zip_code" validate:"required,len=5,number" example:"02134"`
}

// Verdict is the answer for one zip code
type Verdict struct {
	ZipCode   string        `json:"zip_code" example:"02134"`
	Affected  bool          `json:"affected"`
	Message   string        `json:"message" example:"Zip code 02134 is in a PFAS-affected area."`
	Reference refdom.Status `json:"reference"`

	warnings []string
}

// Warnings implements the envelope Warner
func (v Verdict) Warnings() []string { return v.warnings }

// WithWarnings returns v carrying warnings
func (v Verdict) WithWarnings(w []string) Verdict { v.warnings = w; return v }

// Upload is an uploaded client file
type Upload struct {
	Name string
	Data []byte
}

// Preview lets the client confirm the zip code column before processing
type Preview struct {
	Filename string     `json:"filename" example:"clients.xlsx"`
	Columns  []string   `json:"columns"`
	Detected string     `json:"detected,omitempty" example:"Zip Code"`
	Rows     int        `json:"rows" example:"120"`
	Head     [][]string `json:"head"`
}

// Summary aggregates a processed batch
type Summary struct {
	Total        int    `json:"total" example:"10"`
	Affected     int    `json:"affected" example:"3"`
	Percentage   string `json:"percentage" example:"30.0%"`
	Unrecognized int    `json:"unrecognized" example:"0"`
}

// Download is the annotated CSV offered back to the client
type Download struct {
	Filename string `json:"filename" example:"clients_with_pfas_status.csv"`
	DataURI  string `json:"data_uri"`
}

// Report is the result of a batch lookup
type Report struct {
	ID        string        `json:"id"`
	Filename  string        `json:"filename"`
	Column    string        `json:"column" example:"Zip Code"`
	Columns   []string      `json:"columns"`
	Rows      [][]string    `json:"rows"`
	Summary   Summary       `json:"summary"`
	Download  Download      `json:"download"`
	Reference refdom.Status `json:"reference"`

	// CSV is the raw download body, served by the attachment endpoint
	CSV []byte `json:"-"`

	warnings []string
}

// Warnings implements the envelope Warner
func (r Report) Warnings() []string { return r.warnings }

// WithWarnings returns r carrying warnings
func (r Report) WithWarnings(w []string) Report { r.warnings = w; return r }
